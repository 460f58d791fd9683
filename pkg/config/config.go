package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Server holds HTTP listener settings.
type Server struct {
	ListenAddress string `yaml:"listenAddress"`
	TLSCertFile   string `yaml:"tlsCertFile"`
	TLSKeyFile    string `yaml:"tlsKeyFile"`
}

// Mail holds SMTP relay settings. Host, User and Password are required at
// startup; the rest have defaults matching a TLS submission relay.
type Mail struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	From               string `yaml:"from"`
	AdminAddress       string `yaml:"adminAddress"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
	RetryCount         int    `yaml:"retryCount"`
	RetryBackoffMs     int    `yaml:"retryBackoffMs"`
	SendTimeoutSec     int    `yaml:"sendTimeoutSec"`
}

// Identity holds the platform service-account credentials used to authorize
// outbound operations. CredentialsFile is required; init failure is fatal.
type Identity struct {
	CredentialsFile string `yaml:"credentialsFile"`
	DatabaseURL     string `yaml:"databaseURL"`
}

// Audit configures the optional Kafka delivery-event sink. When Brokers is
// empty only the log sink is active.
type Audit struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	SASLUser string   `yaml:"saslUser"`
	SASLPass string   `yaml:"saslPass"`
}

type Config struct {
	Server      Server   `yaml:"server"`
	Mail        Mail     `yaml:"mail"`
	Identity    Identity `yaml:"identity"`
	Audit       Audit    `yaml:"audit"`
	Environment string   `yaml:"environment"`
}

// Production reports whether the process runs in production mode. Diagnostic
// error detail is suppressed from HTTP responses in production.
func (c Config) Production() bool {
	return c.Environment == "production"
}

// Load resolves the configuration in three layers: an optional .env file,
// an optional YAML file (NOTIFY_CONFIG_PATH, default ./config.yaml), then
// environment variables, which win over both.
func Load() (Config, error) {
	// Missing .env is fine; explicit env vars are the primary source.
	_ = godotenv.Load()

	config := Config{}

	path := os.Getenv("NOTIFY_CONFIG_PATH")
	if path == "" {
		path = "./config.yaml"
	}
	if content, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(content, &config); err != nil {
			return config, fmt.Errorf("error unmarshaling YAML %s: %v", path, err)
		}
	}

	config.applyEnv()
	config.defaults()
	return config, nil
}

func (c *Config) applyEnv() {
	if port := getEnvInt("PORT", 0); port != 0 {
		c.Server.ListenAddress = fmt.Sprintf(":%d", port)
	}
	c.Environment = getEnv("APP_ENV", c.Environment)

	c.Mail.Host = getEnv("EMAIL_HOST", c.Mail.Host)
	c.Mail.Port = getEnvInt("EMAIL_PORT", c.Mail.Port)
	c.Mail.User = getEnv("EMAIL_USER", c.Mail.User)
	c.Mail.Password = getEnv("EMAIL_PASS", c.Mail.Password)
	c.Mail.From = getEnv("EMAIL_FROM", c.Mail.From)
	c.Mail.AdminAddress = getEnv("ADMIN_EMAIL", c.Mail.AdminAddress)
	if v := os.Getenv("EMAIL_INSECURE_SKIP_VERIFY"); v != "" {
		c.Mail.InsecureSkipVerify, _ = strconv.ParseBool(v)
	}

	c.Identity.CredentialsFile = getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", c.Identity.CredentialsFile)
	c.Identity.DatabaseURL = getEnv("FIREBASE_DATABASE_URL", c.Identity.DatabaseURL)

	if brokers := getEnv("AUDIT_KAFKA_BROKERS", ""); brokers != "" {
		c.Audit.Brokers = strings.Split(brokers, ",")
	}
	c.Audit.Topic = getEnv("AUDIT_KAFKA_TOPIC", c.Audit.Topic)
	c.Audit.SASLUser = getEnv("AUDIT_KAFKA_SASL_USER", c.Audit.SASLUser)
	c.Audit.SASLPass = getEnv("AUDIT_KAFKA_SASL_PASS", c.Audit.SASLPass)
}

func (c *Config) defaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":5001"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = 465
	}
	if c.Mail.RetryCount <= 0 {
		c.Mail.RetryCount = 3
	}
	if c.Mail.RetryBackoffMs <= 0 {
		c.Mail.RetryBackoffMs = 100
	}
	if c.Mail.SendTimeoutSec <= 0 {
		c.Mail.SendTimeoutSec = 30
	}
	if c.Audit.Topic == "" {
		c.Audit.Topic = "notification-deliveries"
	}
}

// Validate checks the startup-fatal configuration. Every missing setting is
// reported in one pass so a broken deployment is fixable in one iteration.
func (c Config) Validate() error {
	var missing []string
	if c.Mail.Host == "" {
		missing = append(missing, "EMAIL_HOST")
	}
	if c.Mail.User == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if c.Mail.Password == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	if c.Identity.CredentialsFile == "" {
		missing = append(missing, "FIREBASE_SERVICE_ACCOUNT_PATH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
