package main

import (
	"context"
	"flag"
	stdlog "log"
	"time"

	"go.uber.org/zap"

	"github.com/aricom-studios/notification-server/pkg/api"
	"github.com/aricom-studios/notification-server/pkg/audit"
	"github.com/aricom-studios/notification-server/pkg/config"
	"github.com/aricom-studios/notification-server/pkg/identity"
	"github.com/aricom-studios/notification-server/pkg/mail"
	"github.com/aricom-studios/notification-server/pkg/notify"
	"github.com/aricom-studios/notification-server/pkg/version"
)

func main() {
	debug := false
	flag.BoolVar(&debug, "debug", false, "enables debug mode")
	flag.Parse()

	log := setupLogger(debug)
	log.With("version", version.Version).Info("Starting Aricom notification server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading notification server config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Identity init failure is fatal; a process without a platform
	// credential must not start.
	provider, err := identity.NewProvider(context.Background(), cfg.Identity.CredentialsFile, log)
	if err != nil {
		log.Fatalf("Error initializing platform identity: %v", err)
	}

	sender := mail.NewSender(cfg.Mail, log)
	// A failed probe is logged, not fatal: only the next send attempt
	// experiences the failure.
	if err := sender.Verify(); err != nil {
		log.Warnw("Mail transport verification failed, sends will be attempted anyway", "error", err)
	} else {
		log.Info("Mail transport is ready to send emails")
	}

	sinks := []audit.Sink{audit.NewLogSink(log.Desugar())}
	if len(cfg.Audit.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(audit.KafkaSinkConfig{
			Brokers:  cfg.Audit.Brokers,
			Topic:    cfg.Audit.Topic,
			SASLUser: cfg.Audit.SASLUser,
			SASLPass: cfg.Audit.SASLPass,
		}, log.Desugar())
		if err != nil {
			log.Warnw("Kafka audit sink disabled", "error", err)
		} else {
			sinks = append(sinks, kafkaSink)
		}
	}
	trail := audit.NewManager(sinks, log)
	trail.Start()
	defer trail.Stop()

	dispatcher := notify.NewDispatcher(sender,
		time.Duration(cfg.Mail.SendTimeoutSec)*time.Second, trail, log)

	server := api.NewServer(log.Desugar(), cfg, debug, func() api.HealthServices {
		return api.HealthServices{
			Email:    sender != nil,
			Firebase: provider.Healthy(),
			Database: cfg.Identity.DatabaseURL != "",
		}
	})
	err = server.RegisterAll([]api.APIController{
		notify.NewController(cfg, dispatcher, trail, log),
	})
	if err != nil {
		log.Fatalf("Error registering notification controllers: %v", err)
	}

	log.Infow("Server startup configuration",
		"listenAddress", cfg.Server.ListenAddress,
		"environment", cfg.Environment,
		"adminEmail", cfg.Mail.AdminAddress,
		"emailFrom", cfg.Mail.From,
		"emailHost", cfg.Mail.Host,
		"identityProject", provider.ProjectID(),
		"auditSinks", len(sinks))

	if err := server.Listen(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func setupLogger(debug bool) *zap.SugaredLogger {
	var zlog *zap.Logger
	var err error
	if debug {
		zlog, err = zap.NewDevelopment()
	} else {
		zlog, err = zap.NewProduction()
	}
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	return zlog.Sugar()
}
