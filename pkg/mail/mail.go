package mail

import (
	"crypto/tls"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/aricom-studios/notification-server/pkg/config"
	"github.com/aricom-studios/notification-server/pkg/metrics"
)

// Message is a single outbound mail. ReplyTo is optional; when set the
// recipient's reply goes to that address instead of From.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Sender delivers messages through the SMTP relay. Send returns the
// transport receipt identifier (the generated Message-ID) on success.
type Sender interface {
	Send(msg Message) (string, error)
	Verify() error
	Host() string
}

type sender struct {
	dialer         *gomail.Dialer
	from           string
	retryCount     int
	retryBackoffMs int
	log            *zap.SugaredLogger
}

// NewSender creates an SMTP sender from the mail configuration.
func NewSender(cfg config.Mail, log *zap.SugaredLogger) Sender {
	log.Infow("Initializing mail sender",
		"host", cfg.Host,
		"port", cfg.Port,
		"user", cfg.User)
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	if cfg.InsecureSkipVerify {
		log.Warn("InsecureSkipVerify is enabled for mail TLS connection")
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	from := cfg.From
	if from == "" {
		from = cfg.User
	}

	return &sender{
		dialer:         d,
		from:           from,
		retryCount:     cfg.RetryCount,
		retryBackoffMs: cfg.RetryBackoffMs,
		log:            log.Named("mail"),
	}
}

func (s *sender) Send(msg Message) (string, error) {
	messageID := s.newMessageID()

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Message-ID", messageID)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.Body)

	var lastErr error
	backoffMs := s.retryBackoffMs

	for attempt := 0; attempt <= s.retryCount; attempt++ {
		err := s.dialer.DialAndSend(m)
		if err == nil {
			s.log.Infow("Mail sent",
				"to", msg.To,
				"subject", msg.Subject,
				"messageID", messageID,
				"attempt", attempt+1)
			metrics.MailSendSuccess.WithLabelValues(s.Host()).Inc()
			return messageID, nil
		}

		lastErr = err
		if attempt < s.retryCount {
			s.log.Warnw("Mail send attempt failed, retrying",
				"attempt", attempt+1,
				"error", err,
				"backoffMs", backoffMs)
			time.Sleep(time.Duration(backoffMs) * time.Millisecond)
			backoffMs = int(math.Min(float64(backoffMs)*2, 32000))
		} else {
			s.log.Errorw("Failed to send mail after all attempts",
				"attempts", s.retryCount+1,
				"to", msg.To,
				"error", err)
		}
	}

	metrics.MailSendFailure.WithLabelValues(s.Host()).Inc()
	return "", lastErr
}

// Verify probes SMTP connectivity by dialing and closing a session. A
// failed probe is reported to the caller but must not stop the process;
// only later sends will fail.
func (s *sender) Verify() error {
	closer, err := s.dialer.Dial()
	if err != nil {
		return fmt.Errorf("verifying mail transport %s:%d: %w", s.dialer.Host, s.dialer.Port, err)
	}
	return closer.Close()
}

func (s *sender) Host() string {
	return s.dialer.Host
}

func (s *sender) newMessageID() string {
	domain := s.from
	if at := strings.LastIndex(domain, "@"); at >= 0 {
		domain = domain[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
