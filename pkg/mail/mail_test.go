package mail

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aricom-studios/notification-server/pkg/config"
)

func testMailConfig() config.Mail {
	return config.Mail{
		Host:           "smtp.example.com",
		Port:           465,
		User:           "mailer@example.com",
		Password:       "secret",
		RetryBackoffMs: 1,
	}
}

func TestNewSenderHost(t *testing.T) {
	s := NewSender(testMailConfig(), zap.NewNop().Sugar())
	assert.Equal(t, "smtp.example.com", s.Host())
}

func TestNewSenderFromDefaultsToUser(t *testing.T) {
	cfg := testMailConfig()
	s := NewSender(cfg, zap.NewNop().Sugar()).(*sender)
	assert.Equal(t, "mailer@example.com", s.from)

	cfg.From = "noreply@example.com"
	s = NewSender(cfg, zap.NewNop().Sugar()).(*sender)
	assert.Equal(t, "noreply@example.com", s.from)
}

func TestNewMessageID(t *testing.T) {
	s := NewSender(testMailConfig(), zap.NewNop().Sugar()).(*sender)

	id := s.newMessageID()
	require.True(t, strings.HasPrefix(id, "<"))
	require.True(t, strings.HasSuffix(id, "@example.com>"))

	raw := strings.TrimSuffix(strings.TrimPrefix(id, "<"), "@example.com>")
	_, err := uuid.Parse(raw)
	assert.NoError(t, err)

	assert.NotEqual(t, id, s.newMessageID())
}

func TestNewMessageIDWithoutDomain(t *testing.T) {
	cfg := testMailConfig()
	cfg.User = "mailer"
	s := NewSender(cfg, zap.NewNop().Sugar()).(*sender)

	id := s.newMessageID()
	assert.True(t, strings.HasSuffix(id, "@mailer>"))
}

func TestSendUnreachableRelayFails(t *testing.T) {
	cfg := testMailConfig()
	// .invalid never resolves, so the dial fails fast.
	cfg.Host = "smtp.invalid"
	cfg.Port = 1
	cfg.RetryCount = 0
	s := NewSender(cfg, zap.NewNop().Sugar())

	id, err := s.Send(Message{To: "a@b.com", Subject: "s", Body: "b"})
	assert.Error(t, err)
	assert.Empty(t, id)

	assert.Error(t, s.Verify())
}
