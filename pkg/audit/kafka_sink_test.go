package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewKafkaSinkValidation(t *testing.T) {
	_, err := NewKafkaSink(KafkaSinkConfig{Topic: "t"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewKafkaSink(KafkaSinkConfig{Brokers: []string{"localhost:9092"}}, zap.NewNop())
	assert.Error(t, err)

	sink, err := NewKafkaSink(KafkaSinkConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "notification-deliveries",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "kafka", sink.Name())
	assert.NoError(t, sink.Close())
}

func TestKafkaSinkWriteAfterClose(t *testing.T) {
	sink, err := NewKafkaSink(KafkaSinkConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "notification-deliveries",
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	// Close is idempotent.
	require.NoError(t, sink.Close())

	err = sink.Write(context.Background(), NewEvent(EventDeliverySucceeded, "order"))
	assert.Error(t, err)
}
