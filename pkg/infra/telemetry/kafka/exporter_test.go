package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() map[string]interface{} {
	return map[string]interface{}{
		"host":  "localhost",
		"port":  "9092",
		"topic": "moderation-logs",
	}
}

func TestKafkaExporter_ValidateConfig(t *testing.T) {
	exporter := NewKafkaExporter()

	tests := []struct {
		name        string
		mutate      func(map[string]interface{})
		expectError bool
	}{
		{name: "Valid", mutate: func(map[string]interface{}) {}},
		{name: "Missing Host", mutate: func(s map[string]interface{}) { delete(s, "host") }, expectError: true},
		{name: "Missing Port", mutate: func(s map[string]interface{}) { delete(s, "port") }, expectError: true},
		{name: "Missing Topic", mutate: func(s map[string]interface{}) { delete(s, "topic") }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := validSettings()
			tt.mutate(settings)

			err := exporter.ValidateConfig(settings)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKafkaExporter_HandleWithoutProducer(t *testing.T) {
	exporter := NewKafkaExporter()

	err := exporter.Handle(context.Background(), nil)
	assert.Error(t, err)
}

func TestWaitDelivery_ReportArrives(t *testing.T) {
	deliveryChan := make(chan kafka.Event, 1)
	msg := &kafka.Message{Key: []byte(uuid.NewString())}
	deliveryChan <- msg

	m, err := waitDelivery(context.Background(), deliveryChan)

	require.NoError(t, err)
	assert.Same(t, msg, m)
}

func TestWaitDelivery_UnexpectedEventType(t *testing.T) {
	deliveryChan := make(chan kafka.Event, 1)
	deliveryChan <- kafka.NewError(kafka.ErrAllBrokersDown, "all brokers down", false)

	_, err := waitDelivery(context.Background(), deliveryChan)

	assert.Error(t, err)
}

func TestWaitDelivery_ContextBoundsTheWait(t *testing.T) {
	// A report that never arrives must not hold the caller for librdkafka's
	// message timeout.
	deliveryChan := make(chan kafka.Event)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := waitDelivery(ctx, deliveryChan)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, elapsed, time.Second)
}
