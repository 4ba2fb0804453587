package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/fuega-ai/fuega/pkg/domain/moderation"
	"github.com/fuega-ai/fuega/pkg/infra/telemetry"
	"github.com/mitchellh/mapstructure"
)

const (
	ExporterName = "kafka"

	// deliveryTimeout caps how long Handle waits for a delivery report; with
	// a partitioned broker librdkafka only reports after its full message
	// timeout, which is minutes.
	deliveryTimeout = 10 * time.Second
)

type Config struct {
	Host  string `mapstructure:"host"`
	Port  string `mapstructure:"port"`
	Topic string `mapstructure:"topic"`
}

type Exporter struct {
	cfg      Config
	producer *kafka.Producer
}

func NewKafkaExporter() *Exporter {
	return &Exporter{}
}

func (p *Exporter) Name() string {
	return ExporterName
}

func (p *Exporter) ValidateConfig(settings map[string]interface{}) error {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return fmt.Errorf("invalid kafka config: %w", err)
	}
	if conf.Host == "" {
		return errors.New("kafka host is required")
	}
	if conf.Port == "" {
		return errors.New("kafka port is required")
	}
	if conf.Topic == "" {
		return errors.New("kafka topic is required")
	}
	return nil
}

func (p *Exporter) WithSettings(settings map[string]interface{}) (telemetry.Exporter, error) {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return nil, fmt.Errorf("invalid kafka config: %w", err)
	}
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": fmt.Sprintf("%s:%s", conf.Host, conf.Port),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	newExporter := &Exporter{
		cfg:      conf,
		producer: producer,
	}
	return newExporter, nil
}

func (p *Exporter) Handle(ctx context.Context, log *moderation.Log) error {
	if p.producer == nil {
		return errors.New("kafka producer is not initialized")
	}
	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to marshal moderation log: %w", err)
	}
	deliveryChan := make(chan kafka.Event)

	err = p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.cfg.Topic, Partition: kafka.PartitionAny},
		Key:            []byte(log.ContentID.String()),
		Value:          data,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	m, err := waitDelivery(ctx, deliveryChan)
	if err != nil {
		return err
	}
	if m.TopicPartition.Error != nil {
		return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
	}
	return nil
}

// waitDelivery blocks for the delivery report, bounded by the caller's
// context and a hard timeout. On abandonment the channel is left open for the
// eventual report and collected by the GC.
func waitDelivery(ctx context.Context, deliveryChan chan kafka.Event) (*kafka.Message, error) {
	select {
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return nil, errors.New("unexpected kafka event type")
		}
		return m, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("abandoned delivery report wait: %w", ctx.Err())
	case <-time.After(deliveryTimeout):
		return nil, errors.New("timed out waiting for delivery report")
	}
}

func (p *Exporter) Close() {
	if p.producer != nil {
		p.producer.Flush(5000)
		p.producer.Close()
	}
}
