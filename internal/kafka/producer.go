package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Raghucharan16/Market-Alerts/internal/models"
)

// Producer publishes triggered alert events for downstream consumers
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishAlertTriggered publishes an alert triggered event keyed by symbol
func (p *Producer) PublishAlertTriggered(ctx context.Context, alert *models.Alert) error {
	event := models.AlertEvent{
		EventType: "ALERT_TRIGGERED",
		Alert:     alert,
		Symbol:    alert.Symbol,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, alert.Symbol, event)
}

func (p *Producer) publish(ctx context.Context, key string, event interface{}) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", p.topic, err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
