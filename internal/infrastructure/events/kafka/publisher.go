// Package kafka delivers account events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/99minutos/account-service/internal/core/domain"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes account events keyed by email, so one account's events share a partition.
type Publisher struct {
	writer messageWriter
	topic  string
	logger zerolog.Logger
}

type PublisherConfig struct {
	Brokers []string
	Topic   string
	Logger  zerolog.Logger
}

func NewPublisher(cfg PublisherConfig) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	return newPublisher(writer, cfg.Topic, cfg.Logger)
}

func newPublisher(w messageWriter, topic string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		writer: w,
		topic:  topic,
		logger: logger.With().Str("component", "kafka-publisher").Logger(),
	}
}

// Deliver writes one event synchronously.
func (p *Publisher) Deliver(ctx context.Context, event domain.AccountEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal account event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.Email),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write account event to %s: %w", p.topic, err)
	}

	p.logger.Debug().Str("event_id", event.ID).Str("type", string(event.Type)).Msg("account event written")
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
