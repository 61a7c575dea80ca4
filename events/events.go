// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/Rohith723/nss-election-app/cliparse"
)

// Event types
const (
	TypeVoteCast         = "vote.cast"
	TypeVolunteerRemoved = "volunteer.removed"
	TypeCandidateAdded   = "candidate.added"
	TypeCandidateRemoved = "candidate.removed"
)

// Event is a committed change in the election store. Subject is the
// message key: student id for votes and volunteers, candidate id otherwise.
type Event struct {
	Type       string            `json:"type"`
	Subject    string            `json:"subject"`
	Attributes map[string]string `json:"attributes,omitempty"`
	At         time.Time         `json:"at"`
}

// Publisher sends events after the change has been committed.
// Failures never roll back the change.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards events
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// KafkaPublisher writes events to a Kafka topic
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewPublisher returns a Kafka publisher when a broker is configured and
// Nop otherwise.
func NewPublisher(cfg cliparse.Config) Publisher {
	if cfg.KafkaBroker == "" {
		return Nop{}
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBroker),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 10 * time.Second,
	}
	if cfg.KafkaUsername != "" {
		w.Transport = &kafka.Transport{
			SASL: plain.Mechanism{
				Username: cfg.KafkaUsername,
				Password: cfg.KafkaPassword,
			},
			TLS: &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}

	slog.Info("kafka publisher configured", "broker", cfg.KafkaBroker, "topic", cfg.KafkaTopic)
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	if p == nil || p.writer == nil {
		return nil
	}

	msg, err := Message(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}
	return nil
}

// Close flushes pending writes
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Message encodes an event as a Kafka message keyed by its subject
func Message(e Event) (kafka.Message, error) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(e.Subject),
		Value: value,
		Time:  e.At,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}, nil
}

// PublishLogged publishes and logs failures instead of returning them
func PublishLogged(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(context.WithoutCancel(ctx), e); err != nil {
		slog.Warn("failed to publish event", "type", e.Type, "subject", e.Subject, "error", err)
	}
}
