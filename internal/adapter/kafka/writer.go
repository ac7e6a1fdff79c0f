// Package kafka publishes resolution audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/config"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/trip"
)

// Writer produces resolution events to the audit topic.
// It implements trip.EventSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured events topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaEventsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one resolution event and writes it to the topic.
func (w *Writer) Publish(ctx context.Context, event trip.ResolutionEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ResolutionEvent into a Kafka message.
func serializeToMessage(event trip.ResolutionEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize resolution event: %w", err)
	}

	resolved := "false"
	if event.Resolved {
		resolved = "true"
	}
	return kafkago.Message{
		Key:   []byte(event.ID.String()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "resolved", Value: []byte(resolved)},
			{Key: "resolved_at", Value: []byte(event.ResolvedAt.Format(time.RFC3339))},
		},
	}, nil
}
