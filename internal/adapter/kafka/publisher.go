// Package kafka publishes outlook refresh events for downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cirruswx/pointcast/internal/adapter/spc"
	"github.com/cirruswx/pointcast/internal/config"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces refresh summaries to a Kafka topic.
// It implements spc.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishRefresh serializes and publishes one refresh summary.
func (p *Publisher) PublishRefresh(ctx context.Context, summary spc.RefreshSummary) error {
	msg, err := serializeToMessage(summary)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a RefreshSummary into a Kafka message keyed by
// fetch time so replays of the same cycle land in the same partition.
func serializeToMessage(summary spc.RefreshSummary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize refresh summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.FetchedAt.Format(time.RFC3339)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "fetched_at", Value: []byte(summary.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
