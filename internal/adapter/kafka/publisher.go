// Package kafka publishes completed risk analyses to a results topic for
// downstream audit consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// Publisher produces one message per completed analysis.
// It implements pipeline.ResultPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the results topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes and writes an analysis to the results topic.
func (p *Publisher) Publish(ctx context.Context, analysis domain.Analysis) error {
	msg, err := serializeAnalysis(analysis)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeAnalysis marshals an analysis into a Kafka message keyed by the
// normalized hazard parameters.
func serializeAnalysis(analysis domain.Analysis) (kafkago.Message, error) {
	data, err := json.Marshal(analysis)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize analysis: %w", err)
	}
	key := fmt.Sprintf("%s|%d|%d", analysis.Params.Scenario, analysis.Params.Year, analysis.Params.ReturnPeriod)
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "model_used", Value: []byte(analysis.ModelUsed)},
			{Key: "record_count", Value: []byte(strconv.Itoa(len(analysis.Records)))},
			{Key: "generated_at", Value: []byte(analysis.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
