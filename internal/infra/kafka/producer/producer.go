package producer

import (
	"context"
	"encoding/json"
	"fmt"

	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"

	"github.com/aliskhannn/vr180-converter/internal/config"
	"github.com/aliskhannn/vr180-converter/internal/model"
)

// Producer publishes conversion events to Kafka.
type Producer struct {
	Client   *wbfkafka.Producer
	strategy retry.Strategy
	cfg      *config.Events
}

// New creates a new Producer.
// - cfg: events configuration (brokers and topic)
// - s: retry strategy for sends
func New(
	cfg *config.Events,
	s retry.Strategy,
) *Producer {
	producer := wbfkafka.NewProducer(cfg.Brokers, cfg.Topic)

	return &Producer{
		Client:   producer,
		cfg:      cfg,
		strategy: s,
	}
}

// Produce sends the event to Kafka, retrying with the configured strategy.
func (p *Producer) Produce(ctx context.Context, event model.ConversionEvent) error {
	key, data, err := Encode(event)
	if err != nil {
		return err
	}

	if err = p.Client.SendWithRetry(ctx, p.strategy, key, data); err != nil {
		return fmt.Errorf("failed to send event to %s: %w", p.cfg.Topic, err)
	}

	return nil
}

// Encode returns the message key and JSON value for an event. Events are
// keyed by job id so every message about one job lands on one partition.
func Encode(event model.ConversionEvent) (key, value []byte, err error) {
	if event.Job.ID == "" {
		return nil, nil, fmt.Errorf("failed to encode event: missing job id")
	}

	value, err = json.Marshal(event)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return []byte(event.Job.ID), value, nil
}
