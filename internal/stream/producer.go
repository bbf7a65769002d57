// Package stream mirrors fetched change events to a Kafka topic for
// downstream consumers. The mirror is best effort and never gates the
// notification pipeline.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/vitalya-dev/tickethub/internal/model"
)

// Producer is a thin wrapper around a kafka-go Writer keyed by row id.
type Producer struct {
	w *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, ev model.ChangeEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.ID, 10)),
		Value: b,
	})
}

func (p *Producer) Close() error {
	return p.w.Close()
}
