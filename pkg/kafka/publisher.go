package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Astemirdum/library-circulation/pkg/circuit_breaker"
	"github.com/IBM/sarama"
)

type Publisher interface {
	Publish(ctx context.Context, event CirculationEvent) error
}

type publisher struct {
	producer sarama.SyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
}

// NewPublisher sends events synchronously; after repeated broker failures the
// breaker opens and Publish fails fast with circuit_breaker.ErrOpenCB.
func NewPublisher(producer sarama.SyncProducer, topic string) Publisher {
	return &publisher{
		producer: producer,
		topic:    topic,
		cb:       circuit_breaker.New(10, 30*time.Second, 0.5, 3),
	}
}

func (p *publisher) Publish(ctx context.Context, event CirculationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.EventID.String()),
		Value: sarama.ByteEncoder(data),
	}
	return p.cb.Call(func() error {
		_, _, err := p.producer.SendMessage(msg)
		return err
	})
}

type nopPublisher struct{}

// NewNopPublisher is used when no brokers are configured.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, CirculationEvent) error {
	return nil
}
