package handler

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/pkg/kafka"
)

type record func(ctx context.Context, ev kafka.CirculationEvent) error

// Consumer feeds circulation events into the stats store.
type Consumer struct {
	recordHandler record
	log           *zap.Logger
	ready         chan bool
}

func NewConsumer(record record, log *zap.Logger) *Consumer {
	return &Consumer{
		recordHandler: record,
		log:           log.Named("consumer"),
		ready:         make(chan bool),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	close(consumer.ready)
	return nil
}

// Cleanup reopens ready so the next session after a rebalance can close it again.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	consumer.ready = make(chan bool)
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			if consumer.handle(session.Context(), message) {
				session.MarkMessage(message, "")
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle reports whether the message is done with. Messages that can never be
// recorded are dropped; store failures are left unmarked and redelivered.
func (consumer *Consumer) handle(ctx context.Context, message *sarama.ConsumerMessage) bool {
	log := consumer.log.With(
		zap.String("topic", message.Topic),
		zap.Int32("partition", message.Partition),
		zap.Int64("offset", message.Offset))

	var ev kafka.CirculationEvent
	if err := json.Unmarshal(message.Value, &ev); err != nil {
		log.Error("bad event", zap.Error(err))
		return true
	}
	if ev.EventID == uuid.Nil {
		log.Error("event without id", zap.String("type", string(ev.Type)))
		return true
	}
	if !ev.Type.Known() {
		log.Warn("unknown event type, skipped", zap.String("type", string(ev.Type)))
		return true
	}

	if err := consumer.recordHandler(ctx, ev); err != nil {
		log.Error("consumer.recordHandler", zap.Error(err))
		return false
	}
	log.Debug("event recorded",
		zap.String("type", string(ev.Type)),
		zap.Stringer("event", ev.EventID),
		zap.Time("timestamp", ev.Timestamp))
	return true
}
