package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/Astemirdum/library-circulation/stats/internal/handler"
)

type fakeSession struct {
	ctx    context.Context
	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Claims() map[string][]int32 { return nil }
func (s *fakeSession) MemberID() string { return "test" }
func (s *fakeSession) GenerationID() int32 { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string) {}
func (s *fakeSession) Commit() {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Context() context.Context { return s.ctx }
func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string { return kafka.CirculationTopic }
func (c *fakeClaim) Partition() int32 { return 0 }
func (c *fakeClaim) InitialOffset() int64 { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64 { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestConsumer_ConsumeClaim(t *testing.T) {
	t.Parallel()
	ev := kafka.NewEvent(kafka.EventLoanBorrowed, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ev.ReaderID, ev.LoanID, ev.CopyID = 7, 11, 3
	valid, err := json.Marshal(ev)
	require.NoError(t, err)

	failing := kafka.NewEvent(kafka.EventLoanReturned, time.Now())
	failingValue, err := json.Marshal(failing)
	require.NoError(t, err)

	var recorded []kafka.CirculationEvent
	record := func(_ context.Context, got kafka.CirculationEvent) error {
		if got.EventID == failing.EventID {
			return errors.New("db down")
		}
		recorded = append(recorded, got)
		return nil
	}

	unknown, err := json.Marshal(kafka.NewEvent("book.rated", time.Now()))
	require.NoError(t, err)

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 5)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 1, Value: valid}
	claim.messages <- &sarama.ConsumerMessage{Offset: 2, Value: []byte("{not json")}
	claim.messages <- &sarama.ConsumerMessage{Offset: 3, Value: failingValue}
	claim.messages <- &sarama.ConsumerMessage{Offset: 4, Value: unknown}
	claim.messages <- &sarama.ConsumerMessage{Offset: 5, Value: []byte(`{"type":"loan.borrowed"}`)}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	consumer := handler.NewConsumer(record, zap.NewNop())
	require.NoError(t, consumer.Setup(session))
	require.NoError(t, consumer.ConsumeClaim(session, claim))
	require.NoError(t, consumer.Cleanup(session))

	require.Len(t, recorded, 1)
	require.Equal(t, ev.EventID, recorded[0].EventID)
	require.Equal(t, int64(7), recorded[0].ReaderID)
	require.True(t, ev.Timestamp.Equal(recorded[0].Timestamp))
	// the failed record stays unmarked for redelivery
	require.Equal(t, []int64{1, 2, 4, 5}, session.marked)
}

func TestConsumer_StopsOnSessionEnd(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	session := &fakeSession{ctx: ctx}
	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage)}

	consumer := handler.NewConsumer(func(context.Context, kafka.CirculationEvent) error {
		t.Fatal("unexpected record")
		return nil
	}, zap.NewNop())
	require.NoError(t, consumer.ConsumeClaim(session, claim))
	require.Empty(t, session.marked)
}
