package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/pkg/auth"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

type Option func(s *Service)

func WithClock(c Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithHoldCopyOnReservation makes an Active reservation hold its copy as Reserved.
func WithHoldCopyOnReservation(hold bool) Option {
	return func(s *Service) {
		s.holdCopies = hold
	}
}

// Service is the availability coordinator: the only place where copy status
// changes as a consequence of loans and reservations.
type Service struct {
	log        *zap.Logger
	repo       repository.Repository
	events     kafka.Publisher
	clock      Clock
	holdCopies bool
}

func NewService(repo repository.Repository, events kafka.Publisher, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:    log.Named("coordinator"),
		repo:   repo,
		events: events,
		clock:  realClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() time.Time {
	return model.DateOf(s.clock.Now())
}

func (s *Service) publish(ctx context.Context, ev kafka.CirculationEvent) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish event", zap.String("type", string(ev.Type)), zap.Error(err))
	}
}

func (s *Service) event(typ kafka.EventType) kafka.CirculationEvent {
	return kafka.NewEvent(typ, s.clock.Now())
}

func (s *Service) checkReader(ctx context.Context, readerID int64) error {
	ok, err := s.repo.ReaderExists(ctx, readerID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NotFound("reader %d not found", readerID)
	}
	return nil
}

func requireStaff(actor auth.Identity) error {
	if !actor.Role.IsStaff() {
		return errs.Forbidden("role %q may not perform this operation", actor.Role)
	}
	return nil
}

func requireAdmin(actor auth.Identity) error {
	if !actor.Role.IsAdmin() {
		return errs.Forbidden("role %q may not perform administrative overrides", actor.Role)
	}
	return nil
}

// canSee hides other readers' records from a Reader.
func canSee(actor auth.Identity, readerID int64) bool {
	return actor.Role != auth.RoleReader || actor.UserID == readerID
}

func deref(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
