package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/Astemirdum/library-circulation/stats/internal/model"
)

type Repository interface {
	Record(ctx context.Context, ev kafka.CirculationEvent) error
	GetStats(ctx context.Context) (model.Stats, error)
}

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.Named("service"),
	}
}

func (s *Service) Record(ctx context.Context, ev kafka.CirculationEvent) error {
	return s.repo.Record(ctx, ev)
}

func (s *Service) GetStats(ctx context.Context) (model.Stats, error) {
	st, err := s.repo.GetStats(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	if st.Events == nil {
		st.Events = []model.EventCount{}
	}
	if st.Readers == nil {
		st.Readers = []model.ReaderStats{}
	}
	return st, nil
}
