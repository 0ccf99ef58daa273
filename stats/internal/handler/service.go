package handler

import (
	"context"

	"github.com/Astemirdum/library-circulation/stats/internal/model"
	"github.com/Astemirdum/library-circulation/stats/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type StatsService interface {
	GetStats(ctx context.Context) (model.Stats, error)
}

var _ StatsService = (*service.Service)(nil)
