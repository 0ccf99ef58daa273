package handler

import (
	"context"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/service"
	"github.com/Astemirdum/library-circulation/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CirculationService interface {
	Borrow(ctx context.Context, actor auth.Identity, req model.BorrowRequest) (model.Loan, error)
	UpdateLoan(ctx context.Context, actor auth.Identity, id int64, req model.UpdateLoanRequest) (model.Loan, error)
	DeleteLoan(ctx context.Context, actor auth.Identity, id int64) error
	GetLoan(ctx context.Context, actor auth.Identity, id int64) (model.Loan, error)
	ListLoans(ctx context.Context, actor auth.Identity, f model.LoanFilter) (model.ListLoans, error)

	Reserve(ctx context.Context, actor auth.Identity, req model.ReserveRequest) (model.Reservation, error)
	UpdateReservation(ctx context.Context, actor auth.Identity, id int64, req model.UpdateReservationRequest) (model.Reservation, error)
	DeleteReservation(ctx context.Context, actor auth.Identity, id int64) error
	GetReservation(ctx context.Context, actor auth.Identity, id int64) (model.Reservation, error)
	ListReservations(ctx context.Context, actor auth.Identity, f model.ReservationFilter) (model.ListReservations, error)

	CreateWork(ctx context.Context, actor auth.Identity, req model.CreateWorkRequest) (model.Work, error)
	GetWork(ctx context.Context, id int64) (model.WorkDetails, error)
	ManageCopies(ctx context.Context, actor auth.Identity, workID int64, req model.ManageCopiesRequest) (model.MessageResponse, error)
	GetCopy(ctx context.Context, id int64) (model.Copy, error)
	MarkCopy(ctx context.Context, actor auth.Identity, copyID int64, status model.CopyStatus) (model.Copy, error)

	Statistics(ctx context.Context, actor auth.Identity) (model.Statistics, error)
}

var _ CirculationService = (*service.Service)(nil)
