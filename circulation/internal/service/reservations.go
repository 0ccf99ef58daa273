package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/pkg/auth"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
)

// Reserve records a Pending reservation. Copy status is not touched until approval.
func (s *Service) Reserve(ctx context.Context, actor auth.Identity, req model.ReserveRequest) (model.Reservation, error) {
	switch {
	case actor.Role.IsStaff():
	case actor.Role == auth.RoleReader:
		if actor.UserID != req.ReaderID {
			return model.Reservation{}, errs.Forbidden("readers may only reserve for themselves")
		}
	default:
		return model.Reservation{}, errs.Forbidden("role %q may not reserve", actor.Role)
	}

	now := s.clock.Now()
	res := model.Reservation{
		CopyID:     &req.CopyID,
		ReaderID:   req.ReaderID,
		ReservedAt: now,
		Status:     model.ReservationPending,
	}
	if req.ExpirationDate != nil && !req.ExpirationDate.IsZero() {
		exp := model.DateOf(req.ExpirationDate.Time)
		if exp.Before(model.DateOf(now)) {
			return model.Reservation{}, errs.Validation("expirationDate must not be in the past")
		}
		res.ExpirationDate = &exp
	}
	if err := s.checkReader(ctx, req.ReaderID); err != nil {
		return model.Reservation{}, err
	}
	cp, err := s.repo.GetCopy(ctx, req.CopyID, false)
	if err != nil {
		return model.Reservation{}, err
	}
	if res, err = s.repo.CreateReservation(ctx, res); err != nil {
		return model.Reservation{}, err
	}

	ev := s.event(kafka.EventReservationCreated)
	ev.ReservationID, ev.CopyID, ev.WorkID, ev.ReaderID = res.ID, cp.ID, cp.WorkID, res.ReaderID
	ev.Status = string(res.Status)
	s.publish(ctx, ev)
	return res, nil
}

func (s *Service) ApproveReservation(ctx context.Context, actor auth.Identity, id int64) (model.Reservation, error) {
	return s.setReservationStatus(ctx, actor, id, model.ReservationActive)
}

func (s *Service) RejectReservation(ctx context.Context, actor auth.Identity, id int64) (model.Reservation, error) {
	return s.setReservationStatus(ctx, actor, id, model.ReservationCanceled)
}

func (s *Service) CompleteReservation(ctx context.Context, actor auth.Identity, id int64) (model.Reservation, error) {
	return s.setReservationStatus(ctx, actor, id, model.ReservationCompleted)
}

func (s *Service) setReservationStatus(ctx context.Context, actor auth.Identity, id int64, to model.ReservationStatus) (model.Reservation, error) {
	return s.UpdateReservation(ctx, actor, id, model.UpdateReservationRequest{Status: &to})
}

// UpdateReservation applies a status transition and/or a new expiration date.
func (s *Service) UpdateReservation(ctx context.Context, actor auth.Identity, id int64, req model.UpdateReservationRequest) (model.Reservation, error) {
	if err := requireStaff(actor); err != nil {
		return model.Reservation{}, err
	}
	if req.Status == nil && req.ExpirationDate == nil {
		return model.Reservation{}, errs.Validation("nothing to update")
	}
	if req.Status != nil && !req.Status.Valid() {
		return model.Reservation{}, errs.Validation("unknown reservation status %q", *req.Status)
	}

	var (
		res  model.Reservation
		from model.ReservationStatus
	)
	err := s.repo.InTx(ctx, func(repo repository.Repository) error {
		var err error
		if res, err = repo.GetReservation(ctx, id, true); err != nil {
			return err
		}
		from = res.Status
		if req.ExpirationDate != nil && !req.ExpirationDate.IsZero() {
			if res.Status.Terminal() {
				return errs.Conflict("reservation %d is already %s", id, res.Status)
			}
			exp := model.DateOf(req.ExpirationDate.Time)
			if exp.Before(model.DateOf(res.ReservedAt)) {
				return errs.Validation("expirationDate must not be before the reservation date")
			}
			res.ExpirationDate = &exp
		}
		if req.Status != nil && *req.Status != res.Status {
			if err = s.transition(ctx, repo, &res, *req.Status); err != nil {
				return err
			}
		}
		res, err = repo.UpdateReservation(ctx, res)
		return err
	})
	if err != nil {
		return model.Reservation{}, err
	}
	if from != res.Status {
		s.log.Debug("reservation moved",
			zap.Int64("reservation", id),
			zap.String("from", string(from)),
			zap.String("to", string(res.Status)))
	}

	ev := s.event(kafka.EventReservationUpdated)
	ev.ReservationID, ev.CopyID, ev.ReaderID = res.ID, deref(res.CopyID), res.ReaderID
	ev.Status = string(res.Status)
	s.publish(ctx, ev)
	return res.Observed(s.clock.Now()), nil
}

func (s *Service) transition(ctx context.Context, repo repository.Repository, res *model.Reservation, to model.ReservationStatus) error {
	from := res.Status
	if !from.CanTransitionTo(to) {
		return errs.Conflict("reservation cannot move from %s to %s", from, to)
	}
	switch to {
	case model.ReservationActive:
		if res.Expired(s.clock.Now()) {
			return errs.Conflict("reservation %d has expired", res.ID)
		}
		if res.CopyID == nil {
			return errs.Conflict("reserved copy no longer exists")
		}
		busy, err := repo.HasActiveReservation(ctx, *res.CopyID, res.ID)
		if err != nil {
			return err
		}
		if busy {
			return errs.Conflict("copy %d already has an active reservation", *res.CopyID)
		}
		if s.holdCopies {
			if err = holdCopy(ctx, repo, *res.CopyID); err != nil {
				return err
			}
		}
	case model.ReservationCompleted, model.ReservationCanceled, model.ReservationExpired:
		if s.holdCopies && from == model.ReservationActive && res.CopyID != nil {
			if err := releaseCopy(ctx, repo, *res.CopyID); err != nil {
				return err
			}
		}
	case model.ReservationPending:
		return errs.Conflict("reservation cannot move from %s to %s", from, to)
	}
	res.Status = to
	return nil
}

func holdCopy(ctx context.Context, repo repository.Repository, copyID int64) error {
	cp, err := repo.GetCopy(ctx, copyID, true)
	if err != nil {
		return err
	}
	if cp.Status != model.CopyAvailable {
		return errs.Conflict("copy %s is %s", cp.Code, cp.Status)
	}
	return repo.SetCopyStatus(ctx, copyID, model.CopyReserved)
}

// releaseCopy frees a held copy. A copy marked Lost or Damaged meanwhile keeps its status.
func releaseCopy(ctx context.Context, repo repository.Repository, copyID int64) error {
	cp, err := repo.GetCopy(ctx, copyID, true)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if cp.Status != model.CopyReserved {
		return nil
	}
	return repo.SetCopyStatus(ctx, copyID, model.CopyAvailable)
}

func (s *Service) DeleteReservation(ctx context.Context, actor auth.Identity, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	var res model.Reservation
	err := s.repo.InTx(ctx, func(repo repository.Repository) error {
		var err error
		if res, err = repo.GetReservation(ctx, id, true); err != nil {
			return err
		}
		if s.holdCopies && res.Status == model.ReservationActive && res.CopyID != nil {
			if err = releaseCopy(ctx, repo, *res.CopyID); err != nil {
				return err
			}
		}
		return repo.DeleteReservation(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("reservation deleted", zap.Int64("reservation", id), zap.String("by", actor.UserName))

	ev := s.event(kafka.EventReservationDeleted)
	ev.ReservationID, ev.CopyID, ev.ReaderID = res.ID, deref(res.CopyID), res.ReaderID
	s.publish(ctx, ev)
	return nil
}

func (s *Service) GetReservation(ctx context.Context, actor auth.Identity, id int64) (model.Reservation, error) {
	res, err := s.repo.GetReservation(ctx, id, false)
	if err != nil {
		return model.Reservation{}, err
	}
	if !canSee(actor, res.ReaderID) {
		return model.Reservation{}, errs.NotFound("reservation %d not found", id)
	}
	return res.Observed(s.clock.Now()), nil
}

func (s *Service) ListReservations(ctx context.Context, actor auth.Identity, f model.ReservationFilter) (model.ListReservations, error) {
	if actor.Role == auth.RoleReader {
		f.ReaderID = actor.UserID
	}
	if f.Status != "" && !f.Status.Valid() {
		return model.ListReservations{}, errs.Validation("unknown reservation status %q", f.Status)
	}
	list, err := s.repo.ListReservations(ctx, f)
	if err != nil {
		return model.ListReservations{}, err
	}
	now := s.clock.Now()
	for i := range list.Items {
		list.Items[i] = list.Items[i].Observed(now)
	}
	return list, nil
}
