package service

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/pkg/auth"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
)

// Borrow opens a loan and marks the copy Loaned in one transaction.
func (s *Service) Borrow(ctx context.Context, actor auth.Identity, req model.BorrowRequest) (model.Loan, error) {
	if err := requireStaff(actor); err != nil {
		return model.Loan{}, err
	}
	if (req.CopyID == nil) == (req.WorkID == nil) {
		return model.Loan{}, errs.Validation("exactly one of copyId or workId is required")
	}
	if req.StartDate.IsZero() || req.DueDate.IsZero() {
		return model.Loan{}, errs.Validation("startDate and dueDate are required")
	}
	start, due := model.DateOf(req.StartDate.Time), model.DateOf(req.DueDate.Time)
	if due.Before(start) {
		return model.Loan{}, errs.Validation("dueDate must not be before startDate")
	}
	if err := s.checkReader(ctx, req.ReaderID); err != nil {
		return model.Loan{}, err
	}

	var (
		loan    model.Loan
		cp      model.Copy
		expired *model.Reservation
	)
	err := s.repo.InTx(ctx, func(repo repository.Repository) error {
		var err error
		expired = nil
		if cp, expired, err = s.lockCopyForLoan(ctx, repo, req); err != nil {
			return err
		}
		if cp.Status == model.CopyReserved && s.holdCopies {
			if expired, err = s.reclaimExpiredHold(ctx, repo, cp.ID); err != nil {
				return err
			}
			if expired != nil {
				cp.Status = model.CopyAvailable
			}
		}
		switch cp.Status {
		case model.CopyAvailable:
		case model.CopyLoaned, model.CopyReserved, model.CopyLost, model.CopyDamaged:
			s.log.Debug("copy not available", zap.String("code", cp.Code), zap.String("status", string(cp.Status)))
			return errs.Conflict("copy not available")
		default:
			return pkgerrors.Errorf("copy %d has unknown status %q", cp.ID, cp.Status)
		}
		copyID := cp.ID
		loan, err = repo.CreateLoan(ctx, model.Loan{
			CopyID:    &copyID,
			ReaderID:  req.ReaderID,
			StartDate: start,
			DueDate:   due,
			Status:    model.LoanLoaned,
		})
		if err != nil {
			return err
		}
		return repo.SetCopyStatus(ctx, cp.ID, model.CopyLoaned)
	})
	if err != nil {
		return model.Loan{}, err
	}
	s.log.Debug("loan opened", zap.Int64("loan", loan.ID), zap.Int64("copy", cp.ID), zap.Int64("reader", loan.ReaderID))

	if expired != nil {
		ev := s.event(kafka.EventReservationUpdated)
		ev.ReservationID, ev.CopyID, ev.ReaderID = expired.ID, cp.ID, expired.ReaderID
		ev.Status = string(expired.Status)
		s.publish(ctx, ev)
	}

	ev := s.event(kafka.EventLoanBorrowed)
	ev.LoanID, ev.CopyID, ev.WorkID, ev.ReaderID = loan.ID, cp.ID, cp.WorkID, loan.ReaderID
	ev.Status = string(loan.Status)
	s.publish(ctx, ev)
	return loan.Observed(s.clock.Now()), nil
}

// lockCopyForLoan locks the requested copy, or the first Available copy of the
// work. In hold mode a work whose copies are all held may still yield a copy
// whose hold has expired; that reservation is returned already Expired.
func (s *Service) lockCopyForLoan(ctx context.Context, repo repository.Repository, req model.BorrowRequest) (model.Copy, *model.Reservation, error) {
	if req.CopyID != nil {
		cp, err := repo.GetCopy(ctx, *req.CopyID, true)
		return cp, nil, err
	}
	if _, err := repo.GetWork(ctx, *req.WorkID); err != nil {
		return model.Copy{}, nil, err
	}
	cp, err := repo.FindAvailableCopy(ctx, *req.WorkID)
	if err == nil {
		return cp, nil, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return model.Copy{}, nil, err
	}
	if s.holdCopies {
		copies, err := repo.ListCopies(ctx, *req.WorkID)
		if err != nil {
			return model.Copy{}, nil, err
		}
		for _, c := range copies {
			if c.Status != model.CopyReserved {
				continue
			}
			if cp, err = repo.GetCopy(ctx, c.ID, true); err != nil {
				return model.Copy{}, nil, err
			}
			if cp.Status != model.CopyReserved {
				continue
			}
			res, err := s.reclaimExpiredHold(ctx, repo, cp.ID)
			if err != nil {
				return model.Copy{}, nil, err
			}
			if res != nil {
				cp.Status = model.CopyAvailable
				return cp, res, nil
			}
		}
	}
	return model.Copy{}, nil, errs.Conflict("no copy available")
}

// reclaimExpiredHold expires the Active reservation holding copyID once its
// expiration date has passed and puts the copy back on the shelf. It returns
// nil when the hold is still valid.
func (s *Service) reclaimExpiredHold(ctx context.Context, repo repository.Repository, copyID int64) (*model.Reservation, error) {
	list, err := repo.ListReservations(ctx, model.ReservationFilter{CopyID: copyID, Status: model.ReservationActive})
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for _, item := range list.Items {
		res, err := repo.GetReservation(ctx, item.ID, true)
		if err != nil {
			return nil, err
		}
		if res.Status != model.ReservationActive || !res.Expired(now) {
			continue
		}
		res.Status = model.ReservationExpired
		if res, err = repo.UpdateReservation(ctx, res); err != nil {
			return nil, err
		}
		if err = releaseCopy(ctx, repo, copyID); err != nil {
			return nil, err
		}
		s.log.Debug("expired hold released", zap.Int64("reservation", res.ID), zap.Int64("copy", copyID))
		return &res, nil
	}
	return nil, nil
}

// UpdateLoan dispatches a PATCH to a return or a renewal.
func (s *Service) UpdateLoan(ctx context.Context, actor auth.Identity, id int64, req model.UpdateLoanRequest) (model.Loan, error) {
	if req.Status == nil {
		if req.DueDate == nil {
			return model.Loan{}, errs.Validation("nothing to update")
		}
		if req.ReturnDate != nil {
			return model.Loan{}, errs.Validation("returnDate requires status Returned")
		}
		return s.RenewLoan(ctx, actor, id, *req.DueDate)
	}
	switch *req.Status {
	case model.LoanReturned:
		if req.DueDate != nil {
			return model.Loan{}, errs.Validation("dueDate cannot be combined with status Returned")
		}
		return s.ReturnLoan(ctx, actor, id, req.ReturnDate)
	case model.LoanRenewed:
		if req.DueDate == nil {
			return model.Loan{}, errs.Validation("dueDate is required to renew a loan")
		}
		if req.ReturnDate != nil {
			return model.Loan{}, errs.Validation("returnDate cannot be combined with status Renewed")
		}
		return s.RenewLoan(ctx, actor, id, *req.DueDate)
	case model.LoanLoaned, model.LoanOverdue:
		return model.Loan{}, errs.Validation("loan status %s cannot be set directly", *req.Status)
	default:
		return model.Loan{}, errs.Validation("unknown loan status %q", *req.Status)
	}
}

// ReturnLoan closes the loan and frees its copy. A nil returnDate means today.
func (s *Service) ReturnLoan(ctx context.Context, actor auth.Identity, id int64, returnDate *model.Date) (model.Loan, error) {
	if err := requireStaff(actor); err != nil {
		return model.Loan{}, err
	}
	var loan model.Loan
	err := s.repo.InTx(ctx, func(repo repository.Repository) error {
		l, err := repo.GetLoan(ctx, id, true)
		if err != nil {
			return err
		}
		if l.Status.Terminal() {
			return errs.Conflict("loan already closed")
		}
		ret := s.today()
		if returnDate != nil && !returnDate.IsZero() {
			ret = model.DateOf(returnDate.Time)
		}
		if ret.Before(l.StartDate) {
			return errs.Validation("returnDate must not be before startDate")
		}
		l.Status = model.LoanReturned
		l.ReturnDate = &ret
		if loan, err = repo.UpdateLoan(ctx, l); err != nil {
			return err
		}
		if l.CopyID == nil {
			return nil
		}
		return repo.SetCopyStatus(ctx, *l.CopyID, model.CopyAvailable)
	})
	if err != nil {
		return model.Loan{}, err
	}

	ev := s.event(kafka.EventLoanReturned)
	ev.LoanID, ev.CopyID, ev.ReaderID = loan.ID, deref(loan.CopyID), loan.ReaderID
	ev.Status = string(loan.Status)
	s.publish(ctx, ev)
	return loan, nil
}

func (s *Service) RenewLoan(ctx context.Context, actor auth.Identity, id int64, dueDate model.Date) (model.Loan, error) {
	if err := requireStaff(actor); err != nil {
		return model.Loan{}, err
	}
	if dueDate.IsZero() {
		return model.Loan{}, errs.Validation("dueDate is required")
	}
	due := model.DateOf(dueDate.Time)
	var loan model.Loan
	err := s.repo.InTx(ctx, func(repo repository.Repository) error {
		l, err := repo.GetLoan(ctx, id, true)
		if err != nil {
			return err
		}
		if l.Status.Terminal() {
			return errs.Conflict("loan already closed")
		}
		if due.Before(l.StartDate) {
			return errs.Validation("dueDate must not be before startDate")
		}
		l.DueDate = due
		l.Status = model.LoanRenewed
		loan, err = repo.UpdateLoan(ctx, l)
		return err
	})
	if err != nil {
		return model.Loan{}, err
	}

	ev := s.event(kafka.EventLoanRenewed)
	ev.LoanID, ev.CopyID, ev.ReaderID = loan.ID, deref(loan.CopyID), loan.ReaderID
	ev.Status = string(loan.Status)
	s.publish(ctx, ev)
	return loan.Observed(s.clock.Now()), nil
}

// DeleteLoan is an administrative override. Deleting an open loan frees the copy.
func (s *Service) DeleteLoan(ctx context.Context, actor auth.Identity, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	var loan model.Loan
	err := s.repo.InTx(ctx, func(repo repository.Repository) error {
		var err error
		if loan, err = repo.GetLoan(ctx, id, true); err != nil {
			return err
		}
		if !loan.Status.Terminal() && loan.CopyID != nil {
			if err = repo.SetCopyStatus(ctx, *loan.CopyID, model.CopyAvailable); err != nil {
				return err
			}
		}
		return repo.DeleteLoan(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("loan deleted", zap.Int64("loan", id), zap.String("by", actor.UserName))

	ev := s.event(kafka.EventLoanDeleted)
	ev.LoanID, ev.CopyID, ev.ReaderID = loan.ID, deref(loan.CopyID), loan.ReaderID
	s.publish(ctx, ev)
	return nil
}

func (s *Service) GetLoan(ctx context.Context, actor auth.Identity, id int64) (model.Loan, error) {
	loan, err := s.repo.GetLoan(ctx, id, false)
	if err != nil {
		return model.Loan{}, err
	}
	if !canSee(actor, loan.ReaderID) {
		return model.Loan{}, errs.NotFound("loan %d not found", id)
	}
	return loan.Observed(s.clock.Now()), nil
}

func (s *Service) ListLoans(ctx context.Context, actor auth.Identity, f model.LoanFilter) (model.ListLoans, error) {
	if actor.Role == auth.RoleReader {
		f.ReaderID = actor.UserID
	}
	if f.Status != "" && !f.Status.Valid() {
		return model.ListLoans{}, errs.Validation("unknown loan status %q", f.Status)
	}
	now := s.clock.Now()
	list, err := s.repo.ListLoans(ctx, f, model.DateOf(now))
	if err != nil {
		return model.ListLoans{}, err
	}
	for i := range list.Items {
		list.Items[i] = list.Items[i].Observed(now)
	}
	return list, nil
}
