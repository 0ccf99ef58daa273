package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/pkg/auth"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
)

func copyCode(isbn string, seq int) string {
	return fmt.Sprintf("%s-%04d", isbn, seq)
}

// ManageCopies adds or removes copies of a work. Removal takes only Available
// copies with no open reservation and is all-or-nothing.
func (s *Service) ManageCopies(ctx context.Context, actor auth.Identity, workID int64, req model.ManageCopiesRequest) (model.MessageResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return model.MessageResponse{}, err
	}
	if req.Count < 1 {
		return model.MessageResponse{}, errs.Validation("count must be positive")
	}
	switch req.Action {
	case model.CopyActionAdd:
		return s.addCopies(ctx, workID, req)
	case model.CopyActionRemove:
		return s.removeCopies(ctx, workID, req.Count)
	default:
		return model.MessageResponse{}, errs.Validation("invalid action %q, use add or remove", req.Action)
	}
}

func (s *Service) addCopies(ctx context.Context, workID int64, req model.ManageCopiesRequest) (model.MessageResponse, error) {
	var added []model.Copy
	err := s.repo.InTx(ctx, func(repo repository.Repository) error {
		w, err := repo.AllocateCopySeq(ctx, workID, req.Count)
		if err != nil {
			return err
		}
		first := w.CopySeq - req.Count + 1
		copies := make([]model.Copy, 0, req.Count)
		for i := 0; i < req.Count; i++ {
			copies = append(copies, model.Copy{
				WorkID:   w.ID,
				Code:     copyCode(w.ISBN, first+i),
				Status:   model.CopyAvailable,
				Location: req.Location,
			})
		}
		added, err = repo.InsertCopies(ctx, copies)
		return err
	})
	if err != nil {
		return model.MessageResponse{}, err
	}
	s.log.Info("copies added", zap.Int64("work", workID), zap.Int("count", len(added)))

	ev := s.event(kafka.EventCopiesAdded)
	ev.WorkID, ev.Count = workID, len(added)
	s.publish(ctx, ev)
	return model.MessageResponse{Message: fmt.Sprintf("%d copies added", len(added))}, nil
}

func (s *Service) removeCopies(ctx context.Context, workID int64, n int) (model.MessageResponse, error) {
	err := s.repo.InTx(ctx, func(repo repository.Repository) error {
		if _, err := repo.GetWork(ctx, workID); err != nil {
			return err
		}
		copies, err := repo.RemovableCopies(ctx, workID, n)
		if err != nil {
			return err
		}
		if len(copies) < n {
			return errs.InsufficientAvailability("only %d copies available for removal", len(copies))
		}
		ids := make([]int64, 0, len(copies))
		for _, c := range copies {
			ids = append(ids, c.ID)
		}
		return repo.DeleteCopies(ctx, ids)
	})
	if err != nil {
		return model.MessageResponse{}, err
	}
	s.log.Info("copies removed", zap.Int64("work", workID), zap.Int("count", n))

	ev := s.event(kafka.EventCopiesRemoved)
	ev.WorkID, ev.Count = workID, n
	s.publish(ctx, ev)
	return model.MessageResponse{Message: fmt.Sprintf("%d copies removed", n)}, nil
}

// MarkCopy records a copy as Lost, Damaged, or back Available. Copies held by
// a loan or reservation are changed only through those.
func (s *Service) MarkCopy(ctx context.Context, actor auth.Identity, copyID int64, status model.CopyStatus) (model.Copy, error) {
	if err := requireStaff(actor); err != nil {
		return model.Copy{}, err
	}
	switch status {
	case model.CopyAvailable, model.CopyLost, model.CopyDamaged:
	case model.CopyLoaned, model.CopyReserved:
		return model.Copy{}, errs.Validation("copy status %s is set by loans and reservations", status)
	default:
		return model.Copy{}, errs.Validation("unknown copy status %q", status)
	}
	var cp model.Copy
	err := s.repo.InTx(ctx, func(repo repository.Repository) error {
		var err error
		if cp, err = repo.GetCopy(ctx, copyID, true); err != nil {
			return err
		}
		if cp.Status.InCirculation() {
			return errs.Conflict("copy %s is %s", cp.Code, cp.Status)
		}
		if err = repo.SetCopyStatus(ctx, copyID, status); err != nil {
			return err
		}
		cp.Status = status
		return nil
	})
	if err != nil {
		return model.Copy{}, err
	}
	return cp, nil
}

func (s *Service) GetCopy(ctx context.Context, id int64) (model.Copy, error) {
	return s.repo.GetCopy(ctx, id, false)
}

func (s *Service) GetWork(ctx context.Context, id int64) (model.WorkDetails, error) {
	w, err := s.repo.GetWork(ctx, id)
	if err != nil {
		return model.WorkDetails{}, err
	}
	copies, err := s.repo.ListCopies(ctx, id)
	if err != nil {
		return model.WorkDetails{}, err
	}
	details := model.WorkDetails{Work: w, Copies: copies}
	for _, c := range copies {
		if c.Status == model.CopyAvailable {
			details.Available++
		}
	}
	return details, nil
}

func (s *Service) CreateWork(ctx context.Context, actor auth.Identity, req model.CreateWorkRequest) (model.Work, error) {
	if err := requireAdmin(actor); err != nil {
		return model.Work{}, err
	}
	return s.repo.CreateWork(ctx, req)
}
