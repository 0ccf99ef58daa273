package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/pkg/auth"
)

const popularCategoriesLimit = 5

func (s *Service) Statistics(ctx context.Context, actor auth.Identity) (model.Statistics, error) {
	if err := requireStaff(actor); err != nil {
		return model.Statistics{}, err
	}
	today := s.today()
	var st model.Statistics
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		st.TotalWorks, err = s.repo.CountWorks(ctx)
		return err
	})
	eg.Go(func() (err error) {
		st.TotalReaders, err = s.repo.CountReaders(ctx)
		return err
	})
	eg.Go(func() (err error) {
		st.ActiveLoans, err = s.repo.CountActiveLoans(ctx)
		return err
	})
	eg.Go(func() (err error) {
		st.OverdueLoans, err = s.repo.CountOverdueLoans(ctx, today)
		return err
	})
	eg.Go(func() (err error) {
		st.PopularCategories, err = s.repo.PopularCategories(ctx, popularCategoriesLimit)
		return err
	})
	if err := eg.Wait(); err != nil {
		return model.Statistics{}, err
	}
	if st.PopularCategories == nil {
		st.PopularCategories = []model.CategoryCount{}
	}
	return st, nil
}
