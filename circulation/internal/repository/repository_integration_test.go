//go:build integration
// +build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/migrations"
	pg "github.com/Astemirdum/library-circulation/pkg/postgres"
)

func setupRepo(t *testing.T) (*repository, *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("circulation"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pg.Migrate(pool, migrations.MigrationFiles))

	repo, err := NewRepository(pool, zap.NewNop())
	require.NoError(t, err)
	return repo, pool
}

func seedReader(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(), `insert into readers (name) values ($1) returning id`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedCopies(t *testing.T, repo *repository, isbn string, n int) (model.Work, []model.Copy) {
	t.Helper()
	ctx := context.Background()
	work, err := repo.CreateWork(ctx, model.CreateWorkRequest{ISBN: isbn, Title: "Dune"})
	require.NoError(t, err)
	work, err = repo.AllocateCopySeq(ctx, work.ID, n)
	require.NoError(t, err)
	require.Equal(t, n, work.CopySeq)

	copies := make([]model.Copy, 0, n)
	for i := 1; i <= n; i++ {
		copies = append(copies, model.Copy{
			WorkID: work.ID,
			Code:   fmt.Sprintf("%s-%04d", isbn, i),
			Status: model.CopyAvailable,
		})
	}
	copies, err = repo.InsertCopies(ctx, copies)
	require.NoError(t, err)
	require.Len(t, copies, n)
	return work, copies
}

func TestRepository_Loans(t *testing.T) {
	repo, pool := setupRepo(t)
	ctx := context.Background()
	readerID := seedReader(t, pool, "ann")
	_, copies := seedCopies(t, repo, "978", 2)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := model.Loan{
		CopyID:    &copies[0].ID,
		ReaderID:  readerID,
		StartDate: start,
		DueDate:   start.AddDate(0, 0, 14),
		Status:    model.LoanLoaned,
	}
	created, err := repo.CreateLoan(ctx, loan)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.DueDate.Equal(loan.DueDate))

	_, err = repo.CreateLoan(ctx, loan)
	require.ErrorIs(t, err, errs.ErrConflict, "second open loan on one copy")

	loan.ReaderID = readerID + 100
	loan.CopyID = &copies[1].ID
	_, err = repo.CreateLoan(ctx, loan)
	require.ErrorIs(t, err, errs.ErrNotFound)

	overdue, err := repo.CountOverdueLoans(ctx, start.AddDate(0, 0, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, overdue)

	returned := start.AddDate(0, 0, 3)
	created.ReturnDate = &returned
	created.Status = model.LoanReturned
	_, err = repo.UpdateLoan(ctx, created)
	require.NoError(t, err)

	active, err := repo.CountActiveLoans(ctx)
	require.NoError(t, err)
	assert.Zero(t, active)

	open := true
	list, err := repo.ListLoans(ctx, model.LoanFilter{ReaderID: readerID, Active: &open}, start)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestRepository_FindAvailableCopySkipsLocked(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	work, copies := seedCopies(t, repo, "979", 2)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- repo.InTx(ctx, func(tx Repository) error {
			c, err := tx.FindAvailableCopy(ctx, work.ID)
			if err != nil {
				return err
			}
			if c.ID != copies[0].ID {
				return errs.Conflict("locked %d", c.ID)
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	err := repo.InTx(ctx, func(tx Repository) error {
		c, err := tx.FindAvailableCopy(ctx, work.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, copies[1].ID, c.ID)
		return nil
	})
	require.NoError(t, err)
	close(release)
	require.NoError(t, <-done)
}

func TestRepository_RemovableCopies(t *testing.T) {
	repo, pool := setupRepo(t)
	ctx := context.Background()
	readerID := seedReader(t, pool, "bob")
	work, copies := seedCopies(t, repo, "980", 3)

	require.NoError(t, repo.SetCopyStatus(ctx, copies[2].ID, model.CopyLost))
	_, err := repo.CreateReservation(ctx, model.Reservation{
		CopyID:     &copies[1].ID,
		ReaderID:   readerID,
		ReservedAt: time.Now(),
		Status:     model.ReservationPending,
	})
	require.NoError(t, err)

	// a pending reservation does not hold an Available copy
	removable, err := repo.RemovableCopies(ctx, work.ID, 3)
	require.NoError(t, err)
	require.Len(t, removable, 2)
	assert.Equal(t, copies[1].ID, removable[0].ID)
	assert.Equal(t, copies[0].ID, removable[1].ID)

	require.NoError(t, repo.DeleteCopies(ctx, []int64{copies[0].ID}))
	_, err = repo.GetCopy(ctx, copies[0].ID, false)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRepository_ActiveReservationUnique(t *testing.T) {
	repo, pool := setupRepo(t)
	ctx := context.Background()
	readerID := seedReader(t, pool, "eve")
	_, copies := seedCopies(t, repo, "981", 1)

	res := model.Reservation{
		CopyID:     &copies[0].ID,
		ReaderID:   readerID,
		ReservedAt: time.Now(),
		Status:     model.ReservationActive,
	}
	first, err := repo.CreateReservation(ctx, res)
	require.NoError(t, err)
	_, err = repo.CreateReservation(ctx, res)
	require.ErrorIs(t, err, errs.ErrConflict)

	busy, err := repo.HasActiveReservation(ctx, copies[0].ID, 0)
	require.NoError(t, err)
	assert.True(t, busy)
	busy, err = repo.HasActiveReservation(ctx, copies[0].ID, first.ID)
	require.NoError(t, err)
	assert.False(t, busy)

	// the reservation outlives its copy
	require.NoError(t, repo.DeleteCopies(ctx, []int64{copies[0].ID}))
	got, err := repo.GetReservation(ctx, first.ID, false)
	require.NoError(t, err)
	assert.Nil(t, got.CopyID)
}

func TestRepository_DuplicateWork(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	_, err := repo.CreateWork(ctx, model.CreateWorkRequest{ISBN: "982", Title: "Dune"})
	require.NoError(t, err)
	_, err = repo.CreateWork(ctx, model.CreateWorkRequest{ISBN: "982", Title: "Dune Messiah"})
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestRepository_ListReservationsPaging(t *testing.T) {
	repo, pool := setupRepo(t)
	ctx := context.Background()
	readerID := seedReader(t, pool, "kim")
	_, copies := seedCopies(t, repo, "983", 3)

	for i := range copies {
		_, err := repo.CreateReservation(ctx, model.Reservation{
			CopyID:     &copies[i].ID,
			ReaderID:   readerID,
			ReservedAt: time.Now(),
			Status:     model.ReservationPending,
		})
		require.NoError(t, err)
	}

	list, err := repo.ListReservations(ctx, model.ReservationFilter{ReaderID: readerID, Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 3, list.TotalElements)

	list, err = repo.ListReservations(ctx, model.ReservationFilter{CopyID: copies[0].ID, Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.TotalElements)
}
