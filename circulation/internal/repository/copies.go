package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

// CopyRegistry is the single source of truth for copy availability.
type CopyRegistry interface {
	GetCopy(ctx context.Context, id int64, forUpdate bool) (model.Copy, error)
	SetCopyStatus(ctx context.Context, id int64, status model.CopyStatus) error
	ListCopies(ctx context.Context, workID int64) ([]model.Copy, error)
	// FindAvailableCopy locks the lowest-id Available copy of the work, skipping rows
	// locked by concurrent transactions.
	FindAvailableCopy(ctx context.Context, workID int64) (model.Copy, error)
	InsertCopies(ctx context.Context, copies []model.Copy) ([]model.Copy, error)
	// RemovableCopies locks up to limit Available copies, newest first.
	RemovableCopies(ctx context.Context, workID int64, limit int) ([]model.Copy, error)
	DeleteCopies(ctx context.Context, ids []int64) error
}

var copyColumns = []string{"id", "work_id", "code", "status", "location", "created_at"}

func (r *repository) GetCopy(ctx context.Context, id int64, forUpdate bool) (model.Copy, error) {
	b := qb.Select(copyColumns...).
		From(copiesTableName).
		Where(sq.Eq{"id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return model.Copy{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Copy{}, r.mapErr(err, "GetCopy", nil)
	}
	defer rows.Close()

	c, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Copy])
	if err != nil {
		return model.Copy{}, r.mapErr(err, "GetCopy", errs.NotFound("copy %d not found", id))
	}
	return c, nil
}

func (r *repository) SetCopyStatus(ctx context.Context, id int64, status model.CopyStatus) error {
	query, args, err := qb.Update(copiesTableName).
		Set("status", status).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return r.mapErr(err, "SetCopyStatus", nil)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("copy %d not found", id)
	}
	return nil
}

func (r *repository) ListCopies(ctx context.Context, workID int64) ([]model.Copy, error) {
	query, args, err := qb.Select(copyColumns...).
		From(copiesTableName).
		Where(sq.Eq{"work_id": workID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.collectCopies(ctx, "ListCopies", query, args)
}

func (r *repository) FindAvailableCopy(ctx context.Context, workID int64) (model.Copy, error) {
	query, args, err := qb.Select(copyColumns...).
		From(copiesTableName).
		Where(sq.Eq{"work_id": workID, "status": model.CopyAvailable}).
		OrderBy("id").
		Limit(1).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return model.Copy{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Copy{}, r.mapErr(err, "FindAvailableCopy", nil)
	}
	defer rows.Close()

	c, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Copy])
	if err != nil {
		return model.Copy{}, r.mapErr(err, "FindAvailableCopy", errs.NotFound("no available copy of work %d", workID))
	}
	return c, nil
}

func (r *repository) InsertCopies(ctx context.Context, copies []model.Copy) ([]model.Copy, error) {
	if len(copies) == 0 {
		return nil, nil
	}
	b := qb.Insert(copiesTableName).
		Columns("work_id", "code", "status", "location")
	for _, c := range copies {
		b = b.Values(c.WorkID, c.Code, c.Status, c.Location)
	}
	query, args, err := b.Suffix("RETURNING id, work_id, code, status, location, created_at").ToSql()
	if err != nil {
		return nil, err
	}
	return r.collectCopies(ctx, "InsertCopies", query, args)
}

func (r *repository) RemovableCopies(ctx context.Context, workID int64, limit int) ([]model.Copy, error) {
	query, args, err := qb.Select(copyColumns...).
		From(copiesTableName).
		Where(sq.Eq{"work_id": workID, "status": model.CopyAvailable}).
		OrderBy("id desc").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.collectCopies(ctx, "RemovableCopies", query, args)
}

func (r *repository) DeleteCopies(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := qb.Delete(copiesTableName).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, query, args...)
	return r.mapErr(err, "DeleteCopies", nil)
}

func (r *repository) collectCopies(ctx context.Context, op, query string, args []any) ([]model.Copy, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapErr(err, op, nil)
	}
	defer rows.Close()

	copies, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Copy])
	if err != nil {
		return nil, r.mapErr(err, op, nil)
	}
	return copies, nil
}
