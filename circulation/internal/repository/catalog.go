package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

// Catalog is the read side of works and readers plus the dashboard counters.
type Catalog interface {
	CreateWork(ctx context.Context, req model.CreateWorkRequest) (model.Work, error)
	GetWork(ctx context.Context, id int64) (model.Work, error)
	// AllocateCopySeq advances the per-work copy counter by n and returns the
	// work with CopySeq set to the last allocated number.
	AllocateCopySeq(ctx context.Context, workID int64, n int) (model.Work, error)
	ReaderExists(ctx context.Context, id int64) (bool, error)

	CountWorks(ctx context.Context) (int, error)
	CountReaders(ctx context.Context) (int, error)
	PopularCategories(ctx context.Context, limit int) ([]model.CategoryCount, error)
}

var workColumns = []string{"id", "isbn", "title", "category", "copy_seq"}

func (r *repository) CreateWork(ctx context.Context, req model.CreateWorkRequest) (model.Work, error) {
	query, args, err := qb.Insert(worksTableName).
		Columns("isbn", "title", "category").
		Values(req.ISBN, req.Title, req.Category).
		Suffix("RETURNING id, isbn, title, category, copy_seq").
		ToSql()
	if err != nil {
		return model.Work{}, err
	}
	return r.collectWork(ctx, "CreateWork", query, args, nil)
}

func (r *repository) GetWork(ctx context.Context, id int64) (model.Work, error) {
	query, args, err := qb.Select(workColumns...).
		From(worksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Work{}, err
	}
	return r.collectWork(ctx, "GetWork", query, args, errs.NotFound("work %d not found", id))
}

func (r *repository) AllocateCopySeq(ctx context.Context, workID int64, n int) (model.Work, error) {
	q := fmt.Sprintf(`
update %s
    set copy_seq = copy_seq + @n
where id = @id
returning id, isbn, title, category, copy_seq`, worksTableName)
	args := pgx.NamedArgs{
		"id": workID,
		"n":  n,
	}
	return r.collectWork(ctx, "AllocateCopySeq", q, []any{args}, errs.NotFound("work %d not found", workID))
}

func (r *repository) ReaderExists(ctx context.Context, id int64) (bool, error) {
	n, err := r.count(ctx, qb.Select("count(*)").From(readersTableName).Where(sq.Eq{"id": id}))
	if err != nil {
		return false, r.mapErr(err, "ReaderExists", nil)
	}
	return n > 0, nil
}

func (r *repository) CountWorks(ctx context.Context) (int, error) {
	return r.count(ctx, qb.Select("count(*)").From(worksTableName))
}

func (r *repository) CountReaders(ctx context.Context) (int, error) {
	return r.count(ctx, qb.Select("count(*)").From(readersTableName))
}

func (r *repository) PopularCategories(ctx context.Context, limit int) ([]model.CategoryCount, error) {
	query, args, err := qb.Select("category as name", "count(*) as count").
		From(worksTableName).
		Where(sq.NotEq{"category": nil}).
		GroupBy("category").
		OrderBy("count desc", "name").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapErr(err, "PopularCategories", nil)
	}
	defer rows.Close()

	cats, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.CategoryCount])
	if err != nil {
		return nil, r.mapErr(err, "PopularCategories", nil)
	}
	return cats, nil
}

func (r *repository) collectWork(ctx context.Context, op, query string, args []any, notFound error) (model.Work, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Work{}, r.mapErr(err, op, notFound)
	}
	defer rows.Close()

	w, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Work])
	if err != nil {
		return model.Work{}, r.mapErr(err, op, notFound)
	}
	return w, nil
}
