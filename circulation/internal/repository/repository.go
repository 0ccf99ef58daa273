package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
)

type Repository interface {
	// InTx runs fn against a repository bound to one transaction. Nested calls
	// reuse the outer transaction.
	InTx(ctx context.Context, fn func(repo Repository) error) error

	CopyRegistry
	LoanLedger
	ReservationLedger
	Catalog
}

type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	pool *pgxpool.Pool
	db   querier
	inTx bool
	log  *zap.Logger
}

func NewRepository(pool *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		pool: pool,
		db:   pool,
		log:  log.Named("repo"),
	}, nil
}

const (
	worksTableName        = `works`
	readersTableName      = `readers`
	copiesTableName       = `copies`
	loansTableName        = `loans`
	reservationsTableName = `reservations`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) InTx(ctx context.Context, fn func(repo Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		// no-op once committed
		_ = tx.Rollback(ctx)
	}()

	if err := fn(&repository{pool: r.pool, db: tx, inTx: true, log: r.log}); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(ctx), "commit")
}

func (r *repository) count(ctx context.Context, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count")
	}
	return n, nil
}

func paginate(b sq.SelectBuilder, page, size int) sq.SelectBuilder {
	if page != 0 && size != 0 {
		b = b.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	return b
}

// constraintErrors maps constraint names to domain errors.
var constraintErrors = map[string]error{
	"loans_one_open_per_copy_idx":          errs.Conflict("copy not available"),
	"reservations_one_active_per_copy_idx": errs.Conflict("copy already has an active reservation"),
	"copies_code_key":                      errs.Conflict("copy code already exists"),
	"works_isbn_key":                       errs.Conflict("work with this isbn already exists"),
	"loans_reader_id_fkey":                 errs.NotFound("reader not found"),
	"reservations_reader_id_fkey":          errs.NotFound("reader not found"),
	"loans_copy_id_fkey":                   errs.NotFound("copy not found"),
	"reservations_copy_id_fkey":            errs.NotFound("copy not found"),
	"copies_work_id_fkey":                  errs.NotFound("work not found"),
}

// mapErr classifies store errors; notFound is returned for pgx.ErrNoRows.
func (r *repository) mapErr(err error, op string, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) && notFound != nil {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
			r.log.Debug(op, zap.String("constraint", pgErr.ConstraintName), zap.String("code", pgErr.Code))
			return mapped
		}
		switch pgErr.Code {
		case pgerrcode.UniqueViolation, pgerrcode.ExclusionViolation:
			return errs.Conflict("%s: %s", op, pgErr.Detail)
		case pgerrcode.ForeignKeyViolation:
			return errs.NotFound("%s: %s", op, pgErr.Detail)
		case pgerrcode.CheckViolation:
			return errs.Validation("%s: %s", op, pgErr.ConstraintName)
		}
	}
	r.log.Error(op, zap.Error(err))
	return errors.Wrap(err, op)
}
