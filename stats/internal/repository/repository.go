package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/Astemirdum/library-circulation/stats/internal/model"
)

type Repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*Repository, error) {
	return &Repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const eventsTableName = `circulation_events`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func nullID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// Record stores an event once; redelivered events are ignored.
func (r *Repository) Record(ctx context.Context, ev kafka.CirculationEvent) error {
	query, args, err := qb.Insert(eventsTableName).
		Columns("event_id", "type", "reader_id", "loan_id", "reservation_id", "copy_id", "work_id", "status", "count", "occurred_at").
		Values(ev.EventID, ev.Type, nullID(ev.ReaderID), nullID(ev.LoanID), nullID(ev.ReservationID),
			nullID(ev.CopyID), nullID(ev.WorkID), ev.Status, ev.Count, ev.Timestamp).
		Suffix("on conflict (event_id) do nothing").
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "Record")
	}
	if tag.RowsAffected() == 0 {
		r.log.Debug("duplicate event", zap.String("event_id", ev.EventID.String()))
	}
	return nil
}

func (r *Repository) GetStats(ctx context.Context) (model.Stats, error) {
	var (
		st  model.Stats
		err error
	)
	if st.Events, err = r.eventCounts(ctx); err != nil {
		return model.Stats{}, err
	}
	if st.Readers, err = r.readerStats(ctx); err != nil {
		return model.Stats{}, err
	}
	return st, nil
}

func (r *Repository) eventCounts(ctx context.Context) ([]model.EventCount, error) {
	query, args, err := qb.Select("type", "count(*) as count").
		From(eventsTableName).
		GroupBy("type").
		OrderBy("type").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "eventCounts")
	}
	defer rows.Close()
	counts, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.EventCount])
	return counts, errors.Wrap(err, "eventCounts")
}

func (r *Repository) readerStats(ctx context.Context) ([]model.ReaderStats, error) {
	query, args, err := qb.Select("reader_id").
		Column(sq.Expr("count(*) filter (where type = ?) as borrowed", kafka.EventLoanBorrowed)).
		Column(sq.Expr("count(*) filter (where type = ?) as returned", kafka.EventLoanReturned)).
		Column(sq.Expr("count(*) filter (where type = ?) as reservations", kafka.EventReservationCreated)).
		From(eventsTableName).
		Where(sq.NotEq{"reader_id": nil}).
		GroupBy("reader_id").
		OrderBy("reader_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "readerStats")
	}
	defer rows.Close()
	readers, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.ReaderStats])
	return readers, errors.Wrap(err, "readerStats")
}
