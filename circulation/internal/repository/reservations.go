package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

// ReservationLedger stores holds. It enforces no business rules.
type ReservationLedger interface {
	CreateReservation(ctx context.Context, res model.Reservation) (model.Reservation, error)
	GetReservation(ctx context.Context, id int64, forUpdate bool) (model.Reservation, error)
	ListReservations(ctx context.Context, f model.ReservationFilter) (model.ListReservations, error)
	UpdateReservation(ctx context.Context, res model.Reservation) (model.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
	// HasActiveReservation reports an Active reservation on the copy other than exceptID.
	HasActiveReservation(ctx context.Context, copyID, exceptID int64) (bool, error)
}

var reservationColumns = []string{"id", "copy_id", "reader_id", "reserved_at", "expiration_date", "status"}

const reservationReturning = "RETURNING id, copy_id, reader_id, reserved_at, expiration_date, status"

func (r *repository) CreateReservation(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	query, args, err := qb.Insert(reservationsTableName).
		Columns("copy_id", "reader_id", "reserved_at", "expiration_date", "status").
		Values(res.CopyID, res.ReaderID, res.ReservedAt, res.ExpirationDate, res.Status).
		Suffix(reservationReturning).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	return r.collectReservation(ctx, "CreateReservation", query, args, nil)
}

func (r *repository) GetReservation(ctx context.Context, id int64, forUpdate bool) (model.Reservation, error) {
	b := qb.Select(reservationColumns...).
		From(reservationsTableName).
		Where(sq.Eq{"id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	return r.collectReservation(ctx, "GetReservation", query, args, errs.NotFound("reservation %d not found", id))
}

func (r *repository) ListReservations(ctx context.Context, f model.ReservationFilter) (model.ListReservations, error) {
	cond := sq.And{}
	if f.ReaderID != 0 {
		cond = append(cond, sq.Eq{"reader_id": f.ReaderID})
	}
	if f.CopyID != 0 {
		cond = append(cond, sq.Eq{"copy_id": f.CopyID})
	}
	if f.Status != "" {
		cond = append(cond, sq.Eq{"status": f.Status})
	}
	b := qb.Select(reservationColumns...).
		From(reservationsTableName).
		Where(cond).
		OrderBy("reserved_at desc", "id desc")
	query, args, err := paginate(b, f.Page, f.Size).ToSql()
	if err != nil {
		return model.ListReservations{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListReservations{}, r.mapErr(err, "ListReservations", nil)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Reservation])
	if err != nil {
		return model.ListReservations{}, r.mapErr(err, "ListReservations", nil)
	}
	total, err := r.count(ctx, qb.Select("count(*)").From(reservationsTableName).Where(cond))
	if err != nil {
		return model.ListReservations{}, err
	}
	return model.ListReservations{
		Paging: model.Paging{
			Page:          f.Page,
			PageSize:      f.Size,
			TotalElements: total,
		},
		Items: items,
	}, nil
}

func (r *repository) UpdateReservation(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	query, args, err := qb.Update(reservationsTableName).
		Set("expiration_date", res.ExpirationDate).
		Set("status", res.Status).
		Where(sq.Eq{"id": res.ID}).
		Suffix(reservationReturning).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	return r.collectReservation(ctx, "UpdateReservation", query, args, errs.NotFound("reservation %d not found", res.ID))
}

func (r *repository) DeleteReservation(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(reservationsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return r.mapErr(err, "DeleteReservation", nil)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("reservation %d not found", id)
	}
	return nil
}

func (r *repository) HasActiveReservation(ctx context.Context, copyID, exceptID int64) (bool, error) {
	n, err := r.count(ctx, qb.Select("count(*)").
		From(reservationsTableName).
		Where(sq.Eq{"copy_id": copyID, "status": model.ReservationActive}).
		Where(sq.NotEq{"id": exceptID}))
	if err != nil {
		return false, r.mapErr(err, "HasActiveReservation", nil)
	}
	return n > 0, nil
}

func (r *repository) collectReservation(ctx context.Context, op, query string, args []any, notFound error) (model.Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Reservation{}, r.mapErr(err, op, notFound)
	}
	defer rows.Close()

	res, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reservation])
	if err != nil {
		return model.Reservation{}, r.mapErr(err, op, notFound)
	}
	return res, nil
}
