package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

// LoanLedger stores borrowing transactions. It enforces no business rules.
type LoanLedger interface {
	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	GetLoan(ctx context.Context, id int64, forUpdate bool) (model.Loan, error)
	ListLoans(ctx context.Context, f model.LoanFilter, today time.Time) (model.ListLoans, error)
	UpdateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	DeleteLoan(ctx context.Context, id int64) error
	CountActiveLoans(ctx context.Context) (int, error)
	CountOverdueLoans(ctx context.Context, today time.Time) (int, error)
}

var loanColumns = []string{"id", "copy_id", "reader_id", "start_date", "due_date", "return_date", "status"}

const loanReturning = "RETURNING id, copy_id, reader_id, start_date, due_date, return_date, status"

func (r *repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query, args, err := qb.Insert(loansTableName).
		Columns("copy_id", "reader_id", "start_date", "due_date", "status").
		Values(loan.CopyID, loan.ReaderID, loan.StartDate, loan.DueDate, loan.Status).
		Suffix(loanReturning).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	return r.collectLoan(ctx, "CreateLoan", query, args, nil)
}

func (r *repository) GetLoan(ctx context.Context, id int64, forUpdate bool) (model.Loan, error) {
	b := qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	return r.collectLoan(ctx, "GetLoan", query, args, errs.NotFound("loan %d not found", id))
}

func (r *repository) ListLoans(ctx context.Context, f model.LoanFilter, today time.Time) (model.ListLoans, error) {
	cond := loanFilter(f, today)
	b := qb.Select(loanColumns...).
		From(loansTableName).
		Where(cond).
		OrderBy("start_date desc", "id desc")
	query, args, err := paginate(b, f.Page, f.Size).ToSql()
	if err != nil {
		return model.ListLoans{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListLoans{}, r.mapErr(err, "ListLoans", nil)
	}
	defer rows.Close()

	loans, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Loan])
	if err != nil {
		return model.ListLoans{}, r.mapErr(err, "ListLoans", nil)
	}
	total, err := r.count(ctx, qb.Select("count(*)").From(loansTableName).Where(cond))
	if err != nil {
		return model.ListLoans{}, err
	}
	return model.ListLoans{
		Paging: model.Paging{
			Page:          f.Page,
			PageSize:      f.Size,
			TotalElements: total,
		},
		Items: loans,
	}, nil
}

func loanFilter(f model.LoanFilter, today time.Time) sq.And {
	cond := sq.And{}
	if f.ReaderID != 0 {
		cond = append(cond, sq.Eq{"reader_id": f.ReaderID})
	}
	if f.CopyID != 0 {
		cond = append(cond, sq.Eq{"copy_id": f.CopyID})
	}
	if f.Active != nil {
		if *f.Active {
			cond = append(cond, sq.NotEq{"status": model.LoanReturned})
		} else {
			cond = append(cond, sq.Eq{"status": model.LoanReturned})
		}
	}
	switch f.Status {
	case "":
	case model.LoanOverdue:
		cond = append(cond, sq.NotEq{"status": model.LoanReturned}, sq.Lt{"due_date": model.DateOf(today)})
	case model.LoanLoaned, model.LoanRenewed:
		cond = append(cond, sq.Eq{"status": f.Status}, sq.GtOrEq{"due_date": model.DateOf(today)})
	case model.LoanReturned:
		cond = append(cond, sq.Eq{"status": f.Status})
	}
	return cond
}

func (r *repository) UpdateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query, args, err := qb.Update(loansTableName).
		Set("due_date", loan.DueDate).
		Set("return_date", loan.ReturnDate).
		Set("status", loan.Status).
		Where(sq.Eq{"id": loan.ID}).
		Suffix(loanReturning).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	return r.collectLoan(ctx, "UpdateLoan", query, args, errs.NotFound("loan %d not found", loan.ID))
}

func (r *repository) DeleteLoan(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(loansTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return r.mapErr(err, "DeleteLoan", nil)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("loan %d not found", id)
	}
	return nil
}

func (r *repository) CountActiveLoans(ctx context.Context) (int, error) {
	return r.count(ctx, qb.Select("count(*)").
		From(loansTableName).
		Where(sq.NotEq{"status": model.LoanReturned}))
}

func (r *repository) CountOverdueLoans(ctx context.Context, today time.Time) (int, error) {
	return r.count(ctx, qb.Select("count(*)").
		From(loansTableName).
		Where(sq.NotEq{"status": model.LoanReturned}).
		Where(sq.Lt{"due_date": model.DateOf(today)}))
}

func (r *repository) collectLoan(ctx context.Context, op, query string, args []any, notFound error) (model.Loan, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Loan{}, r.mapErr(err, op, notFound)
	}
	defer rows.Close()

	loan, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Loan])
	if err != nil {
		return model.Loan{}, r.mapErr(err, op, notFound)
	}
	return loan, nil
}
