package model

import (
	"time"
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type Work struct {
	ID       int64   `json:"id" db:"id"`
	ISBN     string  `json:"isbn" db:"isbn"`
	Title    string  `json:"title" db:"title"`
	Category *string `json:"category,omitempty" db:"category"`
	CopySeq  int     `json:"-" db:"copy_seq"`
}

type WorkDetails struct {
	Work      `json:",inline"`
	Available int    `json:"availableCount"`
	Copies    []Copy `json:"copies"`
}

type Copy struct {
	ID        int64      `json:"id" db:"id"`
	WorkID    int64      `json:"workId" db:"work_id"`
	Code      string     `json:"code" db:"code"`
	Status    CopyStatus `json:"status" db:"status"`
	Location  *string    `json:"location,omitempty" db:"location"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

type Loan struct {
	ID         int64      `json:"id" db:"id"`
	CopyID     *int64     `json:"copyId" db:"copy_id"`
	ReaderID   int64      `json:"readerId" db:"reader_id"`
	StartDate  time.Time  `json:"startDate" db:"start_date"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time `json:"returnDate" db:"return_date"`
	Status     LoanStatus `json:"status" db:"status"`
}

// Overdue is derived from the due date and never stored.
func (l Loan) Overdue(today time.Time) bool {
	return !l.Status.Terminal() && l.DueDate.Before(DateOf(today))
}

// Observed returns the loan as clients see it on the given day.
func (l Loan) Observed(today time.Time) Loan {
	if l.Overdue(today) {
		l.Status = LoanOverdue
	}
	return l
}

type ListLoans struct {
	Paging `json:",inline"`
	Items  []Loan `json:"items"`
}

type Reservation struct {
	ID             int64             `json:"id" db:"id"`
	CopyID         *int64            `json:"copyId" db:"copy_id"`
	ReaderID       int64             `json:"readerId" db:"reader_id"`
	ReservedAt     time.Time         `json:"reservedAt" db:"reserved_at"`
	ExpirationDate *time.Time        `json:"expirationDate" db:"expiration_date"`
	Status         ReservationStatus `json:"status" db:"status"`
}

func (r Reservation) Expired(today time.Time) bool {
	if r.Status == ReservationExpired {
		return true
	}
	return !r.Status.Terminal() && r.ExpirationDate != nil && r.ExpirationDate.Before(DateOf(today))
}

func (r Reservation) Observed(today time.Time) Reservation {
	if r.Expired(today) {
		r.Status = ReservationExpired
	}
	return r
}

type ListReservations struct {
	Paging `json:",inline"`
	Items  []Reservation `json:"items"`
}

type LoanFilter struct {
	ReaderID int64
	CopyID   int64
	Status   LoanStatus
	Active   *bool
	Page     int
	Size     int
}

type ReservationFilter struct {
	ReaderID int64
	CopyID   int64
	Status   ReservationStatus
	Page     int
	Size     int
}

type CategoryCount struct {
	Name  string `json:"name" db:"name"`
	Count int    `json:"count" db:"count"`
}

type Statistics struct {
	TotalWorks        int             `json:"totalWorks"`
	TotalReaders      int             `json:"totalReaders"`
	ActiveLoans       int             `json:"activeLoans"`
	OverdueLoans      int             `json:"overdueLoans"`
	PopularCategories []CategoryCount `json:"popularCategories"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
