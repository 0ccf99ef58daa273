package model

// BorrowRequest names either a specific copy or a work to take any available copy of.
type BorrowRequest struct {
	CopyID    *int64 `json:"copyId"`
	WorkID    *int64 `json:"workId"`
	ReaderID  int64  `json:"readerId" validate:"required,gt=0"`
	StartDate Date   `json:"startDate"`
	DueDate   Date   `json:"dueDate"`
}

type UpdateLoanRequest struct {
	Status     *LoanStatus `json:"status"`
	ReturnDate *Date       `json:"returnDate"`
	DueDate    *Date       `json:"dueDate"`
}

type ReserveRequest struct {
	CopyID         int64 `json:"copyId" validate:"required,gt=0"`
	ReaderID       int64 `json:"readerId" validate:"required,gt=0"`
	ExpirationDate *Date `json:"expirationDate"`
}

type UpdateReservationRequest struct {
	Status         *ReservationStatus `json:"status"`
	ExpirationDate *Date              `json:"expirationDate"`
}

type ManageCopiesRequest struct {
	Action   CopyAction `json:"action" validate:"required,oneof=add remove"`
	Count    int        `json:"count" validate:"required,min=1,max=500"`
	Location *string    `json:"location"`
}

type MarkCopyRequest struct {
	Status CopyStatus `json:"status" validate:"required,oneof=Available Lost Damaged"`
}

type CreateWorkRequest struct {
	ISBN     string  `json:"isbn" validate:"required,max=32"`
	Title    string  `json:"title" validate:"required,max=255"`
	Category *string `json:"category"`
}
