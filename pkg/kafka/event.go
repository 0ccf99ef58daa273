package kafka

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventLoanBorrowed       EventType = "loan.borrowed"
	EventLoanReturned       EventType = "loan.returned"
	EventLoanRenewed        EventType = "loan.renewed"
	EventLoanDeleted        EventType = "loan.deleted"
	EventReservationCreated EventType = "reservation.created"
	EventReservationUpdated EventType = "reservation.updated"
	EventReservationDeleted EventType = "reservation.deleted"
	EventCopiesAdded        EventType = "copies.added"
	EventCopiesRemoved      EventType = "copies.removed"
)

func (t EventType) Known() bool {
	switch t {
	case EventLoanBorrowed, EventLoanReturned, EventLoanRenewed, EventLoanDeleted,
		EventReservationCreated, EventReservationUpdated, EventReservationDeleted,
		EventCopiesAdded, EventCopiesRemoved:
		return true
	}
	return false
}

// CirculationEvent is published after a committed circulation change.
type CirculationEvent struct {
	EventID       uuid.UUID `json:"eventId"`
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	ReaderID      int64     `json:"readerId,omitempty"`
	LoanID        int64     `json:"loanId,omitempty"`
	ReservationID int64     `json:"reservationId,omitempty"`
	CopyID        int64     `json:"copyId,omitempty"`
	WorkID        int64     `json:"workId,omitempty"`
	Status        string    `json:"status,omitempty"`
	Count         int       `json:"count,omitempty"`
}

func NewEvent(typ EventType, ts time.Time) CirculationEvent {
	return CirculationEvent{
		EventID:   uuid.New(),
		Type:      typ,
		Timestamp: ts.UTC(),
	}
}
