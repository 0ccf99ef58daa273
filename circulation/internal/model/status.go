package model

type CopyStatus string

const (
	CopyAvailable CopyStatus = "Available"
	CopyLoaned    CopyStatus = "Loaned"
	CopyReserved  CopyStatus = "Reserved"
	CopyLost      CopyStatus = "Lost"
	CopyDamaged   CopyStatus = "Damaged"
)

func (s CopyStatus) Valid() bool {
	switch s {
	case CopyAvailable, CopyLoaned, CopyReserved, CopyLost, CopyDamaged:
		return true
	}
	return false
}

// InCirculation reports whether the copy is held by a loan or a reservation.
func (s CopyStatus) InCirculation() bool {
	switch s {
	case CopyLoaned, CopyReserved:
		return true
	case CopyAvailable, CopyLost, CopyDamaged:
		return false
	}
	return false
}

type LoanStatus string

const (
	LoanLoaned   LoanStatus = "Loaned"
	LoanReturned LoanStatus = "Returned"
	LoanOverdue  LoanStatus = "Overdue"
	LoanRenewed  LoanStatus = "Renewed"
)

func (s LoanStatus) Valid() bool {
	switch s {
	case LoanLoaned, LoanReturned, LoanOverdue, LoanRenewed:
		return true
	}
	return false
}

// Terminal is true only for Returned: Overdue and Renewed are still out.
func (s LoanStatus) Terminal() bool {
	switch s {
	case LoanReturned:
		return true
	case LoanLoaned, LoanOverdue, LoanRenewed:
		return false
	}
	return false
}

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "Pending"
	ReservationActive    ReservationStatus = "Active"
	ReservationCompleted ReservationStatus = "Completed"
	ReservationCanceled  ReservationStatus = "Canceled"
	ReservationExpired   ReservationStatus = "Expired"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationActive, ReservationCompleted, ReservationCanceled, ReservationExpired:
		return true
	}
	return false
}

func (s ReservationStatus) Terminal() bool {
	switch s {
	case ReservationCompleted, ReservationCanceled, ReservationExpired:
		return true
	case ReservationPending, ReservationActive:
		return false
	}
	return false
}

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending: {ReservationActive, ReservationCanceled, ReservationExpired},
	ReservationActive:  {ReservationCompleted, ReservationCanceled, ReservationExpired},
}

func (s ReservationStatus) CanTransitionTo(to ReservationStatus) bool {
	for _, next := range reservationTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type CopyAction string

const (
	CopyActionAdd    CopyAction = "add"
	CopyActionRemove CopyAction = "remove"
)
