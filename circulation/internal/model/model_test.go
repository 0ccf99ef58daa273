package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDate_UnmarshalJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{name: "date only", raw: `"2024-01-15"`, want: day("2024-01-15")},
		{name: "rfc3339 truncated", raw: `"2024-01-15T18:30:00Z"`, want: day("2024-01-15")},
		{name: "rfc3339 offset", raw: `"2024-01-15T23:30:00-03:00"`, want: day("2024-01-16")},
		{name: "null", raw: `null`},
		{name: "garbage", raw: `"15/01/2024"`, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var d model.Date
			err := json.Unmarshal([]byte(tt.raw), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, tt.want.Equal(d.Time), "got %s", d.Time)
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(model.NewDate(time.Date(2024, 2, 5, 13, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.Equal(t, `"2024-02-05"`, string(b))
}

func TestLoan_Observed(t *testing.T) {
	t.Parallel()
	returned := day("2024-01-20")
	tests := []struct {
		name  string
		loan  model.Loan
		today time.Time
		want  model.LoanStatus
	}{
		{
			name:  "on time",
			loan:  model.Loan{DueDate: day("2024-01-15"), Status: model.LoanLoaned},
			today: day("2024-01-15"),
			want:  model.LoanLoaned,
		},
		{
			name:  "overdue",
			loan:  model.Loan{DueDate: day("2024-01-15"), Status: model.LoanLoaned},
			today: day("2024-01-16"),
			want:  model.LoanOverdue,
		},
		{
			name:  "renewed overdue",
			loan:  model.Loan{DueDate: day("2024-01-15"), Status: model.LoanRenewed},
			today: day("2024-03-01"),
			want:  model.LoanOverdue,
		},
		{
			name:  "returned late is not overdue",
			loan:  model.Loan{DueDate: day("2024-01-15"), ReturnDate: &returned, Status: model.LoanReturned},
			today: day("2024-03-01"),
			want:  model.LoanReturned,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.loan.Observed(tt.today).Status)
		})
	}
}

func TestReservationStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()
	all := []model.ReservationStatus{
		model.ReservationPending, model.ReservationActive, model.ReservationCompleted,
		model.ReservationCanceled, model.ReservationExpired,
	}
	allowed := map[model.ReservationStatus]map[model.ReservationStatus]bool{
		model.ReservationPending: {model.ReservationActive: true, model.ReservationCanceled: true, model.ReservationExpired: true},
		model.ReservationActive:  {model.ReservationCompleted: true, model.ReservationCanceled: true, model.ReservationExpired: true},
	}
	for _, from := range all {
		for _, to := range all {
			require.Equal(t, allowed[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
		require.Equal(t, len(allowed[from]) == 0, from.Terminal(), from)
	}
}

func TestReservation_Observed(t *testing.T) {
	exp := day("2024-01-10")
	r := model.Reservation{ExpirationDate: &exp, Status: model.ReservationActive}
	require.Equal(t, model.ReservationActive, r.Observed(day("2024-01-10")).Status)
	require.Equal(t, model.ReservationExpired, r.Observed(day("2024-01-11")).Status)

	r.Status = model.ReservationCompleted
	require.Equal(t, model.ReservationCompleted, r.Observed(day("2024-02-01")).Status)
}
