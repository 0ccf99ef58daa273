package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Astemirdum/library-circulation/pkg/circuit_breaker"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func Test_circuitBreaker_Call(t *testing.T) {
	successfulService := func() error {
		return nil
	}
	errService := errors.New("service error")
	failingService := func() error {
		return errService
	}

	type fields struct {
		recordLength     int
		timeout          time.Duration
		percentile       float64
		recoveryRequests int
	}
	tests := []struct {
		name   string
		fields fields
	}{
		{
			name: "open, half-open, closed",
			fields: fields{
				recordLength:     10,
				timeout:          2 * time.Second,
				percentile:       0.30,
				recoveryRequests: 5,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
			cb := circuit_breaker.New(tt.fields.recordLength, tt.fields.timeout, tt.fields.percentile,
				tt.fields.recoveryRequests, circuit_breaker.WithClock(clock.Now))

			for i := 0; i < 80; i++ {
				require.NoError(t, cb.Call(successfulService))
			}
			require.Equal(t, circuit_breaker.Closed, cb.State())

			// 3 of the last 10 calls failing trips the breaker
			for i := 0; i < 3; i++ {
				require.ErrorIs(t, cb.Call(failingService), errService)
			}
			require.Equal(t, circuit_breaker.Open, cb.State())
			require.ErrorIs(t, cb.Call(successfulService), circuit_breaker.ErrOpenCB)

			clock.now = clock.now.Add(3 * time.Second)
			require.NoError(t, cb.Call(successfulService))
			require.Equal(t, circuit_breaker.HalfOpen, cb.State())

			// a failure while half-open opens it again
			require.ErrorIs(t, cb.Call(failingService), errService)
			require.Equal(t, circuit_breaker.Open, cb.State())

			clock.now = clock.now.Add(3 * time.Second)
			for i := 0; i < tt.fields.recoveryRequests; i++ {
				require.NoError(t, cb.Call(successfulService))
			}
			require.Equal(t, circuit_breaker.Closed, cb.State())
		})
	}
}
