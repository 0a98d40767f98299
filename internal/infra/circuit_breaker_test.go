package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSend = errors.New("smtp unavailable")

func failing() error    { return errSend }
func succeeding() error { return nil }

func TestCircuitBreakerTripsAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      time.Hour,
	})

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, cb.Execute(failing), errSend)
	}
	assert.Equal(t, CBOpen, cb.State())

	// fast-fail while open: fn never runs
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		OpenTimeout:      time.Millisecond,
	})

	require.Error(t, cb.Execute(failing))
	assert.Equal(t, CBOpen, cb.State())

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	// two probe successes close the circuit again
	require.NoError(t, cb.Execute(succeeding))
	require.NoError(t, cb.Execute(succeeding))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerFailedProbeReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		OpenTimeout:      time.Millisecond,
	})

	require.Error(t, cb.Execute(failing))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.Error(t, cb.Execute(failing))
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		OpenTimeout:      time.Hour,
	})

	require.Error(t, cb.Execute(failing))
	require.NoError(t, cb.Execute(succeeding))
	require.Error(t, cb.Execute(failing))
	assert.Equal(t, CBClosed, cb.State())
}
