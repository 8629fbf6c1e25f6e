package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDowntimeLog_OpenCloseAccumulates(t *testing.T) {
	// GIVEN an empty log
	log := NewDowntimeLog(9)

	// WHEN two intervals are opened and closed
	log.Open(100)
	assert.True(t, log.IsOpen())
	log.Close(114)
	log.Open(300)
	log.Close(309)

	// THEN both are kept in order and summed
	assert.False(t, log.IsOpen())
	assert.Equal(t, []Interval{{100, 114}, {300, 309}}, log.Intervals())
	assert.Equal(t, int64(23), log.Total())
	assert.NoError(t, log.Err())
}

func TestDowntimeLog_CloseWithoutOpenIsIgnored(t *testing.T) {
	log := NewDowntimeLog(3)
	log.Close(50)
	assert.Empty(t, log.Intervals())
	assert.Equal(t, int64(0), log.Total())
}

func TestDowntimeLog_OverflowIsReported(t *testing.T) {
	// GIVEN a log with room for one interval
	log := NewDowntimeLog(1)

	// WHEN two intervals are closed
	log.Open(0)
	log.Close(9)
	log.Open(20)
	log.Close(29)

	// THEN the second is dropped and Err reports the overflow
	assert.Len(t, log.Intervals(), 1)
	err := log.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDowntimeCapacity))
}

func TestDowntimeLog_OpenAtEndIsReported(t *testing.T) {
	log := NewDowntimeLog(3)
	log.Open(42)
	err := log.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
}

func TestDowntimeLog_ResetKeepsStorage(t *testing.T) {
	log := NewDowntimeLog(2)
	log.Open(0)
	log.Close(9)
	log.Open(10)
	log.Close(19)
	log.Open(20)
	log.Close(29)

	log.Reset()

	assert.Empty(t, log.Intervals())
	assert.Equal(t, 2, cap(log.Intervals()))
	assert.False(t, log.IsOpen())
	assert.NoError(t, log.Err())
}

func TestInterval_String(t *testing.T) {
	iv := Interval{Start: 100, End: 114}
	assert.Equal(t, "(100, 114)", iv.String())
	assert.Equal(t, int64(14), iv.Duration())
}
