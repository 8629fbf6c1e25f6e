package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDowntimeDistribution_Percentiles verifies nearest-rank percentiles.
//
// Given: 10 trials, six at 27 minutes, three at 36 and one at 45
// When: Percentiles are queried
// Then: They follow the cumulative counts
func TestDowntimeDistribution_Percentiles(t *testing.T) {
	// GIVEN
	d := NewDowntimeDistribution(81)
	for _, m := range []int64{27, 27, 27, 27, 27, 27, 36, 36, 36, 45} {
		d.Observe(m)
	}

	// THEN
	assert.Equal(t, int64(10), d.Trials())
	assert.Equal(t, int64(27), d.Min())
	assert.Equal(t, int64(45), d.Max())
	assert.Equal(t, int64(27), d.Percentile(50))
	assert.Equal(t, int64(27), d.Percentile(55))
	assert.Equal(t, int64(36), d.Percentile(61))
	assert.Equal(t, int64(36), d.Percentile(85))
	assert.Equal(t, int64(45), d.Percentile(99))
	assert.Equal(t, int64(45), d.Percentile(100))
}

func TestDowntimeDistribution_Empty(t *testing.T) {
	d := NewDowntimeDistribution(10)
	assert.Equal(t, int64(0), d.Trials())
	assert.Equal(t, int64(-1), d.Min())
	assert.Equal(t, int64(-1), d.Max())
	assert.Equal(t, int64(-1), d.Percentile(50))

	var buf bytes.Buffer
	d.Print(&buf)
	assert.Empty(t, buf.String())
}

func TestDowntimeDistribution_ObserveBeyondRangeGrows(t *testing.T) {
	d := NewDowntimeDistribution(5)
	d.Observe(20)
	assert.Len(t, d.Counts, 21)
	assert.Equal(t, int64(20), d.Max())
}

func TestDowntimeDistribution_Merge(t *testing.T) {
	// GIVEN two worker-local distributions of different sizes
	a := NewDowntimeDistribution(30)
	a.Observe(27)
	b := NewDowntimeDistribution(81)
	b.Observe(27)
	b.Observe(81)

	// WHEN merged
	a.Merge(b)
	a.Merge(nil)

	// THEN counts add up and the table grows to fit
	assert.Equal(t, int64(3), a.Trials())
	assert.Equal(t, int64(2), a.Counts[27])
	assert.Equal(t, int64(81), a.Max())
}

func TestDowntimeDistribution_Print(t *testing.T) {
	d := NewDowntimeDistribution(81)
	d.Observe(27)
	d.Observe(27)
	d.Observe(36)
	d.Observe(45)

	var buf bytes.Buffer
	d.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "=== Downtime Distribution ===")
	assert.Contains(t, out, "  27 min :            2 (50.0000%)")
	assert.Contains(t, out, "  45 min :            1 (25.0000%)")
	assert.NotContains(t, out, "  28 min")
}
