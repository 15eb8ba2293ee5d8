package dosimetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupAtFieldSize(t *testing.T) {
	axis := []float64{4, 5, 6, 8, 10}
	values := []float64{0.90, 0.92, 0.94, 0.97, 1.00}

	t.Run("exact match", func(t *testing.T) {
		for i, x := range axis {
			assert.Equal(t, values[i], LookupAtFieldSize(x, axis, values))
		}
	})

	t.Run("between entries", func(t *testing.T) {
		v := LookupAtFieldSize(7, axis, values)
		assert.InDelta(t, 0.955, v, 1e-9)
		assert.Greater(t, v, 0.94)
		assert.Less(t, v, 0.97)
	})

	t.Run("no overshoot across the axis", func(t *testing.T) {
		prev := LookupAtFieldSize(4, axis, values)
		for fs := 4.1; fs <= 10; fs += 0.1 {
			v := LookupAtFieldSize(fs, axis, values)
			assert.GreaterOrEqual(t, v, prev-1e-12, "fs=%v", fs)
			assert.LessOrEqual(t, v, 1.0+1e-12)
			prev = v
		}
	})

	t.Run("clamped outside the axis", func(t *testing.T) {
		assert.Equal(t, 0.90, LookupAtFieldSize(2, axis, values))
		assert.Equal(t, 1.00, LookupAtFieldSize(40, axis, values))
	})

	t.Run("unsorted axis", func(t *testing.T) {
		v := LookupAtFieldSize(7, []float64{10, 4, 8, 6}, []float64{1.00, 0.90, 0.97, 0.94})
		assert.InDelta(t, 0.955, v, 1e-9)
	})

	t.Run("misaligned series falls back to sentinel", func(t *testing.T) {
		assert.Equal(t, LookupSentinel, LookupAtFieldSize(5, axis, values[:2]))
		assert.Equal(t, LookupSentinel, LookupAtFieldSize(5, nil, nil))
	})
}

func TestLookupDetailed(t *testing.T) {
	tmr := DefaultTables().TMR

	v, status := LookupDetailed(10, "5", tmr)
	assert.Equal(t, 0.787, v)
	assert.Equal(t, LookupExact, status)

	v, status = LookupDetailed(11, "5", tmr)
	assert.InDelta(t, (0.787+0.792)/2, v, 1e-9)
	assert.Equal(t, LookupInterpolated, status)

	v, status = LookupDetailed(10, "5.5", tmr)
	assert.InDelta(t, (0.830+0.746)/2, v, 1e-9)
	assert.Equal(t, LookupDepthAveraged, status)

	// Labels match textually: "5.0" is not series "5".
	v, status = LookupDetailed(10, "5.0", tmr)
	assert.InDelta(t, (0.830+0.746)/2, v, 1e-9)
	assert.Equal(t, LookupDepthAveraged, status)
}

func TestLookupUntabulatedDepthAveragesNeighbours(t *testing.T) {
	table := Table{
		SeriesFS: {5, 10, 15},
		"2":      {0.90, 0.92, 0.94},
		"4":      {0.80, 0.83, 0.86},
	}
	for _, fs := range []float64{5, 7.5, 10, 12} {
		want := (Lookup(fs, "2", table) + Lookup(fs, "4", table)) / 2
		assert.InDelta(t, want, Lookup(fs, "3", table), 1e-12, "fs=%v", fs)
	}
}

func TestLookupFailuresReturnSentinel(t *testing.T) {
	tmr := DefaultTables().TMR

	tests := []struct {
		name  string
		depth string
		table Table
	}{
		{"no field-size axis", "5", Table{"5": {0.8}}},
		{"empty axis", "5", Table{SeriesFS: {}}},
		{"unparsable depth", "deep", tmr},
		{"neighbours not tabulated", "40", tmr},
		{"misaligned series", "5", Table{SeriesFS: {5, 10}, "5": {0.8}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, status := LookupDetailed(10, tt.depth, tt.table)
			assert.Equal(t, LookupSentinel, v)
			assert.Equal(t, LookupFailed, status)
			assert.Equal(t, "failed", status.String())
		})
	}
}

func TestEngineScatterLookups(t *testing.T) {
	e := NewEngine(DefaultTables())

	assert.Equal(t, 1.0, e.ScpValue(10))
	assert.InDelta(t, 0.973, e.ScpValue(7.5), 1e-9)
	assert.Equal(t, 0.988, e.ScatterValue(8, SeriesSc))
	assert.Equal(t, 0.991, e.ScatterValue(8, SeriesSp))
	assert.Equal(t, 0.0, e.ScatterValue(8, "unknown"))

	noAxis := NewEngine(Tables{SCP: Table{SeriesSCP: {1}}})
	assert.Equal(t, 0.0, noAxis.ScpValue(10))
}

func TestTablesValidate(t *testing.T) {
	require.NoError(t, DefaultTables().Validate())

	err := Table{SeriesFS: {1, 2}, "5": {1}}.Validate()
	assert.ErrorContains(t, err, `series "5"`)

	err = Table{"5": {1}}.Validate()
	assert.ErrorContains(t, err, "no FS axis")
}

func TestDefaultTablesAreCopies(t *testing.T) {
	a := DefaultTables()
	a.TMR["5"][0] = 42
	b := DefaultTables()
	assert.Equal(t, 0.763, b.TMR["5"][0])
}

func TestTableDepths(t *testing.T) {
	depths := Table{SeriesFS: {1}, "10": {1}, "2": {1}, "0.5": {1}}.Depths()
	assert.Equal(t, []string{"0.5", "2", "10"}, depths)
}
