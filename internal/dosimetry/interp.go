package dosimetry

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
)

// LookupStatus tells how a table value was resolved.
type LookupStatus int

const (
	LookupExact LookupStatus = iota
	LookupInterpolated
	LookupDepthAveraged
	LookupFailed
)

func (s LookupStatus) String() string {
	switch s {
	case LookupExact:
		return "exact"
	case LookupInterpolated:
		return "interpolated"
	case LookupDepthAveraged:
		return "depth-averaged"
	case LookupFailed:
		return "failed"
	}
	return "unknown"
}

// LookupSentinel is returned when a lookup cannot be resolved. Logged
// calculations were produced with this fallback so it is kept as is.
const LookupSentinel = 1.0

var errMisaligned = errors.New("series does not match field-size axis")

// Lookup resolves fieldSize against the depth series named depthLabel.
// Unresolvable lookups return LookupSentinel.
func Lookup(fieldSize float64, depthLabel string, t Table) float64 {
	v, _ := LookupDetailed(fieldSize, depthLabel, t)
	return v
}

// LookupDetailed is Lookup with the resolution status. A depth label that
// is not tabulated is truncated to an integer d and answered with the mean
// of the d-1 and d+1 series, which must both be tabulated.
// Series are matched on the label text, so "5.0" does not select series
// "5" and is averaged from 4 and 6 like any other untabulated depth; saved
// logs depend on this.
func LookupDetailed(fieldSize float64, depthLabel string, t Table) (float64, LookupStatus) {
	fs, ok := t[SeriesFS]
	if !ok || len(fs) == 0 {
		return LookupSentinel, LookupFailed
	}

	if values, ok := t[depthLabel]; ok {
		v, status, err := lookupSeries(fieldSize, fs, values)
		if err != nil {
			return LookupSentinel, LookupFailed
		}
		return v, status
	}

	d, err := strconv.ParseFloat(strings.TrimSpace(depthLabel), 64)
	if err != nil || math.IsNaN(d) || math.IsInf(d, 0) {
		return LookupSentinel, LookupFailed
	}
	depth := int(d)

	below, okBelow := t[strconv.Itoa(depth-1)]
	above, okAbove := t[strconv.Itoa(depth+1)]
	if !okBelow || !okAbove {
		return LookupSentinel, LookupFailed
	}
	v1, _, err1 := lookupSeries(fieldSize, fs, below)
	v2, _, err2 := lookupSeries(fieldSize, fs, above)
	if err1 != nil || err2 != nil {
		return LookupSentinel, LookupFailed
	}
	return (v1 + v2) / 2.0, LookupDepthAveraged
}

// LookupAtFieldSize returns the value tabulated for fieldSize, linearly
// interpolated between the bracketing axis entries and clamped to the axis
// ends.
func LookupAtFieldSize(fieldSize float64, fsAxis, values []float64) float64 {
	v, _, err := lookupSeries(fieldSize, fsAxis, values)
	if err != nil {
		return LookupSentinel
	}
	return v
}

func lookupSeries(fieldSize float64, fsAxis, values []float64) (float64, LookupStatus, error) {
	if len(fsAxis) == 0 || len(values) != len(fsAxis) {
		return 0, LookupFailed, errMisaligned
	}
	if i := indexOf(fsAxis, fieldSize); i >= 0 {
		return values[i], LookupExact, nil
	}

	x1, x2 := bracket(fieldSize, fsAxis)
	i1, i2 := indexOf(fsAxis, x1), indexOf(fsAxis, x2)
	return interpolate(fieldSize, x1, x2, values[i1], values[i2]), LookupInterpolated, nil
}

// bracket scans the sorted axis for the tightest pair around value. The
// axis ends are used when value lies outside the axis.
func bracket(value float64, axis []float64) (lower, higher float64) {
	sorted := append([]float64(nil), axis...)
	sort.Float64s(sorted)
	lower, higher = sorted[0], sorted[len(sorted)-1]
	for _, x := range sorted {
		if x < value {
			lower = x
		} else if x > value {
			higher = x
			break
		}
	}
	return lower, higher
}

func interpolate(x, x1, x2, y1, y2 float64) float64 {
	if x1 == x2 {
		return y1
	}
	slope := (y2 - y1) / (x2 - x1)
	return y1 + slope*(x-x1)
}

func indexOf(axis []float64, v float64) int {
	for i, x := range axis {
		if x == v {
			return i
		}
	}
	return -1
}
