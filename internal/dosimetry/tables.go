package dosimetry

import (
	"fmt"
	"sort"
	"strconv"
)

// Series names shared by every reference table.
const (
	SeriesFS  = "FS"
	SeriesSCP = "SCP_SHEET"
	SeriesSc  = "sc"
	SeriesSp  = "sp"
)

// Table maps a series name (a depth label such as "5", or one of the
// Series* constants) to values aligned index-for-index with the "FS" axis.
type Table map[string][]float64

// Tables is the full reference data set used by an Engine.
type Tables struct {
	TMR Table
	PDD Table
	SCP Table
}

// Validate checks that the field-size axis exists and every series has the
// same length as it.
func (t Table) Validate() error {
	fs, ok := t[SeriesFS]
	if !ok || len(fs) == 0 {
		return fmt.Errorf("table has no %s axis", SeriesFS)
	}
	for name, values := range t {
		if len(values) != len(fs) {
			return fmt.Errorf("series %q has %d values, %s axis has %d", name, len(values), SeriesFS, len(fs))
		}
	}
	return nil
}

// Depths returns the numeric depth labels of a depth-keyed table in
// ascending order.
func (t Table) Depths() []string {
	var depths []string
	for name := range t {
		if _, err := strconv.ParseFloat(name, 64); err == nil {
			depths = append(depths, name)
		}
	}
	sort.Slice(depths, func(i, j int) bool {
		a, _ := strconv.ParseFloat(depths[i], 64)
		b, _ := strconv.ParseFloat(depths[j], 64)
		return a < b
	})
	return depths
}

func (t Table) clone() Table {
	out := make(Table, len(t))
	for name, values := range t {
		out[name] = append([]float64(nil), values...)
	}
	return out
}

// Validate checks all three tables.
func (t Tables) Validate() error {
	if err := t.TMR.Validate(); err != nil {
		return fmt.Errorf("TMR: %w", err)
	}
	if err := t.PDD.Validate(); err != nil {
		return fmt.Errorf("PDD: %w", err)
	}
	if err := t.SCP.Validate(); err != nil {
		return fmt.Errorf("SCP: %w", err)
	}
	return nil
}

// DefaultTables returns a copy of the built-in cobalt-60 reference data.
// Sites replace it with their own calibration through LoadTablesFile.
func DefaultTables() Tables {
	return Tables{
		TMR: tmrSheet.clone(),
		PDD: pddSheet.clone(),
		SCP: scpSheet.clone(),
	}
}

var fieldSizes = []float64{4, 5, 6, 7, 8, 10, 12, 15, 20, 25, 30, 35}

var scpSheet = Table{
	SeriesFS:  fieldSizes,
	SeriesSCP: {0.928, 0.942, 0.956, 0.967, 0.979, 1.000, 1.017, 1.036, 1.059, 1.074, 1.086, 1.093},
	SeriesSc:  {0.962, 0.969, 0.976, 0.982, 0.988, 1.000, 1.009, 1.019, 1.031, 1.039, 1.045, 1.049},
	SeriesSp:  {0.965, 0.972, 0.979, 0.985, 0.991, 1.000, 1.008, 1.017, 1.027, 1.034, 1.039, 1.042},
}

// TMR normalised to dmax (0.5 cm).
var tmrSheet = Table{
	SeriesFS: fieldSizes,
	"1":      {0.970, 0.971, 0.972, 0.972, 0.973, 0.974, 0.974, 0.975, 0.976, 0.977, 0.978, 0.978},
	"2":      {0.914, 0.916, 0.918, 0.920, 0.921, 0.923, 0.925, 0.927, 0.930, 0.933, 0.935, 0.936},
	"3":      {0.861, 0.864, 0.867, 0.870, 0.872, 0.875, 0.878, 0.882, 0.887, 0.890, 0.893, 0.896},
	"4":      {0.810, 0.815, 0.819, 0.822, 0.825, 0.830, 0.834, 0.839, 0.845, 0.850, 0.854, 0.857},
	"5":      {0.763, 0.769, 0.774, 0.778, 0.781, 0.787, 0.792, 0.798, 0.805, 0.811, 0.816, 0.820},
	"6":      {0.719, 0.725, 0.731, 0.735, 0.739, 0.746, 0.752, 0.758, 0.767, 0.774, 0.780, 0.785},
	"7":      {0.677, 0.684, 0.690, 0.695, 0.700, 0.707, 0.713, 0.721, 0.731, 0.739, 0.745, 0.751},
	"8":      {0.637, 0.645, 0.652, 0.657, 0.662, 0.670, 0.677, 0.686, 0.696, 0.705, 0.712, 0.718},
	"9":      {0.600, 0.608, 0.616, 0.621, 0.627, 0.636, 0.643, 0.652, 0.663, 0.673, 0.680, 0.687},
	"10":     {0.565, 0.574, 0.581, 0.588, 0.593, 0.602, 0.610, 0.620, 0.632, 0.642, 0.650, 0.657},
	"11":     {0.532, 0.541, 0.549, 0.556, 0.561, 0.571, 0.579, 0.589, 0.602, 0.612, 0.621, 0.628},
	"12":     {0.501, 0.511, 0.518, 0.525, 0.531, 0.541, 0.550, 0.560, 0.573, 0.584, 0.593, 0.601},
	"13":     {0.472, 0.482, 0.490, 0.497, 0.503, 0.513, 0.522, 0.532, 0.546, 0.557, 0.566, 0.574},
	"14":     {0.444, 0.454, 0.462, 0.470, 0.476, 0.486, 0.495, 0.506, 0.520, 0.532, 0.541, 0.549},
	"15":     {0.418, 0.428, 0.437, 0.444, 0.450, 0.461, 0.470, 0.481, 0.495, 0.507, 0.517, 0.525},
	"16":     {0.394, 0.404, 0.412, 0.420, 0.426, 0.437, 0.446, 0.457, 0.472, 0.483, 0.493, 0.502},
	"17":     {0.371, 0.381, 0.389, 0.397, 0.403, 0.414, 0.423, 0.434, 0.449, 0.461, 0.471, 0.479},
	"18":     {0.349, 0.359, 0.368, 0.375, 0.381, 0.392, 0.401, 0.413, 0.428, 0.440, 0.450, 0.458},
	"19":     {0.329, 0.339, 0.347, 0.355, 0.361, 0.372, 0.381, 0.392, 0.407, 0.419, 0.429, 0.438},
	"20":     {0.310, 0.320, 0.328, 0.335, 0.342, 0.352, 0.361, 0.373, 0.388, 0.400, 0.410, 0.418},
	"21":     {0.292, 0.301, 0.310, 0.317, 0.323, 0.334, 0.343, 0.354, 0.369, 0.381, 0.391, 0.400},
	"22":     {0.274, 0.284, 0.292, 0.300, 0.306, 0.316, 0.325, 0.337, 0.352, 0.363, 0.373, 0.382},
	"23":     {0.258, 0.268, 0.276, 0.283, 0.289, 0.300, 0.309, 0.320, 0.335, 0.346, 0.356, 0.365},
	"24":     {0.243, 0.253, 0.261, 0.268, 0.274, 0.284, 0.293, 0.304, 0.319, 0.330, 0.340, 0.349},
	"25":     {0.229, 0.238, 0.246, 0.253, 0.259, 0.269, 0.278, 0.289, 0.303, 0.315, 0.325, 0.333},
}

// PDD in percent at 80 cm SSD.
var pddSheet = Table{
	SeriesFS: fieldSizes,
	"1":      {96.0, 96.1, 96.2, 96.2, 96.3, 96.4, 96.5, 96.6, 96.8, 96.9, 97.0, 97.1},
	"2":      {88.3, 88.6, 88.8, 89.0, 89.1, 89.4, 89.7, 89.9, 90.3, 90.6, 90.9, 91.1},
	"3":      {81.3, 81.7, 82.0, 82.3, 82.5, 83.0, 83.3, 83.7, 84.3, 84.8, 85.1, 85.4},
	"4":      {74.8, 75.3, 75.8, 76.1, 76.4, 77.0, 77.4, 78.0, 78.7, 79.3, 79.8, 80.2},
	"5":      {68.9, 69.5, 70.0, 70.4, 70.8, 71.5, 72.0, 72.6, 73.5, 74.2, 74.8, 75.2},
	"6":      {63.5, 64.2, 64.7, 65.2, 65.6, 66.3, 66.9, 67.7, 68.7, 69.4, 70.1, 70.6},
	"7":      {58.5, 59.2, 59.8, 60.4, 60.8, 61.6, 62.3, 63.1, 64.2, 65.0, 65.7, 66.3},
	"8":      {53.9, 54.7, 55.3, 55.9, 56.4, 57.2, 57.9, 58.8, 59.9, 60.9, 61.6, 62.3},
	"9":      {49.7, 50.5, 51.2, 51.8, 52.3, 53.2, 53.9, 54.8, 56.0, 57.0, 57.8, 58.5},
	"10":     {45.8, 46.7, 47.4, 48.0, 48.5, 49.4, 50.2, 51.1, 52.4, 53.4, 54.2, 54.9},
	"11":     {42.3, 43.1, 43.8, 44.4, 45.0, 45.9, 46.7, 47.7, 49.0, 50.0, 50.9, 51.6},
	"12":     {39.0, 39.8, 40.6, 41.2, 41.7, 42.7, 43.5, 44.5, 45.8, 46.8, 47.7, 48.5},
	"13":     {36.0, 36.8, 37.6, 38.2, 38.7, 39.7, 40.5, 41.5, 42.8, 43.9, 44.8, 45.6},
	"14":     {33.2, 34.1, 34.8, 35.4, 36.0, 36.9, 37.7, 38.7, 40.1, 41.1, 42.0, 42.8},
	"15":     {30.7, 31.5, 32.2, 32.8, 33.4, 34.3, 35.1, 36.1, 37.5, 38.6, 39.5, 40.3},
	"16":     {28.3, 29.1, 29.8, 30.5, 31.0, 31.9, 32.7, 33.7, 35.1, 36.2, 37.1, 37.8},
	"17":     {26.1, 27.0, 27.7, 28.3, 28.8, 29.7, 30.5, 31.5, 32.8, 33.9, 34.8, 35.6},
	"18":     {24.1, 25.0, 25.6, 26.2, 26.8, 27.7, 28.4, 29.4, 30.7, 31.8, 32.7, 33.5},
	"19":     {22.3, 23.1, 23.8, 24.3, 24.9, 25.8, 26.5, 27.5, 28.8, 29.8, 30.7, 31.5},
	"20":     {20.6, 21.4, 22.0, 22.6, 23.1, 24.0, 24.7, 25.7, 26.9, 28.0, 28.8, 29.6},
	"21":     {19.1, 19.8, 20.4, 21.0, 21.5, 22.3, 23.1, 24.0, 25.2, 26.2, 27.1, 27.8},
	"22":     {17.6, 18.3, 19.0, 19.5, 20.0, 20.8, 21.5, 22.4, 23.6, 24.6, 25.5, 26.2},
	"23":     {16.3, 17.0, 17.6, 18.1, 18.6, 19.4, 20.1, 20.9, 22.1, 23.1, 23.9, 24.6},
	"24":     {15.1, 15.7, 16.3, 16.8, 17.3, 18.0, 18.7, 19.6, 20.7, 21.7, 22.5, 23.2},
	"25":     {13.9, 14.6, 15.1, 15.6, 16.1, 16.8, 17.5, 18.3, 19.4, 20.3, 21.1, 21.8},
}
