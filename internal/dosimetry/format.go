package dosimetry

import "strconv"

// Display precision is fixed per quantity and independent of locale.

func FormatFieldSize(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
func FormatFactor(v float64) string    { return strconv.FormatFloat(v, 'f', 4, 64) }
func FormatPercent(v float64) string   { return strconv.FormatFloat(v, 'f', 2, 64) }
func FormatTime(v float64) string      { return strconv.FormatFloat(v, 'f', 2, 64) }
func FormatDose(v float64) string      { return strconv.FormatFloat(v, 'f', 2, 64) }
