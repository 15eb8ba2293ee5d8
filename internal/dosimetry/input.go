package dosimetry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

// InputError reports an operator-entered field that cannot be used.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// ParsePositive parses a required field that must be a finite number
// greater than zero.
func ParsePositive(field, text string) (float64, error) {
	v, err := parseNumber(field, text)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, &InputError{Field: field, Reason: "must be greater than zero"}
	}
	return v, nil
}

// ParseOptional parses an optional non-negative field; empty text is 0.
func ParseOptional(field, text string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	v, err := parseNumber(field, text)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, &InputError{Field: field, Reason: "must not be negative"}
	}
	return v, nil
}

func parseNumber(field, text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, &InputError{Field: field, Reason: "is required"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InputError{Field: field, Reason: "must be a valid number"}
	}
	return v, nil
}

// FieldInput is the geometry and prescription shared by the field
// calculations.
type FieldInput struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Depth      float64 `json:"depth"`
	DepthLabel string  `json:"depth_label"`
	Dose       float64 `json:"dose"`
}

// ParseFieldInput reads X, Y, Depth and Dose. The depth text is kept as the
// table label.
func ParseFieldInput(f map[string]string) (FieldInput, error) {
	var in FieldInput
	var err error
	if in.X, err = ParsePositive("X", f["X"]); err != nil {
		return FieldInput{}, err
	}
	if in.Y, err = ParsePositive("Y", f["Y"]); err != nil {
		return FieldInput{}, err
	}
	if math.IsInf(in.X*in.Y, 0) || math.IsInf(in.X+in.Y, 0) {
		return FieldInput{}, &InputError{Field: "X·Y", Reason: "is too large"}
	}
	if in.Depth, err = ParsePositive("Depth", f["Depth"]); err != nil {
		return FieldInput{}, err
	}
	if in.Dose, err = ParsePositive("Dose", f["Dose"]); err != nil {
		return FieldInput{}, err
	}
	in.DepthLabel = strings.TrimSpace(f["Depth"])
	return in, nil
}

// ParseBlockedArea reads the optional blocked area and rejects areas that
// leave no open field.
func ParseBlockedArea(f map[string]string, x, y float64) (float64, error) {
	area, err := ParseOptional("BlockedArea", f["BlockedArea"])
	if err != nil {
		return 0, err
	}
	if area >= x*y {
		return 0, &InputError{Field: "BlockedArea", Reason: "must be smaller than the field area X·Y"}
	}
	return area, nil
}

// LookupWarning describes a lookup that fell back to LookupSentinel, or
// returns "" when the value was resolved.
func LookupWarning(quantity string, fieldSize float64, depth string, status LookupStatus) string {
	if status != LookupFailed {
		return ""
	}
	return fmt.Sprintf("%s not tabulated for field %s cm at depth %s; %.1f used", quantity, FormatFieldSize(fieldSize), depth, LookupSentinel)
}
