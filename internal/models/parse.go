// ABOUTME: Lenient parsing of typed-in sets, reps and weight values.
// ABOUTME: Accepts forms like "01" and "5.0" and rejects the rest with localized errors.
package models

import (
	"math"
	"strconv"
	"strings"

	"github.com/harperreed/fitlog/internal/i18n"
)

type countKeys struct {
	field                          string
	empty, format, whole, positive i18n.Key
}

var (
	setsKeys = countKeys{"sets", i18n.ErrSetsEmpty, i18n.ErrSetsFormat, i18n.ErrSetsWholeNumber, i18n.ErrSetsPositive}
	repsKeys = countKeys{"reps", i18n.ErrRepsEmpty, i18n.ErrRepsFormat, i18n.ErrRepsWholeNumber, i18n.ErrRepsPositive}
)

// ParseSets reads a set count. "01" gives 1 and "5.0" gives 5.
func (v *Validator) ParseSets(input string) (int, error) {
	return v.parseCount(input, setsKeys)
}

// ParseReps reads a rep count with the same rules as ParseSets.
func (v *Validator) ParseReps(input string) (int, error) {
	return v.parseCount(input, repsKeys)
}

// Sets checks a numeric set count that must be a positive whole number.
func (v *Validator) Sets(n float64) (int, error) {
	return v.count(n, setsKeys)
}

// Reps checks a numeric rep count that must be a positive whole number.
func (v *Validator) Reps(n float64) (int, error) {
	return v.count(n, repsKeys)
}

// ParseWeight reads a weight. Negative values are allowed.
func (v *Validator) ParseWeight(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, v.fail("weight", i18n.ErrWeightEmpty)
	}
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, v.fail("weight", i18n.ErrWeightFormat)
	}
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return 0, v.fail("weight", i18n.ErrWeightInvalid)
	}
	return w, nil
}

func (v *Validator) parseCount(input string, k countKeys) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, v.fail(k.field, k.empty)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, v.fail(k.field, k.format)
	}
	return v.count(n, k)
}

func (v *Validator) count(n float64, k countKeys) (int, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) || n > math.MaxInt32 {
		return 0, v.fail(k.field, k.format)
	}
	if n != math.Trunc(n) {
		return 0, v.fail(k.field, k.whole)
	}
	if n <= 0 {
		return 0, v.fail(k.field, k.positive)
	}
	return int(n), nil
}
