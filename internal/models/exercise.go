// ABOUTME: Exercise model referenced by records.
// ABOUTME: Names are trimmed and compared case-insensitively.
package models

import "strings"

// Exercise is a named movement that records are logged against.
type Exercise struct {
	ID   int64  `json:"id" yaml:"id" db:"id"`
	Name string `json:"name" yaml:"name" db:"name"`
}

// NewExercise creates an unsaved Exercise with a normalized name.
func NewExercise(name string) *Exercise {
	return &Exercise{Name: NormalizeName(name)}
}

// NormalizeName trims surrounding whitespace from an exercise name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NameKey is the case-insensitive uniqueness key for a name.
func NameKey(name string) string {
	return strings.ToLower(NormalizeName(name))
}
