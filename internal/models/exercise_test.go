// ABOUTME: Tests for the Exercise model and name normalization.
// ABOUTME: Names are trimmed and keyed case-insensitively.
package models

import "testing"

func TestNewExerciseTrimsName(t *testing.T) {
	e := NewExercise("  Bench Press\t")
	if e.Name != "Bench Press" {
		t.Errorf("Name = %q, want %q", e.Name, "Bench Press")
	}
	if e.ID != 0 {
		t.Errorf("ID = %d, want 0", e.ID)
	}
}

func TestNameKey(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"Squat", "squat"},
		{" DEADLIFT ", "deadlift"},
		{"Pull Up", "pull up"},
	}

	for _, tt := range tests {
		if NameKey(tt.a) != NameKey(tt.b) {
			t.Errorf("NameKey(%q) != NameKey(%q)", tt.a, tt.b)
		}
	}
	if NameKey("Squat") == NameKey("Squats") {
		t.Error("distinct names should have distinct keys")
	}
}
