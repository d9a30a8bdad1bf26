// ABOUTME: Field validation for records and exercises using validator/v10.
// ABOUTME: Failures surface as *ValidationError with a localized message.
package models

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/fitlog/internal/i18n"
)

// ValidationError reports input rejected before it reaches storage.
type ValidationError struct {
	Field   string
	Key     i18n.Key
	Message string
	// Err is the underlying cause when one exists, e.g. a storage conflict.
	Err error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var fieldKeys = map[string]i18n.Key{
	"ExerciseID": i18n.ErrExerciseRequired,
	"Sets":       i18n.ErrSetsPositive,
	"Reps":       i18n.ErrRepsPositive,
	"GroupIndex": i18n.ErrGroupIndexNegative,
}

// Validator checks models and renders failures in one locale.
type Validator struct {
	validate *validator.Validate
	trans    *i18n.Translator
}

// NewValidator builds a Validator whose messages come from trans.
func NewValidator(trans *i18n.Translator) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// The built-in tables always register; a failure only loses generic messages.
	_ = trans.RegisterValidator(v)

	return &Validator{validate: v, trans: trans}
}

// Translator returns the translator used for messages.
func (v *Validator) Translator() *i18n.Translator {
	return v.trans
}

func (v *Validator) fail(field string, key i18n.Key, params ...string) error {
	return &ValidationError{Field: field, Key: key, Message: v.trans.T(key, params...)}
}

// Record checks the caller-controlled fields of r.
func (v *Validator) Record(r *Record) error {
	if err := v.validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return err
		}
		fe := fieldErrs[0]
		if key, ok := fieldKeys[fe.StructField()]; ok {
			return v.fail(fe.Field(), key)
		}
		return &ValidationError{Field: fe.Field(), Message: v.trans.Translate(fe)}
	}
	if math.IsNaN(r.Weight) || math.IsInf(r.Weight, 0) {
		return v.fail("weight", i18n.ErrWeightInvalid)
	}
	return nil
}

// NewRecord checks a record about to be created.
func (v *Validator) NewRecord(r *Record) error {
	if r.ID != 0 {
		return v.fail("id", i18n.ErrIDMustBeZero)
	}
	return v.Record(r)
}

// ExistingRecord checks a record about to be updated.
func (v *Validator) ExistingRecord(r *Record) error {
	if r.ID == 0 {
		return v.fail("id", i18n.ErrIDMustNotBeZero)
	}
	return v.Record(r)
}

// ExerciseName checks that a name is not blank after trimming.
func (v *Validator) ExerciseName(name string) error {
	if NormalizeName(name) == "" {
		return v.fail("name", i18n.ErrExerciseNameBlank)
	}
	return nil
}

// NewExercise checks an exercise about to be created.
func (v *Validator) NewExercise(e *Exercise) error {
	if e.ID != 0 {
		return v.fail("id", i18n.ErrIDMustBeZero)
	}
	return v.ExerciseName(e.Name)
}

// ExistingExercise checks an exercise about to be renamed.
func (v *Validator) ExistingExercise(e *Exercise) error {
	if e.ID == 0 {
		return v.fail("id", i18n.ErrIDMustNotBeZero)
	}
	return v.ExerciseName(e.Name)
}

// ExerciseMissing builds the error for a reference to an unknown exercise.
func (v *Validator) ExerciseMissing(id int64) error {
	return v.fail("exercise_id", i18n.ErrExerciseNotFound, strconv.FormatInt(id, 10))
}

// DuplicateName builds the error for a name collision caused by cause.
func (v *Validator) DuplicateName(name string, renaming bool, cause error) error {
	key := i18n.ErrExerciseExists
	if renaming {
		key = i18n.ErrExerciseRename
	}
	return &ValidationError{Field: "name", Key: key, Message: v.trans.T(key, name), Err: cause}
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// DefaultValidator returns an English Validator shared by callers that
// do not configure a locale.
func DefaultValidator() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = NewValidator(i18n.MustNew(i18n.DefaultLocale))
	})
	return defaultValidator
}

// Validate checks r with the default English validator.
func Validate(r *Record) error {
	return DefaultValidator().Record(r)
}
