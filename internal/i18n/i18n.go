// ABOUTME: Localized message lookup for user-facing domain errors.
// ABOUTME: A closed set of keys resolved per locale through universal-translator.
package i18n

import (
	"fmt"
	"sort"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/tr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	trTranslations "github.com/go-playground/validator/v10/translations/tr"
)

// DefaultLocale is used when no locale is configured or the configured one is unknown.
const DefaultLocale = "en"

// Key identifies a localized message.
type Key string

const (
	ErrSetsPositive       Key = "error_sets_positive"
	ErrSetsEmpty          Key = "error_sets_empty"
	ErrSetsFormat         Key = "error_sets_format"
	ErrSetsWholeNumber    Key = "error_sets_whole_number"
	ErrRepsPositive       Key = "error_reps_positive"
	ErrRepsEmpty          Key = "error_reps_empty"
	ErrRepsFormat         Key = "error_reps_format"
	ErrRepsWholeNumber    Key = "error_reps_whole_number"
	ErrWeightInvalid      Key = "error_weight_invalid"
	ErrWeightEmpty        Key = "error_weight_empty"
	ErrWeightFormat       Key = "error_weight_format"
	ErrExerciseRequired   Key = "error_exercise_required"
	ErrExerciseNotFound   Key = "error_exercise_not_found"
	ErrExerciseNameBlank  Key = "error_exercise_name_blank"
	ErrExerciseExists     Key = "error_exercise_exists"
	ErrExerciseRename     Key = "error_exercise_rename_conflict"
	ErrIDMustBeZero       Key = "error_id_must_be_zero"
	ErrIDMustNotBeZero    Key = "error_id_must_not_be_zero"
	ErrRecordNotFound     Key = "error_record_not_found"
	ErrGroupIndexNegative Key = "error_group_index_negative"
)

var messages = map[string]map[Key]string{
	"en": {
		ErrSetsPositive:       "Sets must be greater than 0",
		ErrSetsEmpty:          "Sets cannot be empty",
		ErrSetsFormat:         "Invalid sets format",
		ErrSetsWholeNumber:    "Sets must be a whole number",
		ErrRepsPositive:       "Reps must be greater than 0",
		ErrRepsEmpty:          "Reps cannot be empty",
		ErrRepsFormat:         "Invalid reps format",
		ErrRepsWholeNumber:    "Reps must be a whole number",
		ErrWeightInvalid:      "Invalid weight value",
		ErrWeightEmpty:        "Weight cannot be empty",
		ErrWeightFormat:       "Invalid weight format",
		ErrExerciseRequired:   "An exercise must be selected",
		ErrExerciseNotFound:   "Exercise with ID {0} does not exist.",
		ErrExerciseNameBlank:  "Exercise name cannot be empty or blank",
		ErrExerciseExists:     "Exercise with name '{0}' already exists.",
		ErrExerciseRename:     "Exercise name '{0}' is already used by another exercise.",
		ErrIDMustBeZero:       "New entries must have an ID of 0. Use update for existing entries.",
		ErrIDMustNotBeZero:    "Entries to update must have a non-zero ID. Use create for new entries.",
		ErrRecordNotFound:     "Record with ID {0} does not exist.",
		ErrGroupIndexNegative: "Group index must not be negative",
	},
	"tr": {
		ErrSetsPositive:       "Set sayısı 0'dan büyük olmalıdır",
		ErrSetsEmpty:          "Setler boş olamaz",
		ErrSetsFormat:         "Geçersiz set formatı",
		ErrSetsWholeNumber:    "Setler tam sayı olmalıdır",
		ErrRepsPositive:       "Tekrar sayısı 0'dan büyük olmalıdır",
		ErrRepsEmpty:          "Tekrarlar boş olamaz",
		ErrRepsFormat:         "Geçersiz tekrar formatı",
		ErrRepsWholeNumber:    "Tekrarlar tam sayı olmalıdır",
		ErrWeightInvalid:      "Geçersiz ağırlık değeri",
		ErrWeightEmpty:        "Ağırlık boş olamaz",
		ErrWeightFormat:       "Geçersiz ağırlık formatı",
		ErrExerciseRequired:   "Bir egzersiz seçilmelidir",
		ErrExerciseNotFound:   "{0} kimlikli egzersiz bulunamadı.",
		ErrExerciseNameBlank:  "Egzersiz adı boş olamaz",
		ErrExerciseExists:     "'{0}' adında bir egzersiz zaten var.",
		ErrExerciseRename:     "'{0}' adı başka bir egzersiz tarafından kullanılıyor.",
		ErrIDMustBeZero:       "Yeni kayıtların kimliği 0 olmalıdır. Mevcut kayıtlar için güncellemeyi kullanın.",
		ErrIDMustNotBeZero:    "Güncellenecek kayıtların kimliği 0 olmamalıdır. Yeni kayıtlar için oluşturmayı kullanın.",
		ErrRecordNotFound:     "{0} kimlikli kayıt bulunamadı.",
		ErrGroupIndexNegative: "Grup indeksi negatif olamaz",
	},
}

// Translator resolves message keys for one locale.
type Translator struct {
	trans    ut.Translator
	fallback map[Key]string
}

// Supported returns the available locale codes.
func Supported() []string {
	codes := make([]string, 0, len(messages))
	for code := range messages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// IsSupported reports whether a locale code has a message table.
func IsSupported(locale string) bool {
	_, ok := messages[locale]
	return ok
}

// New builds a Translator for locale, falling back to English for unknown codes.
func New(locale string) (*Translator, error) {
	if !IsSupported(locale) {
		locale = DefaultLocale
	}

	uni := ut.New(en.New(), en.New(), tr.New())
	trans, _ := uni.GetTranslator(locale)

	for key, text := range messages[locale] {
		if err := trans.Add(key, text, true); err != nil {
			return nil, fmt.Errorf("add %s translation %q: %w", locale, key, err)
		}
	}

	return &Translator{trans: trans, fallback: messages[DefaultLocale]}, nil
}

// MustNew is New for the built-in tables, which cannot fail to register.
func MustNew(locale string) *Translator {
	t, err := New(locale)
	if err != nil {
		panic(err)
	}
	return t
}

// Locale returns the resolved locale code.
func (t *Translator) Locale() string {
	return t.trans.Locale()
}

// T returns the message for key with {0}, {1}... replaced by params.
func (t *Translator) T(key Key, params ...string) string {
	s, err := t.trans.T(key, params...)
	if err == nil {
		return s
	}
	text, ok := t.fallback[key]
	if !ok {
		return string(key)
	}
	return text
}

// Universal exposes the underlying translator, e.g. for number formatting.
func (t *Translator) Universal() locales.Translator {
	return t.trans
}

// RegisterValidator installs the locale's default validator messages.
func (t *Translator) RegisterValidator(v *validator.Validate) error {
	var err error
	switch t.Locale() {
	case "tr":
		err = trTranslations.RegisterDefaultTranslations(v, t.trans)
	default:
		err = enTranslations.RegisterDefaultTranslations(v, t.trans)
	}
	if err != nil {
		return fmt.Errorf("register validator translations: %w", err)
	}
	return nil
}

// Translate renders a validator field error in this locale.
func (t *Translator) Translate(fe validator.FieldError) string {
	return fe.Translate(t.trans)
}
