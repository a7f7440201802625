package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Quiz structural limits enforced at the request boundary.
const (
	MinQuestionsPerActivity = 10
	MaxQuestionsPerActivity = 15
	OptionsPerQuestion      = 5
)

var (
	ErrQuestionCount = fmt.Errorf("an evaluation activity requires between %d and %d questions", MinQuestionsPerActivity, MaxQuestionsPerActivity)
	ErrOptionCount   = fmt.Errorf("each question requires exactly %d options", OptionsPerQuestion)
	ErrOneCorrect    = errors.New("each question must have exactly one correct option")
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// QuestionInput is the boundary shape of a quiz question.
type QuestionInput struct {
	Text    string        `json:"text" validate:"required,min=1,max=255"`
	Options []OptionInput `json:"options" validate:"required,len=5,dive"`
}

// OptionInput is the boundary shape of a question option.
type OptionInput struct {
	Text    string `json:"text" validate:"required,min=1,max=255"`
	Correct bool   `json:"correct"`
}

// ValidateQuestions applies the structural quiz rules the struct tags cannot
// express: question count bounds, option count, and the single-correct rule.
func ValidateQuestions(questions []QuestionInput) error {
	if len(questions) < MinQuestionsPerActivity || len(questions) > MaxQuestionsPerActivity {
		return ErrQuestionCount
	}
	for _, q := range questions {
		if len(q.Options) != OptionsPerQuestion {
			return ErrOptionCount
		}
		correct := 0
		for _, o := range q.Options {
			if o.Correct {
				correct++
			}
		}
		if correct != 1 {
			return ErrOneCorrect
		}
	}
	return nil
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errs[field] = fmt.Sprintf("%s is required", e.Field())
			case "email":
				errs[field] = "Invalid email format"
			case "min":
				errs[field] = fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
			case "max":
				errs[field] = fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
			case "len":
				errs[field] = fmt.Sprintf("%s must have exactly %s elements", e.Field(), e.Param())
			default:
				errs[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errs
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.TrimSpace(s)
	return s
}
