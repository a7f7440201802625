package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildQuestions(count, optionsPerQuestion, correctPerQuestion int) []QuestionInput {
	questions := make([]QuestionInput, count)
	for i := range questions {
		options := make([]OptionInput, optionsPerQuestion)
		for j := range options {
			options[j] = OptionInput{
				Text:    fmt.Sprintf("Option %d", j+1),
				Correct: j < correctPerQuestion,
			}
		}
		questions[i] = QuestionInput{
			Text:    fmt.Sprintf("Question %d", i+1),
			Options: options,
		}
	}
	return questions
}

func TestValidateQuestions(t *testing.T) {
	tests := []struct {
		name      string
		questions []QuestionInput
		wantErr   error
	}{
		{"minimum size", buildQuestions(10, 5, 1), nil},
		{"maximum size", buildQuestions(15, 5, 1), nil},
		{"too few questions", buildQuestions(9, 5, 1), ErrQuestionCount},
		{"too many questions", buildQuestions(16, 5, 1), ErrQuestionCount},
		{"empty", nil, ErrQuestionCount},
		{"too few options", buildQuestions(10, 4, 1), ErrOptionCount},
		{"too many options", buildQuestions(10, 6, 1), ErrOptionCount},
		{"no correct option", buildQuestions(10, 5, 0), ErrOneCorrect},
		{"two correct options", buildQuestions(10, 5, 2), ErrOneCorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestions(tt.questions)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	v := NewValidator()

	valid := QuestionInput{
		Text:    "What does iota do?",
		Options: buildQuestions(1, 5, 1)[0].Options,
	}
	assert.NoError(t, v.ValidateStruct(valid))

	invalid := QuestionInput{Text: "", Options: nil}
	assert.Error(t, v.ValidateStruct(invalid))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello \x00 "))
	assert.Equal(t, "", SanitizeString("\x00"))
}
