package validation

import (
	"fmt"
	"strings"

	"disasterprep/internal/models"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateCredentials checks that both login fields are present
func ValidateCredentials(c models.Credentials) error {
	if strings.TrimSpace(c.Username) == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if c.Password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	return nil
}

// ValidateAlert checks an alert before it is sent to the server
func ValidateAlert(a models.AlertInput) error {
	if strings.TrimSpace(a.Title) == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(a.Message) == "" {
		return ValidationError{Field: "message", Message: "message is required"}
	}
	if !knownAlertType(a.AlertType) {
		return ValidationError{Field: "alert_type", Message: fmt.Sprintf("unknown alert type %q", a.AlertType)}
	}
	if a.Severity.Rank() == 0 {
		return ValidationError{Field: "severity", Message: fmt.Sprintf("unknown severity %q", a.Severity)}
	}
	return nil
}

func knownAlertType(t models.AlertType) bool {
	for _, known := range models.AlertTypes {
		if known == t {
			return true
		}
	}
	return false
}

// ValidateQuestion checks a single quiz question
func ValidateQuestion(q models.Question) error {
	if strings.TrimSpace(q.Question) == "" {
		return ValidationError{Field: "question", Message: "question text is required"}
	}
	if len(q.Options) != models.OptionsPerQuestion {
		return ValidationError{Field: "options", Message: fmt.Sprintf("exactly %d options are required", models.OptionsPerQuestion)}
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return ValidationError{Field: "options", Message: fmt.Sprintf("option %d is empty", i+1)}
		}
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return ValidationError{Field: "correct", Message: "correct answer must reference one of the options"}
	}
	return nil
}

// ValidateQuiz checks a quiz definition before create or update
func ValidateQuiz(q models.QuizInput) error {
	if strings.TrimSpace(q.Title) == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	if len(q.Questions) == 0 {
		return ValidationError{Field: "questions", Message: "at least one question is required"}
	}
	for i, question := range q.Questions {
		if err := ValidateQuestion(question); err != nil {
			ve := err.(ValidationError)
			ve.Field = fmt.Sprintf("questions[%d].%s", i, ve.Field)
			return ve
		}
	}
	return nil
}

// NormalizeCity trims the city name and rejects blanks
func NormalizeCity(city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", ValidationError{Field: "city", Message: "city is required"}
	}
	return city, nil
}
