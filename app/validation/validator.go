// Package validation checks feed submissions before anything is fetched.
package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lysyi3m/rss-reader/app/i18n"
)

// Error carries the message id of the first failing rule
type Error struct {
	Field     string
	Rule      string
	MessageID string
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed on %s (%s): %s", e.Field, e.Rule, e.MessageID)
}

type submission struct {
	URL        string `validate:"required,http_url"`
	Subscribed []string
}

var messages = map[string]string{
	"required":     i18n.MsgRequired,
	"http_url":     i18n.MsgInvalidURL,
	"unsubscribed": i18n.MsgDuplicateURL,
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateUnsubscribed, submission{})
	return &Validator{validate: v}
}

// ValidateSubmission checks that rawURL is present, an absolute http(s) URL and not in
// subscribed (exact match). The first failing rule is reported.
func (v *Validator) ValidateSubmission(rawURL string, subscribed []string) error {
	err := v.validate.Struct(submission{URL: rawURL, Subscribed: subscribed})
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return fmt.Errorf("failed to validate submission: %w", err)
	}

	first := fieldErrors[0]
	messageID, ok := messages[first.Tag()]
	if !ok {
		messageID = i18n.MsgInvalidURL
	}

	return &Error{
		Field:     strings.ToLower(first.Field()),
		Rule:      first.Tag(),
		MessageID: messageID,
	}
}

func validateUnsubscribed(sl validator.StructLevel) {
	s := sl.Current().Interface().(submission)
	if s.URL == "" {
		return
	}
	if slices.Contains(s.Subscribed, s.URL) {
		sl.ReportError(s.URL, "URL", "URL", "unsubscribed", "")
	}
}
