package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

// ValidationError represents a structured validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects multiple field errors so every violated rule
// is reported together, not just the first.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve *ValidationErrors) Add(field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{Field: field, Message: message})
}

func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

func (ve *ValidationErrors) Error() string {
	msgs := make([]string, len(ve.Errors))
	for i, e := range ve.Errors {
		msgs[i] = e.Field + ": " + e.Message
	}
	return strings.Join(msgs, "; ")
}

// Err returns the collected errors as an error value, or nil if none.
func (ve *ValidationErrors) Err() error {
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// RequireField checks a required string field is non-empty.
func RequireField(ve *ValidationErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		ve.Add(field, "is required")
	}
}

// ValidateEnum checks a field is one of allowed values. Matching is
// case-sensitive exact, as callers read these values verbatim.
func ValidateEnum(ve *ValidationErrors, field, value string, allowed []string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	ve.Add(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
}

// ValidateDate checks a field is a valid date (YYYY-MM-DD).
func ValidateDate(ve *ValidationErrors, field, value string) {
	if value == "" {
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		ve.Add(field, "must be a valid date (YYYY-MM-DD)")
	}
}

// ValidateDateOrder checks end >= start when both parse as dates.
func ValidateDateOrder(ve *ValidationErrors, startField, start, endField, end string) {
	s, err1 := time.Parse("2006-01-02", start)
	e, err2 := time.Parse("2006-01-02", end)
	if err1 != nil || err2 != nil {
		return
	}
	if e.Before(s) {
		ve.Add(endField, "must be on or after "+startField)
	}
}

// ValidatePositiveInt checks a field is > 0.
func ValidatePositiveInt(ve *ValidationErrors, field string, value int) {
	if value <= 0 {
		ve.Add(field, "must be a positive integer")
	}
}

// ValidateNonNegativeInt checks a field is >= 0.
func ValidateNonNegativeInt(ve *ValidationErrors, field string, value int) {
	if value < 0 {
		ve.Add(field, "must be non-negative")
	}
}

// ValidateIntRange checks a field is within a specified range.
func ValidateIntRange(ve *ValidationErrors, field string, value, min, max int) {
	if value < min || value > max {
		ve.Add(field, fmt.Sprintf("must be between %d and %d", min, max))
	}
}

// ValidateMaxLength checks a string field doesn't exceed max characters.
func ValidateMaxLength(ve *ValidationErrors, field, value string, max int) {
	if len(value) > max {
		ve.Add(field, fmt.Sprintf("must be %d characters or less", max))
	}
}

// ValidateEmail checks a field parses as an email address.
func ValidateEmail(ve *ValidationErrors, field, value string) {
	if value == "" {
		ve.Add(field, "is required")
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		ve.Add(field, "must be a valid email address")
	}
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateUsername checks a username is at least 3 chars of [a-zA-Z0-9_].
func ValidateUsername(ve *ValidationErrors, field, value string) {
	if value == "" {
		ve.Add(field, "is required")
		return
	}
	if len(value) < 3 {
		ve.Add(field, "must be at least 3 characters long")
		return
	}
	if !usernameRe.MatchString(value) {
		ve.Add(field, "can only contain letters, numbers, and underscores")
	}
}

// MinPasswordLength is the portal-wide minimum credential length.
const MinPasswordLength = 6

// ValidatePassword checks minimum password length.
func ValidatePassword(ve *ValidationErrors, field, value string) {
	if value == "" {
		ve.Add(field, "is required")
		return
	}
	if len(value) < MinPasswordLength {
		ve.Add(field, fmt.Sprintf("must be at least %d characters long", MinPasswordLength))
	}
}
