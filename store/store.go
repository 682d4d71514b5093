// Package store implements the guest, profile and resume data layer on top
// of GORM. All mutations are short single- or few-row transactions; the
// stores hold no state besides the database handle.
package store

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrNotFound reports that the operation target id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a state conflict, e.g. deleting the current resume.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports a malformed or missing input field. It is always
// returned before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validEmail(s string) bool {
	return emailRE.MatchString(s)
}

func validAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// ensureScheme prefixes https:// when the value carries no scheme, matching
// what visitors tend to paste ("linkedin.com/in/x").
func ensureScheme(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "http") {
		return s
	}
	return "https://" + s
}

// isUniqueViolation detects unique-constraint failures across postgres and
// sqlite without depending on driver error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}
