// Package validate provides the shared field validators used by every store
// and surface. All failures are criterio field errors so callers can detect
// them with IsValidation.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hay-kot/criterio"
)

const (
	MinSessionMinutes     = 1
	MaxSessionMinutes     = 480
	DefaultSessionMinutes = 25
)

// Field wraps err as a field error for field.
func Field(field string, err error) error {
	return criterio.NewFieldErrors(field, err)
}

// Fieldf is Field with a formatted message.
func Fieldf(field, format string, args ...any) error {
	return criterio.NewFieldErrors(field, fmt.Errorf(format, args...))
}

// IsValidation reports whether err carries field errors.
func IsValidation(err error) bool {
	var fe criterio.FieldErrors
	return errors.As(err, &fe)
}

// Required validates s is non-empty after trimming whitespace.
func Required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

// Title trims a task or idea title and rejects blanks.
func Title(title string) (string, error) {
	if err := criterio.Run("title", title, Required); err != nil {
		return "", err
	}
	return strings.TrimSpace(title), nil
}

// SessionLength validates an explicit session length in minutes.
func SessionLength(minutes int) error {
	if minutes < MinSessionMinutes || minutes > MaxSessionMinutes {
		return fmt.Errorf("must be between %d and %d minutes, got %d", MinSessionMinutes, MaxSessionMinutes, minutes)
	}
	return nil
}

// OptionalSessionLength validates a session length pointer; nil is allowed.
func OptionalSessionLength(minutes *int) error {
	if minutes == nil {
		return nil
	}
	if err := SessionLength(*minutes); err != nil {
		return Field("session_length_minutes", err)
	}
	return nil
}

// InSessionRange reports whether minutes is a usable session length.
func InSessionRange(minutes int) bool {
	return SessionLength(minutes) == nil
}

// ReferenceURL trims raw and returns nil for blank input. Anything else must
// be an absolute http or https URL with a host.
func ReferenceURL(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}

	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, Fieldf("reference_url", "invalid url %q", trimmed)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, Fieldf("reference_url", "must use http or https, got %q", trimmed)
	}

	if u.Host == "" {
		return nil, Fieldf("reference_url", "must include a host, got %q", trimmed)
	}

	return &trimmed, nil
}
