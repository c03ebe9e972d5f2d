package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	urlRegex   = regexp.MustCompile(`^(https?://)?(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)$`)
	phoneRegex = regexp.MustCompile(`^[+]*[(]?[0-9]{1,4}[)]?[-\s./0-9]*$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateGenericString checks length bounds on a trimmed string.
func ValidateGenericString(value, name string, min, max int) Validation[string] {
	if len(value) < min || len(value) > max {
		return Invalid[string](fmt.Sprintf("%s must be between %d and %d characters long.", name, min, max))
	}
	return Valid(value)
}

// ValidateStringInArray checks membership in an allowed set,
// case-insensitively, and normalizes to the canonical casing.
func ValidateStringInArray(value string, available []string, name, indefiniteArticle string) Validation[string] {
	if value == "" {
		return Invalid[string](fmt.Sprintf("Please select %s %s.", indefiniteArticle, name))
	}
	for _, candidate := range available {
		if strings.EqualFold(candidate, value) {
			return Valid(candidate)
		}
	}
	return Invalid[string](fmt.Sprintf("%q is not a valid %s.", value, name))
}

// ValidateEmail lowercases and checks shape. Re-validating an already valid
// email yields the identical value.
func ValidateEmail(email string) Validation[string] {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return Invalid[string]("Please enter a valid email.")
	}
	return Valid(email)
}

// ValidateURL lowercases and checks shape.
func ValidateURL(url string) Validation[string] {
	url = strings.ToLower(strings.TrimSpace(url))
	if !urlRegex.MatchString(url) {
		return Invalid[string]("Please enter a valid URL.")
	}
	return Valid(url)
}

// ValidatePhoneNumber checks shape only; no normalization.
func ValidatePhoneNumber(phone string) Validation[string] {
	if !phoneRegex.MatchString(phone) {
		return Invalid[string]("Please enter a valid phone number.")
	}
	return Valid(phone)
}

// ValidateDate parses an RFC 3339 date or datetime and checks optional
// bounds. Both bound violations are reported together.
func ValidateDate(raw string, minDate, maxDate *time.Time) Validation[time.Time] {
	date, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		if date, err = time.Parse("2006-01-02", raw); err != nil {
			return Invalid[time.Time]("Please enter a valid date.")
		}
	}
	var errs []string
	if minDate != nil && date.Before(*minDate) {
		errs = append(errs, fmt.Sprintf("Please select a date on or after %s.", minDate.Format("2006-01-02")))
	}
	if maxDate != nil && date.After(*maxDate) {
		errs = append(errs, fmt.Sprintf("Please select a date earlier than %s.", maxDate.Format("2006-01-02")))
	}
	if len(errs) > 0 {
		return Invalid[time.Time](errs...)
	}
	return Valid(date)
}

// ValidateUUID parses a path or reference identifier.
func ValidateUUID(raw string) Validation[uuid.UUID] {
	id, err := uuid.Parse(raw)
	if err != nil {
		return Invalid[uuid.UUID]("Please provide a valid id.")
	}
	return Valid(id)
}
