// Package validation provides field-presence and range checks shared by all
// handlers, so request bodies are validated once and centrally.
package validation

import (
	"regexp"
	"strings"
)

// Violations maps field name to a short violation code.
type Violations map[string]string

// Empty reports whether no violations were recorded.
func (v Violations) Empty() bool { return len(v) == 0 }

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Required records a violation when value is blank.
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// Email records a violation when value does not look like an email address.
// Blank values are left to Required.
func Email(field, value string, v Violations) {
	if value != "" && !emailRegex.MatchString(value) {
		v[field] = "invalid_email"
	}
}

// MinLen records a violation when value is shorter than n runes.
func MinLen(field, value string, n int, v Violations) {
	if len([]rune(value)) < n {
		v[field] = "too_short"
	}
}

// PositiveFloat records a violation unless val > 0.
func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

// NonNegativeFloat records a violation when val < 0.
func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

// NonNegativeInt records a violation when val < 0.
func NonNegativeInt(field string, val int, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

// PositiveInt records a violation unless val > 0.
func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

// NotEmptyList records a violation when the list has no entries.
func NotEmptyList(field string, n int, v Violations) {
	if n == 0 {
		v[field] = "required"
	}
}

// OneOf records a violation unless value is one of the allowed values.
func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "invalid_value"
}
