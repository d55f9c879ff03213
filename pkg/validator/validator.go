package validator

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// MaxFieldLength bounds every stored free-text field.
const MaxFieldLength = 1000

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^[0-9()+\- ]{4,}$`)
)

// MissingFields collects required-field violations so callers can report
// every missing field in a single error instead of failing one at a time.
type MissingFields []string

// Require records the field as missing when the value is empty or blank.
func (m *MissingFields) Require(field, value string) {
	if strings.TrimSpace(value) == "" {
		*m = append(*m, field)
	}
}

func (m MissingFields) Empty() bool {
	return len(m) == 0
}

// IsValidEmail reports whether s has a local@domain.tld shape.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidPhone accepts digits, spaces, hyphens, parentheses and a plus
// sign, at least 4 characters long.
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// IsValidDate reports whether s parses as a YYYY-MM-DD calendar date.
func IsValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// Sanitize trims surrounding whitespace, strips control characters and
// truncates to MaxFieldLength characters. Truncation never splits a rune,
// so the result is always valid UTF-8.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	if utf8.RuneCountInString(s) > MaxFieldLength {
		runes := []rune(s)
		s = string(runes[:MaxFieldLength])
	}
	return s
}
