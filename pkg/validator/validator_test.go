package validator

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestMissingFieldsAggregation(t *testing.T) {
	var missing MissingFields
	missing.Require("name", "")
	missing.Require("contactNumber", "   ")
	missing.Require("address", "123 Main St")

	assert.False(t, missing.Empty())
	assert.Equal(t, MissingFields{"name", "contactNumber"}, missing)
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("john@example.com"))
	assert.True(t, IsValidEmail("a.b+c@sub.domain.org"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@tld"))
	assert.False(t, IsValidEmail("two words@example.com"))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("555-1234"))
	assert.True(t, IsValidPhone("+1 (555) 123 4567"))
	assert.False(t, IsValidPhone("123"))
	assert.False(t, IsValidPhone("call me"))
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("1990-01-15"))
	assert.False(t, IsValidDate("15/01/1990"))
	assert.False(t, IsValidDate("1990-13-40"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", Sanitize("  hello\t\n"))
	assert.Equal(t, "ab", Sanitize("a\x00b"))

	long := strings.Repeat("x", MaxFieldLength+50)
	assert.Len(t, Sanitize(long), MaxFieldLength)
}

func TestSanitizeTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("€", MaxFieldLength+50)

	got := Sanitize(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, MaxFieldLength, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("€", MaxFieldLength), got)

	// Over the limit in bytes but not in characters: untouched.
	wide := strings.Repeat("€", 334)
	assert.Equal(t, wide, Sanitize(wide))
}
