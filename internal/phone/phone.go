// internal/phone/phone.go
// US phone number formatting, validation and E.164 conversion

package phone

import (
	"regexp"
	"strings"
)

// usDisplayPattern matches a fully formatted US number: (123) 456-7890
var usDisplayPattern = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)

// Digits strips every non-digit character from the input.
func Digits(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatUS re-renders free-text input as a US display number, progressively
// as digits accumulate: "5" -> "(5", "5551" -> "(555) 1",
// "5551234567" -> "(555) 123-4567". Input is capped at 10 digits, so the
// function is idempotent over its own output.
func FormatUS(input string) string {
	digits := Digits(input)
	if len(digits) > 10 {
		digits = digits[:10]
	}

	switch {
	case len(digits) == 0:
		return ""
	case len(digits) <= 3:
		return "(" + digits
	case len(digits) <= 6:
		return "(" + digits[:3] + ") " + digits[3:]
	default:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	}
}

// ValidateUS reports whether display is a complete US number in
// "(123) 456-7890" form. Partial input while typing does not validate.
func ValidateUS(display string) bool {
	return usDisplayPattern.MatchString(display)
}

// ToE164 converts a display number to E.164. A digit string that already
// starts with "1" is treated as carrying the country code, so it is not
// prefixed twice. Empty input yields an empty string.
func ToE164(display string) string {
	digits := Digits(display)
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, "1") {
		return "+" + digits
	}
	return "+1" + digits
}

// Mask hides all but the last four digits: "(555) 123-4567" -> "(***) ***-4567".
// Numbers with fewer than ten digits are returned unchanged.
func Mask(raw string) string {
	digits := Digits(raw)
	if len(digits) < 10 {
		return raw
	}
	return "(***) ***-" + digits[len(digits)-4:]
}
