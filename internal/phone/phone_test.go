// internal/phone/phone_test.go

package phone

import "testing"

func TestFormatUS(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"5", "(5"},
		{"555", "(555"},
		{"5551", "(555) 1"},
		{"555123", "(555) 123"},
		{"5551234", "(555) 123-4"},
		{"5551234567", "(555) 123-4567"},
		{"555123456789", "(555) 123-4567"}, // extra digits dropped
		{"(555) 123-4567", "(555) 123-4567"},
		{"555-123-4567", "(555) 123-4567"},
		{"abc555def1234567", "(555) 123-4567"},
	}

	for _, tt := range tests {
		if got := FormatUS(tt.input); got != tt.want {
			t.Errorf("FormatUS(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatUSIdempotent(t *testing.T) {
	inputs := []string{"", "5", "55512", "5551234567", "(555) 123-4567", "+1 555 123 4567", "garbage"}

	for _, in := range inputs {
		once := FormatUS(in)
		twice := FormatUS(once)
		if once != twice {
			t.Errorf("FormatUS not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestValidateUS(t *testing.T) {
	valid := []string{"(555) 123-4567", "(000) 000-0000"}
	for _, v := range valid {
		if !ValidateUS(v) {
			t.Errorf("ValidateUS(%q) = false, want true", v)
		}
	}

	invalid := []string{"", "5551234567", "(555) 123-456", "(555)123-4567", "(555) 123-45678", "555-123-4567"}
	for _, v := range invalid {
		if ValidateUS(v) {
			t.Errorf("ValidateUS(%q) = true, want false", v)
		}
	}
}

func TestToE164(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"(555) 123-4567", "+15551234567"},
		{"5551234567", "+15551234567"},
		// 11 digits already starting with 1: no double country code
		{"15551234567", "+15551234567"},
		{"1 (555) 123-4567", "+15551234567"},
	}

	for _, tt := range tests {
		if got := ToE164(tt.input); got != tt.want {
			t.Errorf("ToE164(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMask(t *testing.T) {
	if got := Mask("(555) 123-4567"); got != "(***) ***-4567" {
		t.Errorf("Mask = %q, want (***) ***-4567", got)
	}
	if got := Mask("555123"); got != "555123" {
		t.Errorf("Mask should leave short numbers unchanged, got %q", got)
	}
}
