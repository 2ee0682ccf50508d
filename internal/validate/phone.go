package validate

import (
	"regexp"
	"strings"
)

// Italian national prefix; the backend stores numbers in +39 form.
const phonePrefix = "+39"

var nonPhoneRe = regexp.MustCompile(`[^\d+]`)

// NormalizePhoneNumber rewrites user input into +39 form, dropping separators
// and capping the total length at 20 characters.
func NormalizePhoneNumber(value string) string {
	if value == "" {
		return ""
	}
	cleaned := nonPhoneRe.ReplaceAllString(value, "")
	switch {
	case cleaned == "":
		return ""
	case strings.HasPrefix(cleaned, phonePrefix):
		// already normalized
	case strings.HasPrefix(cleaned, "39"):
		cleaned = "+" + cleaned
	default:
		cleaned = phonePrefix + strings.TrimPrefix(cleaned, "+")
	}
	if len(cleaned) > 20 {
		cleaned = cleaned[:20]
	}
	return cleaned
}

// PhoneNumber validates an optional phone number: once present it must be in
// +39 form, 13 to 20 characters total.
func PhoneNumber(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	cleaned := nonPhoneRe.ReplaceAllString(value, "")
	if cleaned != "" && !strings.HasPrefix(cleaned, phonePrefix) {
		return "Il numero deve iniziare con +39"
	}
	if cleaned != "" && len(cleaned) < 13 {
		return "Il numero deve contenere almeno 13 caratteri (+39 seguito da 10 cifre)"
	}
	if len(cleaned) > 20 {
		return "Il numero non può superare i 20 caratteri"
	}
	return ""
}

// EnsurePhonePrefix guarantees the +39 prefix before a value is sent to the
// backend. Empty input stays empty, meaning "no phone number".
func EnsurePhonePrefix(phoneNumber string) string {
	trimmed := strings.TrimSpace(phoneNumber)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, phonePrefix) {
		return trimmed
	}
	return phonePrefix + strings.TrimPrefix(trimmed, "+")
}
