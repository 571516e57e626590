package notification

import "strings"

// NormalizePhone strips everything but digits and replaces a leading local
// trunk "0" with countryCode. It reports false when the result is shorter than minLength.
func NormalizePhone(raw, countryCode string, minLength int) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, "0") {
		digits = countryCode + digits[1:]
	}
	if digits == "" || len(digits) < minLength {
		return "", false
	}
	return digits, true
}
