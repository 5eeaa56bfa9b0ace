// Package phone normalizes and validates Indian mobile numbers.
package phone

import (
	"strings"
	"unicode"
)

const countryCode = "91"

// Format strips spaces and punctuation and prefixes the domestic country
// code. A bare 10-digit number is assumed domestic; a 12-digit number that
// already carries the country code only gains the leading plus. Anything
// else is returned unchanged and will fail IsValid. Format is idempotent.
func Format(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10:
		return "+" + countryCode + digits
	case len(digits) == 12 && strings.HasPrefix(digits, countryCode):
		return "+" + digits
	default:
		return raw
	}
}

// IsValid reports whether p is a fully normalized domestic number:
// the +91 prefix followed by exactly 10 digits.
func IsValid(p string) bool {
	if !strings.HasPrefix(p, "+"+countryCode) {
		return false
	}

	rest := p[len("+"+countryCode):]
	if len(rest) != 10 {
		return false
	}
	for _, r := range rest {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}
