package util

import (
	"regexp"
	"strings"
)

var (
	// thaiMobilePattern matches a Thai mobile or landline number written with a
	// leading zero and 8-9 further digits, separators already removed.
	thaiMobilePattern = regexp.MustCompile(`^0\d{8,9}$`)
	// phoneSeparatorPattern matches characters people put between phone digits.
	phoneSeparatorPattern = regexp.MustCompile(`[-\s().]`)
)

// DigitsOnly drops every non-digit rune.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone returns the canonical digit string used to match the same
// number across sources: non-digits removed and a single leading zero
// stripped, so "089-123-4567", "0891234567" and "891234567" compare equal.
func NormalizePhone(s string) string {
	digits := DigitsOnly(s)
	return strings.TrimPrefix(digits, "0")
}

// SamePhone reports whether two raw phone strings refer to the same number.
// Empty numbers never match.
func SamePhone(a, b string) bool {
	na, nb := NormalizePhone(a), NormalizePhone(b)
	return na != "" && na == nb
}

// IsThaiMobile reports whether s looks like a Thai phone number once
// separators are removed.
func IsThaiMobile(s string) bool {
	return thaiMobilePattern.MatchString(phoneSeparatorPattern.ReplaceAllString(strings.TrimSpace(s), ""))
}

// FormatThaiPhone renders a 10-digit number as 089-123-4567. Other lengths
// are returned with separators stripped.
func FormatThaiPhone(s string) string {
	clean := phoneSeparatorPattern.ReplaceAllString(strings.TrimSpace(s), "")
	if len(clean) != 10 {
		return clean
	}
	return clean[:3] + "-" + clean[3:6] + "-" + clean[6:]
}
