package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	cellTag   = regexp.MustCompile(`<[^>]*>`)
	cellSpace = regexp.MustCompile(`[\s\x{00A0}]+`)

	// Entities and zero-width marks that survive copy/paste into Sheets.
	cellEntities = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
		"\u200b", "",
		"\ufeff", "",
	)
)

// CleanCell normalizes a raw spreadsheet or API cell value: HTML tags
// stripped, common entities decoded, whitespace collapsed and trimmed.
func CleanCell(s string) string {
	if s == "" {
		return ""
	}
	s = cellEntities.Replace(cellTag.ReplaceAllString(s, ""))
	return strings.TrimSpace(cellSpace.ReplaceAllString(s, " "))
}

// IsBlankCell reports whether a cell carries no usable value. Sheets use "-"
// as a placeholder for "nothing here".
func IsBlankCell(s string) bool {
	s = CleanCell(s)
	return s == "" || s == "-"
}

// ParseAmount parses a monetary cell such as "1,500", "฿ 2,000.50" or "1500 บาท".
// Missing or non-numeric values yield 0 and false.
func ParseAmount(raw string) (float64, bool) {
	num := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, CleanCell(raw))
	if num == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// AmountOrZero is ParseAmount without the ok flag.
func AmountOrZero(raw string) float64 {
	v, _ := ParseAmount(raw)
	return v
}
