// Package columns locates the columns of loosely structured spreadsheet
// tabs by matching header text against known Thai and English keywords.
package columns

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/util"
)

// ErrColumnsNotFound is returned when a required column cannot be located.
var ErrColumnsNotFound = errors.New("required columns not found")

// sheetLetterPattern matches the A, B, ..., AS labels some tabs carry as a
// first row above the real headers.
var sheetLetterPattern = regexp.MustCompile(`^[A-Z]{1,3}$`)

// Field names used across resolvers.
const (
	Name    = "name"
	Phone   = "phone"
	Status  = "status"
	Remarks = "remarks"
	Product = "product"
	Doctor  = "doctor"
	Person  = "person"
	Date    = "date"
	Time    = "time"
	Amount  = "amount"
)

// Rule describes how to recognize one column.
type Rule struct {
	Field    string
	Exact    []string // compared case-insensitively after trimming
	Contains []string // substrings, checked only when no exact match exists
	AllOf    []string // every substring must appear
	Required bool
}

// Layout is the resolved header row plus the index of every located field.
type Layout struct {
	Headers    []string
	HeaderRow  int // 0-based index of the header row in the sheet
	Index      map[string]int
	DataOffset int // 0-based index of the first data row
}

// NotFoundError lists the missing fields and what the sheet offered.
type NotFoundError struct {
	Missing   []string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s (available headers: %s)",
		ErrColumnsNotFound, strings.Join(e.Missing, ", "), strings.Join(e.Available, " | "))
}

func (e *NotFoundError) Unwrap() error { return ErrColumnsNotFound }

// Resolve finds the header row and applies the rules to it. Each column is
// claimed by at most one field; rules are applied in order, exact matches
// before substring matches.
func Resolve(rows [][]string, rules []Rule) (Layout, error) {
	if len(rows) == 0 {
		return Layout{}, &NotFoundError{Missing: requiredFields(rules)}
	}
	headerRow := DetectHeaderRow(rows)
	headers := make([]string, len(rows[headerRow]))
	for i, h := range rows[headerRow] {
		headers[i] = util.CleanCell(h)
	}

	layout := Layout{
		Headers:    headers,
		HeaderRow:  headerRow,
		Index:      make(map[string]int, len(rules)),
		DataOffset: headerRow + 1,
	}
	claimed := make(map[int]bool, len(rules))
	var missing []string

	for _, rule := range rules {
		idx := findExact(headers, rule, claimed)
		if idx < 0 {
			idx = findFuzzy(headers, rule, claimed)
		}
		if idx < 0 {
			if rule.Required {
				missing = append(missing, rule.Field)
			}
			continue
		}
		claimed[idx] = true
		layout.Index[rule.Field] = idx
	}
	if len(missing) > 0 {
		return layout, &NotFoundError{Missing: missing, Available: headers}
	}
	return layout, nil
}

// DetectHeaderRow returns 1 when every non-empty cell of the first row is a
// sheet column letter (A, B, AS...) and a second row exists, otherwise 0.
func DetectHeaderRow(rows [][]string) int {
	if len(rows) < 2 {
		return 0
	}
	letters := 0
	for _, cell := range rows[0] {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if !sheetLetterPattern.MatchString(cell) {
			return 0
		}
		letters++
	}
	if letters == 0 {
		return 0
	}
	return 1
}

// Cell returns the cleaned value of field in row, or "" when the field was
// not resolved or the row is short.
func (l Layout) Cell(row []string, field string) string {
	idx, ok := l.Index[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return util.CleanCell(row[idx])
}

// Has reports whether field was located.
func (l Layout) Has(field string) bool {
	_, ok := l.Index[field]
	return ok
}

// DataRows returns the rows after the header.
func (l Layout) DataRows(rows [][]string) [][]string {
	if l.DataOffset >= len(rows) {
		return nil
	}
	return rows[l.DataOffset:]
}

func findExact(headers []string, rule Rule, claimed map[int]bool) int {
	for i, h := range headers {
		if claimed[i] {
			continue
		}
		lower := strings.ToLower(h)
		for _, want := range rule.Exact {
			if lower == strings.ToLower(want) {
				return i
			}
		}
	}
	return -1
}

func findFuzzy(headers []string, rule Rule, claimed map[int]bool) int {
	for i, h := range headers {
		if claimed[i] || h == "" {
			continue
		}
		lower := strings.ToLower(h)
		if len(rule.AllOf) > 0 && containsAll(lower, rule.AllOf) {
			return i
		}
		for _, sub := range rule.Contains {
			if strings.Contains(lower, strings.ToLower(sub)) {
				return i
			}
		}
	}
	return -1
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, strings.ToLower(sub)) {
			return false
		}
	}
	return true
}

func requiredFields(rules []Rule) []string {
	var out []string
	for _, r := range rules {
		if r.Required {
			out = append(out, r.Field)
		}
	}
	return out
}
