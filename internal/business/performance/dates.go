package performance

import (
	"regexp"
	"strings"
	"time"
)

var (
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDatePattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
)

// Layouts tried after the date-only forms. Zoned layouts are converted into
// the clinic location; zone-less ones are read in it.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123,  // Flask jsonify renders dates as "Wed, 05 Mar 2025 00:00:00 GMT"
	time.RFC1123Z,
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
}

// ParseDate reads the date formats the sheets and the Python API emit:
// YYYY-MM-DD, D/M/YYYY (day first), ISO timestamps and RFC1123. The result
// is expressed in loc. Unparseable or impossible dates (31/2/2025) report false.
func ParseDate(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if isoDatePattern.MatchString(s) {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		return t, err == nil
	}
	if slashDatePattern.MatchString(s) {
		t, err := time.ParseInLocation("2/1/2006", s, loc)
		return t, err == nil
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc), true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
