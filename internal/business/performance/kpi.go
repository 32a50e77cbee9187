package performance

import (
	"math"
	"time"

	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

// IsWeekday reports Monday through Friday.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// CountWeekdays counts Monday-Friday days in the month.
func CountWeekdays(year int, month time.Month) int {
	return countWeekdaysThrough(year, month, DaysIn(year, month))
}

func countWeekdaysThrough(year int, month time.Month, lastDay int) int {
	n := 0
	for day := 1; day <= lastDay; day++ {
		if IsWeekday(time.Date(year, month, day, 12, 0, 0, 0, time.UTC)) {
			n++
		}
	}
	return n
}

// ComputeWeekdaysElapsed returns how many weekdays of (month, year) have
// elapsed as of today: 0 for a future month, every weekday for a past month,
// and day 1 through today inclusive for the current month.
func ComputeWeekdaysElapsed(month time.Month, year int, today time.Time) int {
	ty, tm, td := today.Date()
	switch {
	case year > ty || (year == ty && month > tm):
		return 0
	case year < ty || (year == ty && month < tm):
		return CountWeekdays(year, month)
	default:
		return countWeekdaysThrough(year, month, td)
	}
}

// ProrateTarget scales a monthly target by the share of weekdays elapsed,
// rounded to the nearest integer. A month without weekdays prorates to 0.
func ProrateTarget(monthlyTarget, weekdaysElapsed, totalWeekdays int) int {
	if totalWeekdays <= 0 {
		return 0
	}
	return int(math.Round(float64(monthlyTarget) * float64(weekdaysElapsed) / float64(totalWeekdays)))
}

// EvaluateKPI compares a display row's actual count with its prorated target.
// The per-head target is prorated first, then scaled by the row's headcount
// multiplier; the weekday counts are never scaled.
func EvaluateKPI(group DisplayGroup, actual, weekdaysElapsed, totalWeekdays int) model.KpiTarget {
	mult := group.Multiplier()
	prorated := ProrateTarget(group.MonthlyTarget, weekdaysElapsed, totalWeekdays) * mult
	diff := actual - prorated
	return model.KpiTarget{
		MonthlyTarget:  group.MonthlyTarget * mult,
		ProratedTarget: prorated,
		Actual:         actual,
		Diff:           diff,
		OnTarget:       diff >= 0,
	}
}
