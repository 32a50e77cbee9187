package performance

import (
	"testing"
	"time"

	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

func TestCountWeekdays(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.March, 21},
		{2025, time.February, 20},
		{2024, time.February, 21},
		{2026, time.October, 22},
	}
	for _, tt := range tests {
		if got := CountWeekdays(tt.year, tt.month); got != tt.want {
			t.Errorf("CountWeekdays(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestComputeWeekdaysElapsedBoundaries(t *testing.T) {
	today := time.Date(2025, time.March, 5, 15, 0, 0, 0, bkk)

	if got := ComputeWeekdaysElapsed(time.February, 2025, today); got != CountWeekdays(2025, time.February) {
		t.Errorf("past month = %d, want all weekdays", got)
	}
	if got := ComputeWeekdaysElapsed(time.December, 2024, today); got != CountWeekdays(2024, time.December) {
		t.Errorf("past year = %d, want all weekdays", got)
	}
	if got := ComputeWeekdaysElapsed(time.April, 2025, today); got != 0 {
		t.Errorf("future month = %d, want 0", got)
	}
	if got := ComputeWeekdaysElapsed(time.January, 2026, today); got != 0 {
		t.Errorf("future year = %d, want 0", got)
	}
	if got := ComputeWeekdaysElapsed(time.March, 2025, today); got != 3 {
		t.Errorf("current month = %d, want 3", got)
	}
}

func TestComputeWeekdaysElapsedIncrementsOnWeekdaysOnly(t *testing.T) {
	prev := 0
	for day := 1; day <= 31; day++ {
		today := time.Date(2025, time.March, day, 9, 0, 0, 0, bkk)
		got := ComputeWeekdaysElapsed(time.March, 2025, today)
		want := prev
		if IsWeekday(today) {
			want++
		}
		if got != want {
			t.Fatalf("day %d: elapsed = %d, want %d", day, got, want)
		}
		prev = got
	}
	if prev != CountWeekdays(2025, time.March) {
		t.Fatalf("last day elapsed = %d, want total", prev)
	}
}

func TestProrateTarget(t *testing.T) {
	tests := []struct {
		target, elapsed, total, want int
	}{
		{40, 21, 21, 40},
		{40, 0, 21, 0},
		{40, 5, 0, 0},
		{40, 3, 21, 6},
		{7, 1, 2, 4},
		{0, 10, 20, 0},
	}
	for _, tt := range tests {
		if got := ProrateTarget(tt.target, tt.elapsed, tt.total); got != tt.want {
			t.Errorf("ProrateTarget(%d, %d, %d) = %d, want %d", tt.target, tt.elapsed, tt.total, got, tt.want)
		}
	}
}

func TestEvaluateKPIAppliesHeadcountMultiplier(t *testing.T) {
	roster := DefaultRoster()
	pair, ok := roster.Group("105-จีน")
	if !ok {
		t.Fatalf("missing 105-จีน group")
	}

	got := EvaluateKPI(pair, 10, 3, 21)
	want := model.KpiTarget{MonthlyTarget: 80, ProratedTarget: 12, Actual: 10, Diff: -2, OnTarget: false}
	if got != want {
		t.Fatalf("EvaluateKPI = %+v, want %+v", got, want)
	}

	single, _ := roster.Group("107-เจ")
	got = EvaluateKPI(single, 6, 3, 21)
	want = model.KpiTarget{MonthlyTarget: 40, ProratedTarget: 6, Actual: 6, Diff: 0, OnTarget: true}
	if got != want {
		t.Fatalf("EvaluateKPI exact = %+v, want %+v", got, want)
	}
}
