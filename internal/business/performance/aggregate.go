package performance

import (
	"time"

	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

// CountGrid buckets records by canonical person, then day of month (1-based).
type CountGrid map[string]map[int][]model.Record

// RevenueGrid sums record amounts by canonical person, then day of month.
type RevenueGrid map[string]map[int]float64

// CountTable holds plain counts by person, then day. Used when the counts
// come from somewhere other than a record list (telephony snapshots).
type CountTable map[string]map[int]int

// AggregateStats explains where the input records went.
type AggregateStats struct {
	Included     int            `json:"included"`
	OutOfRange   int            `json:"outOfRange"`
	Undated      int            `json:"undated"`
	Unmapped     int            `json:"unmapped"`
	UnmappedKeys map[string]int `json:"unmappedKeys,omitempty"`
}

// AggregateByDateAndPerson groups records that fall inside (month, year) by
// canonical person and day of month. Records without a date, outside the
// month, or whose person key is not in the roster are left out.
func AggregateByDateAndPerson(records []model.Record, month time.Month, year int, roster *Roster) CountGrid {
	grid := make(CountGrid)
	bucket(records, month, year, roster, func(person string, day int, r model.Record) {
		days, ok := grid[person]
		if !ok {
			days = make(map[int][]model.Record)
			grid[person] = days
		}
		days[day] = append(days[day], r)
	})
	return grid
}

// AggregateRevenueByDateAndPerson is AggregateByDateAndPerson summing Amount
// instead of collecting records. A zero-amount record still creates its cell.
func AggregateRevenueByDateAndPerson(records []model.Record, month time.Month, year int, roster *Roster) RevenueGrid {
	grid := make(RevenueGrid)
	bucket(records, month, year, roster, func(person string, day int, r model.Record) {
		days, ok := grid[person]
		if !ok {
			days = make(map[int]float64)
			grid[person] = days
		}
		days[day] += r.Amount
	})
	return grid
}

// Tally runs the same filtering as the aggregators and reports the counts of
// included and dropped records.
func Tally(records []model.Record, month time.Month, year int, roster *Roster) AggregateStats {
	return bucket(records, month, year, roster, func(string, int, model.Record) {})
}

func bucket(records []model.Record, month time.Month, year int, roster *Roster, add func(person string, day int, r model.Record)) AggregateStats {
	var stats AggregateStats
	for _, r := range records {
		if !r.HasDate || r.OccursOn.IsZero() {
			stats.Undated++
			continue
		}
		y, m, d := r.OccursOn.Date()
		if y != year || m != month {
			stats.OutOfRange++
			continue
		}
		person, ok := roster.Resolve(r.PersonKey)
		if !ok {
			stats.Unmapped++
			if stats.UnmappedKeys == nil {
				stats.UnmappedKeys = make(map[string]int)
			}
			stats.UnmappedKeys[r.PersonKey]++
			continue
		}
		stats.Included++
		add(person, d, r)
	}
	return stats
}

// Records returns the union of the members' records on day, in member order.
func (g CountGrid) Records(members []string, day int) []model.Record {
	var out []model.Record
	for _, m := range members {
		out = append(out, g[m][day]...)
	}
	return out
}

// Count returns how many records the members have on day.
func (g CountGrid) Count(members []string, day int) int {
	n := 0
	for _, m := range members {
		n += len(g[m][day])
	}
	return n
}

// Total returns how many records the members have across the month.
func (g CountGrid) Total(members []string) int {
	n := 0
	for _, m := range members {
		for _, rs := range g[m] {
			n += len(rs)
		}
	}
	return n
}

// Counts flattens the grid into a CountTable.
func (g CountGrid) Counts() CountTable {
	out := make(CountTable, len(g))
	for person, days := range g {
		row := make(map[int]int, len(days))
		for day, rs := range days {
			row[day] = len(rs)
		}
		out[person] = row
	}
	return out
}

// Get returns the revenue for one person on day, 0 when absent.
func (g RevenueGrid) Get(person string, day int) float64 {
	return g[person][day]
}

// Sum returns the members' combined revenue on day.
func (g RevenueGrid) Sum(members []string, day int) float64 {
	var total float64
	for _, m := range members {
		total += g[m][day]
	}
	return total
}

// Total returns the members' combined revenue across the month.
func (g RevenueGrid) Total(members []string) float64 {
	var total float64
	for _, m := range members {
		for _, v := range g[m] {
			total += v
		}
	}
	return total
}

// Get returns the count for one person on day, 0 when absent.
func (t CountTable) Get(person string, day int) int {
	return t[person][day]
}

// Sum returns the members' combined count on day.
func (t CountTable) Sum(members []string, day int) int {
	n := 0
	for _, m := range members {
		n += t[m][day]
	}
	return n
}
