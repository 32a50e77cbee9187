package performance

type number interface {
	~int | ~int64 | ~float64
}

// MergeNumericMapsByPersonAndDay adds two revenue grids cell by cell. A cell
// missing from one side counts as 0. Neither input is modified.
func MergeNumericMapsByPersonAndDay(a, b RevenueGrid) RevenueGrid {
	return RevenueGrid(mergeGrids(a, b))
}

// MergeCounts adds two count tables cell by cell, e.g. telephony snapshot
// outcomes plus robocall log outcomes.
func MergeCounts(a, b CountTable) CountTable {
	return CountTable(mergeGrids(a, b))
}

func mergeGrids[N number](a, b map[string]map[int]N) map[string]map[int]N {
	out := make(map[string]map[int]N, len(a)+len(b))
	for _, src := range []map[string]map[int]N{a, b} {
		for person, days := range src {
			row, ok := out[person]
			if !ok {
				row = make(map[int]N, len(days))
				out[person] = row
			}
			for day, v := range days {
				row[day] += v
			}
		}
	}
	return out
}
