package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/performance"
)

var flagJSON bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the month performance report",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.cleanup()

		month, year := period(a.cfg.Location())
		rep, err := a.perf.BuildMonthReport(cmd.Context(), month, year)
		if err != nil {
			return err
		}
		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		printReport(rep)
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&flagJSON, "json", false, "print the full report as JSON")
}

func printReport(rep performance.MonthReport) {
	fmt.Printf("%02d/%d  weekdays %d/%d\n\n", int(rep.Month), rep.Year, rep.Weekdays.Elapsed, rep.Weekdays.Total)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "table\trow\ttotal\ttarget\tdiff")
	for _, t := range []performance.CountTableReport{rep.Scheduled, rep.Actual} {
		for _, r := range t.Rows {
			target, diff := "-", "-"
			if r.KPI != nil {
				target = fmt.Sprint(r.KPI.ProratedTarget)
				diff = fmt.Sprintf("%+d", r.KPI.Diff)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", t.Table, r.Label, r.Total, target, diff)
		}
	}
	for _, r := range rep.Revenue.Rows {
		fmt.Fprintf(w, "%s\t%s\t%.0f\t-\t-\n", performance.TableRevenue, r.Label, r.Total)
	}
	w.Flush()

	for _, s := range rep.Sources {
		if s.Error != "" {
			fmt.Printf("\nsource %s failed: %s", s.Name, s.Error)
		}
	}
	if rep.UnmappedTotal > 0 {
		fmt.Printf("\nunmapped people: %d records (%s)\n", rep.UnmappedTotal, strings.Join(sortedKeys(rep.Unmapped), ", "))
	}
	fmt.Println()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
