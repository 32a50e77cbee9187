package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/performance"
)

var flagOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the month performance report as an XLSX workbook",
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
		wb, err := performance.ExportXLSX(rep)
		if err != nil {
			return err
		}
		defer wb.Close()

		out := flagOut
		if out == "" {
			out = fmt.Sprintf("performance-%04d-%02d.xlsx", year, int(month))
		}
		if err := wb.SaveAs(out); err != nil {
			return fmt.Errorf("save %s: %w", out, err)
		}
		fmt.Println("wrote", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "output file (default performance-YYYY-MM.xlsx)")
}
