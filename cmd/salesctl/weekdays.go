package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/performance"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/config"
)

var flagTarget int

var weekdaysCmd = &cobra.Command{
	Use:   "weekdays",
	Short: "Print the weekday counts used to prorate KPI targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc := config.ClinicLocation()
		month, year := period(loc)
		if month < time.January || month > time.December {
			return fmt.Errorf("month must be 1-12, got %d", month)
		}
		total := performance.CountWeekdays(year, month)
		elapsed := performance.ComputeWeekdaysElapsed(month, year, time.Now().In(loc))

		fmt.Printf("%02d/%d: %d weekdays, %d elapsed\n", int(month), year, total, elapsed)
		if flagTarget > 0 {
			fmt.Printf("target %d prorates to %d\n", flagTarget, performance.ProrateTarget(flagTarget, elapsed, total))
		}
		return nil
	},
}

func init() {
	weekdaysCmd.Flags().IntVar(&flagTarget, "target", 0, "monthly target to prorate")
}
