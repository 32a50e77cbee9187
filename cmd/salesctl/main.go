// Command salesctl runs the dashboard reports from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/performance"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/config"
	firestoreclient "github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/firestore"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/logging"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/pyapi"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/sheets"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/repository"
)

var (
	flagMonth       int
	flagYear        int
	flagWithTargets bool
)

var rootCmd = &cobra.Command{
	Use:           "salesctl",
	Short:         "Sales dashboard reports and connectivity checks",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagMonth, "month", 0, "report month 1-12 (default: current)")
	rootCmd.PersistentFlags().IntVar(&flagYear, "year", 0, "report year (default: current)")
	rootCmd.PersistentFlags().BoolVar(&flagWithTargets, "with-targets", false, "apply KPI targets stored in Firestore")

	rootCmd.AddCommand(reportCmd, exportCmd, weekdaysCmd, pingCmd)
}

func main() {
	config.LoadDotEnv()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// period resolves --month/--year against today in the clinic timezone.
func period(loc *time.Location) (time.Month, int) {
	now := time.Now().In(loc)
	month, year := now.Month(), now.Year()
	if flagMonth != 0 {
		month = time.Month(flagMonth)
	}
	if flagYear != 0 {
		year = flagYear
	}
	return month, year
}

// app is the subset of the server wiring the CLI needs.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	perf    *performance.Service
	cleanup func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.GinMode)
	if err != nil {
		return nil, err
	}
	roster, err := performance.LoadRoster(cfg.RosterFile)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, cleanup: func() { _ = logger.Sync() }}
	deps := performance.Deps{
		ScheduleRange: cfg.FilmDataRange,
		Data:          pyapi.New(nil, pyapi.Config{BaseURL: cfg.PythonAPIURL}),
		Roster:        roster,
		Location:      cfg.Location(),
		Logger:        logger,
	}
	if sc, err := sheets.New(ctx, cfg); err != nil {
		logger.Warn("google sheets unavailable", zap.Error(err))
	} else {
		deps.Sheets = sc
	}
	if flagWithTargets {
		client, _, err := firestoreclient.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("firestore init: %w", err)
		}
		deps.Targets = repository.NewTargetsRepository(client)
		prev := a.cleanup
		a.cleanup = func() {
			client.Close()
			prev()
		}
	}
	a.perf = performance.NewService(deps)
	return a, nil
}
