package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/config"
	firestoreclient "github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/firestore"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/pyapi"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/sheets"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/yalecom"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to Firestore, Google Sheets, the data API and Yalecom",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		failed := 0
		check := func(name string, fn func(context.Context) error) {
			start := time.Now()
			if err := fn(ctx); err != nil {
				failed++
				fmt.Printf("FAIL  %-10s %v\n", name, err)
				return
			}
			fmt.Printf("ok    %-10s %s\n", name, time.Since(start).Round(time.Millisecond))
		}

		check("firestore", func(ctx context.Context) error {
			client, source, err := firestoreclient.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer client.Close()
			if err := firestoreclient.Ping(ctx, client); err != nil {
				return err
			}
			fmt.Printf("      project %s via %s credentials\n", cfg.FirebaseProjectID, source)
			return nil
		})
		check("sheets", func(ctx context.Context) error {
			sc, err := sheets.New(ctx, cfg)
			if err != nil {
				return err
			}
			rows, err := sc.Values(ctx, cfg.FilmDevRange)
			if err != nil {
				return err
			}
			fmt.Printf("      %s: %d rows\n", cfg.FilmDevRange, len(rows))
			return nil
		})
		check("data-api", pyapi.New(nil, pyapi.Config{BaseURL: cfg.PythonAPIURL}).Ping)
		check("yalecom", func(ctx context.Context) error {
			_, err := yalecom.New(nil, cfg.YalecomAPIURL, cfg.YalecomAPIKey).QueueStatus(ctx, yalecom.DefaultQueueExtension)
			return err
		})

		if failed > 0 {
			return fmt.Errorf("%d checks failed", failed)
		}
		return nil
	},
}
