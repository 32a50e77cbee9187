// Package sheets reads cell ranges from Google Sheets.
package sheets

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/config"
)

// Reader returns the cell values of an A1 range as strings.
type Reader interface {
	Values(ctx context.Context, a1Range string) ([][]string, error)
}

// Client reads one spreadsheet.
type Client struct {
	spreadsheetID string
	get           func(ctx context.Context, spreadsheetID, a1Range string) (*sheetsapi.ValueRange, error)
}

// New builds a read-only Sheets client from the configured service account.
func New(ctx context.Context, cfg config.Config) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SPREADSHEET_ID is required for sheets")
	}
	creds, _, err := cfg.GoogleCredentialsJSON()
	if err != nil {
		return nil, err
	}
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}
	return &Client{
		spreadsheetID: cfg.SpreadsheetID,
		get: func(ctx context.Context, id, rng string) (*sheetsapi.ValueRange, error) {
			return svc.Spreadsheets.Values.Get(id, rng).
				ValueRenderOption("FORMATTED_VALUE").
				Context(ctx).
				Do()
		},
	}, nil
}

// Values fetches a1Range and stringifies every cell.
func (c *Client) Values(ctx context.Context, a1Range string) ([][]string, error) {
	vr, err := c.get(ctx, c.spreadsheetID, a1Range)
	if err != nil {
		return nil, fmt.Errorf("read range %q: %w", a1Range, err)
	}
	return toStrings(vr.Values), nil
}

func toStrings(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			switch t := v.(type) {
			case nil:
			case string:
				cells[j] = t
			case float64:
				cells[j] = strconv.FormatFloat(t, 'f', -1, 64)
			default:
				cells[j] = fmt.Sprint(t)
			}
		}
		out[i] = cells
	}
	return out
}
