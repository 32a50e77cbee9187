package investor

import (
	"context"
	"errors"
	"testing"

	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

type fakeReader struct {
	quotes []model.StockQuote
	err    error
	calls  int
}

func (f *fakeReader) Quotes(context.Context) ([]model.StockQuote, error) {
	f.calls++
	return f.quotes, f.err
}

func TestWithChange(t *testing.T) {
	cases := []struct {
		name         string
		close, prior float64
		change, pct  float64
	}{
		{"up", 17.4, 17.2, 0.2, 1.16},
		{"down", 16, 20, -4, -20},
		{"zero prior", 5, 0, 5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := WithChange(model.StockQuote{Close: tc.close, Prior: tc.prior})
			if q.Change != tc.change || q.PercentChange != tc.pct {
				t.Errorf("change=%v pct=%v, want %v %v", q.Change, q.PercentChange, tc.change, tc.pct)
			}
		})
	}
}

func TestQuotesFilterAndCache(t *testing.T) {
	reader := &fakeReader{quotes: []model.StockQuote{
		{Symbol: "BCH", Close: 17.4, Prior: 17.2},
		{Symbol: "PTT", Close: 33, Prior: 33},
	}}
	svc := NewService(reader, 0, nil)
	ctx := context.Background()

	got, err := svc.Quotes(ctx, "bch")
	if err != nil {
		t.Fatalf("Quotes: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "BCH" || got[0].PercentChange != 1.16 {
		t.Errorf("quotes = %+v", got)
	}
	if _, err := svc.Quotes(ctx, "XYZ"); !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
	if all, _ := svc.Quotes(ctx, ""); len(all) != 2 {
		t.Errorf("all = %+v", all)
	}
	if reader.calls != 1 {
		t.Errorf("reader called %d times, want 1", reader.calls)
	}
}

func TestQuotesUpstreamError(t *testing.T) {
	svc := NewService(&fakeReader{err: errors.New("auth failed")}, 0, nil)
	if _, err := svc.Quotes(context.Background(), ""); err == nil {
		t.Fatal("expected error")
	}
}
