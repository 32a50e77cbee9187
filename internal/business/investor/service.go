// Package investor serves the stock quote shown on the investor page.
package investor

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/cache"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

// ErrSymbolNotFound is returned when a requested symbol is not published.
var ErrSymbolNotFound = errors.New("stock symbol not found")

// CacheName labels the quote cache in metrics.
const CacheName = "stock"

// QuoteReader lists the published quotes.
type QuoteReader interface {
	Quotes(ctx context.Context) ([]model.StockQuote, error)
}

// Service reads quotes through a short-lived cache.
type Service struct {
	reader QuoteReader
	cache  *cache.TTL[[]model.StockQuote]
}

// NewService creates a Service caching quotes for ttl.
func NewService(reader QuoteReader, ttl time.Duration, obs cache.Observer) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{reader: reader, cache: cache.NewTTL[[]model.StockQuote](CacheName, ttl, obs)}
}

// Quotes returns all quotes, or only symbol when it is not empty.
func (s *Service) Quotes(ctx context.Context, symbol string) ([]model.StockQuote, error) {
	all, ok := s.cache.Get("")
	if !ok {
		raw, err := s.reader.Quotes(ctx)
		if err != nil {
			return nil, err
		}
		all = make([]model.StockQuote, len(raw))
		for i, q := range raw {
			all[i] = WithChange(q)
		}
		s.cache.Set("", all)
	}

	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return all, nil
	}
	for _, q := range all {
		if strings.EqualFold(q.Symbol, symbol) {
			return []model.StockQuote{q}, nil
		}
	}
	return nil, ErrSymbolNotFound
}

// WithChange fills Change and PercentChange from Close and Prior. A zero
// prior yields a zero percentage.
func WithChange(q model.StockQuote) model.StockQuote {
	q.Change = round2(q.Close - q.Prior)
	if q.Prior == 0 {
		q.PercentChange = 0
		return q
	}
	q.PercentChange = round2((q.Close - q.Prior) / q.Prior * 100)
	return q
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
