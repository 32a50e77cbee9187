package ads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/refresh"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/facebook"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

// InsightsReader fetches raw insights.
type InsightsReader interface {
	Insights(ctx context.Context, q facebook.Query) ([]model.AdInsight, error)
}

// Backoff controls the rate-limit retry: the wait starts at Initial, doubles
// after each throttled attempt and never exceeds Max.
type Backoff struct {
	Initial  time.Duration
	Max      time.Duration
	Attempts int
}

// DefaultBackoff waits 30s, then 60s, for at most three attempts.
var DefaultBackoff = Backoff{Initial: 30 * time.Second, Max: 120 * time.Second, Attempts: 3}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry calls fn until it succeeds, fails with an error other than
// facebook.ErrRateLimited, or the attempts are exhausted.
func Retry[T any](ctx context.Context, b Backoff, sleep SleepFunc, fn func(context.Context) (T, error)) (T, error) {
	if b.Attempts <= 0 {
		b.Attempts = 1
	}
	if sleep == nil {
		sleep = sleepCtx
	}
	wait := b.Initial
	var zero T
	for attempt := 1; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, facebook.ErrRateLimited) || attempt >= b.Attempts {
			return zero, err
		}
		if err := sleep(ctx, wait); err != nil {
			return zero, err
		}
		wait *= 2
		if b.Max > 0 && wait > b.Max {
			wait = b.Max
		}
	}
}

// Service builds messaging reports, keeping the default report warm.
type Service struct {
	reader  InsightsReader
	backoff Backoff
	sleep   SleepFunc
	logger  *zap.Logger
	now     func() time.Time

	latest refresh.Slot[Report]
}

// DefaultQuery is refreshed by Poll.
var DefaultQuery = facebook.Query{Level: facebook.LevelCampaign, DatePreset: "today"}

// NewService creates an ads Service. sleep may be nil.
func NewService(reader InsightsReader, backoff Backoff, sleep SleepFunc, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reader: reader, backoff: backoff, sleep: sleep, logger: logger, now: time.Now}
}

// Report fetches and summarizes insights for q. The default query is served
// from the last poll while it is fresh.
func (s *Service) Report(ctx context.Context, q facebook.Query) (Report, error) {
	if q.Level == "" {
		q.Level = facebook.LevelCampaign
	}
	if q == DefaultQuery && s.latest.Fresh(s.now(), 2*refresh.AdsInterval) {
		rep, _, _ := s.latest.Get()
		return rep, nil
	}
	return s.fetch(ctx, q)
}

func (s *Service) fetch(ctx context.Context, q facebook.Query) (Report, error) {
	rows, err := Retry(ctx, s.backoff, s.sleep, func(ctx context.Context) ([]model.AdInsight, error) {
		rows, err := s.reader.Insights(ctx, q)
		if errors.Is(err, facebook.ErrRateLimited) {
			s.logger.Warn("facebook rate limited", zap.String("level", q.Level))
		}
		return rows, err
	})
	if err != nil {
		return Report{}, fmt.Errorf("ads insights: %w", err)
	}
	rep := BuildReport(q.Level, rows)
	if q == DefaultQuery {
		s.latest.Set(rep, s.now())
	}
	return rep, nil
}

// Poll refreshes the default report.
func (s *Service) Poll(ctx context.Context) error {
	_, err := s.fetch(ctx, DefaultQuery)
	return err
}
