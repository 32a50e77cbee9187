// Package refresh keeps upstream snapshots current by polling each source
// on its own fixed interval.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default intervals, one per dashboard source.
const (
	SurgeryInterval  = 30 * time.Second
	ContactsInterval = 5 * time.Second
	QueueInterval    = 3 * time.Second
	AdsInterval      = 5 * time.Minute
)

// Observer receives the outcome of every poll.
type Observer interface {
	ObserveRefresh(name string, elapsed time.Duration, err error)
}

// Poller calls Fn once immediately and then every Interval until its
// context is cancelled. A failed poll is logged and the next tick tries
// again; there is no backoff.
type Poller struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error

	Logger   *zap.Logger
	Observer Observer
}

// Run blocks until ctx is done.
func (p Poller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p Poller) poll(ctx context.Context) {
	start := time.Now()
	err := p.Fn(ctx)
	elapsed := time.Since(start)
	if p.Observer != nil {
		p.Observer.ObserveRefresh(p.Name, elapsed, err)
	}
	if err != nil && ctx.Err() == nil && p.Logger != nil {
		p.Logger.Warn("refresh failed",
			zap.String("source", p.Name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
	}
}

// Start launches every poller in its own goroutine, registering each under
// its name. The returned WaitGroup completes once all pollers have stopped.
func Start(ctx context.Context, reg *Registry, pollers ...Poller) (*sync.WaitGroup, error) {
	var wg sync.WaitGroup
	for _, p := range pollers {
		if p.Interval <= 0 {
			return &wg, fmt.Errorf("poller %q: interval must be positive", p.Name)
		}
		if p.Fn == nil {
			return &wg, fmt.Errorf("poller %q: no refresh function", p.Name)
		}
		pctx, cancel := context.WithCancel(ctx)
		reg.Register(p.Name, cancel)
		wg.Add(1)
		go func(p Poller) {
			defer wg.Done()
			defer reg.Unregister(p.Name)
			p.Run(pctx)
		}(p)
	}
	return &wg, nil
}
