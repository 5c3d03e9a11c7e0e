package app

import (
	"context"
	"sync"
	"time"

	"github.com/guttosm/sash-quote-service/internal/logger"
	"github.com/guttosm/sash-quote-service/internal/service"
)

const defaultRefreshTimeout = 10 * time.Second

// PriceRefresher loads the price table once at startup and then reloads it
// on a fixed interval, so edits made directly in the sheet reach quotes
// without an admin reload.
type PriceRefresher struct {
	loader   service.PriceTableLoader
	interval time.Duration
	timeout  time.Duration

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewPriceRefresher creates a refresher. An interval of zero only performs
// the startup load.
func NewPriceRefresher(loader service.PriceTableLoader, interval, timeout time.Duration) *PriceRefresher {
	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &PriceRefresher{
		loader:   loader,
		interval: interval,
		timeout:  timeout,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the background loop. Calling it again is a no-op.
func (r *PriceRefresher) Start() {
	if r == nil || r.loader == nil {
		return
	}
	r.startOnce.Do(func() {
		r.wg.Add(1)
		go r.run()
	})
}

func (r *PriceRefresher) run() {
	defer r.wg.Done()

	r.refresh()
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh()
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *PriceRefresher) refresh() {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	log := logger.Component("price-refresher")
	table, err := r.loader.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Price table refresh interrupted")
		return
	}
	log.Debug().
		Str("source", string(table.Source)).
		Int("version", table.Version).
		Msg("Price table refreshed")
}

// Stop cancels the loop and waits for it to exit. It is safe to call more
// than once.
func (r *PriceRefresher) Stop() {
	if r == nil {
		return
	}
	r.stopOnce.Do(func() {
		r.cancel()
		r.wg.Wait()
	})
}
