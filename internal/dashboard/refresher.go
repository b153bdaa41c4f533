package dashboard

import (
	"context"
	"time"

	"github.com/nextgenfx/fxterm/internal/domain"
	"github.com/nextgenfx/fxterm/internal/store"
	"github.com/nextgenfx/fxterm/pkg/api"
	"github.com/nextgenfx/fxterm/pkg/logger"
	"github.com/nextgenfx/fxterm/pkg/syncgroup"
)

// TradeAPI is the slice of the trade service the refresher needs.
type TradeAPI interface {
	List(ctx context.Context, q api.TradeQuery) ([]domain.Trade, error)
	Stats(ctx context.Context) (*domain.TradeStats, error)
}

// Refresher keeps the trading store in step with the server. Trades and
// stats are fetched in parallel and swapped in together so the table and
// the aggregates move as one.
type Refresher struct {
	trades   TradeAPI
	store    *store.TradingStore
	interval time.Duration
}

func NewRefresher(trades TradeAPI, st *store.TradingStore, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Refresher{trades: trades, store: st, interval: interval}
}

// RefreshOnce fetches a fresh snapshot. A trade list failure surfaces as
// the store error; a stats failure keeps the previous aggregates since the
// server recomputes them on the next pass anyway.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	r.store.SetLoading(true)

	var (
		trades   []domain.Trade
		stats    *domain.TradeStats
		tradeErr error
		statsErr error
	)

	sg := syncgroup.NewSyncGroup()
	sg.Add(func() {
		trades, tradeErr = r.trades.List(ctx, api.TradeQuery{})
	})
	sg.Add(func() {
		stats, statsErr = r.trades.Stats(ctx)
	})
	sg.Run()
	sg.WaitAndClear()

	if tradeErr != nil {
		logger.Errorf("dashboard: trade refresh failed: %v", tradeErr)
		r.store.SetError(api.UserMessage(tradeErr))
		r.store.SetLoading(false)
		return tradeErr
	}

	r.store.SetTrades(trades)
	if statsErr != nil {
		logger.Warnf("dashboard: stats refresh failed, keeping previous: %v", statsErr)
	} else if stats != nil {
		r.store.SetStats(*stats)
	}
	r.store.SetError("")
	r.store.SetLoading(false)
	return nil
}

// Run refreshes immediately and then on every interval until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	_ = r.RefreshOnce(ctx)

	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = r.RefreshOnce(ctx)
		}
	}
}
