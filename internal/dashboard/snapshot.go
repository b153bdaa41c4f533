package dashboard

import (
	"time"

	"github.com/nextgenfx/fxterm/internal/analytics"
	"github.com/nextgenfx/fxterm/internal/domain"
	"github.com/nextgenfx/fxterm/internal/store"
	"github.com/nextgenfx/fxterm/internal/ticker"
)

// Snapshot is everything one frame of the dashboard needs. It is assembled
// off the UI goroutine and handed over whole, so the view never touches the
// store directly.
type Snapshot struct {
	User   *domain.User
	Trades []domain.Trade
	Stats  *domain.TradeStats

	Summary analytics.Summary
	Drift   analytics.StatsDrift
	Equity  []analytics.EquityPoint

	Quotes []ticker.Quote

	PendingTasks []string
	Loading      bool
	ErrMsg       string
	RefreshedAt  time.Time
}

// BuildSnapshot derives a frame from the current store contents.
func BuildSnapshot(user *domain.User, st *store.TradingStore, quotes []ticker.Quote, pendingTasks []string) *Snapshot {
	trades := st.Trades()
	stats := st.Stats()
	summary := analytics.Summarize(trades)
	return &Snapshot{
		User:         user,
		Trades:       trades,
		Stats:        stats,
		Summary:      summary,
		Drift:        analytics.Drift(stats, summary),
		Equity:       analytics.EquityCurve(trades),
		Quotes:       quotes,
		PendingTasks: pendingTasks,
		Loading:      st.IsLoading(),
		ErrMsg:       st.Error(),
		RefreshedAt:  time.Now(),
	}
}
