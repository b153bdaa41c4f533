package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgenfx/fxterm/internal/domain"
	"github.com/nextgenfx/fxterm/internal/store"
	"github.com/nextgenfx/fxterm/internal/ticker"
	"github.com/nextgenfx/fxterm/pkg/api"
	"github.com/nextgenfx/fxterm/pkg/persistence"
)

type fakeTradeAPI struct {
	trades   []domain.Trade
	stats    *domain.TradeStats
	tradeErr error
	statsErr error
}

func (f *fakeTradeAPI) List(_ context.Context, _ api.TradeQuery) ([]domain.Trade, error) {
	if f.tradeErr != nil {
		return nil, f.tradeErr
	}
	return f.trades, nil
}

func (f *fakeTradeAPI) Stats(_ context.Context) (*domain.TradeStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

func newStore(t *testing.T) *store.TradingStore {
	t.Helper()
	st, err := store.New(persistence.NewJSONFileService(t.TempDir()))
	require.NoError(t, err)
	return st
}

func TestRefreshOnce_SwapsTradesAndStatsTogether(t *testing.T) {
	st := newStore(t)
	backend := &fakeTradeAPI{
		trades: []domain.Trade{{ID: "t1", Symbol: "EURUSD", Status: domain.TradeOpen}},
		stats:  &domain.TradeStats{TotalTrades: 1, OpenTrades: 1},
	}

	r := NewRefresher(backend, st, time.Minute)
	require.NoError(t, r.RefreshOnce(context.Background()))

	require.Len(t, st.Trades(), 1)
	require.NotNil(t, st.Stats())
	assert.Equal(t, 1, st.Stats().TotalTrades)
	assert.Empty(t, st.Error())
	assert.False(t, st.IsLoading())
}

func TestRefreshOnce_TradeFailureKeepsCache(t *testing.T) {
	st := newStore(t)
	st.SetTrades([]domain.Trade{{ID: "old", Symbol: "XAUUSD"}})

	backend := &fakeTradeAPI{tradeErr: &api.Error{Status: 500, Message: "server exploded"}}
	r := NewRefresher(backend, st, time.Minute)

	require.Error(t, r.RefreshOnce(context.Background()))
	require.Len(t, st.Trades(), 1, "cached trades survive a failed refresh")
	assert.Equal(t, "old", st.Trades()[0].ID)
	assert.Equal(t, "server exploded", st.Error())
	assert.False(t, st.IsLoading())
}

func TestRefreshOnce_StatsFailureIsNotFatal(t *testing.T) {
	st := newStore(t)
	st.SetStats(domain.TradeStats{TotalTrades: 7})

	backend := &fakeTradeAPI{
		trades:   []domain.Trade{{ID: "t1"}},
		statsErr: errors.New("stats down"),
	}
	r := NewRefresher(backend, st, time.Minute)

	require.NoError(t, r.RefreshOnce(context.Background()))
	require.Len(t, st.Trades(), 1)
	require.NotNil(t, st.Stats())
	assert.Equal(t, 7, st.Stats().TotalTrades, "previous aggregates kept")
	assert.Empty(t, st.Error())
}

func TestBuildSnapshot(t *testing.T) {
	st := newStore(t)
	st.SetTrades([]domain.Trade{
		{ID: "t1", Status: domain.TradeClosed, Profit: 50, UpdatedAt: time.Now()},
	})
	st.SetStats(domain.TradeStats{TotalTrades: 1, TotalProfit: 50})

	tk := ticker.New([]string{"EURUSD"}, 1)
	user := &domain.User{ID: "u1", FirstName: "Jane", LastName: "Doe"}

	snap := BuildSnapshot(user, st, tk.Quotes(), []string{"subscription-create"})

	assert.Equal(t, user, snap.User)
	assert.Len(t, snap.Trades, 1)
	assert.Len(t, snap.Quotes, 1)
	assert.Equal(t, []string{"subscription-create"}, snap.PendingTasks)
	assert.Equal(t, 1, snap.Summary.Closed)
	assert.True(t, snap.Drift.InSync())
	require.Len(t, snap.Equity, 1)
}
