package store

import (
	"sync"

	"github.com/nextgenfx/fxterm/internal/domain"
	"github.com/nextgenfx/fxterm/pkg/logger"
	"github.com/nextgenfx/fxterm/pkg/persistence"
	"github.com/nextgenfx/fxterm/pkg/sigchan"
)

var log = logger.WithField("module", "store")

// persistenceID namespaces the store's documents on disk.
const persistenceID = "trading"

// state is the store's full contents. Only the tagged fields survive a
// restart; isLoading and errMsg are transient by design.
type state struct {
	Trades []domain.Trade     `persistence:"trades" json:"trades"`
	Stats  *domain.TradeStats `persistence:"stats" json:"stats"`

	isLoading bool
	errMsg    string
}

// TradingStore caches the last-fetched trade list and aggregate stats. Every
// fetch replaces the list wholesale, with no merge, dedup or TTL, and the
// cache is mutated only from completed fetches, last write wins. Mutations
// persist the tagged fields and emit a change signal for the dashboard.
type TradingStore struct {
	mu      sync.RWMutex
	st      state
	svc     persistence.Service
	changed *sigchan.Chan
}

// New loads whatever survived the previous run. A missing document is a
// fresh store, not an error.
func New(svc persistence.Service) (*TradingStore, error) {
	s := &TradingStore{
		svc:     svc,
		changed: sigchan.New(1),
	}
	if err := persistence.LoadFields(&s.st, persistenceID, svc); err != nil {
		return nil, err
	}
	if s.st.Trades == nil {
		s.st.Trades = []domain.Trade{}
	}
	log.Debugf("restored %d trades", len(s.st.Trades))
	return s, nil
}

// Changed signals after every mutation; consumers re-read via snapshot
// accessors.
func (s *TradingStore) Changed() <-chan struct{} {
	return s.changed.C()
}

// Trades returns a copy of the cached list.
func (s *TradingStore) Trades() []domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Trade, len(s.st.Trades))
	copy(out, s.st.Trades)
	return out
}

// Stats returns the cached aggregate snapshot, or nil before the first
// fetch.
func (s *TradingStore) Stats() *domain.TradeStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.st.Stats == nil {
		return nil
	}
	stats := *s.st.Stats
	return &stats
}

// IsLoading reports whether a fetch is in flight.
func (s *TradingStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.isLoading
}

// Error returns the last fetch error message, or "".
func (s *TradingStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.errMsg
}

// SetTrades replaces the whole list.
func (s *TradingStore) SetTrades(trades []domain.Trade) {
	s.mu.Lock()
	if trades == nil {
		trades = []domain.Trade{}
	}
	s.st.Trades = trades
	s.persistLocked()
	s.mu.Unlock()
	s.changed.Emit()
}

// AddTrade appends one record.
func (s *TradingStore) AddTrade(trade domain.Trade) {
	s.mu.Lock()
	s.st.Trades = append(s.st.Trades, trade)
	s.persistLocked()
	s.mu.Unlock()
	s.changed.Emit()
}

// UpdateTrade shallow-merges patch into the trade with the given id. An
// unknown id is a no-op: the list is left exactly as it was.
func (s *TradingStore) UpdateTrade(id string, patch domain.TradePatch) {
	s.mu.Lock()
	updated := false
	for i := range s.st.Trades {
		if s.st.Trades[i].ID == id {
			s.st.Trades[i] = patch.Apply(s.st.Trades[i])
			updated = true
			break
		}
	}
	if updated {
		s.persistLocked()
	}
	s.mu.Unlock()
	if updated {
		s.changed.Emit()
	}
}

// SetStats replaces the aggregate snapshot.
func (s *TradingStore) SetStats(stats domain.TradeStats) {
	s.mu.Lock()
	s.st.Stats = &stats
	s.persistLocked()
	s.mu.Unlock()
	s.changed.Emit()
}

// SetLoading flips the transient loading flag.
func (s *TradingStore) SetLoading(loading bool) {
	s.mu.Lock()
	s.st.isLoading = loading
	s.mu.Unlock()
	s.changed.Emit()
}

// SetError records the transient error message; "" clears it.
func (s *TradingStore) SetError(msg string) {
	s.mu.Lock()
	s.st.errMsg = msg
	s.mu.Unlock()
	s.changed.Emit()
}

// ClearTrades resets the store to its initial empty state and removes the
// persisted documents, so a reload starts from scratch too.
func (s *TradingStore) ClearTrades() {
	s.mu.Lock()
	s.st = state{Trades: []domain.Trade{}}
	if err := persistence.DeleteFields(&s.st, persistenceID, s.svc); err != nil {
		log.Errorf("clearing persisted trading store: %v", err)
	}
	s.mu.Unlock()
	s.changed.Emit()
}

func (s *TradingStore) persistLocked() {
	if err := persistence.SaveFields(&s.st, persistenceID, s.svc); err != nil {
		log.Errorf("persisting trading store: %v", err)
	}
}
