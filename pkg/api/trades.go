package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nextgenfx/fxterm/internal/domain"
)

// TradeService is the typed client for /trades endpoints.
type TradeService struct {
	t *Transport
}

func NewTradeService(t *Transport) *TradeService {
	return &TradeService{t: t}
}

// List fetches trades matching the query. A missing data payload is treated
// as an empty page, matching the server's behavior for fresh accounts.
func (s *TradeService) List(ctx context.Context, q TradeQuery) ([]domain.Trade, error) {
	values := url.Values{}
	if q.Status != "" {
		values.Set("status", string(q.Status))
	}
	if q.Symbol != "" {
		values.Set("symbol", q.Symbol)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}

	var trades []domain.Trade
	if err := s.t.get(ctx, "/trades", values, &trades); err != nil {
		if err == ErrEmptyData {
			return []domain.Trade{}, nil
		}
		return nil, err
	}
	return trades, nil
}

// Get fetches one trade by id.
func (s *TradeService) Get(ctx context.Context, id string) (*domain.Trade, error) {
	var trade domain.Trade
	if err := s.t.get(ctx, fmt.Sprintf("/trades/%s", url.PathEscape(id)), nil, &trade); err != nil {
		return nil, err
	}
	return &trade, nil
}

// Create opens a trade server-side. The dashboard never calls this; trades
// originate from the trading engine, but the API surface is complete.
func (s *TradeService) Create(ctx context.Context, patch domain.TradePatch) (*domain.Trade, error) {
	var trade domain.Trade
	if err := s.t.post(ctx, "/trades", patch, &trade); err != nil {
		return nil, err
	}
	return &trade, nil
}

// Update PUTs a partial change to one trade.
func (s *TradeService) Update(ctx context.Context, id string, patch domain.TradePatch) (*domain.Trade, error) {
	var trade domain.Trade
	if err := s.t.put(ctx, fmt.Sprintf("/trades/%s", url.PathEscape(id)), patch, &trade); err != nil {
		return nil, err
	}
	return &trade, nil
}

// Stats fetches the server-computed aggregate snapshot.
func (s *TradeService) Stats(ctx context.Context) (*domain.TradeStats, error) {
	var stats domain.TradeStats
	if err := s.t.get(ctx, "/trades/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
