package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nextgenfx/fxterm/internal/domain"
)

// UserService is the typed client for /users endpoints.
type UserService struct {
	t *Transport
}

func NewUserService(t *Transport) *UserService {
	return &UserService{t: t}
}

// UpdateTradingAccount applies MT5 credentials and the risk profile to the
// authenticated user's trading account and returns the merged user.
func (s *UserService) UpdateTradingAccount(ctx context.Context, update TradingAccountUpdate) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := s.t.put(ctx, "/users/trading-account", update, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Get fetches one user by id (admin views use this).
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := s.t.get(ctx, fmt.Sprintf("/users/%s", url.PathEscape(id)), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
