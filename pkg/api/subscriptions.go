package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nextgenfx/fxterm/internal/domain"
)

// SubscriptionService is the typed client for /subscriptions endpoints.
type SubscriptionService struct {
	t *Transport
}

func NewSubscriptionService(t *Transport) *SubscriptionService {
	return &SubscriptionService{t: t}
}

// Create attaches a subscription to an existing user. It runs after
// registration during onboarding; the server assigns the id.
func (s *SubscriptionService) Create(ctx context.Context, req CreateSubscriptionRequest) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := s.t.post(ctx, "/subscriptions", req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Mine fetches the authenticated user's subscription.
func (s *SubscriptionService) Mine(ctx context.Context) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := s.t.get(ctx, "/subscriptions/me", nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Update PUTs a partial change to one subscription.
func (s *SubscriptionService) Update(ctx context.Context, id string, patch domain.SubscriptionPatch) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := s.t.put(ctx, fmt.Sprintf("/subscriptions/%s", url.PathEscape(id)), patch, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Cancel marks the subscription cancelled.
func (s *SubscriptionService) Cancel(ctx context.Context, id string) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := s.t.post(ctx, fmt.Sprintf("/subscriptions/%s/cancel", url.PathEscape(id)), nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
