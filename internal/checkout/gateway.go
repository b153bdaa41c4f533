package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChargeRequest carries what the payment gateway needs to authorize a card.
type ChargeRequest struct {
	PlanID     string
	Amount     float64
	CardNumber string
	CardName   string
}

// Gateway authorizes a card payment and returns the gateway payment id.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (string, error)
}

// SimulatedGateway approves every charge after a fixed delay. It stands in
// for a real processor until one is integrated.
type SimulatedGateway struct {
	Delay time.Duration
}

func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (string, error) {
	if g.Delay > 0 {
		select {
		case <-time.After(g.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	id := fmt.Sprintf("pay_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	return id, nil
}
