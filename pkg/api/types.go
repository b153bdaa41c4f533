package api

import "github.com/nextgenfx/fxterm/internal/domain"

// AuthResponse is the payload of login and register: the user snapshot plus
// both tokens, so callers can chain follow-up calls with the fresh identity.
type AuthResponse struct {
	User         domain.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}

// LoginCredentials is the /auth/login request body.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterCredentials is the /auth/register request body.
type RegisterCredentials struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// TradeQuery filters /trades. Zero values are omitted from the query string.
type TradeQuery struct {
	Status domain.TradeStatus
	Symbol string
	Limit  int
	Page   int
}

// TradingAccountUpdate is the /users/trading-account request body. Nil MT5
// fields leave the stored values alone.
type TradingAccountUpdate struct {
	MT5Login    *string            `json:"mt5Login,omitempty"`
	MT5Server   *string            `json:"mt5Server,omitempty"`
	RiskProfile domain.RiskProfile `json:"riskProfile"`
}

// CreateSubscriptionRequest is the /subscriptions request body.
type CreateSubscriptionRequest struct {
	UserID        string `json:"userId"`
	PlanID        string `json:"planId"`
	PaymentID     string `json:"paymentId,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}
