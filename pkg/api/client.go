package api

// Client bundles the per-resource services over one shared transport.
type Client struct {
	Auth          *AuthService
	Trades        *TradeService
	Subscriptions *SubscriptionService
	Users         *UserService

	transport *Transport
}

// NewClient builds the full client set.
func NewClient(cfg TransportConfig) *Client {
	t := NewTransport(cfg)
	return &Client{
		Auth:          NewAuthService(t),
		Trades:        NewTradeService(t),
		Subscriptions: NewSubscriptionService(t),
		Users:         NewUserService(t),
		transport:     t,
	}
}

// Transport exposes the underlying transport, mainly for tests.
func (c *Client) Transport() *Transport {
	return c.transport
}
