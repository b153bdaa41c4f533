package domain

import "time"

// PendingCheckout is the hand-off between a paid checkout and onboarding
// completion. It lives only in the encrypted credential vault, carries an
// expiry, and is deleted the moment onboarding consumes it. It must never be
// serialized to plain storage: it contains the password the registration
// call will need.
type PendingCheckout struct {
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Password  string    `json:"password"`
	PlanID    string    `json:"planId"`
	PaymentID string    `json:"paymentId"`
	CreatedAt time.Time `json:"createdAt"`
}
