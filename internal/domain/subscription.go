package domain

import "time"

// SubscriptionStatus is the server-reported billing state.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionPending   SubscriptionStatus = "pending"
)

// Subscription mirrors one subscription record. The id is server-assigned on
// creation, after registration has produced the owning user.
type Subscription struct {
	ID            string             `json:"_id"`
	UserID        string             `json:"userId"`
	PlanID        string             `json:"planId"`
	PlanName      string             `json:"planName"`
	Price         float64            `json:"price"`
	Status        SubscriptionStatus `json:"status"`
	StartDate     time.Time          `json:"startDate"`
	EndDate       time.Time          `json:"endDate"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
	PaymentID     string             `json:"paymentId,omitempty"`
	AutoRenew     bool               `json:"autoRenew"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// SubscriptionPatch is a partial subscription update.
type SubscriptionPatch struct {
	PlanID    *string             `json:"planId,omitempty"`
	Status    *SubscriptionStatus `json:"status,omitempty"`
	AutoRenew *bool               `json:"autoRenew,omitempty"`
}
