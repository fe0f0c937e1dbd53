package domain

import "time"

// SubscriptionStatus tracks the checkout lifecycle of a tier subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusPending  SubscriptionStatus = "PENDING"
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
)

// Subscription binds a user to a paid tier once checkout completes.
type Subscription struct {
	ID                string
	UserID            string
	TierID            string
	Status            SubscriptionStatus
	CheckoutSessionID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
