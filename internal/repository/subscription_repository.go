package repository

import (
	"context"

	"github.com/spec-kit/fanfund/internal/domain"
)

// SubscriptionRepository tracks tier subscriptions through checkout.
type SubscriptionRepository interface {
	CreatePending(ctx context.Context, sub *domain.Subscription) error
	// Activate flips the caller's PENDING subscription bound to sessionID to ACTIVE.
	Activate(ctx context.Context, userID, sessionID string) (*domain.Subscription, error)
}

type subscriptionRepository struct {
	pool DBTX
}

// NewSubscriptionRepository instantiates repository.
func NewSubscriptionRepository(pool DBTX) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

func (r *subscriptionRepository) CreatePending(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        INSERT INTO subscriptions (user_id, tier_id, status, checkout_session_id)
        VALUES ($1, $2, 'PENDING', $3)
        RETURNING id, created_at, updated_at`

	if err := r.pool.QueryRow(ctx, query,
		sub.UserID,
		sub.TierID,
		sub.CheckoutSessionID,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return err
	}
	sub.Status = domain.SubscriptionStatusPending
	return nil
}

func (r *subscriptionRepository) Activate(ctx context.Context, userID, sessionID string) (*domain.Subscription, error) {
	const query = `
        UPDATE subscriptions SET status='ACTIVE', updated_at=NOW()
        WHERE user_id=$1 AND checkout_session_id=$2 AND status='PENDING'
        RETURNING id, user_id, tier_id, status, checkout_session_id, created_at, updated_at`

	var (
		sub    domain.Subscription
		status string
	)
	if err := r.pool.QueryRow(ctx, query, userID, sessionID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.TierID,
		&status,
		&sub.CheckoutSessionID,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	sub.Status = domain.SubscriptionStatus(status)
	return &sub, nil
}
