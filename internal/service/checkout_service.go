package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/events"
	"github.com/spec-kit/fanfund/internal/repository"
	apperrors "github.com/spec-kit/fanfund/pkg/util/errorutil"
)

// CheckoutService runs the tier subscription round trip through the payment processor.
type CheckoutService struct {
	artists       repository.ArtistRepository
	subscriptions repository.SubscriptionRepository
	processor     PaymentProcessor
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewCheckoutService builds the service.
func NewCheckoutService(artists repository.ArtistRepository, subscriptions repository.SubscriptionRepository,
	processor PaymentProcessor, dispatcher events.Dispatcher, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		artists:       artists,
		subscriptions: subscriptions,
		processor:     processor,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// Checkout opens a payment session for tierID and records a pending subscription.
func (s *CheckoutService) Checkout(ctx context.Context, user *domain.User, tierID string) (*CheckoutSession, error) {
	tier, err := s.artists.GetTier(ctx, tierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("tier", map[string]any{"id": tierID})
		}
		return nil, apperrors.MapError(err)
	}

	session, err := s.processor.CreateCheckoutSession(ctx, *tier, user.ID)
	if err != nil {
		s.logger.Error("payment processor rejected checkout", zap.Error(err))
		return nil, apperrors.NewDomainError("PAYMENT_UNAVAILABLE", "payment processor unavailable", 502, nil)
	}

	sub := &domain.Subscription{UserID: user.ID, TierID: tier.ID, CheckoutSessionID: session.ID}
	if err := s.subscriptions.CreatePending(ctx, sub); err != nil {
		return nil, apperrors.MapError(err)
	}
	return session, nil
}

// Confirm activates the caller's subscription once the processor reports the session paid.
func (s *CheckoutService) Confirm(ctx context.Context, user *domain.User, sessionID string) (*domain.Subscription, error) {
	completed, err := s.processor.SessionCompleted(ctx, sessionID)
	if err != nil {
		s.logger.Error("payment processor lookup failed", zap.Error(err))
		return nil, apperrors.NewDomainError("PAYMENT_UNAVAILABLE", "payment processor unavailable", 502, nil)
	}
	if !completed {
		return nil, apperrors.NewConflict("checkout session not completed", map[string]any{"sessionId": sessionID})
	}

	sub, err := s.subscriptions.Activate(ctx, user.ID, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("pending subscription", map[string]any{"sessionId": sessionID})
		}
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		event := events.New(events.EventSubscriptionActivated, sub.ID, user.ID, events.SubscriptionActivatedPayload{TierID: sub.TierID})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return sub, nil
}
