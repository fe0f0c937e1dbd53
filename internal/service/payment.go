package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/fanfund/internal/config"
	"github.com/spec-kit/fanfund/internal/domain"
)

// CheckoutSession is what the payment processor hands back. The client secret is opaque.
type CheckoutSession struct {
	ID             string
	ClientSecret   string
	PublishableKey string
	Provider       string
}

// PaymentProcessor is the hosted checkout the platform delegates card handling to.
type PaymentProcessor interface {
	CreateCheckoutSession(ctx context.Context, tier domain.Tier, userID string) (*CheckoutSession, error)
	SessionCompleted(ctx context.Context, sessionID string) (bool, error)
}

// StubProcessor completes every session it created. It stands in for a real processor in
// development and tests.
type StubProcessor struct {
	publishableKey string

	mu       sync.Mutex
	sessions map[string]struct{}
}

// NewStubProcessor builds the development processor.
func NewStubProcessor(cfg config.PaymentConfig) *StubProcessor {
	return &StubProcessor{publishableKey: cfg.PublishableKey, sessions: make(map[string]struct{})}
}

func (p *StubProcessor) CreateCheckoutSession(_ context.Context, _ domain.Tier, _ string) (*CheckoutSession, error) {
	id := "cs_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	p.mu.Lock()
	p.sessions[id] = struct{}{}
	p.mu.Unlock()
	return &CheckoutSession{
		ID:             id,
		ClientSecret:   id + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		PublishableKey: p.publishableKey,
		Provider:       "stub",
	}, nil
}

func (p *StubProcessor) SessionCompleted(_ context.Context, sessionID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.sessions[sessionID]
	return ok, nil
}
