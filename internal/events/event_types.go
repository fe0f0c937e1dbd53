package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/fanfund/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventInvestmentCreated     EventType = "investment_created"
	EventProjectReviewed       EventType = "project_reviewed"
	EventUnlockReviewed        EventType = "unlock_reviewed"
	EventSubscriptionActivated EventType = "subscription_activated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	ActorID    string      `json:"actor_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, resourceID, actorID string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ResourceID: resourceID,
		ActorID:    actorID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// InvestmentCreatedPayload payload.
type InvestmentCreatedPayload struct {
	ProjectID   string `json:"project_id"`
	AmountCents int64  `json:"amount_cents"`
}

// ProjectReviewedPayload payload.
type ProjectReviewedPayload struct {
	ArtistID string               `json:"artist_id"`
	Status   domain.ProjectStatus `json:"status"`
	Note     string               `json:"note,omitempty"`
}

// UnlockReviewedPayload payload.
type UnlockReviewedPayload struct {
	ProjectID   string              `json:"project_id"`
	AmountCents int64               `json:"amount_cents"`
	Status      domain.UnlockStatus `json:"status"`
}

// SubscriptionActivatedPayload payload.
type SubscriptionActivatedPayload struct {
	TierID string `json:"tier_id"`
}
