package domain

import "time"

// ProjectStatus enumerates review states for funding projects.
type ProjectStatus string

const (
	ProjectStatusDraft    ProjectStatus = "DRAFT"
	ProjectStatusApproved ProjectStatus = "APPROVED"
	ProjectStatusRejected ProjectStatus = "REJECTED"
)

// ReviewDecision is an administrator's verdict on a draft or an unlock request.
type ReviewDecision string

const (
	ReviewApprove ReviewDecision = "approve"
	ReviewReject  ReviewDecision = "reject"
)

// Valid reports whether the decision is one of the known verdicts.
func (d ReviewDecision) Valid() bool {
	return d == ReviewApprove || d == ReviewReject
}

// Project is a funding campaign run by an artist.
type Project struct {
	ID          string
	ArtistID    string
	Title       string
	Description string
	GoalCents   int64
	RaisedCents int64
	Status      ProjectStatus
	ReviewNote  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FundingPercent returns raised/goal as a percentage. It is not capped at 100.
func (p Project) FundingPercent() float64 {
	if p.GoalCents <= 0 {
		return 0
	}
	return float64(p.RaisedCents) * 100 / float64(p.GoalCents)
}

// AvailableCents is the amount raised but not yet unlocked or requested.
func (p Project) AvailableCents(unlocked int64) int64 {
	if unlocked >= p.RaisedCents {
		return 0
	}
	return p.RaisedCents - unlocked
}
