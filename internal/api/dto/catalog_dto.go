package dto

import "time"

// ArtistResponse is a public artist profile.
type ArtistResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Genre string `json:"genre"`
	Bio   string `json:"bio,omitempty"`
}

// ArtistDetailResponse bundles an artist with its approved projects.
type ArtistDetailResponse struct {
	Artist   ArtistResponse    `json:"artist"`
	Projects []ProjectResponse `json:"projects"`
}

// ProjectResponse is a funding campaign with progress.
type ProjectResponse struct {
	ID             string    `json:"id"`
	ArtistID       string    `json:"artistId"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	GoalCents      int64     `json:"goalCents"`
	RaisedCents    int64     `json:"raisedCents"`
	FundingPercent float64   `json:"fundingPercent"`
	Status         string    `json:"status"`
	ReviewNote     string    `json:"reviewNote,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TierResponse is a subscription tier.
type TierResponse struct {
	ID         string `json:"id"`
	ArtistID   string `json:"artistId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Currency   string `json:"currency"`
}

// CreateProjectRequest submits a draft.
type CreateProjectRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=120"`
	Description string `json:"description" validate:"max=4000"`
	GoalCents   int64  `json:"goalCents" validate:"gt=0"`
}

// CreateTierRequest adds a subscription tier to the caller's artist profile.
type CreateTierRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=60"`
	PriceCents int64  `json:"priceCents" validate:"gt=0"`
}
