package domain

import "time"

// UnlockStatus enumerates review states for fund-unlock requests.
type UnlockStatus string

const (
	UnlockStatusPending  UnlockStatus = "PENDING"
	UnlockStatusApproved UnlockStatus = "APPROVED"
	UnlockStatusRejected UnlockStatus = "REJECTED"
)

// UnlockRequest asks administrators to release raised funds to the artist.
type UnlockRequest struct {
	ID          string
	ProjectID   string
	AmountCents int64
	Reason      string
	Status      UnlockStatus
	ReviewNote  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
