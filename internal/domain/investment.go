package domain

import "time"

// Investment records money committed by an investor to a project.
type Investment struct {
	ID          string
	ProjectID   string
	InvestorID  string
	AmountCents int64
	CreatedAt   time.Time
}

// Holding is an investor's aggregated position in one project.
type Holding struct {
	Project       Project
	InvestedCents int64
}
