package domain

import "time"

// Audience separates tokens issued to the two actor spaces.
type Audience string

const (
	AudienceUser  Audience = "user"
	AudienceAdmin Audience = "admin"
)

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	SubjectID string
	Audience  Audience
	ExpiresAt time.Time
	IssuedAt  time.Time
}
