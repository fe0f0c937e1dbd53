package domain

import "time"

// Artist is the public profile investors and fans browse.
type Artist struct {
	ID        string
	UserID    string
	Name      string
	Genre     string
	Bio       string
	CreatedAt time.Time
}

// Tier is a paid subscription level offered by an artist.
type Tier struct {
	ID         string
	ArtistID   string
	Name       string
	PriceCents int64
	Currency   string
}
