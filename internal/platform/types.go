package platform

import "time"

// Credentials is the login payload for both actor spaces.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest creates a regular account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// User is the identity the API returns from login and who-am-I calls.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
}

// LoginResponse is returned by POST /login and POST /admin/login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// MeResponse is returned by GET /me and GET /admin/me.
type MeResponse struct {
	User User `json:"user"`
}

// Artist is a public artist profile.
type Artist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Genre string `json:"genre"`
	Bio   string `json:"bio,omitempty"`
}

// Project is a funding campaign with its progress.
type Project struct {
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

// ArtistDetail bundles an artist with the projects visible to the public.
type ArtistDetail struct {
	Artist   Artist    `json:"artist"`
	Projects []Project `json:"projects"`
}

// Tier is a paid subscription level.
type Tier struct {
	ID         string `json:"id"`
	ArtistID   string `json:"artistId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Currency   string `json:"currency"`
}

// NewProject is the draft an artist submits for review.
type NewProject struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GoalCents   int64  `json:"goalCents"`
}

// NewTier is a subscription tier an artist offers.
type NewTier struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

// Investment is a committed amount.
type Investment struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	AmountCents int64     `json:"amountCents"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PortfolioItem is one holding in the caller's portfolio.
type PortfolioItem struct {
	Project       Project `json:"project"`
	InvestedCents int64   `json:"investedCents"`
}

// CheckoutSession is handed back by the payment processor. The client secret is opaque
// and only ever round-tripped.
type CheckoutSession struct {
	SessionID      string `json:"sessionId"`
	ClientSecret   string `json:"clientSecret"`
	PublishableKey string `json:"publishableKey,omitempty"`
	Provider       string `json:"provider"`
}

// Subscription is an activated or pending tier subscription.
type Subscription struct {
	ID     string `json:"id"`
	TierID string `json:"tierId"`
	Status string `json:"status"`
}

// UnlockRequest asks administrators to release raised funds.
type UnlockRequest struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	AmountCents int64     `json:"amountCents"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	ReviewNote  string    `json:"reviewNote,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Review is an administrator verdict.
type Review struct {
	Decision string `json:"decision"`
	Note     string `json:"note,omitempty"`
}
