package dto

import "time"

// InvestRequest commits money to a project.
type InvestRequest struct {
	AmountCents int64 `json:"amountCents" validate:"gt=0"`
}

// InvestmentResponse is a committed investment.
type InvestmentResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	AmountCents int64     `json:"amountCents"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PortfolioItemResponse is one holding.
type PortfolioItemResponse struct {
	Project       ProjectResponse `json:"project"`
	InvestedCents int64           `json:"investedCents"`
}

// CheckoutRequest opens a payment session for a tier.
type CheckoutRequest struct {
	TierID string `json:"tierId" validate:"required"`
}

// CheckoutResponse is the payment session the client completes with the processor.
type CheckoutResponse struct {
	SessionID      string `json:"sessionId"`
	ClientSecret   string `json:"clientSecret"`
	PublishableKey string `json:"publishableKey,omitempty"`
	Provider       string `json:"provider"`
}

// ConfirmCheckoutRequest activates the subscription of a completed session.
type ConfirmCheckoutRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// SubscriptionResponse is a tier subscription.
type SubscriptionResponse struct {
	ID     string `json:"id"`
	TierID string `json:"tierId"`
	Status string `json:"status"`
}

// UnlockRequestCreate asks for raised funds to be released.
type UnlockRequestCreate struct {
	AmountCents int64  `json:"amountCents" validate:"gt=0"`
	Reason      string `json:"reason" validate:"required,max=1000"`
}

// UnlockRequestResponse is a fund-unlock request.
type UnlockRequestResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	AmountCents int64     `json:"amountCents"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	ReviewNote  string    `json:"reviewNote,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReviewRequest is an administrator verdict.
type ReviewRequest struct {
	Decision string `json:"decision" validate:"required,decision"`
	Note     string `json:"note" validate:"max=1000"`
}
