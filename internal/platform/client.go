// Package platform is the HTTP client for the fanfund platform API.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks JSON to the platform API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client with a tuned transport, following the gateway clients we run
// against identity providers.
func New(baseURL string, timeout time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout, Transport: transport})
}

// NewWithHTTPClient lets tests and callers supply their own http.Client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// Login exchanges credentials for a token. basePath selects the actor space
// ("" for users, "/admin" for administrators).
func (c *Client) Login(ctx context.Context, basePath string, creds Credentials) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, basePath+"/login", "", creds, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("%w: login response without token", ErrDecode)
	}
	return &out, nil
}

// Me returns the identity bound to token.
func (c *Client) Me(ctx context.Context, basePath, token string) (*User, error) {
	var out MeResponse
	if err := c.do(ctx, http.MethodGet, basePath+"/me", token, nil, &out); err != nil {
		return nil, err
	}
	if out.User.ID == "" {
		return nil, fmt.Errorf("%w: identity without id", ErrDecode)
	}
	return &out.User, nil
}

// Logout revokes token on the platform.
func (c *Client) Logout(ctx context.Context, basePath, token string) error {
	return c.do(ctx, http.MethodPost, basePath+"/logout", token, nil, nil)
}

// Register creates a regular account and returns its first token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListArtists returns every artist profile.
func (c *Client) ListArtists(ctx context.Context) ([]Artist, error) {
	var out envelope[[]Artist]
	if err := c.do(ctx, http.MethodGet, "/artists", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetArtist returns an artist with its approved projects and their funding progress.
func (c *Client) GetArtist(ctx context.Context, id string) (*ArtistDetail, error) {
	var out envelope[ArtistDetail]
	if err := c.do(ctx, http.MethodGet, "/artists/"+url.PathEscape(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListTiers returns the subscription tiers an artist offers.
func (c *Client) ListTiers(ctx context.Context, artistID string) ([]Tier, error) {
	var out envelope[[]Tier]
	if err := c.do(ctx, http.MethodGet, "/artists/"+url.PathEscape(artistID)+"/tiers", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateProject submits a draft project for review.
func (c *Client) CreateProject(ctx context.Context, token string, p NewProject) (*Project, error) {
	var out envelope[Project]
	if err := c.do(ctx, http.MethodPost, "/projects", token, p, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CreateTier adds a subscription tier to the caller's artist profile.
func (c *Client) CreateTier(ctx context.Context, token string, t NewTier) (*Tier, error) {
	var out envelope[Tier]
	if err := c.do(ctx, http.MethodPost, "/tiers", token, t, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Invest commits amountCents to a project.
func (c *Client) Invest(ctx context.Context, token, projectID string, amountCents int64) (*Investment, error) {
	var out envelope[Investment]
	body := map[string]int64{"amountCents": amountCents}
	if err := c.do(ctx, http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/investments", token, body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Portfolio lists the caller's holdings.
func (c *Client) Portfolio(ctx context.Context, token string) ([]PortfolioItem, error) {
	var out envelope[[]PortfolioItem]
	if err := c.do(ctx, http.MethodGet, "/portfolio", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Checkout opens a payment session for a tier.
func (c *Client) Checkout(ctx context.Context, token, tierID string) (*CheckoutSession, error) {
	var out envelope[CheckoutSession]
	body := map[string]string{"tierId": tierID}
	if err := c.do(ctx, http.MethodPost, "/subscriptions/checkout", token, body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ConfirmCheckout activates the subscription bound to a completed payment session.
func (c *Client) ConfirmCheckout(ctx context.Context, token, sessionID string) (*Subscription, error) {
	var out envelope[Subscription]
	body := map[string]string{"sessionId": sessionID}
	if err := c.do(ctx, http.MethodPost, "/subscriptions/confirm", token, body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// RequestUnlock asks administrators to release raised funds of a project.
func (c *Client) RequestUnlock(ctx context.Context, token, projectID string, amountCents int64, reason string) (*UnlockRequest, error) {
	var out envelope[UnlockRequest]
	body := map[string]any{"amountCents": amountCents, "reason": reason}
	if err := c.do(ctx, http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/unlock-requests", token, body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListProjects lists projects by status for administrators.
func (c *Client) ListProjects(ctx context.Context, adminToken, status string) ([]Project, error) {
	var out envelope[[]Project]
	path := "/admin/projects"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	if err := c.do(ctx, http.MethodGet, path, adminToken, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ReviewProject approves or rejects a draft project.
func (c *Client) ReviewProject(ctx context.Context, adminToken, projectID string, review Review) (*Project, error) {
	var out envelope[Project]
	if err := c.do(ctx, http.MethodPost, "/admin/projects/"+url.PathEscape(projectID)+"/review", adminToken, review, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListUnlockRequests lists fund-unlock requests by status for administrators.
func (c *Client) ListUnlockRequests(ctx context.Context, adminToken, status string) ([]UnlockRequest, error) {
	var out envelope[[]UnlockRequest]
	path := "/admin/unlock-requests"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	if err := c.do(ctx, http.MethodGet, path, adminToken, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ReviewUnlock approves or rejects a fund-unlock request.
func (c *Client) ReviewUnlock(ctx context.Context, adminToken, requestID string, review Review) (*UnlockRequest, error) {
	var out envelope[UnlockRequest]
	if err := c.do(ctx, http.MethodPost, "/admin/unlock-requests/"+url.PathEscape(requestID)+"/review", adminToken, review, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
