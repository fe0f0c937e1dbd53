// Package session keeps track of who is logged in, once per actor space.
package session

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/platform"
)

// Space describes one actor space: where its slots live and which API paths it uses.
type Space struct {
	Name         string
	TokenKey     string
	IdentityKey  string
	BasePath     string
	LoginPath    string
	RequireAdmin bool
}

var (
	// UserSpace is the ordinary application.
	UserSpace = Space{
		Name:        "user",
		TokenKey:    "fanfund.token",
		IdentityKey: "fanfund.user",
		BasePath:    "",
		LoginPath:   "/login",
	}
	// AdminSpace is the admin panel.
	AdminSpace = Space{
		Name:         "admin",
		TokenKey:     "fanfund.adminToken",
		IdentityKey:  "fanfund.adminUser",
		BasePath:     "/admin",
		LoginPath:    "/admin/login",
		RequireAdmin: true,
	}
)

// Session is one authenticated actor.
type Session struct {
	SubjectID   string
	DisplayName string
	Email       string
	RoleName    string
	Role        domain.Role
	Admin       bool
	Token       string
}

// State is the projection the auth gate consumes.
type State struct {
	Loading       bool
	Authenticated bool
}

// RoleOf returns the navigation role for s; no session means RoleNone.
func RoleOf(s *Session) domain.Role {
	if s == nil {
		return domain.RoleNone
	}
	return s.Role
}

// identityRecord is the persisted identity. TokenDigest ties it to the token it was
// written with; a record whose digest does not match the stored token is ignored.
type identityRecord struct {
	SubjectID   string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	IsAdmin     bool   `json:"isAdmin,omitempty"`
	TokenDigest string `json:"tokenDigest"`
}

func fromUser(u platform.User, token string) *Session {
	return &Session{
		SubjectID:   u.ID,
		DisplayName: u.Username,
		Email:       u.Email,
		RoleName:    u.Role,
		Role:        domain.ParseRole(u.Role),
		Admin:       u.IsAdmin,
		Token:       token,
	}
}

func (r identityRecord) session(token string) *Session {
	return fromUser(platform.User{
		ID:       r.SubjectID,
		Username: r.Username,
		Email:    r.Email,
		Role:     r.Role,
		IsAdmin:  r.IsAdmin,
	}, token)
}

func recordFor(s *Session) identityRecord {
	return identityRecord{
		SubjectID:   s.SubjectID,
		Username:    s.DisplayName,
		Email:       s.Email,
		Role:        s.RoleName,
		IsAdmin:     s.Admin,
		TokenDigest: tokenDigest(s.Token),
	}
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
