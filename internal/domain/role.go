package domain

import "strings"

// AccountRole is the role string stored on a platform account.
type AccountRole string

const (
	AccountRoleArtist   AccountRole = "artist"
	AccountRoleInvestor AccountRole = "investor"
	AccountRoleLabel    AccountRole = "label"
	AccountRoleFan      AccountRole = "fan"
)

// Valid reports whether the role may be assigned at registration.
func (r AccountRole) Valid() bool {
	switch r {
	case AccountRoleArtist, AccountRoleInvestor, AccountRoleLabel, AccountRoleFan:
		return true
	}
	return false
}

// Role is the closed set of roles the client distinguishes.
type Role int

const (
	// RoleNone means there is no session at all.
	RoleNone Role = iota
	RoleArtist
	RoleInvestorOrLabel
	RoleFan
)

// ParseRole maps a wire role onto the closed variant. Unknown roles are plain fans;
// RoleNone is reserved for the absence of a session and is never produced here.
func ParseRole(raw string) Role {
	switch AccountRole(strings.ToLower(strings.TrimSpace(raw))) {
	case AccountRoleArtist:
		return RoleArtist
	case AccountRoleInvestor, AccountRoleLabel:
		return RoleInvestorOrLabel
	default:
		return RoleFan
	}
}

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleArtist:
		return "artist"
	case RoleInvestorOrLabel:
		return "investor_or_label"
	case RoleFan:
		return "fan"
	}
	return "unknown"
}
