// Package navigation derives the destinations an actor can see.
package navigation

import (
	"strings"

	"github.com/spec-kit/fanfund/internal/domain"
)

// AdminPrefix marks the admin section, which renders its own navigation.
const AdminPrefix = "/admin"

// Entry is one navigation destination.
type Entry struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var (
	home      = Entry{Path: "/", Label: "Home", Icon: "home"}
	search    = Entry{Path: "/search", Label: "Search", Icon: "search"}
	analytics = Entry{Path: "/analytics", Label: "Analytics", Icon: "bar-chart"}
	create    = Entry{Path: "/create", Label: "Create", Icon: "plus-circle"}
	portfolio = Entry{Path: "/portfolio", Label: "Portfolio", Icon: "briefcase"}
	settings  = Entry{Path: "/settings", Label: "Settings", Icon: "settings"}
)

// Destinations returns the ordered entries visible to role at path. It is a pure
// function of its inputs and returns a new slice on every call.
func Destinations(role domain.Role, path string) []Entry {
	if strings.HasPrefix(path, AdminPrefix) {
		return []Entry{}
	}

	switch role {
	case domain.RoleNone:
		return []Entry{}
	case domain.RoleArtist:
		return []Entry{home, search, analytics, create, settings}
	case domain.RoleInvestorOrLabel:
		return []Entry{home, search, analytics, portfolio, settings}
	case domain.RoleFan:
		return []Entry{home, search, settings}
	default:
		// unknown variants get the least privileged view
		return []Entry{home, search, settings}
	}
}
