package domain

import "time"

// User is a platform account. Administrators are users with IsAdmin set.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         AccountRole
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
