package auth

import "time"

// User represents an application account. A user belongs to at most one
// organization; the association is resolved by the tenant package.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
