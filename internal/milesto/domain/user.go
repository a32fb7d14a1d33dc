package domain

import "time"

// AccountRole is the platform-level role chosen at registration. It is
// unrelated to per-project member roles.
type AccountRole string

const (
	AccountRoleStudent AccountRole = "student"
	AccountRoleFaculty AccountRole = "faculty"
)

// ValidAccountRole reports whether r is one of the accepted registration roles.
func ValidAccountRole(r AccountRole) bool {
	return r == AccountRoleStudent || r == AccountRoleFaculty
}

type User struct {
	ID           string
	Name         string
	Email        string // stored lowercased
	PasswordHash string // argon2id encoded, never serialized
	University   string
	Role         AccountRole
	IsActive     bool
	LastLogin    *time.Time

	// Password-reset state. Only the SHA-256 fingerprint of the reset token
	// is stored; both fields are cleared once the reset completes.
	ResetTokenHash    *string
	ResetTokenExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
