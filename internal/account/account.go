package account

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an account is not found.
	ErrNotFound = errors.New("account not found")
	// ErrUsernameTaken is returned when the username is already in use.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrEmailTaken is returned when the email is already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidRole is returned when a role outside the closed enum is
	// supplied at account creation.
	ErrInvalidRole = errors.New("invalid role")
	// ErrNoMemberProfile is returned when an account has no linked member.
	ErrNoMemberProfile = errors.New("account has no member profile")
)

// Role is the closed set of account roles. Free-text roles are rejected at
// creation time.
type Role string

const (
	RoleMember        Role = "member"
	RoleAdministrator Role = "administrator"
)

func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdministrator
}

// Account is a login identity, optionally linked to a member profile.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	MemberID     *int64    `json:"member_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
