package member

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a member is not found.
	ErrNotFound = errors.New("member not found")
	// ErrEmailTaken is returned when another member already uses the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrHasLoans is returned when deleting a member with loan history.
	ErrHasLoans = errors.New("member has loan history")
)

// Member is a library patron profile. Loans reference members by id and are
// kept forever, so members with history cannot be deleted.
type Member struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
