package loan

import (
	"errors"
	"time"
)

var (
	// ErrBookUnavailable is returned when borrowing a book whose
	// availability flag is false.
	ErrBookUnavailable = errors.New("book is not available")
	// ErrDuplicateLoan is returned when the member already holds the
	// active loan on the book.
	ErrDuplicateLoan = errors.New("member already holds an active loan on this book")
	// ErrLoanNotFound is returned for unknown loan ids.
	ErrLoanNotFound = errors.New("loan not found")
	// ErrBookNotFound is returned when borrowing an unknown book.
	ErrBookNotFound = errors.New("book not found")
	// ErrLoanReturned is returned when extending a loan that has already
	// been returned.
	ErrLoanReturned = errors.New("loan already returned")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusReturned Status = "returned"
)

// DefaultLoanDays is the loan period applied when a borrow request does not
// specify one.
const DefaultLoanDays = 14

// Loan records a member borrowing a book for a bounded period. Loans are
// never deleted; the active -> returned transition is terminal.
type Loan struct {
	ID         int64      `json:"id"`
	MemberID   int64      `json:"member_id"`
	BookID     int64      `json:"book_id"`
	CreatedAt  time.Time  `json:"created_at"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	Status     Status     `json:"status"`
	Extensions int        `json:"extensions"`
	Fee        float64    `json:"fee"`
}

// IsOverdue reports whether the loan is active and past due at the given
// time. It never mutates state.
func IsOverdue(l Loan, now time.Time) bool {
	return l.Status == StatusActive && now.After(l.DueDate)
}
