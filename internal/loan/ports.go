package loan

import (
	"context"
)

// BookState is the slice of the book row the lifecycle needs.
type BookState struct {
	ID        int64
	Available bool
}

// Store defines the persistence contract for the loan lifecycle.
//
// InTx runs fn against a transactional view of the store; every mutation in
// fn commits or rolls back as one unit. BookForUpdate must take a
// serializing guard on the book (the Postgres store locks the row), so the
// check-then-act borrow sequence cannot interleave for the same book.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error
	BookForUpdate(ctx context.Context, bookID int64) (BookState, error)
	SetBookAvailable(ctx context.Context, bookID int64, available bool) error
	ActiveLoanForBook(ctx context.Context, bookID int64) (Loan, bool, error)
	Insert(ctx context.Context, l *Loan) error
	Get(ctx context.Context, id int64) (Loan, error)
	GetForUpdate(ctx context.Context, id int64) (Loan, error)
	Update(ctx context.Context, l *Loan) error
	List(ctx context.Context) ([]Loan, error)
	ListByMember(ctx context.Context, memberID int64) ([]Loan, error)
}
