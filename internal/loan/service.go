package loan

import (
	"context"
	"time"
)

// Service implements the loan lifecycle: borrow, return, extend, fees.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Borrow creates an active loan due in dueInDays days (DefaultLoanDays when
// dueInDays <= 0) and flips the book unavailable.
func (s *Service) Borrow(ctx context.Context, memberID, bookID int64, dueInDays int) (Loan, error) {
	if dueInDays <= 0 {
		dueInDays = DefaultLoanDays
	}
	now := s.now()
	return s.borrowAt(ctx, memberID, bookID, now, now.AddDate(0, 0, dueInDays))
}

// BorrowUntil creates an active loan with an explicit due date. Used by the
// administrator manage-loan path.
func (s *Service) BorrowUntil(ctx context.Context, memberID, bookID int64, due time.Time) (Loan, error) {
	return s.borrowAt(ctx, memberID, bookID, s.now(), due)
}

// borrowAt runs the check-then-act sequence under the store's per-book
// guard: the book row stays locked from the availability check until the
// flag flip commits.
func (s *Service) borrowAt(ctx context.Context, memberID, bookID int64, now, due time.Time) (Loan, error) {
	var out Loan
	err := s.store.InTx(ctx, func(tx Store) error {
		bk, err := tx.BookForUpdate(ctx, bookID)
		if err != nil {
			return err
		}

		active, found, err := tx.ActiveLoanForBook(ctx, bookID)
		if err != nil {
			return err
		}
		// The duplicate check runs first: a member re-borrowing the book
		// they hold would otherwise always see ErrBookUnavailable.
		if found && active.MemberID == memberID {
			return ErrDuplicateLoan
		}
		if found || !bk.Available {
			return ErrBookUnavailable
		}

		l := Loan{
			MemberID:  memberID,
			BookID:    bookID,
			CreatedAt: now,
			DueDate:   due,
			Status:    StatusActive,
		}
		if err := tx.Insert(ctx, &l); err != nil {
			return err
		}
		if err := tx.SetBookAvailable(ctx, bookID, false); err != nil {
			return err
		}
		out = l
		return nil
	})
	return out, err
}

// Return closes the loan and flips the book available again. Returning an
// already-returned loan is a no-op yielding the current state.
func (s *Service) Return(ctx context.Context, loanID int64) (Loan, error) {
	var out Loan
	err := s.store.InTx(ctx, func(tx Store) error {
		l, err := tx.GetForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if l.Status == StatusReturned {
			out = l
			return nil
		}

		now := s.now()
		l.Status = StatusReturned
		l.ReturnedAt = &now
		if err := tx.Update(ctx, &l); err != nil {
			return err
		}
		if err := tx.SetBookAvailable(ctx, l.BookID, true); err != nil {
			return err
		}
		out = l
		return nil
	})
	return out, err
}

// Extend pushes the due date of an active loan by days and counts the
// extension.
func (s *Service) Extend(ctx context.Context, loanID int64, days int) (Loan, error) {
	var out Loan
	err := s.store.InTx(ctx, func(tx Store) error {
		l, err := tx.GetForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if l.Status == StatusReturned {
			return ErrLoanReturned
		}

		l.DueDate = l.DueDate.AddDate(0, 0, days)
		l.Extensions++
		if err := tx.Update(ctx, &l); err != nil {
			return err
		}
		out = l
		return nil
	})
	return out, err
}

// SetFee stores an externally computed fee on the loan. No accrual rule is
// applied here.
func (s *Service) SetFee(ctx context.Context, loanID int64, amount float64) (Loan, error) {
	var out Loan
	err := s.store.InTx(ctx, func(tx Store) error {
		l, err := tx.GetForUpdate(ctx, loanID)
		if err != nil {
			return err
		}

		l.Fee = amount
		if err := tx.Update(ctx, &l); err != nil {
			return err
		}
		out = l
		return nil
	})
	return out, err
}

func (s *Service) Get(ctx context.Context, loanID int64) (Loan, error) {
	return s.store.Get(ctx, loanID)
}

func (s *Service) List(ctx context.Context) ([]Loan, error) {
	return s.store.List(ctx)
}

func (s *Service) ListByMember(ctx context.Context, memberID int64) ([]Loan, error) {
	return s.store.ListByMember(ctx, memberID)
}
