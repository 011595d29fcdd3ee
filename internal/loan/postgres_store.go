package loan

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists loans. Inside InTx the queries run on the
// transaction, so BookForUpdate's row lock serializes borrows per book.
type PostgresStore struct {
	pool *pgxpool.Pool
	q    pgxQuerier
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, q: pool}
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	if s.pool == nil {
		// Already transactional; nest flatly.
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&PostgresStore{q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) BookForUpdate(ctx context.Context, bookID int64) (BookState, error) {
	var b BookState
	err := s.q.QueryRow(ctx,
		`SELECT id, available FROM books WHERE id = $1 FOR UPDATE`, bookID,
	).Scan(&b.ID, &b.Available)
	if errors.Is(err, pgx.ErrNoRows) {
		return BookState{}, ErrBookNotFound
	}
	return b, err
}

func (s *PostgresStore) SetBookAvailable(ctx context.Context, bookID int64, available bool) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE books SET available = $1, updated_at = NOW() WHERE id = $2`, available, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

const loanColumns = `id, member_id, book_id, created_at, due_date, returned_at, status, extensions, fee`

func (s *PostgresStore) scanLoan(row pgx.Row) (Loan, error) {
	var l Loan
	var status string
	err := row.Scan(&l.ID, &l.MemberID, &l.BookID, &l.CreatedAt, &l.DueDate,
		&l.ReturnedAt, &status, &l.Extensions, &l.Fee)
	l.Status = Status(status)
	return l, err
}

func (s *PostgresStore) ActiveLoanForBook(ctx context.Context, bookID int64) (Loan, bool, error) {
	row := s.q.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE book_id = $1 AND status = 'active'`, bookID)
	l, err := s.scanLoan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, false, nil
	}
	if err != nil {
		return Loan{}, false, err
	}
	return l, true, nil
}

func (s *PostgresStore) Insert(ctx context.Context, l *Loan) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO loans (member_id, book_id, created_at, due_date, status, extensions, fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		l.MemberID, l.BookID, l.CreatedAt, l.DueDate, string(l.Status), l.Extensions, l.Fee,
	).Scan(&l.ID)
	if isPgError(err, "23505") {
		// The partial unique index on active loans backstops the
		// one-active-loan-per-book invariant.
		return ErrBookUnavailable
	}
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (Loan, error) {
	row := s.q.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
	l, err := s.scanLoan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, ErrLoanNotFound
	}
	return l, err
}

func (s *PostgresStore) GetForUpdate(ctx context.Context, id int64) (Loan, error) {
	row := s.q.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, id)
	l, err := s.scanLoan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, ErrLoanNotFound
	}
	return l, err
}

func (s *PostgresStore) Update(ctx context.Context, l *Loan) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE loans
		SET due_date = $1, returned_at = $2, status = $3, extensions = $4, fee = $5
		WHERE id = $6`,
		l.DueDate, l.ReturnedAt, string(l.Status), l.Extensions, l.Fee, l.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLoanNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Loan, error) {
	rows, err := s.q.Query(ctx, `SELECT `+loanColumns+` FROM loans ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collect(rows)
}

func (s *PostgresStore) ListByMember(ctx context.Context, memberID int64) ([]Loan, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE member_id = $1 ORDER BY id`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collect(rows)
}

func (s *PostgresStore) collect(rows pgx.Rows) ([]Loan, error) {
	var out []Loan
	for rows.Next() {
		l, err := s.scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
