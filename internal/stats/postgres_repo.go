package stats

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) BookCounts(ctx context.Context) (total, available int, err error) {
	const query = `SELECT COUNT(*), COUNT(*) FILTER (WHERE available) FROM books`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, query).Scan(&total, &available)
	return total, available, err
}

// ActiveLoanCountsByCategory groups active loans by book category, count
// descending with category name as the tie-break.
func (r *PostgresRepo) ActiveLoanCountsByCategory(ctx context.Context) ([]CategoryCount, error) {
	const query = `
		SELECT b.category, COUNT(*)
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE l.status = 'active'
		GROUP BY b.category
		ORDER BY COUNT(*) DESC, b.category ASC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LoanCountsByMember counts loans of any status per member, top `limit`
// borrowers first.
func (r *PostgresRepo) LoanCountsByMember(ctx context.Context, limit int) ([]MemberCount, error) {
	const query = `
		SELECT m.id, m.name, COUNT(*)
		FROM loans l
		JOIN members m ON m.id = l.member_id
		GROUP BY m.id, m.name
		ORDER BY COUNT(*) DESC, m.name ASC
		LIMIT $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MemberCount
	for rows.Next() {
		var m MemberCount
		if err := rows.Scan(&m.MemberID, &m.Name, &m.Count); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
