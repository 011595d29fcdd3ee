package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const insertAccountSQL = `
	INSERT INTO accounts (username, email, password_hash, role, member_id, created_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	RETURNING id, created_at
`

func (r *PostgresRepo) Create(ctx context.Context, a *Account) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, insertAccountSQL,
		a.Username, a.Email, a.PasswordHash, string(a.Role), a.MemberID,
	).Scan(&a.ID, &a.CreatedAt)
	return mapUniqueViolation(err)
}

// CreateWithProfile inserts the member profile and the account in one
// transaction. A unique violation on either table rolls both inserts back.
func (r *PostgresRepo) CreateWithProfile(ctx context.Context, a *Account, profileName, profileEmail string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(timeoutCtx) }()

	var memberID int64
	err = tx.QueryRow(timeoutCtx, `
		INSERT INTO members (name, email, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id`,
		profileName, profileEmail,
	).Scan(&memberID)
	if err != nil {
		return mapUniqueViolation(err)
	}

	a.MemberID = &memberID
	err = tx.QueryRow(timeoutCtx, insertAccountSQL,
		a.Username, a.Email, a.PasswordHash, string(a.Role), a.MemberID,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		a.MemberID = nil
		return mapUniqueViolation(err)
	}

	return tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Account, error) {
	const query = `
		SELECT id, username, email, password_hash, role, member_id, created_at
		FROM accounts WHERE id = $1
	`
	return r.get(ctx, query, id)
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (Account, error) {
	const query = `
		SELECT id, username, email, password_hash, role, member_id, created_at
		FROM accounts WHERE username = $1
	`
	return r.get(ctx, query, username)
}

func (r *PostgresRepo) get(ctx context.Context, query string, arg any) (Account, error) {
	var a Account
	var role string

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, arg).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &role, &a.MemberID, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	a.Role = Role(role)
	return a, nil
}

// mapUniqueViolation translates the unique constraints of the accounts and
// members tables to the conflict sentinels.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return ErrEmailTaken
		}
		return ErrUsernameTaken
	}
	return err
}
