package book

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
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

// List applies the catalogue filter in SQL, mirroring Filter.Matches.
// Ordering by id keeps the original catalogue order stable.
func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Book, error) {
	stmt := goqu.Dialect("postgres").
		From("books").
		Select("id", "isbn", "title", "author", "year", "category", "available",
			"cover_file", "content_file", "created_at", "updated_at").
		Order(goqu.I("id").Asc())

	if f.Category != "" && f.Category != CategoryAll {
		stmt = stmt.Where(goqu.C("category").Eq(f.Category))
	}

	switch f.Status {
	case StatusAvailable:
		stmt = stmt.Where(goqu.C("available").IsTrue())
	case StatusBorrowed:
		stmt = stmt.Where(goqu.C("available").IsFalse())
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		stmt = stmt.Where(goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("author").ILike(pattern),
			goqu.C("isbn").ILike(pattern),
		))
	}

	query, args, err := stmt.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Year, &b.Category, &b.Available,
			&b.CoverFile, &b.ContentFile, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	const query = `
		SELECT id, isbn, title, author, year, category, available,
		       cover_file, content_file, created_at, updated_at
		FROM books
		WHERE id = $1
	`
	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Year, &b.Category, &b.Available,
		&b.CoverFile, &b.ContentFile, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (isbn, title, author, year, category, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.ISBN, b.Title, b.Author, b.Year, b.Category, b.Available,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if isPgError(err, pgUniqueViolation) {
		return ErrISBNTaken
	}
	return err
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const query = `
		UPDATE books
		SET isbn = $1, title = $2, author = $3, year = $4, category = $5, updated_at = NOW()
		WHERE id = $6
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, b.ISBN, b.Title, b.Author, b.Year, b.Category, b.ID)
	if isPgError(err, pgUniqueViolation) {
		return ErrISBNTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if isPgError(err, pgForeignKeyViolation) {
		return ErrInUse
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) SetFiles(ctx context.Context, id int64, cover, content *string) error {
	const query = `
		UPDATE books
		SET cover_file = COALESCE($1, cover_file),
		    content_file = COALESCE($2, content_file),
		    updated_at = NOW()
		WHERE id = $3
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, cover, content, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
