package member

import (
	"context"
)

// Repository defines the contract for member storage.
type Repository interface {
	List(ctx context.Context) ([]Member, error)
	GetByID(ctx context.Context, id int64) (Member, error)
	Create(ctx context.Context, m *Member) error
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, id int64) error
}
