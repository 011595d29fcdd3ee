package book

import (
	"context"
)

// Repository defines the contract for book storage.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id int64) error
	SetFiles(ctx context.Context, id int64, cover, content *string) error
}
