package book

import (
	"context"
)

// Service provides catalogue business logic.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the books matching the catalogue filter, in catalogue order.
func (s *Service) List(ctx context.Context, f Filter) ([]Book, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create registers a new book. Books start available.
func (s *Service) Create(ctx context.Context, b *Book) error {
	b.Available = true
	return s.repo.Create(ctx, b)
}

func (s *Service) Update(ctx context.Context, b *Book) error {
	return s.repo.Update(ctx, b)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// SetFiles records the stored attachment names for a book.
func (s *Service) SetFiles(ctx context.Context, id int64, cover, content *string) error {
	return s.repo.SetFiles(ctx, id, cover, content)
}
