package book

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrISBNTaken is returned when another book already carries the ISBN.
	ErrISBNTaken = errors.New("isbn already registered")
	// ErrInUse is returned when deleting a book that loans still reference.
	ErrInUse = errors.New("book is referenced by loans")
)

// Book represents a catalogue entry. Available is maintained by the loan
// lifecycle: true iff no active loan references the book.
type Book struct {
	ID          int64     `json:"id"`
	ISBN        string    `json:"isbn"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Year        int       `json:"year,omitempty"`
	Category    string    `json:"category"`
	Available   bool      `json:"available"`
	CoverFile   *string   `json:"cover_file,omitempty"`
	ContentFile *string   `json:"content_file,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Catalogue filter sentinels. An empty value means no restriction on that
// dimension, as does the explicit "all".
const (
	CategoryAll = "all"

	StatusAll       = "all"
	StatusAvailable = "available"
	StatusBorrowed  = "borrowed"
)

// Filter holds the catalogue predicates. All of them are ANDed together.
type Filter struct {
	Category string
	Status   string
	Search   string
}

// Matches reports whether a single book passes every predicate. An empty
// search term matches everything.
func (f Filter) Matches(b Book) bool {
	if f.Category != "" && f.Category != CategoryAll && b.Category != f.Category {
		return false
	}

	switch f.Status {
	case StatusAvailable:
		if !b.Available {
			return false
		}
	case StatusBorrowed:
		if b.Available {
			return false
		}
	}

	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(b.Title), term) &&
			!strings.Contains(strings.ToLower(b.Author), term) &&
			!strings.Contains(strings.ToLower(b.ISBN), term) {
			return false
		}
	}

	return true
}

// ApplyFilter keeps the books matching f, preserving the original order.
func ApplyFilter(books []Book, f Filter) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}
