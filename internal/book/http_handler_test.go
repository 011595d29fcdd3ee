package book

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"biblio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo backs handler tests with ApplyFilter as the filter semantics.
type memoryRepo struct {
	books  []Book
	nextID int64
}

func newMemoryRepo(books ...Book) *memoryRepo {
	r := &memoryRepo{books: books}
	for _, b := range books {
		if b.ID > r.nextID {
			r.nextID = b.ID
		}
	}
	return r
}

func (r *memoryRepo) List(ctx context.Context, f Filter) ([]Book, error) {
	return ApplyFilter(r.books, f), nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	for _, b := range r.books {
		if b.ID == id {
			return b, nil
		}
	}
	return Book{}, ErrNotFound
}

func (r *memoryRepo) Create(ctx context.Context, b *Book) error {
	for _, existing := range r.books {
		if existing.ISBN == b.ISBN {
			return ErrISBNTaken
		}
	}
	r.nextID++
	b.ID = r.nextID
	r.books = append(r.books, *b)
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, b *Book) error {
	for i, existing := range r.books {
		if existing.ID == b.ID {
			b.Available = existing.Available
			r.books[i] = *b
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	for i, existing := range r.books {
		if existing.ID == id {
			r.books = append(r.books[:i], r.books[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryRepo) SetFiles(ctx context.Context, id int64, cover, content *string) error {
	for i := range r.books {
		if r.books[i].ID == id {
			if cover != nil {
				r.books[i].CoverFile = cover
			}
			if content != nil {
				r.books[i].ContentFile = content
			}
			return nil
		}
	}
	return ErrNotFound
}

type discardFileStore struct{}

func (discardFileStore) Save(filename string, data io.Reader) (string, error) {
	return filename, nil
}

func TestHTTPHandler_Catalogue(t *testing.T) {
	repo := newMemoryRepo(
		Book{ID: 1, ISBN: "111", Title: "Dune", Author: "Frank Herbert", Category: "Fiction", Available: true},
		Book{ID: 2, ISBN: "222", Title: "Emma", Author: "Jane Austen", Category: "Fiction", Available: false},
		Book{ID: 3, ISBN: "333", Title: "Cosmos", Author: "Carl Sagan", Category: "Science", Available: true},
	)
	handler := NewHTTPHandler(NewService(repo), discardFileStore{})

	t.Run("unfiltered", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/catalogue", nil)
		handler.Catalogue(w, r)

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Len(t, resp.Body["data"], 3)
	})

	t.Run("category and status", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/catalogue?category=Fiction&status=available&q=", nil)
		handler.Catalogue(w, r)

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Body["data"].([]any)
		require.Len(t, data, 1)
		assert.Equal(t, "Dune", data[0].(map[string]any)["title"])
	})

	t.Run("search", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/catalogue?q=austen", nil)
		handler.Catalogue(w, r)

		resp := testutil.RecordHTTPResponse(w)
		data := resp.Body["data"].([]any)
		require.Len(t, data, 1)
		assert.Equal(t, "Emma", data[0].(map[string]any)["title"])
	})
}

func TestHTTPHandler_GetByID(t *testing.T) {
	repo := newMemoryRepo(Book{ID: 1, ISBN: "111", Title: "Dune", Author: "Frank Herbert", Category: "Fiction", Available: true})
	handler := NewHTTPHandler(NewService(repo), discardFileStore{})

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/1", nil)
		r.SetPathValue("id", "1")
		handler.GetByID(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/9", nil)
		r.SetPathValue("id", "9")
		handler.GetByID(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	t.Run("success starts available", func(t *testing.T) {
		repo := newMemoryRepo()
		handler := NewHTTPHandler(NewService(repo), discardFileStore{})

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/books", map[string]any{
			"isbn":     "9780134190440",
			"title":    "The Go Programming Language",
			"author":   "Alan Donovan",
			"year":     2015,
			"category": "Technology",
		})
		handler.Create(w, r)

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusCreated, resp.Code)
		data := resp.Body["data"].(map[string]any)
		assert.Equal(t, true, data["available"])
	})

	t.Run("invalid isbn", func(t *testing.T) {
		repo := newMemoryRepo()
		handler := NewHTTPHandler(NewService(repo), discardFileStore{})

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/books", map[string]any{
			"isbn":     "not-an-isbn",
			"title":    "T",
			"author":   "A",
			"category": "C",
		})
		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		repo := newMemoryRepo(Book{ID: 1, ISBN: "9780134190440", Title: "X", Author: "Y", Category: "Z"})
		handler := NewHTTPHandler(NewService(repo), discardFileStore{})

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/books", map[string]any{
			"isbn":     "9780134190440",
			"title":    "The Go Programming Language",
			"author":   "Alan Donovan",
			"category": "Technology",
		})
		handler.Create(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		repo := newMemoryRepo()
		handler := NewHTTPHandler(NewService(repo), discardFileStore{})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader("{"))
		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
