package loan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"biblio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticResolver struct {
	memberID int64
	err      error
}

func (r staticResolver) MemberIDForAccount(ctx context.Context, accountID int64) (int64, error) {
	return r.memberID, r.err
}

func newTestHandler(store Store, now time.Time) *HTTPHandler {
	return NewHTTPHandler(newTestService(store, now), staticResolver{memberID: 7})
}

func TestHTTPHandler_Borrow(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success includes due date label", func(t *testing.T) {
		store := newMemoryStore(BookState{ID: 1, Available: true})
		handler := newTestHandler(store, now)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/loans", map[string]any{"book_id": 1})
		handler.Borrow(w, r)

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusCreated, resp.Code)

		data := resp.Body["data"].(map[string]any)
		assert.Equal(t, "Book borrowed, due 15/03/2026", data["message"])
	})

	t.Run("unavailable book", func(t *testing.T) {
		store := newMemoryStore(BookState{ID: 1, Available: false})
		handler := newTestHandler(store, now)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/loans", map[string]any{"book_id": 1})
		handler.Borrow(w, r)

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusConflict, resp.Code)
		errBody := resp.Body["error"].(map[string]any)
		assert.Equal(t, "BOOK_UNAVAILABLE", errBody["code"])
	})

	t.Run("missing book id", func(t *testing.T) {
		store := newMemoryStore()
		handler := newTestHandler(store, now)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/loans", map[string]any{})
		handler.Borrow(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("account without member profile", func(t *testing.T) {
		store := newMemoryStore(BookState{ID: 1, Available: true})
		handler := NewHTTPHandler(newTestService(store, now), staticResolver{err: context.Canceled})

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/loans", map[string]any{"book_id": 1})
		handler.Borrow(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHTTPHandler_ManageLoan(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		store := newMemoryStore(BookState{ID: 2, Available: true})
		handler := newTestHandler(store, now)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/admin/loans", map[string]any{
			"member_id": 3,
			"book_id":   2,
			"due_date":  "2026-04-01",
		})
		handler.ManageLoan(w, r)

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusCreated, resp.Code)
		data := resp.Body["data"].(map[string]any)
		assert.Equal(t, "01/04/2026", data["due_date_label"])
	})

	t.Run("malformed due date", func(t *testing.T) {
		store := newMemoryStore(BookState{ID: 2, Available: true})
		handler := newTestHandler(store, now)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/admin/loans", map[string]any{
			"member_id": 3,
			"book_id":   2,
			"due_date":  "01/04/2026",
		})
		handler.ManageLoan(w, r)

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		errBody := resp.Body["error"].(map[string]any)
		assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
		assert.Empty(t, store.loans, "rejected input leaves state unchanged")
	})

	t.Run("non-numeric ids rejected by decoder", func(t *testing.T) {
		store := newMemoryStore()
		handler := newTestHandler(store, now)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/admin/loans",
			strings.NewReader(`{"member_id": "three", "book_id": 2, "due_date": "2026-04-01"}`))
		handler.ManageLoan(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Return(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("idempotent", func(t *testing.T) {
		store := newMemoryStore(BookState{ID: 1, Available: true})
		handler := newTestHandler(store, now)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/loans", map[string]any{"book_id": 1})
		handler.Borrow(w, r)
		require.Equal(t, http.StatusCreated, w.Code)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			r := testutil.NewRequest(http.MethodPost, "/api/loans/1/return", nil)
			r.SetPathValue("id", "1")
			handler.Return(w, r)

			resp := testutil.RecordHTTPResponse(w)
			require.Equal(t, http.StatusOK, resp.Code)
			data := resp.Body["data"].(map[string]any)
			assert.Equal(t, "returned", data["status"])
		}
		assert.True(t, store.books[1].Available)
	})

	t.Run("unknown id", func(t *testing.T) {
		store := newMemoryStore()
		handler := newTestHandler(store, now)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/loans/99/return", nil)
		r.SetPathValue("id", "99")
		handler.Return(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		store := newMemoryStore()
		handler := newTestHandler(store, now)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/loans/abc/return", nil)
		r.SetPathValue("id", "abc")
		handler.Return(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Extend(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := newMemoryStore(BookState{ID: 1, Available: true})
	handler := newTestHandler(store, now)

	w := httptest.NewRecorder()
	r := testutil.NewRequest(http.MethodPost, "/api/loans", map[string]any{"book_id": 1})
	handler.Borrow(w, r)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r = testutil.NewRequest(http.MethodPost, "/api/admin/loans/1/extend", map[string]any{"days": 7})
	r.SetPathValue("id", "1")
	handler.Extend(w, r)

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].(map[string]any)
	assert.Equal(t, "22/03/2026", data["due_date_label"])
	assert.Equal(t, float64(1), data["extensions"])
}
