package book

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"biblio/internal/httpx"
)

// FileStore persists uploaded attachments and returns the stored name.
type FileStore interface {
	Save(filename string, data io.Reader) (string, error)
}

type HTTPHandler struct {
	service *Service
	files   FileStore
}

func NewHTTPHandler(service *Service, files FileStore) *HTTPHandler {
	return &HTTPHandler{service: service, files: files}
}

// Catalogue handles GET /api/catalogue
func (h *HTTPHandler) Catalogue(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	f := Filter{
		Category: query.Get("category"),
		Status:   query.Get("status"),
		Search:   query.Get("q"),
	}

	books, err := h.service.List(r.Context(), f)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, books)
}

// GetByID handles GET /api/books/{id}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book id", nil)
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, b)
}

type bookRequest struct {
	ISBN     string `json:"isbn" validate:"required,isbn"`
	Title    string `json:"title" validate:"required,max=255"`
	Author   string `json:"author" validate:"required,max=255"`
	Year     int    `json:"year" validate:"omitempty,gte=0"`
	Category string `json:"category" validate:"required,max=100"`
}

// Create handles POST /api/books (administrator)
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", details)
		return
	}

	b := Book{
		ISBN:     req.ISBN,
		Title:    req.Title,
		Author:   req.Author,
		Year:     req.Year,
		Category: req.Category,
	}
	if err := h.service.Create(r.Context(), &b); err != nil {
		if errors.Is(err, ErrISBNTaken) {
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "ISBN already registered", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessCreated(w, r, b)
}

// Update handles PUT /api/books/{id} (administrator)
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book id", nil)
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", details)
		return
	}

	b := Book{
		ID:       id,
		ISBN:     req.ISBN,
		Title:    req.Title,
		Author:   req.Author,
		Year:     req.Year,
		Category: req.Category,
	}
	if err := h.service.Update(r.Context(), &b); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		case errors.Is(err, ErrISBNTaken):
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "ISBN already registered", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}

	httpx.JSONSuccess(w, r, b)
}

// Delete handles DELETE /api/books/{id} (administrator)
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book id", nil)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		case errors.Is(err, ErrInUse):
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Book is referenced by loans", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}

	httpx.JSONSuccessNoContent(w)
}

const maxUploadBytes = 32 << 20

// UploadFiles handles POST /api/books/{id}/files (administrator).
// Accepts multipart parts named "cover" and "content".
func (h *HTTPHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book id", nil)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid multipart request", nil)
		return
	}

	var cover, content *string
	for _, field := range []string{"cover", "content"} {
		file, header, err := r.FormFile(field)
		if err != nil {
			continue
		}
		stored, err := h.files.Save(header.Filename, file)
		file.Close()
		if err != nil {
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store file", nil)
			return
		}
		if field == "cover" {
			cover = &stored
		} else {
			content = &stored
		}
	}

	if cover == nil && content == nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "No file provided", nil)
		return
	}

	if err := h.service.SetFiles(r.Context(), id, cover, content); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{
		"cover_file":   cover,
		"content_file": content,
	})
}
