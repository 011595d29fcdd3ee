package loan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"biblio/internal/httpx"
)

// dueDateLabel is the day/month/year format shown in borrow confirmations.
const dueDateLabel = "02/01/2006"

// MemberResolver maps an authenticated account to its member profile.
type MemberResolver interface {
	MemberIDForAccount(ctx context.Context, accountID int64) (int64, error)
}

type HTTPHandler struct {
	service *Service
	members MemberResolver
}

func NewHTTPHandler(service *Service, members MemberResolver) *HTTPHandler {
	return &HTTPHandler{service: service, members: members}
}

type loanResponse struct {
	Loan
	DueDateLabel string `json:"due_date_label"`
	Overdue      bool   `json:"overdue"`
}

func newLoanResponse(l Loan) loanResponse {
	return loanResponse{
		Loan:         l,
		DueDateLabel: l.DueDate.Format(dueDateLabel),
		Overdue:      IsOverdue(l, time.Now()),
	}
}

type borrowRequest struct {
	BookID    int64 `json:"book_id" validate:"required,gt=0"`
	DueInDays int   `json:"due_in_days" validate:"omitempty,gt=0,lte=90"`
}

// Borrow handles POST /api/loans (member)
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req borrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", details)
		return
	}

	memberID, err := h.members.MemberIDForAccount(r.Context(), httpx.AccountIDFrom(r))
	if err != nil {
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Account has no member profile", nil)
		return
	}

	l, err := h.service.Borrow(r.Context(), memberID, req.BookID, req.DueInDays)
	if err != nil {
		h.writeBorrowError(w, r, err)
		return
	}

	resp := newLoanResponse(l)
	httpx.JSONSuccessCreated(w, r, map[string]any{
		"loan":    resp,
		"message": "Book borrowed, due " + resp.DueDateLabel,
	})
}

type manageLoanRequest struct {
	MemberID int64  `json:"member_id" validate:"required,gt=0"`
	BookID   int64  `json:"book_id" validate:"required,gt=0"`
	DueDate  string `json:"due_date" validate:"required"`
}

// ManageLoan handles POST /api/admin/loans (administrator). The due date is
// a YYYY-MM-DD string; malformed input is rejected before touching state.
func (h *HTTPHandler) ManageLoan(w http.ResponseWriter, r *http.Request) {
	var req manageLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", details)
		return
	}

	due, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request",
			[]httpx.ErrorDetail{{Field: "due_date", Message: "due_date must be a YYYY-MM-DD date"}})
		return
	}

	l, err := h.service.BorrowUntil(r.Context(), req.MemberID, req.BookID, due)
	if err != nil {
		h.writeBorrowError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, r, newLoanResponse(l))
}

// Return handles POST /api/loans/{id}/return. Returning twice is a no-op.
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid loan id", nil)
		return
	}

	l, err := h.service.Return(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrLoanNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Loan not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, newLoanResponse(l))
}

type extendRequest struct {
	Days int `json:"days" validate:"required,gt=0,lte=90"`
}

// Extend handles POST /api/admin/loans/{id}/extend (administrator)
func (h *HTTPHandler) Extend(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid loan id", nil)
		return
	}

	var req extendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", details)
		return
	}

	l, err := h.service.Extend(r.Context(), id, req.Days)
	if err != nil {
		switch {
		case errors.Is(err, ErrLoanNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Loan not found", nil)
		case errors.Is(err, ErrLoanReturned):
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Loan already returned", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}

	httpx.JSONSuccess(w, r, newLoanResponse(l))
}

type feeRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
}

// SetFee handles PUT /api/admin/loans/{id}/fee (administrator). The amount
// is computed by an external process; this endpoint only stores it.
func (h *HTTPHandler) SetFee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid loan id", nil)
		return
	}

	var req feeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", details)
		return
	}

	l, err := h.service.SetFee(r.Context(), id, req.Amount)
	if err != nil {
		if errors.Is(err, ErrLoanNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Loan not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, newLoanResponse(l))
}

// List handles GET /api/loans (administrator)
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.List(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, toResponses(loans))
}

// ListMine handles GET /api/me/loans (member)
func (h *HTTPHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	memberID, err := h.members.MemberIDForAccount(r.Context(), httpx.AccountIDFrom(r))
	if err != nil {
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Account has no member profile", nil)
		return
	}

	loans, err := h.service.ListByMember(r.Context(), memberID)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, toResponses(loans))
}

func toResponses(loans []Loan) []loanResponse {
	out := make([]loanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, newLoanResponse(l))
	}
	return out
}

func (h *HTTPHandler) writeBorrowError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrBookNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrBookUnavailable):
		httpx.JSONError(w, r, http.StatusConflict, "BOOK_UNAVAILABLE", "Book is not available", nil)
	case errors.Is(err, ErrDuplicateLoan):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_LOAN", "You already borrowed this book", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
