package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/service"
)

// CreateLoan handles gold loan issuance
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req service.LoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "Invalid request body", err)
		return
	}

	loan, err := h.svc.CreateLoan(r.Context(), &req)
	if err != nil {
		h.respondError(w, "Error creating gold loan", err)
		return
	}
	h.respond(w, http.StatusCreated, "Gold loan created successfully", map[string]interface{}{
		"id":          loan.ID,
		"loan_number": loan.LoanNumber,
	})
}

// GetLoan retrieves a loan with its scheme
func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, "Invalid loan ID", fmt.Errorf("%v: %w", err, service.ErrValidation))
		return
	}

	loan, err := h.svc.GetLoan(r.Context(), id)
	if err != nil {
		h.respondError(w, "Error retrieving gold loan", err)
		return
	}
	h.respond(w, http.StatusOK, "Gold loan retrieved successfully", loan)
}

// LoanSummary returns loan counts by status
func (h *Handler) LoanSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.LoanSummary(r.Context())
	if err != nil {
		h.respondError(w, "Error summarizing loans", err)
		return
	}
	h.respond(w, http.StatusOK, "Loan summary retrieved successfully", summary)
}

// UpdateLoanStatus overwrites a loan's status (Matured, Auctioned, ...)
func (h *Handler) UpdateLoanStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, "Invalid loan ID", fmt.Errorf("%v: %w", err, service.ErrValidation))
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "Invalid request body", err)
		return
	}

	if err := h.svc.UpdateLoanStatus(r.Context(), id, req.Status); err != nil {
		h.respondError(w, "Error updating loan status", err)
		return
	}
	h.respond(w, http.StatusOK, "Loan status updated successfully", map[string]string{"status": req.Status})
}

// CalculateInterest quotes the interest due on a loan up to a till date
func (h *Handler) CalculateInterest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		h.respondError(w, "Invalid loan ID", fmt.Errorf("%v: %w", err, service.ErrValidation))
		return
	}

	tillDate := time.Now().UTC()
	if raw := r.URL.Query().Get("tillDate"); raw != "" {
		tillDate, err = time.Parse("2006-01-02", raw)
		if err != nil {
			h.respondError(w, "Invalid tillDate", fmt.Errorf("%v: %w", err, service.ErrValidation))
			return
		}
	}

	quote, err := h.svc.CalculateInterest(r.Context(), id, tillDate)
	if err != nil {
		h.respondError(w, "Error calculating interest", err)
		return
	}
	h.respond(w, http.StatusOK, quote.Message, quote)
}
