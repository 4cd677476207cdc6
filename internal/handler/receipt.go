package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/service"
)

// CreateReceipt settles a payment against a loan
func (h *Handler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	var req service.ReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "Invalid request body", err)
		return
	}

	result, err := h.svc.CreateReceipt(r.Context(), &req)
	if err != nil {
		h.respondError(w, "Error creating receipt", err)
		return
	}
	h.respond(w, http.StatusCreated, "Receipt created successfully", result)
}

// GetReceipt retrieves a receipt with its statement lines
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, "Invalid receipt ID", fmt.Errorf("%v: %w", err, service.ErrValidation))
		return
	}

	receipt, err := h.svc.GetReceipt(r.Context(), id)
	if err != nil {
		h.respondError(w, "Error retrieving receipt", err)
		return
	}
	h.respond(w, http.StatusOK, "Receipt retrieved successfully", receipt)
}

// ListReceipts retrieves a loan's receipts
func (h *Handler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		h.respondError(w, "Invalid loan ID", fmt.Errorf("%v: %w", err, service.ErrValidation))
		return
	}

	receipts, err := h.svc.ListReceipts(r.Context(), loanID)
	if err != nil {
		h.respondError(w, "Error retrieving receipts", err)
		return
	}
	h.respond(w, http.StatusOK, "Receipts retrieved successfully", receipts)
}

// UpdateReceipt corrects a completed receipt
func (h *Handler) UpdateReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, "Invalid receipt ID", fmt.Errorf("%v: %w", err, service.ErrValidation))
		return
	}

	var req service.ReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "Invalid request body", err)
		return
	}

	receipt, err := h.svc.UpdateReceipt(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, "Error updating receipt", err)
		return
	}
	h.respond(w, http.StatusOK, "Receipt updated successfully", map[string]interface{}{
		"id":             receipt.ID,
		"receipt_number": receipt.ReceiptNumber,
	})
}

// CancelReceipt marks a receipt as cancelled; receipts are never deleted
func (h *Handler) CancelReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, "Invalid receipt ID", fmt.Errorf("%v: %w", err, service.ErrValidation))
		return
	}

	if err := h.svc.CancelReceipt(r.Context(), id); err != nil {
		h.respondError(w, "Error cancelling receipt", err)
		return
	}
	h.respond(w, http.StatusOK, "Receipt cancelled successfully", nil)
}
