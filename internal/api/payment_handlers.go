package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/settleup/settleup/internal/middleware"
	"github.com/settleup/settleup/internal/money"
)

func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+req.Amount)
		return
	}

	payerID := middleware.GetUserID(r.Context())
	payment, err := h.paymentSvc.CreatePayment(r.Context(), payerID, req.GroupID, req.ReceiverID, req.Description, amount)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	payment, err := h.paymentSvc.GetPayment(r.Context(), chi.URLParam(r, "paymentID"), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	payments, err := h.paymentSvc.ListPayments(r.Context(), chi.URLParam(r, "groupID"), userID)
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"payments": out})
}

func (h *Handlers) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	payment, err := h.paymentSvc.ConfirmPayment(r.Context(), chi.URLParam(r, "paymentID"), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *Handlers) RejectPayment(w http.ResponseWriter, r *http.Request) {
	var req statusReasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserID(r.Context())
	payment, err := h.paymentSvc.RejectPayment(r.Context(), chi.URLParam(r, "paymentID"), userID, req.Reason)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *Handlers) CancelPayment(w http.ResponseWriter, r *http.Request) {
	var req statusReasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserID(r.Context())
	payment, err := h.paymentSvc.CancelPayment(r.Context(), chi.URLParam(r, "paymentID"), userID, req.Reason)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}
