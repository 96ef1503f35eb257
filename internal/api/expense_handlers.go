package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/settleup/settleup/internal/middleware"
	"github.com/settleup/settleup/internal/models"
	"github.com/settleup/settleup/internal/money"
	"github.com/settleup/settleup/internal/service"
)

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+req.Amount)
		return
	}

	in := service.ExpenseInput{
		GroupID:      req.GroupID,
		PayerID:      req.PayerID,
		Description:  req.Description,
		Amount:       amount,
		SplitType:    models.SplitType(req.SplitType),
		Participants: req.Participants,
	}
	for _, sp := range req.Splits {
		split := service.SplitInput{UserID: sp.UserID, Shares: sp.Shares}
		if sp.Amount != "" {
			if split.Amount, err = money.Parse(sp.Amount); err != nil {
				writeError(w, http.StatusBadRequest, "invalid split amount: "+sp.Amount)
				return
			}
		}
		if sp.Percentage != "" {
			if split.Percentage, err = decimal.NewFromString(sp.Percentage); err != nil {
				writeError(w, http.StatusBadRequest, "invalid percentage: "+sp.Percentage)
				return
			}
		}
		in.Splits = append(in.Splits, split)
	}

	userID := middleware.GetUserID(r.Context())
	expense, err := h.expenseSvc.CreateExpense(r.Context(), userID, in)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (h *Handlers) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	expense, err := h.expenseSvc.GetExpense(r.Context(), chi.URLParam(r, "expenseID"), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	expenses, err := h.expenseSvc.ListExpenses(r.Context(), chi.URLParam(r, "groupID"), userID)
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": out})
}

func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.expenseSvc.DeleteExpense(r.Context(), chi.URLParam(r, "expenseID"), userID); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
