package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/settleup/settleup/internal/auth"
	"github.com/settleup/settleup/internal/calculator"
	"github.com/settleup/settleup/internal/service"
	"github.com/settleup/settleup/internal/storage"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	authSvc    *service.AuthService
	groupSvc   *service.GroupService
	expenseSvc *service.ExpenseService
	paymentSvc *service.PaymentService
	balanceSvc *service.BalanceService
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// serviceError maps service layer errors onto HTTP statuses.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrNotMember), errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, calculator.ErrUnbalancedLedger):
		slog.Error("ledger out of balance", "error", err)
		writeError(w, http.StatusInternalServerError, "ledger integrity error")
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
