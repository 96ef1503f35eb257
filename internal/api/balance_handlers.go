package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/settleup/settleup/internal/middleware"
)

func (h *Handlers) GetGroupBalances(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	balances, err := h.balanceSvc.GroupBalances(r.Context(), chi.URLParam(r, "groupID"), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupBalancesResponse(balances))
}

func (h *Handlers) GetSettlements(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	plan, err := h.balanceSvc.Settlements(r.Context(), chi.URLParam(r, "groupID"), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettlementPlanResponse(plan))
}

func (h *Handlers) GetOverview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	overview, err := h.balanceSvc.Overview(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOverviewResponse(overview))
}

func (h *Handlers) GetFriendBalance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	friendID := chi.URLParam(r, "friendID")
	if friendID == userID {
		writeError(w, http.StatusBadRequest, "cannot compute a balance with yourself")
		return
	}

	balance, err := h.balanceSvc.Friend(r.Context(), userID, friendID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friendBalanceResponse{
		FriendID:   balance.FriendID,
		FriendName: balance.FriendName,
		GroupID:    balance.GroupID,
		Net:        balance.Net.String(),
	})
}
