package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/settleup/settleup/internal/middleware"
)

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	userID := middleware.GetUserID(r.Context())
	group, err := h.groupSvc.CreateGroup(r.Context(), userID, req.Name, req.Description, req.MemberIDs)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	group, err := h.groupSvc.GetGroup(r.Context(), chi.URLParam(r, "groupID"), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groups, err := h.groupSvc.ListGroups(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": out})
}

func (h *Handlers) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req updateGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserID(r.Context())
	group, err := h.groupSvc.UpdateGroup(r.Context(), chi.URLParam(r, "groupID"), userID, req.Name, req.Description)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handlers) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.groupSvc.DeleteGroup(r.Context(), chi.URLParam(r, "groupID"), userID); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	adminID := middleware.GetUserID(r.Context())
	if err := h.groupSvc.AddMember(r.Context(), chi.URLParam(r, "groupID"), adminID, req.UserID); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	members, err := h.groupSvc.ListMembers(r.Context(), chi.URLParam(r, "groupID"), userID)
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]userResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toUserResponse(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": out})
}
