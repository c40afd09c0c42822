package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requirePrincipal(w, r, model.RoleCoordinator); !ok {
		return
	}
	if email := r.URL.Query().Get("email"); email != "" {
		u, err := h.planner.UserByEmail(r.Context(), email)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, []userResponse{userOf(u)})
		return
	}
	role, ok := model.ParseRole(r.URL.Query().Get("role"))
	if !ok {
		h.badRequest(w, "unknown role")
		return
	}
	users, err := h.planner.UsersByRole(r.Context(), role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userOf(u))
	}
	h.writeJSON(w, http.StatusOK, out)
}

type grantRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) grantRole(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requirePrincipal(w, r, model.RoleCoordinator); !ok {
		return
	}
	userID, err := uuid.Parse(r.PathValue("userID"))
	if err != nil {
		h.badRequest(w, "malformed user id")
		return
	}
	var req grantRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, "malformed request body")
		return
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		h.badRequest(w, "unknown role")
		return
	}
	u, err := h.planner.GrantRole(r.Context(), userID, role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, userOf(u))
}

func (h *Handler) revokeRole(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requirePrincipal(w, r, model.RoleCoordinator)
	if !ok {
		return
	}
	userID, err := uuid.Parse(r.PathValue("userID"))
	if err != nil {
		h.badRequest(w, "malformed user id")
		return
	}
	role, ok := model.ParseRole(r.PathValue("role"))
	if !ok {
		h.badRequest(w, "unknown role")
		return
	}
	u, err := h.planner.RevokeRole(r.Context(), p.ID, userID, role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, userOf(u))
}
