package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ludorg/gamenight/internal/api/middleware"
	"github.com/ludorg/gamenight/internal/api/request"
	"github.com/ludorg/gamenight/internal/api/response"
	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/services/admin"
)

// AdminHandler handles community management endpoints
type AdminHandler struct {
	adminService *admin.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *admin.Service) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())

	users, err := h.adminService.ListUsers(r.Context(), actor)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.User, len(users))
	for i, u := range users {
		out[i] = response.UserFromModel(u)
	}
	response.JSON(w, http.StatusOK, out)
}

// ListEvents handles GET /api/v1/admin/events. Unlike the public listing it
// includes archived events.
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())

	views, err := h.adminService.ListEvents(r.Context(), actor)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, views)
}

// ListTables handles GET /api/v1/admin/tables
func (h *AdminHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())

	tables, err := h.adminService.ListTables(r.Context(), actor)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TablesFromModel(tables))
}

// ListGameLists handles GET /api/v1/admin/games
func (h *AdminHandler) ListGameLists(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())

	lists, err := h.adminService.ListGameLists(r.Context(), actor)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameListsFromModel(lists))
}

// Approve handles POST /api/v1/admin/users/{user_id}/approve
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	userID := model.PrincipalID(mux.Vars(r)["user_id"])

	user, err := h.adminService.Approve(r.Context(), actor, userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// SetRole handles PATCH /api/v1/admin/users/{user_id}/role
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	userID := model.PrincipalID(mux.Vars(r)["user_id"])

	var req request.SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	user, err := h.adminService.SetRole(r.Context(), actor, userID, model.Role(req.Role))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// SetBadges handles PUT /api/v1/admin/users/{user_id}/badges
func (h *AdminHandler) SetBadges(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	userID := model.PrincipalID(mux.Vars(r)["user_id"])

	var req request.SetBadgesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	user, err := h.adminService.SetBadges(r.Context(), actor, userID, req.Badges)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// DeleteUser handles DELETE /api/v1/admin/users/{user_id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	userID := model.PrincipalID(mux.Vars(r)["user_id"])

	if err := h.adminService.DeleteUser(r.Context(), actor, userID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())

	stats, err := h.adminService.GetStats(r.Context(), actor)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}
