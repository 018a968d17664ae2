package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ludorg/gamenight/internal/api/middleware"
	"github.com/ludorg/gamenight/internal/api/request"
	"github.com/ludorg/gamenight/internal/api/response"
	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/services/tables"
)

// TableHandler handles sign-up table endpoints
type TableHandler struct {
	tableController *tables.Controller
}

// NewTableHandler creates a new table handler
func NewTableHandler(tableController *tables.Controller) *TableHandler {
	return &TableHandler{
		tableController: tableController,
	}
}

// Create handles POST /api/v1/events/{event_id}/tables
func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	eventID := model.EventID(mux.Vars(r)["event_id"])

	var req request.CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	table, err := h.tableController.Create(r.Context(), actor, eventID, model.TableFields{
		GameName:    req.GameName,
		Description: req.Description,
		MinPlayers:  req.MinPlayers,
		MaxPlayers:  req.MaxPlayers,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.TableFromModel(table))
}

// ListForEvent handles GET /api/v1/events/{event_id}/tables
func (h *TableHandler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID := model.EventID(mux.Vars(r)["event_id"])

	tables, err := h.tableController.ListForEvent(r.Context(), eventID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TablesFromModel(tables))
}

// Get handles GET /api/v1/tables/{table_id}
func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	tableID := model.TableID(mux.Vars(r)["table_id"])

	table, err := h.tableController.Get(r.Context(), tableID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TableFromModel(table))
}

// Join handles POST /api/v1/tables/{table_id}/join
func (h *TableHandler) Join(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	tableID := model.TableID(mux.Vars(r)["table_id"])

	table, err := h.tableController.Join(r.Context(), actor, tableID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TableFromModel(table))
}

// Leave handles POST /api/v1/tables/{table_id}/leave
func (h *TableHandler) Leave(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	tableID := model.TableID(mux.Vars(r)["table_id"])

	table, err := h.tableController.Leave(r.Context(), actor, tableID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TableFromModel(table))
}

// Delete handles DELETE /api/v1/tables/{table_id}
func (h *TableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	tableID := model.TableID(mux.Vars(r)["table_id"])

	if err := h.tableController.Delete(r.Context(), actor, tableID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
