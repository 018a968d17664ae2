package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ludorg/gamenight/internal/api/middleware"
	"github.com/ludorg/gamenight/internal/api/request"
	"github.com/ludorg/gamenight/internal/api/response"
	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/services/catalog"
)

// CatalogHandler handles free-game list endpoints
type CatalogHandler struct {
	catalogController *catalog.Controller
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogController *catalog.Controller) *CatalogHandler {
	return &CatalogHandler{
		catalogController: catalogController,
	}
}

// Create handles POST /api/v1/events/{event_id}/games
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	eventID := model.EventID(mux.Vars(r)["event_id"])

	games, err := decodeGames(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	list, err := h.catalogController.CreateList(r.Context(), actor, eventID, games)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.GameListFromModel(list))
}

// ListForEvent handles GET /api/v1/events/{event_id}/games
func (h *CatalogHandler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID := model.EventID(mux.Vars(r)["event_id"])

	lists, err := h.catalogController.ListForEvent(r.Context(), eventID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameListsFromModel(lists))
}

// Get handles GET /api/v1/games/{list_id}
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	listID := model.GameListID(mux.Vars(r)["list_id"])

	list, err := h.catalogController.Get(r.Context(), listID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameListFromModel(list))
}

// Replace handles PUT /api/v1/games/{list_id}
func (h *CatalogHandler) Replace(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	listID := model.GameListID(mux.Vars(r)["list_id"])

	games, err := decodeGames(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	list, err := h.catalogController.ReplaceList(r.Context(), actor, listID, games)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameListFromModel(list))
}

// DeleteItem handles DELETE /api/v1/games/{list_id}/items/{index}.
// Deleting the last item deletes the list; the response is 204 either way.
func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	vars := mux.Vars(r)
	listID := model.GameListID(vars["list_id"])

	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("index must be an integer"))
		return
	}

	if err := h.catalogController.DeleteItem(r.Context(), actor, listID, index); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Delete handles DELETE /api/v1/games/{list_id}
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	listID := model.GameListID(mux.Vars(r)["list_id"])

	if err := h.catalogController.DeleteList(r.Context(), actor, listID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// decodeGames parses the shared game list request body
func decodeGames(r *http.Request) ([]model.GameEntry, error) {
	var req request.GameListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, NewInvalidRequestError("invalid request body")
	}

	games := make([]model.GameEntry, len(req.Games))
	for i, g := range req.Games {
		games[i] = model.GameEntry{Name: g.Name, Note: g.Note}
	}
	return games, nil
}
