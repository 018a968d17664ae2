package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ludorg/gamenight/internal/api/middleware"
	"github.com/ludorg/gamenight/internal/api/request"
	"github.com/ludorg/gamenight/internal/api/response"
	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/services/events"
)

// EventHandler handles event endpoints
type EventHandler struct {
	eventController *events.Controller
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventController *events.Controller) *EventHandler {
	return &EventHandler{
		eventController: eventController,
	}
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())

	fields, err := decodeEventFields(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	event, err := h.eventController.Create(r.Context(), actor, fields)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.eventController.Get(r.Context(), event.ID, actor)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, view)
}

// List handles GET /api/v1/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetPrincipal(r.Context())

	views, err := h.eventController.List(r.Context(), viewer)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, views)
}

// Get handles GET /api/v1/events/{event_id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetPrincipal(r.Context())
	eventID := model.EventID(mux.Vars(r)["event_id"])

	view, err := h.eventController.Get(r.Context(), eventID, viewer)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, view)
}

// VerifyPassword handles POST /api/v1/events/{event_id}/verify-password
func (h *EventHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetPrincipal(r.Context())
	eventID := model.EventID(mux.Vars(r)["event_id"])

	var req request.VerifyPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	view, err := h.eventController.VerifyPassword(r.Context(), eventID, viewer, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, view)
}

// Update handles PUT /api/v1/events/{event_id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	eventID := model.EventID(mux.Vars(r)["event_id"])

	fields, err := decodeEventFields(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if _, err := h.eventController.Update(r.Context(), actor, eventID, fields); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.eventController.Get(r.Context(), eventID, actor)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, view)
}

// ToggleArchive handles POST /api/v1/events/{event_id}/archive
func (h *EventHandler) ToggleArchive(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	eventID := model.EventID(mux.Vars(r)["event_id"])

	if _, err := h.eventController.ToggleArchive(r.Context(), actor, eventID); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.eventController.Get(r.Context(), eventID, actor)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, view)
}

// Delete handles DELETE /api/v1/events/{event_id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetPrincipal(r.Context())
	eventID := model.EventID(mux.Vars(r)["event_id"])

	if err := h.eventController.Delete(r.Context(), actor, eventID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// decodeEventFields parses and validates the shared event request body
func decodeEventFields(r *http.Request) (model.EventFields, error) {
	var req request.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return model.EventFields{}, NewInvalidRequestError("invalid request body")
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return model.EventFields{}, NewInvalidRequestError("date must be RFC 3339")
		}
		date = parsed
	}

	return model.EventFields{
		Title:       req.Title,
		Location:    req.Location,
		Date:        date,
		Description: req.Description,
		Password:    req.Password,
		ShowMap:     req.ShowMap,
	}, nil
}
