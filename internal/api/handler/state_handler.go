package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vvf-listone/internal/dto"
	"vvf-listone/internal/model"
	"vvf-listone/internal/service"
	"vvf-listone/pkg/response"
)

// StateHandler dashboard, creation screen and roster endpoints
type StateHandler struct {
	state service.StateService
}

// NewStateHandler creates a StateHandler
func NewStateHandler(state service.StateService) *StateHandler {
	return &StateHandler{state: state}
}

// GetState full UI state
// GET /api/v1/state
func (h *StateHandler) GetState(c *gin.Context) {
	h.writeState(c)
}

// ResetState wipes stored data and reloads the seed roster
// POST /api/v1/state/reset
func (h *StateHandler) ResetState(c *gin.Context) {
	h.state.ResetData(c.Request.Context())
	h.writeState(c)
}

func (h *StateHandler) writeState(c *gin.Context) {
	snap := h.state.Snapshot(c.Request.Context())
	response.OK(c, dto.StateResponse{
		Events:        snap.Events,
		Operators:     snap.Operators,
		SelectedDate:  snap.SelectedDate,
		EditingEvent:  snap.EditingEvent,
		Screen:        string(snap.Screen),
		Role:          string(snap.Role),
		Authenticated: snap.Authenticated,
	})
}

// ── events ──

// ListEvents whole collection, or one day with ?date=
// GET /api/v1/events
func (h *StateHandler) ListEvents(c *gin.Context) {
	var q dto.EventListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "invalid query")
		return
	}
	if q.Date == "" {
		response.OK(c, dto.EventListResponse{Events: h.state.Events()})
		return
	}
	if !model.IsISODate(q.Date) {
		response.BadRequest(c, 12001, service.ErrInvalidDate.Error())
		return
	}
	response.OK(c, dto.EventListResponse{Date: q.Date, Events: h.state.EventsForDate(q.Date)})
}

// SaveEvent creates an event, or replaces the one being edited
// POST /api/v1/events
func (h *StateHandler) SaveEvent(c *gin.Context) {
	var ev model.OperationalEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		response.BadRequest(c, 10001, "invalid event")
		return
	}

	saved, err := h.state.SaveEvent(c.Request.Context(), ev)
	if err != nil {
		h.handleStateError(c, err)
		return
	}
	response.Created(c, saved)
}

// ReplaceEvents bulk replacement
// PUT /api/v1/events
func (h *StateHandler) ReplaceEvents(c *gin.Context) {
	var req dto.EventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	if err := h.state.SetEvents(c.Request.Context(), req.Events); err != nil {
		h.handleStateError(c, err)
		return
	}
	response.OK(c, dto.EventListResponse{Events: h.state.Events()})
}

// StartEdit opens an existing event in the creation screen
// POST /api/v1/events/:id/edit
func (h *StateHandler) StartEdit(c *gin.Context) {
	ev, err := h.state.EventByID(c.Param("id"))
	if err != nil {
		h.handleStateError(c, err)
		return
	}
	h.state.StartEdit(ev)
	response.OK(c, dto.ScreenResponse{Screen: string(model.ScreenCreazione), EditingEvent: &ev})
}

// CancelEdit leaves the creation screen without saving
// POST /api/v1/events/edit/cancel
func (h *StateHandler) CancelEdit(c *gin.Context) {
	h.state.CancelEdit()
	response.OK(c, dto.ScreenResponse{Screen: string(model.ScreenDashboard)})
}

// ── operators ──

// ListOperators roster
// GET /api/v1/operators
func (h *StateHandler) ListOperators(c *gin.Context) {
	response.OK(c, h.state.Operators())
}

// ReplaceOperators whole-roster replacement
// PUT /api/v1/operators
func (h *StateHandler) ReplaceOperators(c *gin.Context) {
	var req dto.OperatorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	if err := h.state.SetOperators(c.Request.Context(), req.Operators); err != nil {
		h.handleStateError(c, err)
		return
	}
	response.OK(c, h.state.Operators())
}

// ── navigation ──

// GetSelectedDate dashboard cursor
// GET /api/v1/selected-date
func (h *StateHandler) GetSelectedDate(c *gin.Context) {
	response.OK(c, dto.SelectedDateResponse{SelectedDate: h.state.SelectedDate()})
}

// SetSelectedDate moves the dashboard cursor
// PUT /api/v1/selected-date
func (h *StateHandler) SetSelectedDate(c *gin.Context) {
	var req dto.SelectedDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	if err := h.state.SetSelectedDate(c.Request.Context(), req.SelectedDate); err != nil {
		h.handleStateError(c, err)
		return
	}
	response.OK(c, dto.SelectedDateResponse{SelectedDate: req.SelectedDate})
}

// SetScreen switches view
// PUT /api/v1/screen
func (h *StateHandler) SetScreen(c *gin.Context) {
	var req dto.ScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}
	if err := h.state.SetScreen(model.ScreenType(req.Screen)); err != nil {
		h.handleStateError(c, err)
		return
	}
	snap := h.state.Snapshot(c.Request.Context())
	response.OK(c, dto.ScreenResponse{Screen: string(snap.Screen), EditingEvent: snap.EditingEvent})
}

func (h *StateHandler) handleStateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 12003, "event not found")
	case errors.Is(err, service.ErrInvalidEvent):
		response.BadRequest(c, 12002, err.Error())
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 12001, err.Error())
	case errors.Is(err, service.ErrInvalidScreen):
		response.BadRequest(c, 12004, "unknown screen")
	case errors.Is(err, service.ErrInvalidRoster):
		response.BadRequest(c, 12005, err.Error())
	default:
		response.InternalError(c)
	}
}
