package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

// EventHandler exposes the reporting periods.
type EventHandler struct {
	events ports.EventService
}

// NewEventHandler creates an EventHandler backed by the given service.
func NewEventHandler(events ports.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// ListActive handles GET /eventos/activos.
//
// @Summary      List active events
// @Tags         eventos
// @Produce      json
// @Success      200  {object}  dataResponse
// @Router       /eventos/activos [get]
func (h *EventHandler) ListActive(c echo.Context) error {
	evs, err := h.events.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, evs)
}

// ListInactive handles GET /eventos/inactivos.
//
// @Summary      List inactive events
// @Tags         eventos
// @Produce      json
// @Success      200  {object}  dataResponse
// @Router       /eventos/inactivos [get]
func (h *EventHandler) ListInactive(c echo.Context) error {
	evs, err := h.events.ListInactive(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, evs)
}

// Get handles GET /eventos/:id.
//
// @Summary      Get an event
// @Tags         eventos
// @Produce      json
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Router       /eventos/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ev, err := h.events.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ev)
}

// Create handles POST /eventos.
//
// @Summary      Create an event
// @Tags         eventos
// @Accept       json
// @Produce      json
// @Param        body  body      eventRequest  true  "Event"
// @Success      201   {object}  dataResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /eventos [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req eventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ev, err := h.events.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, ev)
}

// Update handles PUT /eventos/:id.
//
// @Summary      Update an event
// @Tags         eventos
// @Accept       json
// @Produce      json
// @Param        id    path      int           true  "Event ID"
// @Param        body  body      eventRequest  true  "Fields to change"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /eventos/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req eventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ev, err := h.events.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ev)
}

// Delete handles DELETE /eventos/:id. The event is deactivated, not removed.
//
// @Summary      Deactivate an event
// @Tags         eventos
// @Produce      json
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /eventos/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.events.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(c, "event deactivated")
}
