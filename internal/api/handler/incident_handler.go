package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/proteccion-civil/incident-system/internal/api/metrics"
	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

// IncidentHandler exposes incident queries and mutations. Read routes run
// under an optional session so responses can say whether the caller may edit.
type IncidentHandler struct {
	incidents    ports.IncidentService
	corporations ports.CatalogService
	motives      ports.CatalogService
}

func NewIncidentHandler(incidents ports.IncidentService, corporations, motives ports.CatalogService) *IncidentHandler {
	return &IncidentHandler{incidents: incidents, corporations: corporations, motives: motives}
}

// ListByEvent handles GET /incidencias/evento/:idEvento.
//
// @Summary      List the incidents of an event
// @Tags         incidencias
// @Produce      json
// @Param        idEvento  path      int  true  "Event ID"
// @Success      200       {object}  dataResponse
// @Router       /incidencias/evento/{idEvento} [get]
func (h *IncidentHandler) ListByEvent(c echo.Context) error {
	eventID, err := pathID(c, "idEvento")
	if err != nil {
		return err
	}
	incs, err := h.incidents.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, viewIncidents(principal(c), incs))
}

// Filter handles GET /incidencias/evento/:idEvento/filtrar.
//
// @Summary      Filter the incidents of an event
// @Tags         incidencias
// @Produce      json
// @Param        idEvento        path      int     true   "Event ID"
// @Param        id_incidencia   query     int     false  "Incident ID"
// @Param        descripcion     query     string  false  "Description substring, case-insensitive"
// @Param        fecha           query     string  false  "Date YYYY-MM-DD"
// @Param        id_corporacion  query     int     false  "Corporation ID"
// @Param        id_motivo       query     int     false  "Motive ID"
// @Param        estatus         query     string  false  "ABIERTA, EN_PROCESO or CERRADA"
// @Success      200             {object}  dataResponse
// @Failure      400             {object}  errorResponse
// @Router       /incidencias/evento/{idEvento}/filtrar [get]
func (h *IncidentHandler) Filter(c echo.Context) error {
	eventID, err := pathID(c, "idEvento")
	if err != nil {
		return err
	}
	crit, err := parseCriteria(c)
	if err != nil {
		return err
	}
	incs, err := h.incidents.Filter(c.Request().Context(), eventID, crit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, viewIncidents(principal(c), incs))
}

// Stats handles GET /incidencias/evento/:idEvento/estadisticas.
//
// @Summary      Evidence coverage of an event's incidents
// @Tags         incidencias
// @Produce      json
// @Param        idEvento  path      int  true  "Event ID"
// @Success      200       {object}  dataResponse
// @Router       /incidencias/evento/{idEvento}/estadisticas [get]
func (h *IncidentHandler) Stats(c echo.Context) error {
	eventID, err := pathID(c, "idEvento")
	if err != nil {
		return err
	}
	stats, err := h.incidents.Stats(c.Request().Context(), eventID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}

// Get handles GET /incidencias/:id.
//
// @Summary      Get an incident
// @Tags         incidencias
// @Produce      json
// @Param        id   path      int  true  "Incident ID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Router       /incidencias/{id} [get]
func (h *IncidentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	inc, err := h.incidents.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, viewIncident(principal(c), inc))
}

// Corporations handles GET /incidencias/catalogos/corporaciones.
//
// @Summary      Active corporations for the incident form
// @Tags         incidencias
// @Produce      json
// @Success      200  {object}  dataResponse
// @Router       /incidencias/catalogos/corporaciones [get]
func (h *IncidentHandler) Corporations(c echo.Context) error {
	entries, err := h.corporations.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]domain.Corporation, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Corporation())
	}
	return respond(c, http.StatusOK, out)
}

// Motives handles GET /incidencias/catalogos/motivos.
//
// @Summary      Active motives for the incident form
// @Tags         incidencias
// @Produce      json
// @Success      200  {object}  dataResponse
// @Router       /incidencias/catalogos/motivos [get]
func (h *IncidentHandler) Motives(c echo.Context) error {
	entries, err := h.motives.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]domain.Motive, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Motive())
	}
	return respond(c, http.StatusOK, out)
}

// Create handles POST /incidencias. The creator is always the caller.
//
// @Summary      Create an incident
// @Tags         incidencias
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string           false  "Retry-safe request key"
// @Param        body             body      incidentRequest  true   "Incident"
// @Success      201              {object}  dataResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /incidencias [post]
func (h *IncidentHandler) Create(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req incidentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	key := strings.TrimSpace(c.Request().Header.Get(IdempotencyHeader))

	inc, err := h.incidents.Create(c.Request().Context(), p, req.input(), key)
	if err != nil {
		return err
	}
	metrics.IncidentsMutatedTotal.WithLabelValues("created").Inc()
	return respond(c, http.StatusCreated, viewIncident(p, inc))
}

// Update handles PUT /incidencias/:id.
//
// @Summary      Update an incident
// @Tags         incidencias
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "Incident ID"
// @Param        body  body      incidentRequest  true  "Fields to change"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /incidencias/{id} [put]
func (h *IncidentHandler) Update(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req incidentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	inc, err := h.incidents.Update(c.Request().Context(), p, id, req.input())
	if err != nil {
		return err
	}
	metrics.IncidentsMutatedTotal.WithLabelValues("updated").Inc()
	return respond(c, http.StatusOK, viewIncident(p, inc))
}

// Close handles PUT /incidencias/:id/cerrar.
//
// @Summary      Close an incident
// @Tags         incidencias
// @Produce      json
// @Param        id   path      int  true  "Incident ID"
// @Success      200  {object}  dataResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /incidencias/{id}/cerrar [put]
func (h *IncidentHandler) Close(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	inc, err := h.incidents.Close(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	metrics.IncidentsMutatedTotal.WithLabelValues("closed").Inc()
	return respond(c, http.StatusOK, viewIncident(p, inc))
}

// Delete handles DELETE /incidencias/:id.
//
// @Summary      Delete an incident
// @Tags         incidencias
// @Produce      json
// @Param        id   path      int  true  "Incident ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /incidencias/{id} [delete]
func (h *IncidentHandler) Delete(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.incidents.Delete(c.Request().Context(), p, id); err != nil {
		return err
	}
	metrics.IncidentsMutatedTotal.WithLabelValues("deleted").Inc()
	return respondMessage(c, "incident deleted")
}
