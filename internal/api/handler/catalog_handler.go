package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

// CatalogHandler serves one lookup table. The view function renders entries
// with the wire names of that table.
type CatalogHandler struct {
	catalog ports.CatalogService
	label   string
	view    func(domain.CatalogEntry) any
}

// NewCorporationHandler serves /corporaciones.
func NewCorporationHandler(svc ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalog: svc,
		label:   "corporation",
		view:    func(e domain.CatalogEntry) any { return e.Corporation() },
	}
}

// NewMotiveHandler serves /motivos.
func NewMotiveHandler(svc ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalog: svc,
		label:   "motive",
		view:    func(e domain.CatalogEntry) any { return e.Motive() },
	}
}

func (h *CatalogHandler) views(entries []domain.CatalogEntry) []any {
	out := make([]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, h.view(e))
	}
	return out
}

// List handles GET /corporaciones and GET /motivos.
//
// @Summary      List catalog entries
// @Tags         catalogos
// @Produce      json
// @Success      200  {object}  dataResponse
// @Router       /corporaciones [get]
// @Router       /motivos [get]
func (h *CatalogHandler) List(c echo.Context) error {
	entries, err := h.catalog.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.views(entries))
}

// ListActive handles GET /corporaciones/activas and GET /motivos/activos.
//
// @Summary      List active catalog entries
// @Tags         catalogos
// @Produce      json
// @Success      200  {object}  dataResponse
// @Router       /corporaciones/activas [get]
// @Router       /motivos/activos [get]
func (h *CatalogHandler) ListActive(c echo.Context) error {
	entries, err := h.catalog.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.views(entries))
}

// Get handles GET /corporaciones/:id and GET /motivos/:id.
//
// @Summary      Get a catalog entry
// @Tags         catalogos
// @Produce      json
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Router       /corporaciones/{id} [get]
// @Router       /motivos/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	entry, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.view(*entry))
}

// Create handles POST /corporaciones and POST /motivos.
//
// @Summary      Create a catalog entry
// @Tags         catalogos
// @Accept       json
// @Produce      json
// @Param        body  body      catalogRequest  true  "Entry"
// @Success      201   {object}  dataResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /corporaciones [post]
// @Router       /motivos [post]
func (h *CatalogHandler) Create(c echo.Context) error {
	var req catalogRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	entry, err := h.catalog.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, h.view(*entry))
}

// Update handles PUT /corporaciones/:id and PUT /motivos/:id.
//
// @Summary      Update a catalog entry
// @Tags         catalogos
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "Entry ID"
// @Param        body  body      catalogRequest  true  "Fields to change"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /corporaciones/{id} [put]
// @Router       /motivos/{id} [put]
func (h *CatalogHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req catalogRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	entry, err := h.catalog.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.view(*entry))
}

// Toggle handles PATCH /corporaciones/:id/toggle and PATCH /motivos/:id/toggle.
//
// @Summary      Flip a catalog entry between ACTIVO and INACTIVO
// @Tags         catalogos
// @Produce      json
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /corporaciones/{id}/toggle [patch]
// @Router       /motivos/{id}/toggle [patch]
func (h *CatalogHandler) Toggle(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	entry, err := h.catalog.Toggle(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.view(*entry))
}

// Delete handles DELETE /corporaciones/:id and DELETE /motivos/:id.
//
// @Summary      Delete a catalog entry
// @Tags         catalogos
// @Produce      json
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /corporaciones/{id} [delete]
// @Router       /motivos/{id} [delete]
func (h *CatalogHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(c, h.label+" deleted")
}
