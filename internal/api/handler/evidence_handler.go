package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/proteccion-civil/incident-system/internal/api/metrics"
	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

// DefaultMaxUpload is the evidence size cap when none is configured.
const DefaultMaxUpload = 5 << 20

// EvidenceHandler serves evidence metadata, uploads and downloads.
type EvidenceHandler struct {
	evidences ports.EvidenceService
	maxBytes  int64
}

func NewEvidenceHandler(evidences ports.EvidenceService, maxBytes int64) *EvidenceHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUpload
	}
	return &EvidenceHandler{evidences: evidences, maxBytes: maxBytes}
}

// ListByIncident handles GET /evidencias/incidencia/:id.
//
// @Summary      List the evidences of an incident
// @Tags         evidencias
// @Produce      json
// @Param        id   path      int  true  "Incident ID"
// @Success      200  {object}  dataResponse
// @Router       /evidencias/incidencia/{id} [get]
func (h *EvidenceHandler) ListByIncident(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	evs, err := h.evidences.ListByIncident(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, evs)
}

// Stats handles GET /evidencias/incidencia/:id/estadisticas.
//
// @Summary      Evidence counts by file type
// @Tags         evidencias
// @Produce      json
// @Param        id   path      int  true  "Incident ID"
// @Success      200  {object}  dataResponse
// @Router       /evidencias/incidencia/{id}/estadisticas [get]
func (h *EvidenceHandler) Stats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	st, err := h.evidences.Stats(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, st)
}

// Get handles GET /evidencias/:id.
//
// @Summary      Get an evidence record
// @Tags         evidencias
// @Produce      json
// @Param        id   path      int  true  "Evidence ID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Router       /evidencias/{id} [get]
func (h *EvidenceHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ev, err := h.evidences.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ev)
}

// Download handles GET /evidencias/:id/descargar and streams the stored file.
//
// @Summary      Download an evidence file
// @Tags         evidencias
// @Produce      octet-stream
// @Param        id   path  int  true  "Evidence ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  errorResponse
// @Router       /evidencias/{id}/descargar [get]
func (h *EvidenceHandler) Download(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	f, err := h.evidences.Open(c.Request().Context(), id)
	if err != nil {
		return err
	}
	defer f.Content.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", f.Name))
	return c.Stream(http.StatusOK, f.Evidence.Type.ContentType(), f.Content)
}

// Upload handles POST /evidencias/upload (multipart: file, id_incidencia).
// The file type is taken from the sniffed content, not the client's name or header.
//
// @Summary      Upload evidence for an incident
// @Tags         evidencias
// @Accept       multipart/form-data
// @Produce      json
// @Param        file           formData  file  true  "JPEG, PNG or PDF"
// @Param        id_incidencia  formData  int   true  "Incident ID"
// @Success      201            {object}  dataResponse
// @Failure      400            {object}  errorResponse
// @Failure      403            {object}  errorResponse
// @Failure      404            {object}  errorResponse
// @Failure      413            {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /evidencias/upload [post]
func (h *EvidenceHandler) Upload(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	incidentID, err := parseID(c.FormValue("id_incidencia"))
	if err != nil {
		return domain.Invalid("invalid id_incidencia")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return domain.Invalid("file is required")
	}
	if fh.Size > h.maxBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d byte limit", h.maxBytes))
	}

	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ev, err := h.evidences.Upload(c.Request().Context(), p, ports.UploadInput{
		IncidentID: incidentID,
		Filename:   fh.Filename,
		Content:    io.LimitReader(src, h.maxBytes),
	})
	if err != nil {
		return err
	}

	metrics.EvidenceUploadedTotal.WithLabelValues(string(ev.Type)).Inc()
	metrics.EvidenceUploadBytes.Observe(float64(fh.Size))
	return respond(c, http.StatusCreated, ev)
}

// Delete handles DELETE /evidencias/:id.
//
// @Summary      Delete an evidence
// @Tags         evidencias
// @Produce      json
// @Param        id   path      int  true  "Evidence ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /evidencias/{id} [delete]
func (h *EvidenceHandler) Delete(c echo.Context) error {
	p, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.evidences.Delete(c.Request().Context(), p, id); err != nil {
		return err
	}
	return respondMessage(c, "evidence deleted")
}
