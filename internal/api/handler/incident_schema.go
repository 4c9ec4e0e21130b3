package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/policy"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

// IdempotencyHeader lets clients retry incident creation safely.
const IdempotencyHeader = "Idempotency-Key"

type incidentRequest struct {
	EventID       *int64                 `json:"id_evento"      validate:"omitempty,gt=0"`
	Date          *domain.Date           `json:"fecha"          swaggertype:"string" format:"date" example:"2024-09-15"`
	Time          *string                `json:"hora"           example:"14:30"`
	CorporationID *int64                 `json:"id_corporacion" validate:"omitempty,gt=0"`
	MotiveID      *int64                 `json:"id_motivo"      validate:"omitempty,gt=0"`
	Location      *string                `json:"ubicacion"      validate:"omitempty,max=255"`
	Description   *string                `json:"descripcion"`
	Status        *domain.IncidentStatus `json:"estatus"        validate:"omitempty,oneof=ABIERTA EN_PROCESO CERRADA"`
}

func (r incidentRequest) input() ports.IncidentInput {
	return ports.IncidentInput{
		EventID:       r.EventID,
		Date:          r.Date,
		Time:          r.Time,
		CorporationID: r.CorporationID,
		MotiveID:      r.MotiveID,
		Location:      r.Location,
		Description:   r.Description,
		Status:        r.Status,
	}
}

// incidentView annotates an incident with whether the caller may edit it.
type incidentView struct {
	*domain.Incident
	CanEdit bool `json:"puede_editar"`
}

func viewIncident(p *domain.Principal, inc *domain.Incident) incidentView {
	return incidentView{Incident: inc, CanEdit: policy.CanEdit(p, inc.CreatedBy)}
}

func viewIncidents(p *domain.Principal, incs []*domain.Incident) []incidentView {
	out := make([]incidentView, 0, len(incs))
	for _, inc := range incs {
		out = append(out, viewIncident(p, inc))
	}
	return out
}

// parseCriteria reads the filter query parameters. Empty values are ignored;
// malformed ones are validation errors.
func parseCriteria(c echo.Context) (domain.IncidentCriteria, error) {
	var crit domain.IncidentCriteria

	optionalID := func(name string) (*int64, error) {
		raw := strings.TrimSpace(c.QueryParam(name))
		if raw == "" {
			return nil, nil
		}
		id, err := parseID(raw)
		if err != nil {
			return nil, domain.Invalid("invalid " + name)
		}
		return &id, nil
	}

	var err error
	if crit.ID, err = optionalID("id_incidencia"); err != nil {
		return crit, err
	}
	if crit.CorporationID, err = optionalID("id_corporacion"); err != nil {
		return crit, err
	}
	if crit.MotiveID, err = optionalID("id_motivo"); err != nil {
		return crit, err
	}

	crit.Description = strings.TrimSpace(c.QueryParam("descripcion"))

	if raw := strings.TrimSpace(c.QueryParam("fecha")); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			return crit, domain.Invalid("fecha must be YYYY-MM-DD")
		}
		crit.Date = &d
	}

	if raw := strings.TrimSpace(c.QueryParam("estatus")); raw != "" {
		crit.Status = domain.IncidentStatus(strings.ToUpper(raw))
	}
	return crit, nil
}
