package handler

import (
	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

// eventRequest is shared by create and update; absent fields are left untouched on update.
type eventRequest struct {
	Name        *string        `json:"nombre_evento" validate:"omitempty,max=150"`
	StartDate   *domain.Date   `json:"fecha_inicio" swaggertype:"string" format:"date" example:"2024-09-15"`
	EndDate     *domain.Date   `json:"fecha_fin"    swaggertype:"string" format:"date" example:"2024-09-16"`
	Location    *string        `json:"ubicacion"     validate:"omitempty,max=255"`
	Description *string        `json:"descripcion"`
	Status      *domain.Status `json:"estatus"       validate:"omitempty,oneof=ACTIVO INACTIVO"`
}

func (r eventRequest) input() ports.EventInput {
	return ports.EventInput{
		Name:        r.Name,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Location:    r.Location,
		Description: r.Description,
		Status:      r.Status,
	}
}

// catalogRequest accepts both the generic "nombre" and the entity specific name field.
type catalogRequest struct {
	Name            *string        `json:"nombre"`
	CorporationName *string        `json:"nombre_corporacion"`
	MotiveName      *string        `json:"nombre_motivo"`
	Status          *domain.Status `json:"estatus" validate:"omitempty,oneof=ACTIVO INACTIVO"`
}

func (r catalogRequest) input() ports.CatalogInput {
	name := r.Name
	if r.CorporationName != nil {
		name = r.CorporationName
	}
	if r.MotiveName != nil {
		name = r.MotiveName
	}
	return ports.CatalogInput{Name: name, Status: r.Status}
}
