package domain

import (
	"sort"
	"strings"
	"time"
)

// IncidentStatus is the lifecycle state of an incident.
type IncidentStatus string

const (
	IncidentOpen       IncidentStatus = "ABIERTA"
	IncidentInProgress IncidentStatus = "EN_PROCESO"
	IncidentClosed     IncidentStatus = "CERRADA"
)

// Valid reports whether s is a declared incident status. Any declared status may
// be set by a direct edit; no transition is forbidden.
func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentOpen, IncidentInProgress, IncidentClosed:
		return true
	}
	return false
}

// Incident is a single report logged during an event.
type Incident struct {
	ID            int64          `json:"id_incidencia"`
	EventID       int64          `json:"id_evento"`
	Date          Date           `json:"fecha"`
	Time          string         `json:"hora"`
	CorporationID int64          `json:"id_corporacion"`
	MotiveID      int64          `json:"id_motivo"`
	Location      string         `json:"ubicacion"`
	Description   string         `json:"descripcion"`
	CreatedBy     int64          `json:"usuario_crea"`
	ClosedBy      *int64         `json:"usuario_cierra"`
	ClosedAt      *time.Time     `json:"fecha_cierre"`
	Status        IncidentStatus `json:"estatus"`

	Event       *Event       `json:"evento,omitempty"`
	Corporation *Corporation `json:"corporacion,omitempty"`
	Motive      *Motive      `json:"motivo,omitempty"`
	Creator     *UserRef     `json:"usuarioCrea,omitempty"`
	Closer      *UserRef     `json:"usuarioCierra,omitempty"`
	Evidences   []*Evidence  `json:"evidencias"`
}

// IncidentCriteria is a sparse set of AND-combined predicates over the incidents
// of one event. Zero-valued fields impose no constraint.
type IncidentCriteria struct {
	ID            *int64
	Description   string
	Date          *Date
	CorporationID *int64
	MotiveID      *int64
	Status        IncidentStatus
}

// Empty reports whether no predicate is set.
func (c IncidentCriteria) Empty() bool {
	return c.ID == nil && c.Description == "" && c.Date == nil &&
		c.CorporationID == nil && c.MotiveID == nil && c.Status == ""
}

// Matches reports whether inc belongs to eventID and satisfies every predicate.
// Description matching is a case-insensitive substring test.
func (c IncidentCriteria) Matches(eventID int64, inc *Incident) bool {
	if inc.EventID != eventID {
		return false
	}
	if c.ID != nil && inc.ID != *c.ID {
		return false
	}
	if c.Description != "" && !strings.Contains(strings.ToLower(inc.Description), strings.ToLower(c.Description)) {
		return false
	}
	if c.Date != nil && !inc.Date.Equal(c.Date.Time) {
		return false
	}
	if c.CorporationID != nil && inc.CorporationID != *c.CorporationID {
		return false
	}
	if c.MotiveID != nil && inc.MotiveID != *c.MotiveID {
		return false
	}
	if c.Status != "" && inc.Status != c.Status {
		return false
	}
	return true
}

// SortIncidents orders items most recent first: date descending, then time
// descending, ties broken by ascending id.
func SortIncidents(items []*Incident) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.After(b.Date.Time)
		}
		if a.Time != b.Time {
			return a.Time > b.Time
		}
		return a.ID < b.ID
	})
}

// IncidentStats summarizes evidence coverage for the incidents of an event.
type IncidentStats struct {
	Total           int     `json:"total"`
	WithEvidence    int     `json:"con_evidencias"`
	WithoutEvidence int     `json:"sin_evidencias"`
	EvidencePercent float64 `json:"porcentaje_con_evidencias"`
}

// ComputeIncidentStats counts incidents with and without evidence.
func ComputeIncidentStats(items []*Incident) IncidentStats {
	var st IncidentStats
	st.Total = len(items)
	for _, inc := range items {
		if len(inc.Evidences) > 0 {
			st.WithEvidence++
		}
	}
	st.WithoutEvidence = st.Total - st.WithEvidence
	if st.Total > 0 {
		pct := float64(st.WithEvidence) / float64(st.Total) * 100
		st.EvidencePercent = float64(int(pct*100+0.5)) / 100
	}
	return st
}
