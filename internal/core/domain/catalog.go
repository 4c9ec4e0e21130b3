package domain

// CatalogEntry is the shared shape of the corporation and motive lookups.
type CatalogEntry struct {
	ID     int64
	Name   string
	Status Status
}

// Corporation identifies the responding agency for an incident.
type Corporation struct {
	ID     int64  `json:"id_corporacion"`
	Name   string `json:"nombre_corporacion"`
	Status Status `json:"estatus"`
}

// Motive classifies the reason of an incident.
type Motive struct {
	ID     int64  `json:"id_motivo"`
	Name   string `json:"nombre_motivo"`
	Status Status `json:"estatus"`
}

func (c CatalogEntry) Corporation() Corporation {
	return Corporation{ID: c.ID, Name: c.Name, Status: c.Status}
}

func (c CatalogEntry) Motive() Motive {
	return Motive{ID: c.ID, Name: c.Name, Status: c.Status}
}
