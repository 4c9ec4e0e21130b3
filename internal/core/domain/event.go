package domain

// Event bounds a reporting period; incidents are always logged against one.
type Event struct {
	ID          int64  `json:"id_evento"`
	Name        string `json:"nombre_evento"`
	StartDate   Date   `json:"fecha_inicio"`
	EndDate     *Date  `json:"fecha_fin"`
	Location    string `json:"ubicacion,omitempty"`
	Description string `json:"descripcion,omitempty"`
	Status      Status `json:"estatus"`
}
