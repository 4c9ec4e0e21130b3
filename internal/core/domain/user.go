package domain

// Role is the authorization role carried by a user and its session.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleCapturista Role = "CAPTURISTA"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCapturista
}

// Status is the ACTIVO/INACTIVO flag shared by users, events and catalogs.
type Status string

const (
	StatusActive   Status = "ACTIVO"
	StatusInactive Status = "INACTIVO"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Toggle flips ACTIVO to INACTIVO and anything else to ACTIVO.
func (s Status) Toggle() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// User models a person who can sign in.
type User struct {
	ID           int64  `json:"idUsuario"`
	Name         string `json:"nombre"`
	Email        string `json:"correo"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"rol"`
	Status       Status `json:"estatus"`
}

// Active reports whether the user may sign in.
func (u *User) Active() bool {
	return u.Status == StatusActive
}

// UserRef is the minimal view of a user embedded in other records.
type UserRef struct {
	ID   int64  `json:"idUsuario"`
	Name string `json:"nombre"`
}
