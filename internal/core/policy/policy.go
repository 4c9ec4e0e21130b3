// Package policy decides whether a principal may perform an action given the
// roles an operation admits and, optionally, the owner of the target record.
package policy

import (
	"slices"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

// Reason explains a denial.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonUnauthenticated  Reason = "unauthenticated"
	ReasonInsufficientRole Reason = "insufficient_role"
	ReasonNotOwner         Reason = "not_owner"
)

// Requirement describes what an operation demands of the caller. An empty Roles
// admits any authenticated principal. OwnerID, when set, restricts non-admin
// callers to records they own.
type Requirement struct {
	Roles   []domain.Role
	OwnerID *int64
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err returns the sentinel error matching the denial reason, or nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return domain.ErrUnauthenticated
	case ReasonNotOwner:
		return domain.ErrNotOwner
	default:
		return domain.ErrInsufficientRole
	}
}

func allow() Decision { return Decision{Allowed: true} }

func deny(r Reason) Decision { return Decision{Reason: r} }

// Authorize checks the role first, then ownership. ADMIN bypasses ownership.
func Authorize(p *domain.Principal, req Requirement) Decision {
	if p == nil {
		return deny(ReasonUnauthenticated)
	}
	if len(req.Roles) > 0 && !slices.Contains(req.Roles, p.Role) {
		return deny(ReasonInsufficientRole)
	}
	if req.OwnerID == nil || p.IsAdmin() {
		return allow()
	}
	if p.Role == domain.RoleCapturista && p.UserID == *req.OwnerID {
		return allow()
	}
	return deny(ReasonNotOwner)
}

// Owner is a convenience for building a Requirement that checks ownership.
func Owner(id int64, roles ...domain.Role) Requirement {
	return Requirement{Roles: roles, OwnerID: &id}
}

// Roles is a convenience for building a role-only Requirement.
func Roles(roles ...domain.Role) Requirement {
	return Requirement{Roles: roles}
}

// CanEdit reports whether p may mutate a record created by ownerID. It is the
// non-failing form used to annotate read responses.
func CanEdit(p *domain.Principal, ownerID int64) bool {
	return Authorize(p, Owner(ownerID, domain.RoleAdmin, domain.RoleCapturista)).Allowed
}
