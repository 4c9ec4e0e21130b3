package policy

import (
	"errors"
	"testing"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

var (
	admin      = &domain.Principal{UserID: 1, Role: domain.RoleAdmin}
	capturista = &domain.Principal{UserID: 2, Role: domain.RoleCapturista}
)

func TestAuthorize(t *testing.T) {
	editors := []domain.Role{domain.RoleAdmin, domain.RoleCapturista}
	cases := []struct {
		name   string
		p      *domain.Principal
		req    Requirement
		allow  bool
		reason Reason
		err    error
	}{
		{"anonymous", nil, Roles(domain.RoleAdmin), false, ReasonUnauthenticated, domain.ErrUnauthenticated},
		{"admin role ok", admin, Roles(domain.RoleAdmin), true, ReasonNone, nil},
		{"capturista on admin route", capturista, Roles(domain.RoleAdmin), false, ReasonInsufficientRole, domain.ErrInsufficientRole},
		{"any authenticated", capturista, Requirement{}, true, ReasonNone, nil},
		{"capturista owner", capturista, Owner(2, editors...), true, ReasonNone, nil},
		{"capturista not owner", capturista, Owner(9, editors...), false, ReasonNotOwner, domain.ErrNotOwner},
		{"admin bypasses ownership", admin, Owner(9, editors...), true, ReasonNone, nil},
		{"role checked before ownership", capturista, Owner(2, domain.RoleAdmin), false, ReasonInsufficientRole, domain.ErrInsufficientRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Authorize(tc.p, tc.req)
			if d.Allowed != tc.allow || d.Reason != tc.reason {
				t.Fatalf("got %+v, want allowed=%v reason=%q", d, tc.allow, tc.reason)
			}
			if tc.err == nil {
				if d.Err() != nil {
					t.Fatalf("expected nil error, got %v", d.Err())
				}
				return
			}
			if !errors.Is(d.Err(), tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, d.Err())
			}
		})
	}
}

func TestCanEdit(t *testing.T) {
	if !CanEdit(admin, 42) {
		t.Fatalf("admin should edit any record")
	}
	if !CanEdit(capturista, 2) {
		t.Fatalf("capturista should edit own record")
	}
	if CanEdit(capturista, 3) {
		t.Fatalf("capturista must not edit another user's record")
	}
	if CanEdit(nil, 2) {
		t.Fatalf("anonymous must not edit")
	}
}
