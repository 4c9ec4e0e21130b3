package service

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range users {
		clone := *u
		r.users[u.ID] = &clone
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
	}
	return r
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.NotFound("user", 0)
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NotFound("user", id)
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.Conflict("duplicate email")
		}
	}
	r.nextID++
	clone := *user
	clone.ID = r.nextID
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.NotFound("user", user.ID)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	delete(r.users, id)
	return nil
}

type stubTokens struct {
	issued []domain.Principal
}

func (s *stubTokens) Issue(p domain.Principal) (string, time.Time, error) {
	s.issued = append(s.issued, p)
	return "token-" + p.Name, time.Now().Add(15 * time.Minute), nil
}

func (s *stubTokens) Verify(string) (domain.Principal, error) {
	return domain.Principal{}, domain.ErrInvalidToken
}

type stubLimiter struct {
	max      int
	failures map[string]int
}

func newStubLimiter(max int) *stubLimiter {
	return &stubLimiter{max: max, failures: make(map[string]int)}
}

func (l *stubLimiter) Blocked(_ context.Context, key string) (bool, error) {
	return l.failures[key] >= l.max, nil
}

func (l *stubLimiter) Fail(_ context.Context, key string) error {
	l.failures[key]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, key string) error {
	delete(l.failures, key)
	return nil
}

// ---------------------------------------------------------------------------
// Events and catalogs
// ---------------------------------------------------------------------------

type stubEventRepo struct {
	events map[int64]*domain.Event
	nextID int64
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{events: make(map[int64]*domain.Event)}
}

func (r *stubEventRepo) List(_ context.Context, f ports.EventFilter) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, ev := range r.events {
		if ev.Status == f.Status {
			clone := *ev
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubEventRepo) FindByID(_ context.Context, id int64) (*domain.Event, error) {
	ev, ok := r.events[id]
	if !ok {
		return nil, domain.NotFound("event", id)
	}
	clone := *ev
	return &clone, nil
}

func (r *stubEventRepo) Create(_ context.Context, ev *domain.Event) error {
	r.nextID++
	ev.ID = r.nextID
	clone := *ev
	r.events[ev.ID] = &clone
	return nil
}

func (r *stubEventRepo) Update(_ context.Context, ev *domain.Event) error {
	clone := *ev
	r.events[ev.ID] = &clone
	return nil
}

func (r *stubEventRepo) SetStatus(_ context.Context, id int64, status domain.Status) error {
	r.events[id].Status = status
	return nil
}

type stubCatalogRepo struct {
	entries    map[int64]*domain.CatalogEntry
	referenced map[int64]bool
	nextID     int64
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{entries: make(map[int64]*domain.CatalogEntry), referenced: make(map[int64]bool)}
}

func (r *stubCatalogRepo) List(_ context.Context, onlyActive bool) ([]domain.CatalogEntry, error) {
	var out []domain.CatalogEntry
	for _, e := range r.entries {
		if !onlyActive || e.Status == domain.StatusActive {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubCatalogRepo) FindByID(_ context.Context, id int64) (*domain.CatalogEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, domain.NotFound("entry", id)
	}
	clone := *e
	return &clone, nil
}

func (r *stubCatalogRepo) FindByName(_ context.Context, name string) (*domain.CatalogEntry, error) {
	for _, e := range r.entries {
		if strings.EqualFold(e.Name, name) {
			clone := *e
			return &clone, nil
		}
	}
	return nil, domain.NotFound("entry", 0)
}

func (r *stubCatalogRepo) Create(_ context.Context, e *domain.CatalogEntry) error {
	r.nextID++
	e.ID = r.nextID
	clone := *e
	r.entries[e.ID] = &clone
	return nil
}

func (r *stubCatalogRepo) Update(_ context.Context, e *domain.CatalogEntry) error {
	clone := *e
	r.entries[e.ID] = &clone
	return nil
}

func (r *stubCatalogRepo) Delete(_ context.Context, id int64) error {
	if r.referenced[id] {
		return domain.ErrConflict
	}
	delete(r.entries, id)
	return nil
}

// ---------------------------------------------------------------------------
// Incidents and evidence
// ---------------------------------------------------------------------------

type stubIncidentRepo struct {
	incidents map[int64]*domain.Incident
	nextID    int64
	creates   int
	createErr error
}

func newStubIncidentRepo(items ...*domain.Incident) *stubIncidentRepo {
	r := &stubIncidentRepo{incidents: make(map[int64]*domain.Incident)}
	for _, inc := range items {
		clone := *inc
		r.incidents[inc.ID] = &clone
		if inc.ID > r.nextID {
			r.nextID = inc.ID
		}
	}
	return r
}

func (r *stubIncidentRepo) Find(_ context.Context, eventID int64, c domain.IncidentCriteria) ([]*domain.Incident, error) {
	out := []*domain.Incident{}
	for _, inc := range r.incidents {
		if c.Matches(eventID, inc) {
			clone := *inc
			out = append(out, &clone)
		}
	}
	domain.SortIncidents(out)
	return out, nil
}

func (r *stubIncidentRepo) FindByID(_ context.Context, id int64) (*domain.Incident, error) {
	inc, ok := r.incidents[id]
	if !ok {
		return nil, domain.NotFound("incident", id)
	}
	clone := *inc
	return &clone, nil
}

func (r *stubIncidentRepo) Create(_ context.Context, inc *domain.Incident) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.creates++
	r.nextID++
	inc.ID = r.nextID
	clone := *inc
	r.incidents[inc.ID] = &clone
	return nil
}

func (r *stubIncidentRepo) Update(_ context.Context, inc *domain.Incident) error {
	clone := *inc
	r.incidents[inc.ID] = &clone
	return nil
}

func (r *stubIncidentRepo) Close(_ context.Context, id, closedBy int64, at time.Time) error {
	inc, ok := r.incidents[id]
	if !ok {
		return domain.NotFound("incident", id)
	}
	inc.Status = domain.IncidentClosed
	inc.ClosedBy = &closedBy
	inc.ClosedAt = &at
	return nil
}

func (r *stubIncidentRepo) Delete(_ context.Context, id int64) error {
	delete(r.incidents, id)
	return nil
}

type stubKeys struct {
	keys map[string]int64
}

func newStubKeys() *stubKeys { return &stubKeys{keys: make(map[string]int64)} }

func (k *stubKeys) Claim(_ context.Context, key string) (int64, bool, error) {
	if id, ok := k.keys[key]; ok {
		return id, false, nil
	}
	k.keys[key] = 0
	return 0, true, nil
}

func (k *stubKeys) Remember(_ context.Context, key string, id int64) error {
	k.keys[key] = id
	return nil
}

func (k *stubKeys) Release(_ context.Context, key string) error {
	delete(k.keys, key)
	return nil
}

type stubAudit struct {
	entries []domain.AuditEntry
}

func (a *stubAudit) Record(_ context.Context, e domain.AuditEntry) {
	a.entries = append(a.entries, e)
}

type stubEvidenceRepo struct {
	items  map[int64]*domain.Evidence
	nextID int64
}

func newStubEvidenceRepo(items ...*domain.Evidence) *stubEvidenceRepo {
	r := &stubEvidenceRepo{items: make(map[int64]*domain.Evidence)}
	for _, ev := range items {
		clone := *ev
		r.items[ev.ID] = &clone
		if ev.ID > r.nextID {
			r.nextID = ev.ID
		}
	}
	return r
}

func (r *stubEvidenceRepo) ListByIncident(_ context.Context, incidentID int64) ([]*domain.Evidence, error) {
	out := []*domain.Evidence{}
	for _, ev := range r.items {
		if ev.IncidentID == incidentID {
			clone := *ev
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubEvidenceRepo) FindByID(_ context.Context, id int64) (*domain.Evidence, error) {
	ev, ok := r.items[id]
	if !ok {
		return nil, domain.NotFound("evidence", id)
	}
	clone := *ev
	return &clone, nil
}

func (r *stubEvidenceRepo) Create(_ context.Context, ev *domain.Evidence) error {
	r.nextID++
	ev.ID = r.nextID
	clone := *ev
	r.items[ev.ID] = &clone
	return nil
}

func (r *stubEvidenceRepo) Delete(_ context.Context, id int64) error {
	delete(r.items, id)
	return nil
}

type stubFiles struct {
	files   map[string][]byte
	removed []string
}

func newStubFiles() *stubFiles { return &stubFiles{files: make(map[string][]byte)} }

func (f *stubFiles) Save(_ context.Context, name string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.files[name] = b
	return name, nil
}

func (f *stubFiles) Open(path string) (io.ReadCloser, error) {
	b, ok := f.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *stubFiles) Remove(path string) error {
	f.removed = append(f.removed, path)
	if _, ok := f.files[path]; !ok {
		return fs.ErrNotExist
	}
	delete(f.files, path)
	return nil
}

func ptr[T any](v T) *T { return &v }

var (
	adminP    = &domain.Principal{UserID: 1, Role: domain.RoleAdmin, Name: "Admin"}
	ownerP    = &domain.Principal{UserID: 2, Role: domain.RoleCapturista, Name: "Ana"}
	strangerP = &domain.Principal{UserID: 3, Role: domain.RoleCapturista, Name: "Beto"}
)
