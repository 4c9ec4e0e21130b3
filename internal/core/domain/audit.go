package domain

import "time"

// AuditAction names a state change recorded in the audit trail.
type AuditAction string

const (
	AuditIncidentCreated  AuditAction = "incident.created"
	AuditIncidentUpdated  AuditAction = "incident.updated"
	AuditIncidentClosed   AuditAction = "incident.closed"
	AuditIncidentDeleted  AuditAction = "incident.deleted"
	AuditEvidenceUploaded AuditAction = "evidence.uploaded"
	AuditEvidenceDeleted  AuditAction = "evidence.deleted"
)

// AuditEntry records who changed what and when.
type AuditEntry struct {
	Action    AuditAction
	Entity    string
	EntityID  int64
	ActorID   int64
	ActorRole Role
	At        time.Time
	Details   map[string]any
}
