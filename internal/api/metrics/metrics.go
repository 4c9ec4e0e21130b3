// Package metrics defines the custom Prometheus metrics of the incident API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default registry through promauto when the
// package is first imported; the echoprometheus handler exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "incidents"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthorizationDeniedTotal counts requests rejected by the authorization policy.
// Label:
//   - reason: "unauthenticated", "insufficient_role" or "not_owner"
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests denied by the authorization policy.",
	},
	[]string{"reason"},
)

// ── Incident metrics ──────────────────────────────────────────────────────────

// IncidentsMutatedTotal counts incident writes.
// Label:
//   - action: "created", "updated", "closed" or "deleted"
var IncidentsMutatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "incidents_mutated_total",
		Help:      "Total number of incident writes, by action.",
	},
	[]string{"action"},
)

// EvidenceUploadedTotal counts stored evidence files.
// Label:
//   - type: "JPG", "PNG" or "PDF"
var EvidenceUploadedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evidence_uploaded_total",
		Help:      "Total number of evidence files uploaded, by file type.",
	},
	[]string{"type"},
)

// EvidenceUploadBytes observes the size of uploaded evidence files.
var EvidenceUploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "evidence_upload_bytes",
		Help:      "Size of uploaded evidence files in bytes.",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 6), // 16KiB .. 16MiB
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of entries waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEntriesTotal counts audit entries by outcome.
// Label:
//   - result: "written", "failed" or "dropped"
var AuditEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_total",
		Help:      "Total number of audit entries, by outcome.",
	},
	[]string{"result"},
)

// AuditWriteDuration measures how long a single audit write takes.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of audit entry writes to the audit store.",
		Buckets:   prometheus.DefBuckets,
	},
)
