package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

const auditCollection = "audit_events"

var _ ports.AuditRepository = (*AuditRepository)(nil)

// AuditRepository appends audit entries to the audit_events collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// EnsureIndexes creates the lookup index by entity and time.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "entity", Value: 1}, {Key: "entity_id", Value: 1}, {Key: "at", Value: -1}},
		Options: options.Index().SetName("entity_at"),
	})
	if err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}

// Insert persists one entry.
func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEntry) error {
	_, err := r.coll.InsertOne(ctx, auditDocument(e, time.Now().UTC()))
	return err
}

func auditDocument(e *domain.AuditEntry, recordedAt time.Time) bson.M {
	doc := bson.M{
		"action":      string(e.Action),
		"entity":      e.Entity,
		"entity_id":   e.EntityID,
		"actor_id":    e.ActorID,
		"actor_role":  string(e.ActorRole),
		"at":          e.At.UTC(),
		"recorded_at": recordedAt,
	}
	if len(e.Details) > 0 {
		doc["details"] = bson.M(e.Details)
	}
	return doc
}
