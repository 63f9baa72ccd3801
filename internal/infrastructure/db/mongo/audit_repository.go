package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

const auditCollection = "account_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// InsertEvent appends an entry to the account_events audit collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AccountEvent) error {
	doc := bson.M{
		"identity_id": event.IdentityID,
		"action":      string(event.Action),
		"at":          event.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.ActorID != "" && event.ActorID != event.IdentityID {
		doc["actor_id"] = event.ActorID
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "identity_id", Value: 1}, {Key: "at", Value: -1}},
	})
	return err
}
