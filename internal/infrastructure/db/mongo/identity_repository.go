package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

const identityCollection = "identities"

// IdentityRepository implements ports.IdentityRepository on MongoDB. Email
// uniqueness is enforced by a unique index, so concurrent registrations for
// the same address cannot both succeed.
type IdentityRepository struct {
	coll *mongo.Collection
}

var _ ports.IdentityRepository = (*IdentityRepository)(nil)

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{coll: db.Collection(identityCollection)}
}

type identityDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Role         string             `bson:"role"`
	ProfileImage string             `bson:"profile_image,omitempty"`
	IsActive     bool               `bson:"is_active"`
	IsStaff      bool               `bson:"is_staff"`
	IsSuperuser  bool               `bson:"is_superuser"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
	LastLogin    *time.Time         `bson:"last_login,omitempty"`
}

func toIdentityDoc(i *domain.Identity) identityDoc {
	return identityDoc{
		Email:        i.Email,
		PasswordHash: i.PasswordHash,
		FirstName:    i.FirstName,
		LastName:     i.LastName,
		Role:         string(i.Role),
		ProfileImage: i.ProfileImage,
		IsActive:     i.IsActive,
		IsStaff:      i.IsStaff,
		IsSuperuser:  i.IsSuperuser,
		CreatedAt:    i.CreatedAt.UTC(),
		UpdatedAt:    i.UpdatedAt.UTC(),
		LastLogin:    i.LastLogin,
	}
}

func (d identityDoc) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Role:         domain.Role(d.Role),
		ProfileImage: d.ProfileImage,
		IsActive:     d.IsActive,
		IsStaff:      d.IsStaff,
		IsSuperuser:  d.IsSuperuser,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
		LastLogin:    d.LastLogin,
	}
}

// objectID parses an identity ID. Malformed IDs cannot name a stored
// identity, so they are reported as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrIdentityNotFound
	}
	return oid, nil
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	doc := toIdentityDoc(identity)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *IdentityRepository) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	var doc identityDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *IdentityRepository) Update(ctx context.Context, identity *domain.Identity) error {
	oid, err := objectID(identity.ID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"email":         identity.Email,
		"first_name":    identity.FirstName,
		"last_name":     identity.LastName,
		"role":          string(identity.Role),
		"profile_image": identity.ProfileImage,
		"is_active":     identity.IsActive,
		"is_staff":      identity.IsStaff,
		"is_superuser":  identity.IsSuperuser,
		"updated_at":    identity.UpdatedAt.UTC(),
	}}
	return r.updateOne(ctx, oid, update)
}

func (r *IdentityRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, oid, bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	}})
}

func (r *IdentityRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, oid, bson.M{"$set": bson.M{"last_login": at.UTC()}})
}

func (r *IdentityRepository) updateOne(ctx context.Context, oid primitive.ObjectID, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update identity: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

// searchFilter matches query as a case-insensitive literal substring of the
// first name, last name or email.
func searchFilter(query string) bson.M {
	if query == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"first_name": pattern},
		bson.M{"last_name": pattern},
		bson.M{"email": pattern},
	}}
}

func (r *IdentityRepository) Count(ctx context.Context, query string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, searchFilter(query))
	if err != nil {
		return 0, fmt.Errorf("count identities: %w", err)
	}
	return n, nil
}

// Search orders by creation time with _id as tie-breaker, so repeated calls
// with the same arguments return the same page.
func (r *IdentityRepository) Search(ctx context.Context, search ports.IdentitySearch) ([]*domain.Identity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(search.Skip)).
		SetLimit(int64(search.Limit))

	cur, err := r.coll.Find(ctx, searchFilter(search.Query), opts)
	if err != nil {
		return nil, fmt.Errorf("search identities: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]*domain.Identity, 0, search.Limit)
	for cur.Next(ctx) {
		var doc identityDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode identity: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("search identities: %w", err)
	}
	return items, nil
}

func (r *IdentityRepository) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$role"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count identities by role: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Role  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("count identities by role: %w", err)
	}

	out := make(map[domain.Role]int64, len(rows))
	for _, row := range rows {
		out[domain.Role(row.Role)] = row.Count
	}
	return out, nil
}

// EnsureIndexes creates the unique email index and the listing index.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
