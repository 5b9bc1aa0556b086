package sessions

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository stores refresh sessions. GetByRefresh returns (nil, nil) for a
// token that is unknown or already expired.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByRefresh(ctx context.Context, refresh string) (*Session, error)
	DeleteByRefresh(ctx context.Context, refresh string) error
	// Consume deletes the session and returns it in one atomic step. Of
	// several concurrent calls with the same token at most one gets a
	// session; the rest get (nil, nil).
	Consume(ctx context.Context, refresh string) (*Session, error)
}

// MongoRepository keeps sessions in the sessions collection. Expired
// documents are removed by the TTL index on expiresAt.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, s *Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

// GetByRefresh filters on expiresAt as well since the TTL monitor only runs once a minute.
func (r *MongoRepository) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	filter := bson.M{"refreshToken": refresh, "expiresAt": bson.M{"$gt": time.Now().UTC()}}
	var s Session
	err := r.col.FindOne(ctx, filter).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MongoRepository) Consume(ctx context.Context, refresh string) (*Session, error) {
	var s Session
	err := r.col.FindOneAndDelete(ctx, bson.M{"refreshToken": refresh}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.Expired(time.Now().UTC()) {
		return nil, nil
	}
	return &s, nil
}

func (r *MongoRepository) DeleteByRefresh(ctx context.Context, refresh string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"refreshToken": refresh})
	return err
}
