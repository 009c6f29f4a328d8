package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const localStoreCollection = "local_storage"

// LocalStore keeps browser-local items as one document per scope and key.
type LocalStore struct {
	coll *mongo.Collection
	ttl  time.Duration
}

func NewLocalStore(db *mongo.Database) *LocalStore {
	return &LocalStore{coll: db.Collection(localStoreCollection)}
}

type mongoItem struct {
	ID        string `bson:"_id"`
	Scope     string `bson:"scope"`
	Key       string `bson:"key"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

// EnsureIndexes creates the TTL index that expires items ttl after their
// last write. A zero ttl skips it.
func (s *LocalStore) EnsureIndexes(ctx context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create local store index: %w", err)
	}
	s.ttl = ttl
	return nil
}

func (s *LocalStore) GetItem(ctx context.Context, scope, key string) (string, bool, error) {
	var item mongoItem
	err := s.coll.FindOne(ctx, bson.M{"_id": itemID(scope, key)}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find item: %w", err)
	}
	return item.Value, true, nil
}

func (s *LocalStore) SetItem(ctx context.Context, scope, key, value string) error {
	now := time.Now().UTC()
	set := bson.M{
		"scope":      scope,
		"key":        key,
		"value":      value,
		"updated_at": now.Unix(),
	}
	if s.ttl > 0 {
		set["expires_at"] = now.Add(s.ttl)
	}

	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": itemID(scope, key)},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

func (s *LocalStore) RemoveItem(ctx context.Context, scope, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": itemID(scope, key)}); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// Name identifies the backend in readiness reports.
func (s *LocalStore) Name() string { return "mongodb" }

// Ping checks connectivity to the server holding the collection.
func (s *LocalStore) Ping(ctx context.Context) error {
	return s.coll.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func itemID(scope, key string) string {
	return scope + ":" + key
}
