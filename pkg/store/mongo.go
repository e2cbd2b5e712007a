package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
)

// MongoStore is a MongoDB-backed schedule store for server deployments.
// Schedules live in a single collection with _id = schedule ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and returns a store over the given
// database and collection. The connection is verified with a ping before
// returning.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Schedule, error) {
	if err := errors.ValidateScheduleID(id); err != nil {
		return nil, err
	}

	var sched Schedule
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sched)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find schedule %s: %w", id, err)
	}
	return &sched, nil
}

func (s *MongoStore) Put(ctx context.Context, sched *Schedule) error {
	if err := sched.Validate(); err != nil {
		return err
	}

	var prior Schedule
	_ = s.coll.FindOne(ctx, bson.M{"_id": sched.ID}).Decode(&prior)
	stamp(sched, prior.CreatedAt)

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": sched.ID}, sched, opts); err != nil {
		return fmt.Errorf("upsert schedule %s: %w", sched.ID, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateScheduleID(id); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete schedule %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Schedule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer cur.Close(ctx)

	var out []Schedule
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode schedules: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
