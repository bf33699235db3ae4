package measure

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoDoc is the persisted shape of one measure.
type mongoDoc struct {
	Ref       int64     `bson:"ref"`
	Measure   `bson:",inline"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoSink persists measures into a MongoDB collection, one document per
// measure, for deployments where analysis results are queried by a separate
// dashboard.
type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the MongoDB sink.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// NewMongoSink connects to MongoDB and verifies the connection.
func NewMongoSink(ctx context.Context, cfg MongoConfig) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	coll := cfg.Collection
	if coll == "" {
		coll = "measures"
	}
	return &MongoSink{
		client: client,
		coll:   client.Database(cfg.Database).Collection(coll),
	}, nil
}

// Append inserts one document per measure.
func (s *MongoSink) Append(ctx context.Context, ref int64, measures ...Measure) error {
	if len(measures) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(measures))
	for i, m := range measures {
		docs[i] = mongoDoc{Ref: ref, Measure: m, CreatedAt: now}
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert measures for %d: %w", ref, err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoSink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Sink = (*MongoSink)(nil)
