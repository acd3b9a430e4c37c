package diagnostics

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studentcatalog/catalog-web/pkg/logger"
)

// Collection is the subset of *mongo.Collection the sink needs.
type Collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// MongoSink persists entries into a collection (normally "diagnostics").
// Insert failures are logged and dropped.
type MongoSink struct {
	col     Collection
	timeout time.Duration
}

func NewMongoSink(col Collection) *MongoSink {
	return &MongoSink{col: col, timeout: 2 * time.Second}
}

// EnsureIndexes creates a TTL index so entries expire after retention.
func EnsureIndexes(ctx context.Context, col *mongo.Collection, retention time.Duration) error {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(retention.Seconds())),
	}
	_, err := col.Indexes().CreateOne(ctx, idx)
	return err
}

func (s *MongoSink) Record(ctx context.Context, e Entry) {
	if s == nil || s.col == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if _, err := s.col.InsertOne(ctx, e); err != nil {
		logger.Warnf("diagnostics: insert failed: %v", err)
	}
}
