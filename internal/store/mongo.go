package store

import (
	"context"
	"fmt"
	"time"

	"github.com/AlexZinkM/phantom-waitlist/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoConnectTimeout = 10 * time.Second

// ConnectMongo dials uri and pings the primary.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// MongoRecords stores whitelist records as documents.
type MongoRecords struct {
	coll *mongo.Collection
}

// NewMongoRecords ensures the unique handleKey index and wraps coll.
func NewMongoRecords(ctx context.Context, coll *mongo.Collection) (*MongoRecords, error) {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "handleKey", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_handle_key"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create handle index: %w", err)
	}
	return &MongoRecords{coll: coll}, nil
}

// Insert writes rec; the unique index rejects duplicate handles.
func (m *MongoRecords) Insert(ctx context.Context, rec *model.WhitelistRecord) error {
	rec.HandleKey = model.HandleKey(rec.Handle)
	_, err := m.coll.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateHandle
	}
	return err
}

// HandleTaken reports whether a document with handle exists.
func (m *MongoRecords) HandleTaken(ctx context.Context, handle string) (bool, error) {
	n, err := m.coll.CountDocuments(ctx,
		bson.D{{Key: "handleKey", Value: model.HandleKey(handle)}},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
