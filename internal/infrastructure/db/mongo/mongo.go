package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

const (
	collectionUsers       = "users"
	collectionBills       = "bills"
	collectionPayments    = "payments"
	collectionBookings    = "bookings"
	collectionAmenities   = "amenities"
	collectionIssues      = "issues"
	collectionTechnicians = "technicians"
	collectionVisitors    = "visitors"
	collectionNotices     = "notices"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the indexes every repository relies on. The unique
// email index is what turns a concurrent duplicate registration into an error.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		collectionBills: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collectionPayments: {
			{Keys: bson.D{{Key: "bill", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "paid_at", Value: -1}}},
		},
		collectionBookings: {
			{Keys: bson.D{{Key: "user", Value: 1}}},
			{Keys: bson.D{{Key: "amenity", Value: 1}, {Key: "start_time", Value: 1}}},
		},
		collectionIssues: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: 1}}},
			{Keys: bson.D{{Key: "technician", Value: 1}}},
		},
		collectionVisitors: {
			{Keys: bson.D{{Key: "in_time", Value: -1}}},
			{Keys: bson.D{{Key: "flat_number", Value: 1}}},
		},
		collectionNotices: {
			{Keys: bson.D{{Key: "pinned", Value: -1}, {Key: "created_at", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
