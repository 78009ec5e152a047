package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// objectID parses a hex id. Malformed ids cannot name a stored document, so
// they are reported as not found.
func objectID(entity, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	return oid, nil
}

// hexOrEmpty renders an optional reference.
func hexOrEmpty(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

// matchRef adds key=oid(id) to filter. It reports false when id is malformed,
// in which case the query can match nothing.
func matchRef(filter bson.M, key, id string) bool {
	if id == "" {
		return true
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false
	}
	filter[key] = oid
	return true
}

func insertOne(ctx context.Context, col *mongo.Collection, doc interface{}) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert into %s: %w", col.Name(), err)
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid, nil
}

func findOne[D any](ctx context.Context, col *mongo.Collection, entity string, filter bson.M) (*D, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc D
	if err := col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find %s: %w", entity, err)
	}
	return &doc, nil
}

func findByID[D any](ctx context.Context, col *mongo.Collection, entity, id string) (*D, error) {
	oid, err := objectID(entity, id)
	if err != nil {
		return nil, err
	}
	return findOne[D](ctx, col, entity, bson.M{"_id": oid})
}

func findMany[D any](ctx context.Context, col *mongo.Collection, filter bson.M, sort bson.D) ([]D, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	defer cur.Close(ctx)

	docs := make([]D, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", col.Name(), err)
	}
	return docs, nil
}

// updateWhere applies set (plus updated_at) to the single document matching
// filter and returns it after the update. No match yields errNoMatch.
func updateWhere[D any](ctx context.Context, col *mongo.Collection, filter bson.M, update bson.M, errNoMatch error) (*D, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc D
	if err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errNoMatch
		}
		return nil, fmt.Errorf("update %s: %w", col.Name(), err)
	}
	return &doc, nil
}

func updateByID[D any](ctx context.Context, col *mongo.Collection, entity, id string, update bson.M) (*D, error) {
	oid, err := objectID(entity, id)
	if err != nil {
		return nil, err
	}
	return updateWhere[D](ctx, col, bson.M{"_id": oid}, update, fmt.Errorf("%s: %w", entity, domain.ErrNotFound))
}

func deleteByID(ctx context.Context, col *mongo.Collection, entity, id string) error {
	oid, err := objectID(entity, id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete %s: %w", entity, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	return nil
}

// setIf copies a non-nil optional field into a $set document.
func setIf[T any](set bson.M, key string, v *T) {
	if v != nil {
		set[key] = *v
	}
}
