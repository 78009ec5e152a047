package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

const entityVisitor = "visitor"

type VisitorRepository struct {
	coll *mongo.Collection
}

func NewVisitorRepository(db *mongo.Database) *VisitorRepository {
	return &VisitorRepository{coll: db.Collection(collectionVisitors)}
}

type visitorDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	FlatNumber string             `bson:"flat_number"`
	Purpose    string             `bson:"purpose"`
	Vehicle    string             `bson:"vehicle,omitempty"`
	InTime     time.Time          `bson:"in_time"`
	OutTime    *time.Time         `bson:"out_time"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d *visitorDoc) toDomain() *domain.Visitor {
	return &domain.Visitor{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		FlatNumber: d.FlatNumber,
		Purpose:    d.Purpose,
		Vehicle:    d.Vehicle,
		InTime:     d.InTime,
		OutTime:    d.OutTime,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (r *VisitorRepository) Create(ctx context.Context, v *domain.Visitor) (*domain.Visitor, error) {
	doc := visitorDoc{
		Name:       v.Name,
		FlatNumber: v.FlatNumber,
		Purpose:    v.Purpose,
		Vehicle:    v.Vehicle,
		InTime:     v.InTime,
		OutTime:    v.OutTime,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
	oid, err := insertOne(ctx, r.coll, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *VisitorRepository) FindByID(ctx context.Context, id string) (*domain.Visitor, error) {
	doc, err := findByID[visitorDoc](ctx, r.coll, entityVisitor, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *VisitorRepository) List(ctx context.Context, filter ports.VisitorFilter) ([]*domain.Visitor, error) {
	q := bson.M{}
	if filter.InFrom != nil || filter.InTo != nil {
		window := bson.M{}
		if filter.InFrom != nil {
			window["$gte"] = *filter.InFrom
		}
		if filter.InTo != nil {
			window["$lt"] = *filter.InTo
		}
		q["in_time"] = window
	}
	if filter.ActiveOnly {
		q["out_time"] = nil
	}
	if filter.FlatNumber != "" {
		q["flat_number"] = filter.FlatNumber
	}

	docs, err := findMany[visitorDoc](ctx, r.coll, q, bson.D{{Key: "in_time", Value: -1}})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Visitor, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *VisitorRepository) Update(ctx context.Context, id string, patch ports.VisitorPatch) (*domain.Visitor, error) {
	set := bson.M{}
	setIf(set, "name", patch.Name)
	setIf(set, "flat_number", patch.FlatNumber)
	setIf(set, "purpose", patch.Purpose)
	setIf(set, "vehicle", patch.Vehicle)
	setIf(set, "in_time", patch.InTime)

	var doc *visitorDoc
	var err error
	if patch.InTime == nil {
		doc, err = updateByID[visitorDoc](ctx, r.coll, entityVisitor, id, bson.M{"$set": set})
	} else {
		doc, err = r.updateInTime(ctx, id, *patch.InTime, set)
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// updateInTime keeps in_time at or before an already recorded out_time.
func (r *VisitorRepository) updateInTime(ctx context.Context, id string, in time.Time, set bson.M) (*visitorDoc, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrConditionNotMet
	}
	filter := bson.M{
		"_id": oid,
		"$or": bson.A{
			bson.M{"out_time": nil},
			bson.M{"out_time": bson.M{"$gte": in}},
		},
	}
	return updateWhere[visitorDoc](ctx, r.coll, filter, bson.M{"$set": set}, ports.ErrConditionNotMet)
}

func (r *VisitorRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, entityVisitor, id)
}

// Checkout matches only a visitor whose out_time is still null, so the exit
// time is written at most once.
func (r *VisitorRepository) Checkout(ctx context.Context, id string, at time.Time) (*domain.Visitor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrConditionNotMet
	}
	doc, err := updateWhere[visitorDoc](ctx, r.coll,
		bson.M{"_id": oid, "out_time": nil},
		bson.M{"$set": bson.M{"out_time": at}},
		ports.ErrConditionNotMet,
	)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}
