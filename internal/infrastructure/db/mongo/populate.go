package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// refLoader resolves references for a page of documents with one $in query
// per referenced collection. Ids that no longer resolve are simply absent
// from the returned maps and render as null.
type refLoader struct {
	db *mongo.Database
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (l refLoader) users(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.UserRef, error) {
	refs := make(map[primitive.ObjectID]*domain.UserRef)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return refs, nil
	}
	docs, err := findMany[userDoc](ctx, l.db.Collection(collectionUsers), bson.M{"_id": bson.M{"$in": ids}}, nil)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		refs[docs[i].ID] = docs[i].toDomain().Ref()
	}
	return refs, nil
}

func (l refLoader) amenities(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.AmenityRef, error) {
	refs := make(map[primitive.ObjectID]*domain.AmenityRef)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return refs, nil
	}
	docs, err := findMany[amenityDoc](ctx, l.db.Collection(collectionAmenities), bson.M{"_id": bson.M{"$in": ids}}, nil)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		refs[d.ID] = &domain.AmenityRef{ID: d.ID.Hex(), Name: d.Name}
	}
	return refs, nil
}

func (l refLoader) technicians(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.TechnicianRef, error) {
	refs := make(map[primitive.ObjectID]*domain.TechnicianRef)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return refs, nil
	}
	docs, err := findMany[technicianDoc](ctx, l.db.Collection(collectionTechnicians), bson.M{"_id": bson.M{"$in": ids}}, nil)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		refs[d.ID] = &domain.TechnicianRef{ID: d.ID.Hex(), Name: d.Name, Contact: d.Contact}
	}
	return refs, nil
}
