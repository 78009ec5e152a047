package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

const entityBooking = "booking"

type BookingRepository struct {
	coll *mongo.Collection
	refs refLoader
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{coll: db.Collection(collectionBookings), refs: refLoader{db: db}}
}

type bookingDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Amenity   primitive.ObjectID `bson:"amenity"`
	StartTime time.Time          `bson:"start_time"`
	EndTime   time.Time          `bson:"end_time"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	user, err := primitive.ObjectIDFromHex(b.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", domain.ErrValidation)
	}
	amenity, err := primitive.ObjectIDFromHex(b.AmenityID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amenity id", domain.ErrValidation)
	}
	doc := bookingDoc{
		User:      user,
		Amenity:   amenity,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if doc.ID, err = insertOne(ctx, r.coll, doc); err != nil {
		return nil, err
	}
	return r.populateOne(ctx, &doc)
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	doc, err := findByID[bookingDoc](ctx, r.coll, entityBooking, id)
	if err != nil {
		return nil, err
	}
	return r.populateOne(ctx, doc)
}

func (r *BookingRepository) List(ctx context.Context, filter ports.BookingFilter) ([]*domain.Booking, error) {
	q := bson.M{}
	if !matchRef(q, "user", filter.UserID) || !matchRef(q, "amenity", filter.AmenityID) {
		return []*domain.Booking{}, nil
	}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}

	docs, err := findMany[bookingDoc](ctx, r.coll, q, bson.D{{Key: "start_time", Value: -1}})
	if err != nil {
		return nil, err
	}
	return r.populate(ctx, docs)
}

func (r *BookingRepository) Update(ctx context.Context, id string, patch ports.BookingPatch) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrConditionNotMet
	}

	set := bson.M{}
	setIf(set, "start_time", patch.StartTime)
	setIf(set, "end_time", patch.EndTime)
	if patch.AmenityID != nil {
		if !matchRef(set, "amenity", *patch.AmenityID) {
			return nil, fmt.Errorf("%w: invalid amenity id", domain.ErrValidation)
		}
	}

	filter := bson.M{"_id": oid, "status": string(domain.BookingPending)}
	doc, err := updateWhere[bookingDoc](ctx, r.coll, filter, bson.M{"$set": set}, ports.ErrConditionNotMet)
	if err != nil {
		return nil, err
	}
	return r.populateOne(ctx, doc)
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, entityBooking, id)
}

func (r *BookingRepository) Transition(ctx context.Context, id string, from []domain.BookingStatus, to domain.BookingStatus, ownerID string) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrConditionNotMet
	}
	sources := make(bson.A, 0, len(from))
	for _, s := range from {
		sources = append(sources, string(s))
	}

	filter := bson.M{"_id": oid, "status": bson.M{"$in": sources}}
	if ownerID != "" && !matchRef(filter, "user", ownerID) {
		return nil, ports.ErrConditionNotMet
	}

	doc, err := updateWhere[bookingDoc](ctx, r.coll, filter, bson.M{"$set": bson.M{"status": string(to)}}, ports.ErrConditionNotMet)
	if err != nil {
		return nil, err
	}
	return r.populateOne(ctx, doc)
}

func (r *BookingRepository) populateOne(ctx context.Context, doc *bookingDoc) (*domain.Booking, error) {
	out, err := r.populate(ctx, []bookingDoc{*doc})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *BookingRepository) populate(ctx context.Context, docs []bookingDoc) ([]*domain.Booking, error) {
	userIDs := make([]primitive.ObjectID, len(docs))
	amenityIDs := make([]primitive.ObjectID, len(docs))
	for i := range docs {
		userIDs[i] = docs[i].User
		amenityIDs[i] = docs[i].Amenity
	}
	users, err := r.refs.users(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	amenities, err := r.refs.amenities(ctx, amenityIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Booking{
			ID:        d.ID.Hex(),
			UserID:    hexOrEmpty(d.User),
			User:      users[d.User],
			AmenityID: hexOrEmpty(d.Amenity),
			Amenity:   amenities[d.Amenity],
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			Status:    domain.BookingStatus(d.Status),
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}
	return out, nil
}
