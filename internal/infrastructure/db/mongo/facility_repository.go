package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

const (
	entityAmenity    = "amenity"
	entityTechnician = "technician"
	entityNotice     = "notice"
)

type amenityDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Capacity    int                `bson:"capacity,omitempty"`
	Rules       string             `bson:"rules,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *amenityDoc) toDomain() *domain.Amenity {
	return &domain.Amenity{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Capacity:    d.Capacity,
		Rules:       d.Rules,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type AmenityRepository struct {
	coll *mongo.Collection
}

func NewAmenityRepository(db *mongo.Database) *AmenityRepository {
	return &AmenityRepository{coll: db.Collection(collectionAmenities)}
}

func (r *AmenityRepository) Create(ctx context.Context, a *domain.Amenity) (*domain.Amenity, error) {
	doc := amenityDoc{
		Name:        a.Name,
		Description: a.Description,
		Capacity:    a.Capacity,
		Rules:       a.Rules,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	oid, err := insertOne(ctx, r.coll, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *AmenityRepository) FindByID(ctx context.Context, id string) (*domain.Amenity, error) {
	doc, err := findByID[amenityDoc](ctx, r.coll, entityAmenity, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *AmenityRepository) List(ctx context.Context) ([]*domain.Amenity, error) {
	docs, err := findMany[amenityDoc](ctx, r.coll, bson.M{}, bson.D{{Key: "name", Value: 1}})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Amenity, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *AmenityRepository) Update(ctx context.Context, id string, patch ports.AmenityPatch) (*domain.Amenity, error) {
	set := bson.M{}
	setIf(set, "name", patch.Name)
	setIf(set, "description", patch.Description)
	setIf(set, "capacity", patch.Capacity)
	setIf(set, "rules", patch.Rules)

	doc, err := updateByID[amenityDoc](ctx, r.coll, entityAmenity, id, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *AmenityRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, entityAmenity, id)
}

type technicianDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Contact         string             `bson:"contact,omitempty"`
	Specializations []string           `bson:"specializations"`
	Availability    string             `bson:"availability,omitempty"`
	IsActive        bool               `bson:"is_active"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func (d *technicianDoc) toDomain() *domain.Technician {
	specs := d.Specializations
	if specs == nil {
		specs = []string{}
	}
	return &domain.Technician{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Contact:         d.Contact,
		Specializations: specs,
		Availability:    d.Availability,
		IsActive:        d.IsActive,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type TechnicianRepository struct {
	coll *mongo.Collection
}

func NewTechnicianRepository(db *mongo.Database) *TechnicianRepository {
	return &TechnicianRepository{coll: db.Collection(collectionTechnicians)}
}

func (r *TechnicianRepository) Create(ctx context.Context, t *domain.Technician) (*domain.Technician, error) {
	doc := technicianDoc{
		Name:            t.Name,
		Contact:         t.Contact,
		Specializations: t.Specializations,
		Availability:    t.Availability,
		IsActive:        t.IsActive,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	oid, err := insertOne(ctx, r.coll, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *TechnicianRepository) FindByID(ctx context.Context, id string) (*domain.Technician, error) {
	doc, err := findByID[technicianDoc](ctx, r.coll, entityTechnician, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *TechnicianRepository) List(ctx context.Context, filter ports.TechnicianFilter) ([]*domain.Technician, error) {
	q := bson.M{}
	if filter.Active != nil {
		q["is_active"] = *filter.Active
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Specialization)); s != "" {
		q["specializations"] = s
	}

	docs, err := findMany[technicianDoc](ctx, r.coll, q, bson.D{{Key: "name", Value: 1}})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Technician, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *TechnicianRepository) Update(ctx context.Context, id string, patch ports.TechnicianPatch) (*domain.Technician, error) {
	set := bson.M{}
	setIf(set, "name", patch.Name)
	setIf(set, "contact", patch.Contact)
	setIf(set, "specializations", patch.Specializations)
	setIf(set, "availability", patch.Availability)
	setIf(set, "is_active", patch.IsActive)

	doc, err := updateByID[technicianDoc](ctx, r.coll, entityTechnician, id, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *TechnicianRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, entityTechnician, id)
}

type noticeDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Description  string             `bson:"description"`
	VisibleFrom  time.Time          `bson:"visible_from"`
	VisibleUntil time.Time          `bson:"visible_until"`
	Pinned       bool               `bson:"pinned"`
	Audience     []string           `bson:"audience"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *noticeDoc) toDomain() *domain.Notice {
	audience := make([]domain.Role, 0, len(d.Audience))
	for _, a := range d.Audience {
		audience = append(audience, domain.Role(a))
	}
	return &domain.Notice{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Description:  d.Description,
		VisibleFrom:  d.VisibleFrom,
		VisibleUntil: d.VisibleUntil,
		Pinned:       d.Pinned,
		Audience:     audience,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func rolesToStrings(roles []domain.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

type NoticeRepository struct {
	coll *mongo.Collection
}

func NewNoticeRepository(db *mongo.Database) *NoticeRepository {
	return &NoticeRepository{coll: db.Collection(collectionNotices)}
}

func (r *NoticeRepository) Create(ctx context.Context, n *domain.Notice) (*domain.Notice, error) {
	doc := noticeDoc{
		Title:        n.Title,
		Description:  n.Description,
		VisibleFrom:  n.VisibleFrom,
		VisibleUntil: n.VisibleUntil,
		Pinned:       n.Pinned,
		Audience:     rolesToStrings(n.Audience),
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
	oid, err := insertOne(ctx, r.coll, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *NoticeRepository) FindByID(ctx context.Context, id string) (*domain.Notice, error) {
	doc, err := findByID[noticeDoc](ctx, r.coll, entityNotice, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns pinned notices first, newest first within each group. A
// notice with an empty audience is addressed to everyone.
func (r *NoticeRepository) List(ctx context.Context, filter ports.NoticeFilter) ([]*domain.Notice, error) {
	q := bson.M{}
	if filter.Audience != "" {
		q["$or"] = bson.A{
			bson.M{"audience": string(filter.Audience)},
			bson.M{"audience": bson.M{"$size": 0}},
			bson.M{"audience": bson.M{"$exists": false}},
		}
	}
	if filter.VisibleAt != nil {
		q["visible_from"] = bson.M{"$lte": *filter.VisibleAt}
		q["visible_until"] = bson.M{"$gte": *filter.VisibleAt}
	}

	docs, err := findMany[noticeDoc](ctx, r.coll, q, bson.D{{Key: "pinned", Value: -1}, {Key: "created_at", Value: -1}})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Notice, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *NoticeRepository) Update(ctx context.Context, id string, patch ports.NoticePatch) (*domain.Notice, error) {
	set := bson.M{}
	setIf(set, "title", patch.Title)
	setIf(set, "description", patch.Description)
	setIf(set, "visible_from", patch.VisibleFrom)
	setIf(set, "visible_until", patch.VisibleUntil)
	setIf(set, "pinned", patch.Pinned)
	if patch.Audience != nil {
		set["audience"] = rolesToStrings(*patch.Audience)
	}

	doc, err := updateByID[noticeDoc](ctx, r.coll, entityNotice, id, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *NoticeRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, entityNotice, id)
}
