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

const entityIssue = "issue"

type IssueRepository struct {
	coll *mongo.Collection
	refs refLoader
}

func NewIssueRepository(db *mongo.Database) *IssueRepository {
	return &IssueRepository{coll: db.Collection(collectionIssues), refs: refLoader{db: db}}
}

type issueDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Images      []string           `bson:"images"`
	Status      string             `bson:"status"`
	Priority    string             `bson:"priority"`
	Reporter    primitive.ObjectID `bson:"reporter"`
	Technician  primitive.ObjectID `bson:"technician,omitempty"`
	DueDate     *time.Time         `bson:"due_date,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (r *IssueRepository) Create(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	reporter, err := primitive.ObjectIDFromHex(issue.ReporterID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reporter id", domain.ErrValidation)
	}
	doc := issueDoc{
		Title:       issue.Title,
		Description: issue.Description,
		Images:      issue.Images,
		Status:      string(issue.Status),
		Priority:    string(issue.Priority),
		Reporter:    reporter,
		DueDate:     issue.DueDate,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
	if issue.TechnicianID != "" {
		if doc.Technician, err = primitive.ObjectIDFromHex(issue.TechnicianID); err != nil {
			return nil, fmt.Errorf("%w: invalid technician id", domain.ErrValidation)
		}
	}
	if doc.ID, err = insertOne(ctx, r.coll, doc); err != nil {
		return nil, err
	}
	return r.populateOne(ctx, &doc)
}

func (r *IssueRepository) FindByID(ctx context.Context, id string) (*domain.Issue, error) {
	doc, err := findByID[issueDoc](ctx, r.coll, entityIssue, id)
	if err != nil {
		return nil, err
	}
	return r.populateOne(ctx, doc)
}

func (r *IssueRepository) List(ctx context.Context, filter ports.IssueFilter) ([]*domain.Issue, error) {
	q := bson.M{}
	if !matchRef(q, "reporter", filter.ReporterID) || !matchRef(q, "technician", filter.TechnicianID) {
		return []*domain.Issue{}, nil
	}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}
	if filter.Priority != "" {
		q["priority"] = string(filter.Priority)
	}

	docs, err := findMany[issueDoc](ctx, r.coll, q, bson.D{{Key: "created_at", Value: -1}})
	if err != nil {
		return nil, err
	}
	return r.populate(ctx, docs)
}

func (r *IssueRepository) Update(ctx context.Context, id string, patch ports.IssuePatch) (*domain.Issue, error) {
	set := bson.M{}
	update := bson.M{"$set": set}
	setIf(set, "title", patch.Title)
	setIf(set, "description", patch.Description)
	setIf(set, "images", patch.Images)
	setIf(set, "due_date", patch.DueDate)
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.Priority != nil {
		set["priority"] = string(*patch.Priority)
	}
	if patch.TechnicianID != nil {
		if *patch.TechnicianID == "" {
			update["$unset"] = bson.M{"technician": ""}
		} else if !matchRef(set, "technician", *patch.TechnicianID) {
			return nil, fmt.Errorf("%w: invalid technician id", domain.ErrValidation)
		}
	}

	doc, err := updateByID[issueDoc](ctx, r.coll, entityIssue, id, update)
	if err != nil {
		return nil, err
	}
	return r.populateOne(ctx, doc)
}

func (r *IssueRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, entityIssue, id)
}

func (r *IssueRepository) populateOne(ctx context.Context, doc *issueDoc) (*domain.Issue, error) {
	out, err := r.populate(ctx, []issueDoc{*doc})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *IssueRepository) populate(ctx context.Context, docs []issueDoc) ([]*domain.Issue, error) {
	reporterIDs := make([]primitive.ObjectID, len(docs))
	techIDs := make([]primitive.ObjectID, len(docs))
	for i := range docs {
		reporterIDs[i] = docs[i].Reporter
		techIDs[i] = docs[i].Technician
	}
	reporters, err := r.refs.users(ctx, reporterIDs)
	if err != nil {
		return nil, err
	}
	techs, err := r.refs.technicians(ctx, techIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Issue, 0, len(docs))
	for _, d := range docs {
		images := d.Images
		if images == nil {
			images = []string{}
		}
		out = append(out, &domain.Issue{
			ID:           d.ID.Hex(),
			Title:        d.Title,
			Description:  d.Description,
			Images:       images,
			Status:       domain.IssueStatus(d.Status),
			Priority:     domain.IssuePriority(d.Priority),
			ReporterID:   hexOrEmpty(d.Reporter),
			Reporter:     reporters[d.Reporter],
			TechnicianID: hexOrEmpty(d.Technician),
			Technician:   techs[d.Technician],
			DueDate:      d.DueDate,
			CreatedAt:    d.CreatedAt,
			UpdatedAt:    d.UpdatedAt,
		})
	}
	return out, nil
}
