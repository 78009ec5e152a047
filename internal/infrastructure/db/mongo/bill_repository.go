package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

const entityBill = "bill"

// BillRepository implements ports.BillRepository using MongoDB.
type BillRepository struct {
	coll *mongo.Collection
	refs refLoader
}

func NewBillRepository(db *mongo.Database) *BillRepository {
	return &BillRepository{coll: db.Collection(collectionBills), refs: refLoader{db: db}}
}

type billDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	User        primitive.ObjectID `bson:"user"`
	Description string             `bson:"description"`
	Amount      float64            `bson:"amount"`
	DueDate     time.Time          `bson:"due_date"`
	Status      string             `bson:"status"`
	GatewayRef  string             `bson:"gateway_ref,omitempty"`
	PaidAt      *time.Time         `bson:"paid_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *billDoc) toDomain(user *domain.UserRef) *domain.Bill {
	return &domain.Bill{
		ID:          d.ID.Hex(),
		UserID:      hexOrEmpty(d.User),
		User:        user,
		Description: d.Description,
		Amount:      d.Amount,
		DueDate:     d.DueDate,
		Status:      domain.BillStatus(d.Status),
		GatewayRef:  d.GatewayRef,
		PaidAt:      d.PaidAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func newBillDoc(b *domain.Bill) (billDoc, error) {
	user, err := primitive.ObjectIDFromHex(b.UserID)
	if err != nil {
		return billDoc{}, fmt.Errorf("%w: invalid user id %q", domain.ErrValidation, b.UserID)
	}
	return billDoc{
		User:        user,
		Description: b.Description,
		Amount:      b.Amount,
		DueDate:     b.DueDate,
		Status:      string(b.Status),
		GatewayRef:  b.GatewayRef,
		PaidAt:      b.PaidAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}, nil
}

func (r *BillRepository) Create(ctx context.Context, bill *domain.Bill) (*domain.Bill, error) {
	doc, err := newBillDoc(bill)
	if err != nil {
		return nil, err
	}
	if doc.ID, err = insertOne(ctx, r.coll, doc); err != nil {
		return nil, err
	}
	return r.populateOne(ctx, &doc)
}

// InsertMany writes the batch with a single ordered insert.
func (r *BillRepository) InsertMany(ctx context.Context, bills []*domain.Bill) ([]*domain.Bill, error) {
	docs := make([]billDoc, len(bills))
	batch := make([]interface{}, len(bills))
	for i, b := range bills {
		doc, err := newBillDoc(b)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		doc.ID = primitive.NewObjectID()
		docs[i] = doc
		batch[i] = doc
	}

	insertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if _, err := r.coll.InsertMany(insertCtx, batch, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, fmt.Errorf("insert bills: %w", err)
	}
	return r.populate(ctx, docs)
}

func (r *BillRepository) FindByID(ctx context.Context, id string) (*domain.Bill, error) {
	doc, err := findByID[billDoc](ctx, r.coll, entityBill, id)
	if err != nil {
		return nil, err
	}
	return r.populateOne(ctx, doc)
}

func (r *BillRepository) List(ctx context.Context, filter ports.BillFilter) ([]*domain.Bill, error) {
	q := bson.M{}
	if !matchRef(q, "user", filter.UserID) {
		return []*domain.Bill{}, nil
	}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}

	docs, err := findMany[billDoc](ctx, r.coll, q, bson.D{{Key: "created_at", Value: -1}})
	if err != nil {
		return nil, err
	}
	return r.populate(ctx, docs)
}

// Update applies an administrative edit. When the patch carries an amount the
// filter also requires the stored amount not to exceed it, so a decrease
// matches nothing. A status change is likewise guarded by FromStatus.
func (r *BillRepository) Update(ctx context.Context, id string, patch ports.BillPatch) (*domain.Bill, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrConditionNotMet
	}

	filter := bson.M{"_id": oid}
	set := bson.M{}
	setIf(set, "description", patch.Description)
	setIf(set, "due_date", patch.DueDate)
	if patch.Amount != nil {
		set["amount"] = *patch.Amount
		filter["amount"] = bson.M{"$lte": *patch.Amount}
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if len(patch.FromStatus) > 0 {
		from := make([]string, len(patch.FromStatus))
		for i, st := range patch.FromStatus {
			from[i] = string(st)
		}
		filter["status"] = bson.M{"$in": from}
	}

	doc, err := updateWhere[billDoc](ctx, r.coll, filter, bson.M{"$set": set}, ports.ErrConditionNotMet)
	if err != nil {
		return nil, err
	}
	return r.populateOne(ctx, doc)
}

func (r *BillRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, entityBill, id)
}

// MarkPaid is the only path from pending to completed. Every precondition is
// part of the filter of a single findOneAndUpdate.
func (r *BillRepository) MarkPaid(ctx context.Context, payment ports.BillPayment) (*domain.Bill, error) {
	oid, err := primitive.ObjectIDFromHex(payment.BillID)
	if err != nil {
		return nil, ports.ErrConditionNotMet
	}

	filter := bson.M{
		"_id":    oid,
		"status": string(domain.BillPending),
		"amount": bson.M{"$lte": payment.Amount},
	}
	if payment.PayerID != "" && !matchRef(filter, "user", payment.PayerID) {
		return nil, ports.ErrConditionNotMet
	}
	update := bson.M{"$set": bson.M{
		"status":      string(domain.BillCompleted),
		"gateway_ref": payment.GatewayRef,
		"paid_at":     payment.PaidAt,
	}}

	doc, err := updateWhere[billDoc](ctx, r.coll, filter, update, ports.ErrConditionNotMet)
	if err != nil {
		return nil, err
	}
	return r.populateOne(ctx, doc)
}

func (r *BillRepository) populateOne(ctx context.Context, doc *billDoc) (*domain.Bill, error) {
	bills, err := r.populate(ctx, []billDoc{*doc})
	if err != nil {
		return nil, err
	}
	return bills[0], nil
}

func (r *BillRepository) populate(ctx context.Context, docs []billDoc) ([]*domain.Bill, error) {
	ids := make([]primitive.ObjectID, len(docs))
	for i := range docs {
		ids[i] = docs[i].User
	}
	users, err := r.refs.users(ctx, ids)
	if err != nil {
		return nil, err
	}

	bills := make([]*domain.Bill, 0, len(docs))
	for i := range docs {
		bills = append(bills, docs[i].toDomain(users[docs[i].User]))
	}
	return bills, nil
}

// PaymentRepository persists the payment ledger.
type PaymentRepository struct {
	coll *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{coll: db.Collection(collectionPayments)}
}

type paymentDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Bill       primitive.ObjectID `bson:"bill"`
	User       primitive.ObjectID `bson:"user"`
	Amount     float64            `bson:"amount"`
	GatewayRef string             `bson:"gateway_ref"`
	PaidAt     time.Time          `bson:"paid_at"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (r *PaymentRepository) Insert(ctx context.Context, p *domain.Payment) error {
	bill, err := objectID(entityBill, p.BillID)
	if err != nil {
		return err
	}
	user, err := objectID(entityUser, p.UserID)
	if err != nil {
		return err
	}
	oid, err := insertOne(ctx, r.coll, paymentDoc{
		Bill:       bill,
		User:       user,
		Amount:     p.Amount,
		GatewayRef: p.GatewayRef,
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt,
	})
	if err != nil {
		return err
	}
	p.ID = oid.Hex()
	return nil
}

func (r *PaymentRepository) List(ctx context.Context, filter ports.PaymentFilter) ([]*domain.Payment, error) {
	q := bson.M{}
	if !matchRef(q, "user", filter.UserID) || !matchRef(q, "bill", filter.BillID) {
		return []*domain.Payment{}, nil
	}

	docs, err := findMany[paymentDoc](ctx, r.coll, q, bson.D{{Key: "paid_at", Value: -1}})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Payment, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Payment{
			ID:         d.ID.Hex(),
			BillID:     d.Bill.Hex(),
			UserID:     d.User.Hex(),
			Amount:     d.Amount,
			GatewayRef: d.GatewayRef,
			PaidAt:     d.PaidAt,
			CreatedAt:  d.CreatedAt,
		})
	}
	return out, nil
}
