package supplies

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dentalsupply/inventory/internal/apperror"
)

// SuppliesCollection is the MongoDB collection holding supply records.
const SuppliesCollection = "supplies"

// Errors shared by every SupplyRepository implementation.
var (
	ErrInvalidID = apperror.NewBadRequest("invalid id")
	ErrNotFound  = apperror.NewNotFound("supply not found")
)

// SupplyRepository defines the data access contract for supplies.
type SupplyRepository interface {
	// List returns matching supplies, most recently updated first.
	List(ctx context.Context, filter ListFilter) ([]Supply, error)

	// FindByID returns ErrInvalidID for malformed ids and ErrNotFound on a miss.
	FindByID(ctx context.Context, id string) (*Supply, error)

	// Create inserts s and fills in its ID.
	Create(ctx context.Context, s *Supply) error

	// Update applies patch, stamps updatedAt and returns the stored result.
	Update(ctx context.Context, id string, patch Patch, updatedAt time.Time) (*Supply, error)

	// Delete removes the record.
	Delete(ctx context.Context, id string) error
}

// supplyDocument is the stored shape of a supply.
type supplyDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Category  string             `bson:"category,omitempty"`
	Quantity  int                `bson:"quantity"`
	Unit      string             `bson:"unit,omitempty"`
	Threshold int                `bson:"threshold"`
	Supplier  string             `bson:"supplier,omitempty"`
	Price     *float64           `bson:"price,omitempty"`
	Notes     string             `bson:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *supplyDocument) toSupply() Supply {
	return Supply{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Category:  d.Category,
		Quantity:  d.Quantity,
		Unit:      d.Unit,
		Threshold: d.Threshold,
		Supplier:  d.Supplier,
		Price:     d.Price,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// supplyRepository implements SupplyRepository on a MongoDB collection.
type supplyRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewSupplyRepository creates a supply repository on db's supplies
// collection. Every call is bounded by timeout.
func NewSupplyRepository(db *mongo.Database, timeout time.Duration) SupplyRepository {
	return &supplyRepository{
		coll:    db.Collection(SuppliesCollection),
		timeout: timeout,
	}
}

// List runs the filter query sorted by updatedAt descending.
func (r *supplyRepository) List(ctx context.Context, filter ListFilter) ([]Supply, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cur, err := r.coll.Find(ctx, listQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("querying supplies: %w", err)
	}

	var docs []supplyDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding supplies: %w", err)
	}

	result := make([]Supply, 0, len(docs))
	for i := range docs {
		result = append(result, docs[i].toSupply())
	}
	return result, nil
}

// listQuery builds the Mongo filter document for f.
func listQuery(f ListFilter) bson.M {
	q := bson.M{}
	if f.Name != "" {
		q["name"] = containsInsensitive(f.Name)
	}
	if f.Supplier != "" {
		q["supplier"] = containsInsensitive(f.Supplier)
	}
	if f.LowStockOnly {
		q["$expr"] = bson.M{"$and": bson.A{
			bson.M{"$gt": bson.A{"$threshold", 0}},
			bson.M{"$lte": bson.A{"$quantity", "$threshold"}},
		}}
	}
	return q
}

// containsInsensitive matches s literally anywhere in the field.
func containsInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// FindByID retrieves a supply by its hex ObjectID.
func (r *supplyRepository) FindByID(ctx context.Context, id string) (*Supply, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc supplyDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying supply: %w", err)
	}

	s := doc.toSupply()
	return &s, nil
}

// Create inserts a new supply document.
func (r *supplyRepository) Create(ctx context.Context, s *Supply) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := supplyDocument{
		Name:      s.Name,
		Category:  s.Category,
		Quantity:  s.Quantity,
		Unit:      s.Unit,
		Threshold: s.Threshold,
		Supplier:  s.Supplier,
		Price:     s.Price,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("inserting supply: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("inserting supply: unexpected id type %T", res.InsertedID)
	}
	s.ID = oid.Hex()
	return nil
}

// Update sets the patched fields and returns the document after the update.
func (r *supplyRepository) Update(ctx context.Context, id string, patch Patch, updatedAt time.Time) (*Supply, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": setFields(patch, updatedAt)}

	var doc supplyDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating supply: %w", err)
	}

	s := doc.toSupply()
	return &s, nil
}

// setFields turns the non-nil patch fields into a $set document.
func setFields(p Patch, updatedAt time.Time) bson.M {
	set := bson.M{"updatedAt": updatedAt}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Quantity != nil {
		set["quantity"] = *p.Quantity
	}
	if p.Unit != nil {
		set["unit"] = *p.Unit
	}
	if p.Threshold != nil {
		set["threshold"] = *p.Threshold
	}
	if p.Supplier != nil {
		set["supplier"] = *p.Supplier
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	return set
}

// Delete removes a supply document.
func (r *supplyRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting supply: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
