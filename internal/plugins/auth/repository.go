package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dentalsupply/inventory/internal/apperror"
)

// UsersCollection is the MongoDB collection holding accounts. Its unique
// index on email is created by the migrations in internal/database.
const UsersCollection = "users"

// UserRepository defines the data access contract for accounts.
// All MongoDB access lives in the concrete implementation.
type UserRepository interface {
	// Create inserts user and fills in its ID. A second account with the
	// same email fails with apperror.Conflict.
	Create(ctx context.Context, user *User) error

	// FindByID returns apperror.NotFound if no account has this id.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail expects an already-normalized email. Returns
	// apperror.NotFound on a miss.
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// userDocument is the stored shape of an account.
type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toUser() *User {
	return &User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// userRepository implements UserRepository on a MongoDB collection.
type userRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewUserRepository creates a user repository on db's users collection.
// Every call is bounded by timeout.
func NewUserRepository(db *mongo.Database, timeout time.Duration) UserRepository {
	return &userRepository{
		coll:    db.Collection(UsersCollection),
		timeout: timeout,
	}
}

// Create inserts a new account document. Uniqueness is enforced by the
// collection's unique index; the duplicate-key error maps to Conflict.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := userDocument{
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return apperror.NewConflict("user already exists")
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("inserting user: unexpected id type %T", res.InsertedID)
	}
	user.ID = oid.Hex()
	return nil
}

// FindByID retrieves an account by its hex ObjectID. Malformed ids are
// reported as not found.
func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NewNotFound("user not found")
	}
	return r.findOne(ctx, bson.M{"_id": oid}, "by id")
}

// FindByEmail retrieves an account by its normalized email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email}, "by email")
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M, what string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user %s: %w", what, err)
	}
	return doc.toUser(), nil
}
