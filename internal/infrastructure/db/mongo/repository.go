package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/account-service/internal/core/domain"
)

const (
	collectionUsers      = "users"
	collectionAdmins     = "admins"
	collectionDevelopers = "developers"
	collectionCustomers  = "customers"
	collectionCarts      = "shopping_carts"
)

// Repository stores one entity kind in a collection keyed by the entity id.
type Repository[T domain.Entity] struct {
	col    *mongo.Collection
	encode func(T, int64) (any, error)
	decode func(bson.Raw) (T, error)
}

func newRepository[T domain.Entity](col *mongo.Collection, encode func(T, int64) (any, error), decode func(bson.Raw) (T, error)) *Repository[T] {
	return &Repository[T]{col: col, encode: encode, decode: decode}
}

// NewUserRepository stores accounts of any kind, discriminated by role.
func NewUserRepository(db *mongo.Database) *Repository[domain.Account] {
	return newRepository(db.Collection(collectionUsers), encodeAccount, decodeAccount)
}

func NewAdminRepository(db *mongo.Database) *Repository[*domain.Admin] {
	return newRepository(db.Collection(collectionAdmins), encodeAdmin, decodeAdmin)
}

func NewDeveloperRepository(db *mongo.Database) *Repository[*domain.Developer] {
	return newRepository(db.Collection(collectionDevelopers), encodeDeveloper, decodeDeveloper)
}

func NewCustomerRepository(db *mongo.Database) *Repository[*domain.Customer] {
	return newRepository(db.Collection(collectionCustomers), encodeCustomer, decodeCustomer)
}

func NewShoppingCartRepository(db *mongo.Database) *Repository[*domain.ShoppingCart] {
	return newRepository(db.Collection(collectionCarts), encodeCart, decodeCart)
}

// Create inserts a new document. A taken id yields domain.ErrDuplicateID.
func (r *Repository[T]) Create(ctx context.Context, entity T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := r.encode(entity, time.Now().UTC().UnixNano())
	if err != nil {
		return err
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert %s %d: %w", r.col.Name(), entity.EntityID(), domain.ErrDuplicateID)
		}
		return fmt.Errorf("insert %s: %w", r.col.Name(), err)
	}
	return nil
}

// GetAll returns every document in insertion order.
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.col.Name(), err)
	}
	defer cur.Close(ctx)

	var out []T
	for cur.Next(ctx) {
		v, err := r.decode(cur.Current)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", r.col.Name(), err)
	}
	return out, nil
}

// Delete removes the document with the given id. A missing id is not an error.
func (r *Repository[T]) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete %s %d: %w", r.col.Name(), id, err)
	}
	return nil
}

func (r *Repository[T]) FindByID(ctx context.Context, id int) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var zero T
	raw, err := r.col.FindOne(ctx, bson.M{"_id": id}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, domain.ErrNotFound
		}
		return zero, fmt.Errorf("find %s %d: %w", r.col.Name(), id, err)
	}
	return r.decode(raw)
}

// EnsureIndexes creates the lookup indexes used by the account collections.
// Email is indexed but not unique: uniqueness is decided by the account service.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, name := range []string{collectionUsers, collectionAdmins, collectionDevelopers, collectionCustomers} {
		indexes := []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		}
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}

	_, err := db.Collection(collectionCarts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "customer_id", Value: 1}},
	})
	return err
}
