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

	"github.com/99minutos/catalog-api/internal/core/domain"
)

const collectionProducts = "products"

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

type mongoProduct struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Quantity  float64            `bson:"quantity"`
	Price     float64            `bson:"price"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// Create inserts a new product document, stamping both timestamps.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := mongoProduct{
		ID:        primitive.NewObjectID(),
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProductExists
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByName retrieves a product by its exact name.
func (r *ProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProduct
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return mp.toDomain(), nil
}

// List returns every product in insertion order.
func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var docs []mongoProduct
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]*domain.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toDomain())
	}
	return products, nil
}

// UpdateByName sets the supplied fields and returns the updated document.
func (r *ProductRepository) UpdateByName(ctx context.Context, name string, in domain.ProductInput) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Quantity != nil {
		set["quantity"] = *in.Quantity
	}
	if in.Price != nil {
		set["price"] = *in.Price
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mp mongoProduct
	err := r.col.FindOneAndUpdate(ctx, bson.M{"name": name}, bson.M{"$set": set}, opts).Decode(&mp)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrProductNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrProductExists
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return mp.toDomain(), nil
}

// DeleteByName removes the product and returns the document as it was.
func (r *ProductRepository) DeleteByName(ctx context.Context, name string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProduct
	if err := r.col.FindOneAndDelete(ctx, bson.M{"name": name}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}
	return mp.toDomain(), nil
}

// EnsureIndexes creates the unique name index on the products collection.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (mp mongoProduct) toDomain() *domain.Product {
	return &domain.Product{
		ID:        mp.ID.Hex(),
		Name:      mp.Name,
		Quantity:  mp.Quantity,
		Price:     mp.Price,
		CreatedAt: mp.CreatedAt,
		UpdatedAt: mp.UpdatedAt,
	}
}
