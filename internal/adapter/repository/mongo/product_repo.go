package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// ProductRepository implements usecase.ProductRepository on a mongo
// collection.
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(coll *mongo.Collection) *ProductRepository {
	return &ProductRepository{coll: coll}
}

// Create inserts a product document.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	_, err := r.coll.InsertOne(ctx, toProductDoc(product))

	return err
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByLegacyID retrieves a product by its source-store id.
func (r *ProductRepository) GetByLegacyID(ctx context.Context, legacyID string) (*domain.Product, error) {
	return r.findOne(ctx, bson.M{"legacy_id": legacyID})
}

// GetByName retrieves the oldest product lot with an exact name match.
func (r *ProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	var doc productDoc

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	err := r.coll.FindOne(ctx, bson.M{"name": name}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}

		return nil, err
	}

	return doc.toDomain(), nil
}

// Update replaces the product's mutable fields and reports whether any
// field actually changed.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": product.ID},
		bson.M{"$set": bson.M{
			"name":         product.Name,
			"description":  product.Description,
			"unit_price":   decimalTo128(product.UnitPrice),
			"retail_price": decimalTo128(product.RetailPrice),
			"batch_number": product.BatchNumber,
			"expiry":       product.Expiry,
		}})
	if err != nil {
		return false, err
	}

	if res.MatchedCount == 0 {
		return false, domain.ErrProductNotFound
	}

	return res.ModifiedCount > 0, nil
}

// Delete deletes a product lot.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// List lists product lots with pagination, oldest first.
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	for cursor.Next(ctx) {
		var doc productDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		products = append(products, doc.toDomain())
	}

	return products, cursor.Err()
}

// Count returns the total number of product lots.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *ProductRepository) findOne(ctx context.Context, filter bson.M) (*domain.Product, error) {
	var doc productDoc

	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}

		return nil, err
	}

	return doc.toDomain(), nil
}
