package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
)

// CustomerRepository implements usecase.CustomerRepository on a mongo
// collection.
type CustomerRepository struct {
	coll *mongo.Collection
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(coll *mongo.Collection) *CustomerRepository {
	return &CustomerRepository{coll: coll}
}

// Create inserts a customer document.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	_, err := r.coll.InsertOne(ctx, toCustomerDoc(customer))

	return err
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByLegacyID retrieves a customer by its source-store id.
func (r *CustomerRepository) GetByLegacyID(ctx context.Context, legacyID string) (*domain.Customer, error) {
	return r.findOne(ctx, bson.M{"legacy_id": legacyID})
}

// GetByName retrieves the oldest customer with an exact name match.
func (r *CustomerRepository) GetByName(ctx context.Context, name string) (*domain.Customer, error) {
	var doc customerDoc

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	err := r.coll.FindOne(ctx, bson.M{"name": name}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}

		return nil, err
	}

	return doc.toDomain(), nil
}

// Update replaces the customer's mutable fields and reports whether any
// field actually changed.
func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": customer.ID},
		bson.M{"$set": bson.M{
			"name":    customer.Name,
			"contact": customer.Contact,
			"address": customer.Address,
		}})
	if err != nil {
		return false, err
	}

	if res.MatchedCount == 0 {
		return false, domain.ErrCustomerNotFound
	}

	return res.ModifiedCount > 0, nil
}

// Delete deletes a customer.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

// List lists customers with pagination, oldest first.
func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var customers []*domain.Customer
	for cursor.Next(ctx) {
		var doc customerDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		customers = append(customers, doc.toDomain())
	}

	return customers, cursor.Err()
}

// Count returns the total number of customers.
func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *CustomerRepository) findOne(ctx context.Context, filter bson.M) (*domain.Customer, error) {
	var doc customerDoc

	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}

		return nil, err
	}

	return doc.toDomain(), nil
}
