package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository on a mongo collection.
// Insertion sequences come from an atomic counter document, mirroring what
// a BIGSERIAL column does in a relational backend.
type EntryRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(coll, counters *mongo.Collection) *EntryRepository {
	return &EntryRepository{coll: coll, counters: counters}
}

// nextSeq atomically increments and returns the entry sequence counter.
func (r *EntryRepository) nextSeq(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collEntries},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts).Decode(&counter)
	if err != nil {
		return 0, err
	}

	return counter.Seq, nil
}

// Create inserts an entry and writes the assigned sequence back.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	ctx = sessionContext(ctx, tx)

	seq, err := r.nextSeq(ctx)
	if err != nil {
		return err
	}

	entry.Seq = seq

	_, err = r.coll.InsertOne(ctx, toEntryDoc(entry))

	return err
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByLegacyID retrieves an entry by its source-store id.
func (r *EntryRepository) GetByLegacyID(ctx context.Context, legacyID string) (*domain.Entry, error) {
	return r.findOne(ctx, bson.M{"legacy_id": legacyID})
}

// Update replaces the entry's mutable fields. The sequence never changes.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	res, err := r.coll.UpdateOne(sessionContext(ctx, tx),
		bson.M{"_id": entry.ID},
		bson.M{"$set": bson.M{
			"entry_date": entry.Date,
			"quantity":   entry.Quantity,
			"unit_price": decimalTo128(entry.UnitPrice),
			"is_credit":  entry.IsCredit,
			"notes":      entry.Notes,
		}})
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Delete deletes an entry.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	res, err := r.coll.DeleteOne(sessionContext(ctx, tx), bson.M{"_id": id})
	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// List returns entries matching the filter, in ledger order.
func (r *EntryRepository) List(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error) {
	query := bson.M{}

	if filter.DateFrom != nil || filter.DateTo != nil {
		dateRange := bson.M{}
		if filter.DateFrom != nil {
			dateRange["$gte"] = *filter.DateFrom
		}

		if filter.DateTo != nil {
			dateRange["$lte"] = *filter.DateTo
		}

		query["entry_date"] = dateRange
	}

	if filter.CustomerID != "" {
		query["customer_id"] = filter.CustomerID
	}

	switch filter.Type {
	case domain.EntryTypeCredit:
		query["is_credit"] = true
	case domain.EntryTypeDebit:
		query["is_credit"] = false
	}

	if filter.Search != "" {
		query["notes"] = searchClause(filter.Search)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "entry_date", Value: 1}, {Key: "seq", Value: 1}})

	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeEntries(ctx, cursor)
}

// searchClause builds a case-insensitive literal substring match. The term
// is quoted so user input is never interpreted as a pattern.
func searchClause(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

// ListInLedgerOrder returns every entry ordered by (date, seq).
func (r *EntryRepository) ListInLedgerOrder(ctx context.Context, tx usecase.Transaction) ([]*domain.Entry, error) {
	ctx = sessionContext(ctx, tx)

	opts := options.Find().
		SetSort(bson.D{{Key: "entry_date", Value: 1}, {Key: "seq", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeEntries(ctx, cursor)
}

// CountByCustomer counts entries referencing a customer.
func (r *EntryRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"customer_id": customerID})
}

// CountByProduct counts entries referencing a product lot.
func (r *EntryRepository) CountByProduct(ctx context.Context, productID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"product_id": productID})
}

// Count returns the total number of entries.
func (r *EntryRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *EntryRepository) findOne(ctx context.Context, filter bson.M) (*domain.Entry, error) {
	var doc entryDoc

	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return doc.toDomain(), nil
}

func decodeEntries(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	for cursor.Next(ctx) {
		var doc entryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		entries = append(entries, doc.toDomain())
	}

	return entries, cursor.Err()
}
