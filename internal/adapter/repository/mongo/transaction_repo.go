package mongo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository on a mongo
// collection. Entry positions are denormalized onto each document so range
// re-stamping is a single UpdateMany.
type TransactionRepository struct {
	coll *mongo.Collection
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(coll *mongo.Collection) *TransactionRepository {
	return &TransactionRepository{coll: coll}
}

// Create inserts a balance record.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	_, err := r.coll.InsertOne(sessionContext(ctx, tx), toTransactionDoc(txn))

	return err
}

// GetByEntryID retrieves the balance record for an entry.
func (r *TransactionRepository) GetByEntryID(ctx context.Context, entryID string) (*domain.Transaction, error) {
	return r.findOne(ctx, bson.M{"entry_id": entryID}, nil)
}

// GetByLegacyID retrieves a balance record by its source-store id.
func (r *TransactionRepository) GetByLegacyID(ctx context.Context, legacyID string) (*domain.Transaction, error) {
	return r.findOne(ctx, bson.M{"legacy_id": legacyID}, nil)
}

// DeleteByEntryID deletes the balance record for an entry.
func (r *TransactionRepository) DeleteByEntryID(ctx context.Context, tx usecase.Transaction, entryID string) error {
	res, err := r.coll.DeleteOne(sessionContext(ctx, tx), bson.M{"entry_id": entryID})
	if err != nil {
		return err
	}

	if res.DeletedCount == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// DeleteAll removes every balance record ahead of a full rebuild.
func (r *TransactionRepository) DeleteAll(ctx context.Context, tx usecase.Transaction) error {
	_, err := r.coll.DeleteMany(sessionContext(ctx, tx), bson.M{})

	return err
}

// LastBefore returns the latest transaction strictly before pos in ledger
// order.
func (r *TransactionRepository) LastBefore(ctx context.Context, tx usecase.Transaction, pos domain.Position) (*domain.Transaction, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "entry_date", Value: -1}, {Key: "entry_seq", Value: -1}})

	return r.findOne(sessionContext(ctx, tx), positionBefore(pos), opts)
}

// Last returns the transaction at the tail of the ledger.
func (r *TransactionRepository) Last(ctx context.Context) (*domain.Transaction, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "entry_date", Value: -1}, {Key: "entry_seq", Value: -1}})

	return r.findOne(ctx, bson.M{}, opts)
}

// ShiftBalancesAfter adds delta to every balance strictly after pos and
// reports how many records were re-stamped.
func (r *TransactionRepository) ShiftBalancesAfter(ctx context.Context, tx usecase.Transaction, pos domain.Position, delta decimal.Decimal) (int64, error) {
	res, err := r.coll.UpdateMany(sessionContext(ctx, tx),
		positionAfter(pos),
		bson.M{"$inc": bson.M{"balance": decimalTo128(delta)}})
	if err != nil {
		return 0, err
	}

	return res.ModifiedCount, nil
}

// ListInLedgerOrder returns every balance record ordered by (date, seq).
func (r *TransactionRepository) ListInLedgerOrder(ctx context.Context) ([]*domain.Transaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "entry_date", Value: 1}, {Key: "entry_seq", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txns []*domain.Transaction
	for cursor.Next(ctx) {
		var doc transactionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		txns = append(txns, doc.toDomain())
	}

	return txns, cursor.Err()
}

// Count returns the total number of balance records.
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *TransactionRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*domain.Transaction, error) {
	var doc transactionDoc

	var err error
	if opts != nil {
		err = r.coll.FindOne(ctx, filter, opts).Decode(&doc)
	} else {
		err = r.coll.FindOne(ctx, filter).Decode(&doc)
	}

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return doc.toDomain(), nil
}

// positionBefore matches documents strictly before pos in ledger order.
func positionBefore(pos domain.Position) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"entry_date": bson.M{"$lt": pos.Date}},
		bson.M{"entry_date": pos.Date, "entry_seq": bson.M{"$lt": pos.Seq}},
	}}
}

// positionAfter matches documents strictly after pos in ledger order.
func positionAfter(pos domain.Position) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"entry_date": bson.M{"$gt": pos.Date}},
		bson.M{"entry_date": pos.Date, "entry_seq": bson.M{"$gt": pos.Seq}},
	}}
}
