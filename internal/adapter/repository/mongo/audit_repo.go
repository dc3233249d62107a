package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository on a mongo collection.
// The collection is append-only.
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(coll *mongo.Collection) *AuditRepository {
	return &AuditRepository{coll: coll}
}

// Create appends an audit log record.
func (r *AuditRepository) Create(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	_, err := r.coll.InsertOne(sessionContext(ctx, tx), toAuditLogDoc(log))

	return err
}

// List returns audit logs matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query := bson.M{}

	if filter.Username != "" {
		query["username"] = filter.Username
	}

	if filter.Action != "" {
		query["action"] = filter.Action
	}

	if filter.ResourceType != "" {
		query["resource_type"] = filter.ResourceType
	}

	if filter.ResourceID != "" {
		query["resource_id"] = filter.ResourceID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

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

	return decodeAuditLogs(ctx, cursor)
}

func decodeAuditLogs(ctx context.Context, cursor *mongo.Cursor) ([]*domain.AuditLog, error) {
	var logs []*domain.AuditLog
	for cursor.Next(ctx) {
		var doc auditLogDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		logs = append(logs, doc.toDomain())
	}

	return logs, cursor.Err()
}
