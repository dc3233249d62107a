package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository. The table is
// append-only; there is no update or delete path.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create appends an audit log record.
func (r *AuditRepository) Create(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	_, err := queryer(r.pool, tx).Exec(ctx,
		`INSERT INTO audit_logs (id, username, action, resource_type, resource_id, before_state, after_state, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		log.ID,
		log.Username,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		nullableJSON(log.BeforeState),
		nullableJSON(log.AfterState),
		timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

// List returns audit logs matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query := `SELECT id, username, action, resource_type, resource_id, before_state, after_state, created_at
		 FROM audit_logs WHERE 1=1`

	var args []any

	arg := func(v any) string {
		args = append(args, v)

		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Username != "" {
		query += ` AND username = ` + arg(filter.Username)
	}

	if filter.Action != "" {
		query += ` AND action = ` + arg(filter.Action)
	}

	if filter.ResourceType != "" {
		query += ` AND resource_type = ` + arg(filter.ResourceType)
	}

	if filter.ResourceID != "" {
		query += ` AND resource_id = ` + arg(filter.ResourceID)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}

	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var (
			log    domain.AuditLog
			before *domain.JSON
			after  *domain.JSON
		)

		if err := rows.Scan(&log.ID, &log.Username, &log.Action, &log.ResourceType, &log.ResourceID, &before, &after, &log.CreatedAt); err != nil {
			return nil, err
		}

		if before != nil {
			log.BeforeState = *before
		}

		if after != nil {
			log.AfterState = *after
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// nullableJSON maps an empty state to NULL so the jsonb column never holds
// an empty string.
func nullableJSON(s domain.JSON) *domain.JSON {
	if len(s) == 0 {
		return nil
	}

	return &s
}
