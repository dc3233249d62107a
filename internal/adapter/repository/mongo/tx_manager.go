package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// TxManager implements usecase.TransactionManager on a mongo session.
// Multi-document transactions need a replica set; on a standalone server
// Begin fails and callers fall back to per-document writes.
type TxManager struct {
	client *mongo.Client
}

// NewTxManager creates a new TxManager.
func NewTxManager(client *mongo.Client) *TxManager {
	return &TxManager{client: client}
}

// Begin starts a session-backed transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	session, err := m.client.StartSession()
	if err != nil {
		return nil, err
	}

	if err := session.StartTransaction(); err != nil {
		session.EndSession(ctx)

		return nil, err
	}

	return &Tx{session: session}, nil
}

// Tx wraps a mongo session with an open transaction.
type Tx struct {
	session mongo.Session
}

// Commit commits the transaction and ends the session.
func (t *Tx) Commit(ctx context.Context) error {
	defer t.session.EndSession(ctx)

	return t.session.CommitTransaction(ctx)
}

// Rollback aborts the transaction and ends the session. Aborting after a
// commit is a no-op error which callers deferring Rollback may ignore.
func (t *Tx) Rollback(ctx context.Context) error {
	defer t.session.EndSession(ctx)

	return t.session.AbortTransaction(ctx)
}

// sessionContext binds ctx to the transaction's session when one is open.
func sessionContext(ctx context.Context, tx usecase.Transaction) context.Context {
	if tx == nil {
		return ctx
	}

	return mongo.NewSessionContext(ctx, tx.(*Tx).session)
}
