package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rifas-el-negro/raffle-backend/internal/repositories"
)

// TxRunner implements repositories.TxRunner on a MongoDB session. The
// driver propagates the session through the context it hands to the
// callback, so repository methods called with that context join the
// transaction without knowing about it.
type TxRunner struct {
	client *mongo.Client
}

// NewTxRunner creates a new TxRunner
func NewTxRunner(client *mongo.Client) repositories.TxRunner {
	return &TxRunner{client: client}
}

// WithTransaction runs fn inside a multi-document transaction. fn
// returning an error aborts the transaction; business errors pass
// through unchanged so callers can dispatch on them.
func (t *TxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
