package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxnRunner wraps a function in a MongoDB session transaction. The session
// context flows into repository calls made inside fn, so the whole unit
// commits or aborts together.
type TxnRunner struct {
	client *mongo.Client
}

func NewTxnRunner(client *mongo.Client) *TxnRunner {
	return &TxnRunner{client: client}
}

func (r *TxnRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
