package xtxn

import (
	"context"
	"time"

	"prakthub/db"

	"go.mongodb.org/mongo-driver/mongo"
)

// commitBudget bounds how long a contended transaction may keep retrying
// before it is surfaced as an infrastructure failure.
const commitBudget = 10 * time.Second

// WithTxn runs fn inside a MongoDB session transaction. The driver retries
// fn from the top on transient and write-conflict errors, so fn must be a
// pure function of the state it reads: no external calls, nothing
// non-idempotent. An error returned by fn that carries no transient label
// (a business-rule rejection) aborts the transaction once, with no write
// and no retry.
func WithTxn(ctx context.Context, fn func(sessCtx mongo.SessionContext) error) error {
	ctx, cancel := context.WithTimeout(ctx, commitBudget)
	defer cancel()

	session, err := db.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
