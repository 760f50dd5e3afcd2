// Package txn runs a function inside a MongoDB multi-document transaction.
//
// Standalone mongod instances (common in development) do not support
// transactions. When the server rejects the session or transaction, Run
// falls back to executing the function without one and logs a warning, so
// the app still works against a single node. Production deployments should
// run against a replica set to get real atomicity.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn within a transaction when the server supports it.
// The context passed to fn carries the session; pass it to every store
// call so reads and writes share the transaction's isolation scope.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Warn("mongo sessions unavailable, running without transaction", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Warn("mongo transactions unavailable, running without transaction", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// Error codes the server returns when transactions are unavailable:
// 20 IllegalOperation (standalone), 51 and 263 transaction-state errors.
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err indicates the server cannot run
// sessions or multi-document transactions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return notSupportedCodes[cmdErr.Code]
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "transaction") && !strings.Contains(msg, "session") {
		return false
	}
	if strings.Contains(msg, "replica set") ||
		strings.Contains(msg, "not supported") ||
		strings.Contains(msg, "illegal operation") {
		return true
	}
	// Messages naming both transactions and sessions come from driver
	// session-state errors.
	return strings.Contains(msg, "transaction") && strings.Contains(msg, "session")
}
