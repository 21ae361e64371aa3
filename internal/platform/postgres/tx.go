package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/sparkgeo/serverless-datacube-demo/internal/platform/logger"
)

// txFn is a function executed within a database transaction. The
// transaction commits if the function returns nil and rolls back otherwise.
type txFn func(ctx context.Context, tx *sql.Tx) error

// runInTransaction executes fn inside a transaction, rolling back on error
// or panic and committing on success.
func runInTransaction(ctx context.Context, db *sql.DB, fn txFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if txErr := tx.Rollback(); txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			}
			// ALLOW-PANIC: propagating caught panic from transaction
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
