package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/service"
)

// Repository provides database operations over the jewel schema
type Repository struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx, so single-row reads can
// run inside or outside a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// translateErr maps driver-level failures onto the service error taxonomy.
// Serialization and deadlock failures become ErrConflict so the caller can
// retry with a fresh read.
func translateErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, service.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%s: %w", op, service.ErrConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
