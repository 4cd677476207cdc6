package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Document numbers are <PREFIX><YYMMDD><sequence D4>, the sequence restarting
// each day. The next number comes from a prefix scan over existing numbers.

func nextNumber(ctx context.Context, db *sql.DB, table, column, prefix string) (string, error) {
	datedPrefix := prefix + time.Now().UTC().Format("060102")

	var last string
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s LIKE $1
		ORDER BY %s DESC
		LIMIT 1`, column, table, column, column)
	err := db.QueryRowContext(ctx, query, datedPrefix+"%").Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return datedPrefix + "0001", nil
	}
	if err != nil {
		return "", translateErr("failed to scan last number", err)
	}

	sequence, err := strconv.Atoi(last[len(datedPrefix):])
	if err != nil {
		return datedPrefix + "0001", nil
	}
	return fmt.Sprintf("%s%04d", datedPrefix, sequence+1), nil
}

// NextReceiptNumber generates the next sequential receipt number for today
func (r *Repository) NextReceiptNumber(ctx context.Context, prefix string) (string, error) {
	return nextNumber(ctx, r.db, "jewel.receipts", "receipt_number", prefix)
}

// NextLoanNumber generates the next sequential loan number for today
func (r *Repository) NextLoanNumber(ctx context.Context, prefix string) (string, error) {
	return nextNumber(ctx, r.db, "jewel.gold_loans", "loan_number", prefix)
}
