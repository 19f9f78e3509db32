package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"xpense/internal/core"
)

const transactionColumns = `transaction_id, user_id, account_id, category_id, amount, currency, note, transaction_date, is_active, created_at, updated_at`

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx *core.Transaction) error {
	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()
	tx.IsActive = true
	// Timestamps are stored as text; mixed offsets would compare
	// lexicographically instead of chronologically.
	tx.Date = tx.Date.UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (transaction_id, user_id, account_id, category_id, amount, currency, note, transaction_date, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		tx.ID, tx.UserID, tx.AccountID, tx.CategoryID, tx.Amount, tx.Currency,
		tx.Note, tx.Date, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID int64, id string) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE transaction_id = ? AND user_id = ? AND is_active = 1`, id, userID)
	return scanTransaction(row)
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx *core.Transaction) error {
	now := time.Now().UTC()
	tx.Date = tx.Date.UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount = ?, currency = ?, note = ?, transaction_date = ?, updated_at = ?
		WHERE transaction_id = ? AND user_id = ? AND is_active = 1`,
		tx.Amount, tx.Currency, tx.Note, tx.Date, now,
		tx.ID, tx.UserID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return core.ErrNotFound
	}
	tx.UpdatedAt = &now
	return nil
}

func (r *SQLiteRepository) SoftDeleteTransaction(ctx context.Context, userID int64, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET is_active = 0, updated_at = ?
		WHERE transaction_id = ? AND user_id = ? AND is_active = 1`,
		time.Now().UTC(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, filter core.TransactionFilter, skip, limit int) ([]core.Transaction, int64, error) {
	where, args := transactionFilterClause(userID, filter)

	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions ` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, skip)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []core.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transactions: %w", err)
	}
	return transactions, total, nil
}

// ListDeletedTransactionIDs returns the ids of a user's soft-deleted
// transactions, oldest first.
func (r *SQLiteRepository) ListDeletedTransactionIDs(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT transaction_id FROM transactions
		WHERE user_id = ? AND is_active = 0 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list deleted transactions: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deleted transaction id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted transactions: %w", err)
	}
	return ids, nil
}

// TotalsByCurrency sums active transaction amounts per currency, optionally
// constrained to a date range.
func (r *SQLiteRepository) TotalsByCurrency(ctx context.Context, userID int64, filter core.TransactionFilter) (map[string]float64, error) {
	where, args := transactionFilterClause(userID, filter)

	rows, err := r.db.QueryContext(ctx, `
		SELECT currency, SUM(amount) FROM transactions `+where+` GROUP BY currency`, args...)
	if err != nil {
		return nil, fmt.Errorf("totals by currency: %w", err)
	}
	defer rows.Close()

	totals := map[string]float64{}
	for rows.Next() {
		var currency string
		var sum float64
		if err := rows.Scan(&currency, &sum); err != nil {
			return nil, fmt.Errorf("scan totals: %w", err)
		}
		totals[currency] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate totals: %w", err)
	}
	return totals, nil
}

func transactionFilterClause(userID int64, filter core.TransactionFilter) (string, []any) {
	clauses := []string{"user_id = ?", "is_active = 1"}
	args := []any{userID}

	if filter.AccountID != "" {
		clauses = append(clauses, "account_id = ?")
		args = append(args, filter.AccountID)
	}
	if filter.CategoryID != "" {
		clauses = append(clauses, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.Currency != "" {
		clauses = append(clauses, "currency = ?")
		args = append(args, filter.Currency)
	}
	// Dates are stored in UTC, so range bounds must be bound in UTC too or
	// the text comparison silently shifts the window by the offset.
	if !filter.From.IsZero() {
		clauses = append(clauses, "transaction_date >= ?")
		args = append(args, filter.From.UTC())
	}
	if !filter.To.IsZero() {
		clauses = append(clauses, "transaction_date <= ?")
		args = append(args, filter.To.UTC())
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func scanTransaction(row rowScanner) (*core.Transaction, error) {
	tx := &core.Transaction{}
	var updatedAt sql.NullTime
	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.AccountID, &tx.CategoryID, &tx.Amount,
		&tx.Currency, &tx.Note, &tx.Date, &tx.IsActive, &tx.CreatedAt, &updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	if updatedAt.Valid {
		tx.UpdatedAt = &updatedAt.Time
	}
	return tx, nil
}
