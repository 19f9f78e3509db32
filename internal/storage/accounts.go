package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"xpense/internal/core"
)

const accountColumns = `account_id, user_id, account_number, account_name, account_type, account_logo, currency, is_active, created_at, updated_at`

func (r *SQLiteRepository) CreateAccount(ctx context.Context, account *core.Account) error {
	account.ID = uuid.NewString()
	account.CreatedAt = time.Now().UTC()
	account.IsActive = true

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (account_id, user_id, account_number, account_name, account_type, account_logo, currency, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		account.ID, account.UserID, account.Number, account.Name,
		account.Type, account.Logo, account.Currency, account.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "accounts.") {
			return fmt.Errorf("%w: account already exists", core.ErrDuplicate)
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, userID int64, id string) (*core.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE account_id = ? AND user_id = ? AND is_active = 1`, id, userID)
	return scanAccount(row)
}

func (r *SQLiteRepository) UpdateAccount(ctx context.Context, account *core.Account) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET account_number = ?, account_name = ?, account_type = ?, account_logo = ?, currency = ?, updated_at = ?
		WHERE account_id = ? AND user_id = ? AND is_active = 1`,
		account.Number, account.Name, account.Type, account.Logo, account.Currency, now,
		account.ID, account.UserID,
	)
	if err != nil {
		if isUniqueViolation(err, "accounts.") {
			return fmt.Errorf("%w: account already exists", core.ErrDuplicate)
		}
		return fmt.Errorf("update account: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return core.ErrNotFound
	}
	account.UpdatedAt = &now
	return nil
}

func (r *SQLiteRepository) SoftDeleteAccount(ctx context.Context, userID int64, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET is_active = 0, updated_at = ?
		WHERE account_id = ? AND user_id = ? AND is_active = 1`,
		time.Now().UTC(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("soft delete account: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, userID int64, active bool, skip, limit int) ([]core.Account, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM accounts WHERE user_id = ? AND is_active = ?`,
		userID, active,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE user_id = ? AND is_active = ?
		ORDER BY account_type, account_name
		LIMIT ? OFFSET ?`, userID, active, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []core.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*core.Account, error) {
	account := &core.Account{}
	var updatedAt sql.NullTime
	err := row.Scan(
		&account.ID, &account.UserID, &account.Number, &account.Name,
		&account.Type, &account.Logo, &account.Currency, &account.IsActive,
		&account.CreatedAt, &updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	if updatedAt.Valid {
		account.UpdatedAt = &updatedAt.Time
	}
	return account, nil
}
