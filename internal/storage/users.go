package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"xpense/internal/core"
)

func (r *SQLiteRepository) CreateUser(ctx context.Context, user *core.User) error {
	query := `
		INSERT INTO users (username, email, hashed_password, is_active, token_version, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
		RETURNING id, token_version`

	user.CreatedAt = time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.IsActive,
		user.CreatedAt,
	).Scan(&user.ID, &user.TokenVersion)

	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return fmt.Errorf("%w: email already in use", core.ErrDuplicate)
		}
		if isUniqueViolation(err, "users.username") {
			return fmt.Errorf("%w: username already exists", core.ErrDuplicate)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, username, email, hashed_password, is_active, token_version, created_at
		FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, username, email, hashed_password, is_active, token_version, created_at
		FROM users WHERE username = ?`, username))
}

// BumpTokenVersion unconditionally increments the user's token_version,
// revoking every refresh token issued before the call.
func (r *SQLiteRepository) BumpTokenVersion(ctx context.Context, id int64) (int64, error) {
	var version int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE users SET token_version = token_version + 1
		WHERE id = ?
		RETURNING token_version`, id).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("bump token version: %w", err)
	}
	return version, nil
}

// RotateTokenVersion increments token_version only when the stored value
// still equals current. The conditional update serializes concurrent
// refresh calls: the loser matches zero rows and gets core.ErrNotFound.
func (r *SQLiteRepository) RotateTokenVersion(ctx context.Context, id, current int64) (int64, error) {
	var version int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE users SET token_version = token_version + 1
		WHERE id = ? AND token_version = ?
		RETURNING token_version`, id, current).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("rotate token version: %w", err)
	}
	return version, nil
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (*core.User, error) {
	user := &core.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.HashedPassword,
		&user.IsActive, &user.TokenVersion, &user.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

// ListUserIDs returns the ids of all active users.
func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ids: %w", err)
	}
	return ids, nil
}
