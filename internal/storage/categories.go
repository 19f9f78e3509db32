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

const categoryColumns = `category_id, user_id, name, description, icon_url, is_active, created_at, updated_at`

func (r *SQLiteRepository) CreateCategory(ctx context.Context, category *core.Category) error {
	category.ID = uuid.NewString()
	category.CreatedAt = time.Now().UTC()
	category.IsActive = true

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (category_id, user_id, name, description, icon_url, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)`,
		category.ID, category.UserID, category.Name, category.Description,
		category.IconURL, category.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "categories.") {
			return fmt.Errorf("%w: category already exists", core.ErrDuplicate)
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID int64, id string) (*core.Category, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE category_id = ? AND user_id = ? AND is_active = 1`, id, userID)
	return scanCategory(row)
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, category *core.Category) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, description = ?, icon_url = ?, updated_at = ?
		WHERE category_id = ? AND user_id = ? AND is_active = 1`,
		category.Name, category.Description, category.IconURL, now,
		category.ID, category.UserID,
	)
	if err != nil {
		if isUniqueViolation(err, "categories.") {
			return fmt.Errorf("%w: category already exists", core.ErrDuplicate)
		}
		return fmt.Errorf("update category: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return core.ErrNotFound
	}
	category.UpdatedAt = &now
	return nil
}

func (r *SQLiteRepository) SoftDeleteCategory(ctx context.Context, userID int64, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET is_active = 0, updated_at = ?
		WHERE category_id = ? AND user_id = ? AND is_active = 1`,
		time.Now().UTC(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("soft delete category: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64, active bool, skip, limit int) ([]core.Category, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM categories WHERE user_id = ? AND is_active = ?`,
		userID, active,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE user_id = ? AND is_active = ?
		ORDER BY name
		LIMIT ? OFFSET ?`, userID, active, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, total, nil
}

func scanCategory(row rowScanner) (*core.Category, error) {
	category := &core.Category{}
	var updatedAt sql.NullTime
	err := row.Scan(
		&category.ID, &category.UserID, &category.Name, &category.Description,
		&category.IconURL, &category.IsActive, &category.CreatedAt, &updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	if updatedAt.Valid {
		category.UpdatedAt = &updatedAt.Time
	}
	return category, nil
}
