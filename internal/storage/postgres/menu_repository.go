package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
)

type menuItemRepository struct {
	db *sql.DB
}

// NewMenuItemRepository создаёт PostgreSQL-реализацию MenuItemRepository.
func NewMenuItemRepository(store *Store) domain.MenuItemRepository {
	return &menuItemRepository{db: store.DB()}
}

func (r *menuItemRepository) Insert(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO menu_items (name, category, price, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, item.Name, item.Category, item.Price, item.Active).Scan(&item.ID)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("insert menu item: %w", err)
	}
	return item, nil
}

func (r *menuItemRepository) Update(ctx context.Context, item domain.MenuItem) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE menu_items
		SET name = $1, category = $2, price = $3, active = $4
		WHERE id = $5
	`, item.Name, item.Category, item.Price, item.Active, item.ID)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update menu item rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}

func (r *menuItemRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrMenuItemInUse
		}
		return fmt.Errorf("delete menu item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete menu item rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}

func (r *menuItemRepository) FindByID(ctx context.Context, id int64) (domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, category, price, active
		FROM menu_items
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MenuItem{}, domain.ErrMenuItemNotFound
		}
		return domain.MenuItem{}, fmt.Errorf("select menu item: %w", err)
	}
	return item, nil
}

func (r *menuItemRepository) FindAll(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, price, active
		FROM menu_items
		ORDER BY category, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.MenuItem, 0)
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.Active); err != nil {
			return nil, fmt.Errorf("scan menu item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu item rows: %w", err)
	}

	return items, nil
}

// Коды ошибок PostgreSQL: 23505 — нарушение уникальности,
// 23503 — нарушение внешнего ключа.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

var _ domain.MenuItemRepository = (*menuItemRepository)(nil)
