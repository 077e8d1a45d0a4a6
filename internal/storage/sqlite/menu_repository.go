package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
)

type menuItemRepository struct {
	db *sql.DB
}

// NewMenuItemRepository создаёт SQLite-реализацию MenuItemRepository.
func NewMenuItemRepository(store *Store) domain.MenuItemRepository {
	return &menuItemRepository{db: store.DB()}
}

func (r *menuItemRepository) Insert(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO menu_items (name, category, price, active)
		VALUES (?, ?, ?, ?)
	`, item.Name, item.Category, item.Price, item.Active)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("insert menu item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("menu item last insert id: %w", err)
	}
	item.ID = id
	return item, nil
}

func (r *menuItemRepository) Update(ctx context.Context, item domain.MenuItem) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE menu_items
		SET name = ?, category = ?, price = ?, active = ?
		WHERE id = ?
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		// Внешний ключ из order_lines защищает позиции, на которые
		// ссылаются сохранённые заказы.
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
		WHERE id = ?
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

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

var _ domain.MenuItemRepository = (*menuItemRepository)(nil)
