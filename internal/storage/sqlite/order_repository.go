package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
)

type orderRepository struct {
	db *sql.DB
	// Репозиторий каталога нужен при восстановлении заказа: каждая
	// строка заново разрешает свою позицию по menu_item_id.
	menu domain.MenuItemRepository
}

// NewOrderRepository создаёт SQLite-реализацию OrderRepository.
func NewOrderRepository(store *Store, menu domain.MenuItemRepository) domain.OrderRepository {
	return &orderRepository{db: store.DB(), menu: menu}
}

// Create пишет шапку и все строки заказа в одной транзакции: либо
// фиксируется всё, либо база остаётся ровно в прежнем состоянии.
// Количество и цена каждой строки записываются дословно.
func (r *orderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Сначала шапка: строки ссылаются на её id.
	var res sql.Result
	res, err = tx.ExecContext(ctx, `
		INSERT INTO orders (transaction_code, placed_at) VALUES (?, ?)
	`, order.TransactionCode, order.PlacedAt)
	if err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrDuplicateTransactionCode
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("insert order header: %w", err)
	}

	var orderID int64
	orderID, err = res.LastInsertId()
	if err != nil {
		return domain.Order{}, fmt.Errorf("order header last insert id: %w", err)
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, menu_item_id, qty, unit_price)
			VALUES (?, ?, ?, ?)
		`, orderID, line.Item.ID, line.Qty, line.UnitPrice); err != nil {
			if isForeignKeyViolation(err) {
				err = domain.ErrMenuItemReference
				return domain.Order{}, err
			}
			return domain.Order{}, fmt.Errorf("insert order line: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit create order: %w", err)
	}

	// Перечитываем заказ из базы: у вызывающей стороны должен оказаться
	// агрегат с присвоенными ID, а не её исходный объект.
	return r.FindByTransactionCode(ctx, order.TransactionCode)
}

// FindByTransactionCode загружает шапку по точному совпадению кода,
// затем строки, разрешая позицию каталога для каждой из них.
func (r *orderRepository) FindByTransactionCode(ctx context.Context, code string) (domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, transaction_code, placed_at
		FROM orders
		WHERE transaction_code = ?
	`, code).Scan(&order.ID, &order.TransactionCode, &order.PlacedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order header: %w", err)
	}

	lines, err := r.loadLines(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Lines = lines

	return order, nil
}

// FindAll возвращает только шапки заказов, новые первыми; при равных
// метках времени первым идёт больший id.
func (r *orderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, transaction_code, placed_at
		FROM orders
		ORDER BY placed_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.TransactionCode, &order.PlacedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

// DeleteByTransactionCode удаляет заказ и его строки в одной
// транзакции: сначала строки, затем шапку, иначе нарушится внешний
// ключ. Неизвестный код — ErrOrderNotFound без единой записи.
func (r *orderRepository) DeleteByTransactionCode(ctx context.Context, code string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM orders WHERE transaction_code = ?
	`, code).Scan(&orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrOrderNotFound
			return err
		}
		return fmt.Errorf("resolve order id: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = ?`, orderID); err != nil {
		return fmt.Errorf("delete order lines: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, orderID); err != nil {
		return fmt.Errorf("delete order header: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete order: %w", err)
	}
	return nil
}

func (r *orderRepository) loadLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, menu_item_id, qty, unit_price
		FROM order_lines
		WHERE order_id = ?
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	type rawLine struct {
		line   domain.OrderLine
		itemID int64
	}

	raw := make([]rawLine, 0)
	for rows.Next() {
		var rl rawLine
		if err := rows.Scan(&rl.line.ID, &rl.line.OrderID, &rl.itemID, &rl.line.Qty, &rl.line.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		raw = append(raw, rl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}

	// Позиции разрешаются по одной, как и в остальном каталоге; для
	// магазина с ручным потоком заказов N+1 чтений не проблема.
	lines := make([]domain.OrderLine, 0, len(raw))
	for _, rl := range raw {
		item, err := r.menu.FindByID(ctx, rl.itemID)
		if err != nil {
			if errors.Is(err, domain.ErrMenuItemNotFound) {
				// Строку нельзя молча отбросить: пропажа позиции из
				// каталога при живой ссылке — нарушение целостности.
				return nil, fmt.Errorf("order line %d references menu item %d: %w",
					rl.line.ID, rl.itemID, domain.ErrMenuItemVanished)
			}
			return nil, fmt.Errorf("resolve menu item %d: %w", rl.itemID, err)
		}
		rl.line.Item = item
		lines = append(lines, rl.line)
	}

	return lines, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
