package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
)

type orderRepository struct {
	db *Database
}

// Create записывает шапку и строки под одним захватом мьютекса: все
// проверки выполняются до первой записи, поэтому частичное состояние
// невозможно в принципе.
func (r *orderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	r.db.mu.Lock()

	for _, row := range r.db.orders {
		if row.transactionCode == order.TransactionCode {
			r.db.mu.Unlock()
			return domain.Order{}, domain.ErrDuplicateTransactionCode
		}
	}
	for i := range order.Lines {
		if _, ok := r.db.menuItems[order.Lines[i].Item.ID]; !ok {
			r.db.mu.Unlock()
			return domain.Order{}, domain.ErrMenuItemReference
		}
	}

	r.db.nextOrderID++
	orderID := r.db.nextOrderID
	r.db.orders[orderID] = orderRow{
		id:              orderID,
		transactionCode: order.TransactionCode,
		placedAt:        order.PlacedAt,
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		r.db.nextLineID++
		r.db.lines[r.db.nextLineID] = lineRow{
			id:         r.db.nextLineID,
			orderID:    orderID,
			menuItemID: line.Item.ID,
			qty:        line.Qty,
			unitPrice:  line.UnitPrice,
		}
	}

	r.db.mu.Unlock()

	return r.FindByTransactionCode(ctx, order.TransactionCode)
}

func (r *orderRepository) FindByTransactionCode(_ context.Context, code string) (domain.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var header *orderRow
	for _, row := range r.db.orders {
		if row.transactionCode == code {
			h := row
			header = &h
			break
		}
	}
	if header == nil {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	rows := make([]lineRow, 0)
	for _, line := range r.db.lines {
		if line.orderID == header.id {
			rows = append(rows, line)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })

	lines := make([]domain.OrderLine, 0, len(rows))
	for _, row := range rows {
		item, ok := r.db.menuItems[row.menuItemID]
		if !ok {
			return domain.Order{}, fmt.Errorf("order line %d references menu item %d: %w",
				row.id, row.menuItemID, domain.ErrMenuItemVanished)
		}
		lines = append(lines, domain.OrderLine{
			ID:        row.id,
			OrderID:   row.orderID,
			Item:      item,
			Qty:       row.qty,
			UnitPrice: row.unitPrice,
		})
	}

	return domain.Order{
		ID:              header.id,
		TransactionCode: header.transactionCode,
		PlacedAt:        header.placedAt,
		Lines:           lines,
	}, nil
}

func (r *orderRepository) FindAll(_ context.Context) ([]domain.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	orders := make([]domain.Order, 0, len(r.db.orders))
	for _, row := range r.db.orders {
		orders = append(orders, domain.Order{
			ID:              row.id,
			TransactionCode: row.transactionCode,
			PlacedAt:        row.placedAt,
		})
	}

	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].PlacedAt.Equal(orders[j].PlacedAt) {
			return orders[i].PlacedAt.After(orders[j].PlacedAt)
		}
		return orders[i].ID > orders[j].ID
	})

	return orders, nil
}

func (r *orderRepository) DeleteByTransactionCode(_ context.Context, code string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var orderID int64
	found := false
	for id, row := range r.db.orders {
		if row.transactionCode == code {
			orderID = id
			found = true
			break
		}
	}
	if !found {
		return domain.ErrOrderNotFound
	}

	for id, line := range r.db.lines {
		if line.orderID == orderID {
			delete(r.db.lines, id)
		}
	}
	delete(r.db.orders, orderID)
	return nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
