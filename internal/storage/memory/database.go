// Package memory хранит каталог и заказы в памяти процесса. Бэкенд для
// локальной разработки и тестов: семантика повторяет SQL-реализации,
// включая ссылочные ограничения между строками заказов и каталогом.
package memory

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
)

// строка шапки заказа, как она лежала бы в таблице orders.
type orderRow struct {
	id              int64
	transactionCode string
	placedAt        time.Time
}

// строка заказа, как она лежала бы в таблице order_lines.
type lineRow struct {
	id         int64
	orderID    int64
	menuItemID int64
	qty        int32
	unitPrice  decimal.Decimal
}

// Database — общее состояние обоих репозиториев. Один мьютекс на всё
// хранилище даёт ту же изоляцию, что одна транзакция за раз: читатель
// никогда не видит частично записанный заказ.
type Database struct {
	mu sync.RWMutex

	menuItems  map[int64]domain.MenuItem
	nextMenuID int64

	orders      map[int64]orderRow
	lines       map[int64]lineRow
	nextOrderID int64
	nextLineID  int64
}

// NewDatabase создаёт пустое in-memory хранилище.
func NewDatabase() *Database {
	return &Database{
		menuItems: make(map[int64]domain.MenuItem),
		orders:    make(map[int64]orderRow),
		lines:     make(map[int64]lineRow),
	}
}

// MenuItems возвращает репозиторий каталога поверх этого хранилища.
func (d *Database) MenuItems() domain.MenuItemRepository {
	return &menuItemRepository{db: d}
}

// Orders возвращает репозиторий заказов поверх этого хранилища.
func (d *Database) Orders() domain.OrderRepository {
	return &orderRepository{db: d}
}

// RemoveMenuItemUnchecked удаляет позицию каталога в обход ссылочной
// проверки. Имитирует повреждение данных для тестов восстановления
// заказов; в рабочем коде не вызывается.
func (d *Database) RemoveMenuItemUnchecked(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.menuItems, id)
}
