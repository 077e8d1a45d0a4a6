package memory

import (
	"context"
	"sort"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
)

type menuItemRepository struct {
	db *Database
}

// Insert сохраняет копию позиции с присвоенным ID.
func (r *menuItemRepository) Insert(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.nextMenuID++
	item.ID = r.db.nextMenuID
	r.db.menuItems[item.ID] = item
	return item, nil
}

func (r *menuItemRepository) Update(_ context.Context, item domain.MenuItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.menuItems[item.ID]; !ok {
		return domain.ErrMenuItemNotFound
	}
	r.db.menuItems[item.ID] = item
	return nil
}

// Delete отклоняет удаление позиции, на которую ссылаются строки
// заказов, как это сделал бы внешний ключ.
func (r *menuItemRepository) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.menuItems[id]; !ok {
		return domain.ErrMenuItemNotFound
	}
	for _, line := range r.db.lines {
		if line.menuItemID == id {
			return domain.ErrMenuItemInUse
		}
	}
	delete(r.db.menuItems, id)
	return nil
}

func (r *menuItemRepository) FindByID(_ context.Context, id int64) (domain.MenuItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	item, ok := r.db.menuItems[id]
	if !ok {
		return domain.MenuItem{}, domain.ErrMenuItemNotFound
	}
	return item, nil
}

func (r *menuItemRepository) FindAll(_ context.Context) ([]domain.MenuItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	items := make([]domain.MenuItem, 0, len(r.db.menuItems))
	for _, item := range r.db.menuItems {
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})

	return items, nil
}

var _ domain.MenuItemRepository = (*menuItemRepository)(nil)
