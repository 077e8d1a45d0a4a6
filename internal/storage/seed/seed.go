// Package seed наполняет пустой каталог стартовым меню магазина.
// Шаг идемпотентен: вставляются только позиции, которых ещё нет по
// имени, поэтому список можно менять между запусками. Выполняется один
// раз при старте процесса и никогда не участвует в транзакциях заказов.
package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
)

// DefaultMenu возвращает стартовый ассортимент магазина.
func DefaultMenu() []domain.MenuItem {
	entries := []struct {
		name     string
		category string
		price    string
	}{
		// Классические пончики
		{"Glazed Donut", "Donut", "1.49"},
		{"Chocolate Frosted", "Donut", "1.79"},
		{"Boston Cream", "Donut", "2.29"},
		{"Strawberry Frosted", "Donut", "1.89"},
		{"Powdered Sugar Donut", "Donut", "1.59"},
		{"Old Fashioned Donut", "Donut", "1.69"},
		{"Blueberry Donut", "Donut", "1.99"},

		// Премиальные пончики
		{"Oreo Crumble Donut", "Donut", "2.79"},
		{"Red Velvet Donut", "Donut", "2.49"},
		{"Cinnamon Twist", "Donut", "2.19"},

		// Горячие напитки
		{"Iced Coffee", "Drink", "2.49"},
		{"Hot Coffee", "Drink", "1.99"},
		{"Hot Chocolate", "Drink", "3.49"},
		{"Latte", "Drink", "3.99"},
		{"Cappuccino", "Drink", "3.69"},
		{"Caramel Iced Latte", "Drink", "4.29"},
		{"Chai Tea Latte", "Drink", "3.79"},

		// Холодные напитки
		{"Bottled Water", "Drink", "1.25"},
		{"Orange Juice", "Drink", "2.29"},
		{"Milk", "Drink", "1.49"},
	}

	items := make([]domain.MenuItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, domain.MenuItem{
			Name:     e.name,
			Category: e.category,
			Price:    decimal.RequireFromString(e.price),
			Active:   true,
		})
	}
	return items
}

// Apply вставляет позиции стартового меню, отсутствующие в каталоге.
// Существующие позиции не трогает: ни цены, ни флаг продажи.
func Apply(ctx context.Context, repo domain.MenuItemRepository) error {
	existing, err := repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("read catalog before seeding: %w", err)
	}

	byName := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		byName[item.Name] = struct{}{}
	}

	for _, item := range DefaultMenu() {
		if _, ok := byName[item.Name]; ok {
			continue
		}
		if _, err := repo.Insert(ctx, item); err != nil {
			return fmt.Errorf("seed menu item %q: %w", item.Name, err)
		}
	}

	return nil
}
