package domain

import "github.com/shopspring/decimal"

// MenuItem описывает позицию каталога товаров магазина.
// Каталог — внешний справочник для ядра заказов: заказ ссылается на
// позицию по ID, но никогда её не изменяет.
type MenuItem struct {
	// ID присваивается хранилищем при вставке; до этого равен нулю.
	ID int64
	// Name — отображаемое имя позиции, уникально в рамках каталога.
	Name string
	// Category группирует позиции при выводе меню ("Donut", "Drink").
	Category string
	// Price — текущая цена за единицу. Точное десятичное значение,
	// без плавающей точки.
	Price decimal.Decimal
	// Active показывает, продаётся ли позиция сейчас. Снятие с продажи
	// не трогает уже сохранённые заказы.
	Active bool
}

// Validate проверяет поля позиции каталога перед записью.
func (m *MenuItem) Validate() []error {
	var errs []error

	if m.Name == "" {
		errs = append(errs, ErrMenuNameRequired)
	}
	if m.Category == "" {
		errs = append(errs, ErrMenuCategoryRequired)
	}
	if m.Price.IsNegative() {
		errs = append(errs, ErrMenuPriceInvalid)
	}

	return errs
}
