package domain

import "errors"

var (
	// Ошибка отсутствующего кода транзакции у заказа.
	ErrTransactionCodeRequired = errors.New("transaction code is required")
	// Ошибка строки без ссылки на позицию каталога.
	ErrLineItemRequired = errors.New("order line must reference a menu item")
	// Ошибка при некорректном количестве в строке (<= 0).
	ErrLineQtyInvalid = errors.New("order line qty must be greater than zero")
	// Ошибка отрицательной цены в строке.
	ErrLinePriceInvalid = errors.New("order line unit price must be non-negative")
	// Ошибка отсутствия хотя бы одной позиции в корзине при оформлении.
	ErrEmptyBasket = errors.New("order must contain at least one line")
	// Ошибка позиции каталога без имени.
	ErrMenuNameRequired = errors.New("menu item name is required")
	// Ошибка позиции каталога без категории.
	ErrMenuCategoryRequired = errors.New("menu item category is required")
	// Ошибка отрицательной цены позиции каталога.
	ErrMenuPriceInvalid = errors.New("menu item price must be non-negative")

	// ErrOrderNotFound возвращается, если заказ с таким кодом транзакции
	// не найден. Отсутствие — не сбой, вызывающая сторона различает его
	// через errors.Is.
	ErrOrderNotFound = errors.New("order not found")
	// ErrMenuItemNotFound возвращается, если позиция каталога не найдена.
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrDuplicateTransactionCode сигнализирует о коллизии кода транзакции
	// при создании заказа: уникальность кодов гарантирует хранилище.
	ErrDuplicateTransactionCode = errors.New("transaction code already exists")
	// ErrMenuItemReference возвращается, когда строка создаваемого заказа
	// ссылается на несуществующую позицию каталога.
	ErrMenuItemReference = errors.New("order line references unknown menu item")
	// ErrMenuItemVanished — нарушение целостности: у сохранённой строки
	// заказа больше нет позиции каталога. Строка не отбрасывается,
	// ошибка поднимается наверх.
	ErrMenuItemVanished = errors.New("menu item referenced by stored order line no longer exists")
	// ErrMenuItemInUse возвращается при попытке удалить позицию каталога,
	// на которую ссылаются сохранённые заказы.
	ErrMenuItemInUse = errors.New("menu item is referenced by existing orders")
)

// IsNotFound проверяет, означает ли ошибка отсутствие записи.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrMenuItemNotFound)
}

// IsDuplicateTransactionCode проверяет, является ли ошибка коллизией
// кода транзакции.
func IsDuplicateTransactionCode(err error) bool {
	return errors.Is(err, ErrDuplicateTransactionCode)
}

// IsIntegrityFault проверяет, является ли ошибка нарушением ссылочной
// целостности между заказами и каталогом.
func IsIntegrityFault(err error) bool {
	return errors.Is(err, ErrMenuItemVanished)
}
