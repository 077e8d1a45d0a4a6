package domain

import "context"

// OrderRepository описывает требования к хранилищу заказов.
// Каждая операция, пишущая несколько строк, выполняется в одной
// атомарной единице работы: либо фиксируются все записи, либо ни одной,
// и промежуточное состояние не видно другим читателям.
type OrderRepository interface {
	// Create сохраняет заказ целиком: сначала шапку, затем все строки,
	// в одном общем воркфлоу commit/rollback. Количество и цена каждой
	// строки записываются дословно, без пересчёта. Возвращает заказ,
	// заново прочитанный из хранилища (с присвоенными ID), а не исходный
	// объект вызывающей стороны. Коллизия кода транзакции —
	// ErrDuplicateTransactionCode, ссылка на несуществующую позицию —
	// ErrMenuItemReference; при любом сбое все записи откатываются до
	// возврата ошибки.
	Create(ctx context.Context, order Order) (Order, error)
	// FindByTransactionCode возвращает заказ по точному совпадению кода
	// или ErrOrderNotFound. Каждая строка заново разрешается через
	// каталог; исчезнувшая позиция — ErrMenuItemVanished.
	FindByTransactionCode(ctx context.Context, code string) (Order, error)
	// FindAll возвращает только шапки заказов (без строк), новые первыми.
	FindAll(ctx context.Context) ([]Order, error)
	// DeleteByTransactionCode атомарно удаляет заказ и все его строки
	// (строки первыми). Неизвестный код — ErrOrderNotFound без единой
	// записи в хранилище.
	DeleteByTransactionCode(ctx context.Context, code string) error
}

// MenuItemRepository описывает CRUD каталога товаров. Ядро заказов
// пользуется им только на чтение при восстановлении строк.
type MenuItemRepository interface {
	// Insert сохраняет новую позицию и возвращает её с присвоенным ID.
	Insert(ctx context.Context, item MenuItem) (MenuItem, error)
	// Update перезаписывает позицию по ID или возвращает ErrMenuItemNotFound.
	Update(ctx context.Context, item MenuItem) error
	// Delete удаляет позицию. Если на неё ссылаются сохранённые заказы,
	// возвращает ErrMenuItemInUse и ничего не меняет.
	Delete(ctx context.Context, id int64) error
	// FindByID возвращает позицию или ErrMenuItemNotFound.
	FindByID(ctx context.Context, id int64) (MenuItem, error)
	// FindAll возвращает каталог, отсортированный по категории и имени.
	FindAll(ctx context.Context) ([]MenuItem, error)
}
