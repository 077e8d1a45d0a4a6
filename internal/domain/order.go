package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine представляет одну строку заказа: товар, количество и цену
// за единицу на момент продажи.
type OrderLine struct {
	// ID строки присваивается хранилищем при вставке.
	ID int64
	// OrderID — обратная ссылка на заказ-владелец. Строка знает свой
	// заказ, но не владеет им.
	OrderID int64
	// Item — позиция каталога, восстановленная по ссылке при загрузке.
	Item MenuItem
	// Qty — количество единиц товара, строго больше нуля.
	Qty int32
	// UnitPrice — цена за единицу на момент продажи. Копируется из
	// каталога при создании заказа и хранится отдельно: цены в каталоге
	// могут меняться, исторические строки пересчитывать нельзя.
	UnitPrice decimal.Decimal
}

// LineTotal возвращает стоимость строки: UnitPrice × Qty.
func (l *OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Order агрегирует шапку заказа и его строки. Заказ создаётся целиком
// одной атомарной операцией и после сохранения не изменяется.
type Order struct {
	// ID присваивается хранилищем при вставке.
	ID int64
	// TransactionCode — внешний человекочитаемый код транзакции.
	// Уникален среди всех заказов, генерируется до сохранения.
	TransactionCode string
	// PlacedAt — момент оформления заказа с точностью до секунды.
	PlacedAt time.Time
	// Lines — строки заказа. Порядок после перезагрузки соответствует
	// порядку выборки из хранилища.
	Lines []OrderLine
}

// AddLine добавляет строку к заказу в памяти. Имеет смысл только до
// первого сохранения: агрегаты, возвращённые репозиторием, считаются
// неизменяемыми снимками.
func (o *Order) AddLine(line OrderLine) {
	o.Lines = append(o.Lines, line)
}

// Total пересчитывает сумму заказа с нуля при каждом вызове:
// Σ(UnitPrice × Qty) по всем строкам, точной десятичной арифметикой.
// Для пустого списка строк возвращает денежный ноль.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Lines {
		total = total.Add(o.Lines[i].LineTotal())
	}
	return total
}

// ValidateForPlacement проверяет инварианты заказа перед сохранением
// и возвращает список замечаний.
func (o *Order) ValidateForPlacement() []error {
	var errs []error

	if o.TransactionCode == "" {
		errs = append(errs, ErrTransactionCodeRequired)
	}

	for i := range o.Lines {
		line := &o.Lines[i]
		if line.Item.ID == 0 {
			errs = append(errs, ErrLineItemRequired)
		}
		if line.Qty <= 0 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.UnitPrice.IsNegative() {
			errs = append(errs, ErrLinePriceInvalid)
		}
	}

	return errs
}
