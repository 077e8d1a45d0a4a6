// Package receipt форматирует текстовый чек по уже загруженному
// заказу. Чистый рендер на чтение: ничего не пишет и не пересчитывает
// цены, только оформляет строки и итоги.
package receipt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
)

// Ставка налога для отображения в чеке.
var taxRate = decimal.RequireFromString("0.06")

const (
	header = "=========== JAY DONUTS RECEIPT ==========="
	footer = "=========================================="
)

// Render собирает чек: шапка, код транзакции, дата, строки заказа,
// подытог, налог 6% и итог. Все суммы выводятся с двумя знаками,
// округление half-up.
func Render(order domain.Order) string {
	var sb strings.Builder

	sb.WriteString(header)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Transaction ID: %s\n", order.TransactionCode)
	fmt.Fprintf(&sb, "Date: %s\n\n", order.PlacedAt.Format("2006-01-02 15:04"))

	sb.WriteString("Items:\n")
	for i := range order.Lines {
		line := &order.Lines[i]
		fmt.Fprintf(&sb, " - %s x %d @ $%s = $%s\n",
			line.Item.Name, line.Qty, money(line.UnitPrice), money(line.LineTotal()))
	}

	subtotal := order.Total()
	tax := subtotal.Mul(taxRate)
	total := subtotal.Add(tax)

	fmt.Fprintf(&sb, "\nSubtotal: $%s", money(subtotal))
	fmt.Fprintf(&sb, "\nTax (6%%): $%s", money(tax))
	fmt.Fprintf(&sb, "\nTOTAL: $%s\n", money(total))

	sb.WriteString(footer)
	sb.WriteString("\n")

	return sb.String()
}

// money форматирует сумму как валюту с двумя десятичными знаками,
// округляя от нуля при половине.
func money(v decimal.Decimal) string {
	return v.StringFixed(2)
}
