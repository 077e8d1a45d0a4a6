package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
)

func sampleOrder() domain.Order {
	return domain.Order{
		ID:              1,
		TransactionCode: "20250101-120000-5000",
		PlacedAt:        time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Lines: []domain.OrderLine{
			{
				Item:      domain.MenuItem{ID: 1, Name: "Glazed Donut", Category: "Donut"},
				Qty:       2,
				UnitPrice: decimal.RequireFromString("1.49"),
			},
			{
				Item:      domain.MenuItem{ID: 2, Name: "Boston Cream", Category: "Donut"},
				Qty:       1,
				UnitPrice: decimal.RequireFromString("2.29"),
			},
		},
	}
}

func TestRender_ContainsTransactionAndLines(t *testing.T) {
	out := Render(sampleOrder())

	for _, want := range []string{
		"Transaction ID: 20250101-120000-5000",
		"Date: 2025-01-01 12:00",
		" - Glazed Donut x 2 @ $1.49 = $2.98",
		" - Boston Cream x 1 @ $2.29 = $2.29",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("receipt missing %q:\n%s", want, out)
		}
	}
}

func TestRender_Totals(t *testing.T) {
	out := Render(sampleOrder())

	// Подытог 5.27, налог 6% = 0.3162 → 0.32, итог 5.5862 → 5.59.
	for _, want := range []string{
		"Subtotal: $5.27",
		"Tax (6%): $0.32",
		"TOTAL: $5.59",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("receipt missing %q:\n%s", want, out)
		}
	}
}

func TestRender_EmptyOrder(t *testing.T) {
	order := domain.Order{
		TransactionCode: "20250101-130000-1000",
		PlacedAt:        time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC),
	}
	out := Render(order)

	if !strings.Contains(out, "Subtotal: $0.00") {
		t.Fatalf("empty order subtotal must be 0.00:\n%s", out)
	}
	if !strings.Contains(out, "TOTAL: $0.00") {
		t.Fatalf("empty order total must be 0.00:\n%s", out)
	}
}
