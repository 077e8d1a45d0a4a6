package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	store, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func insertTestItem(t *testing.T, menu domain.MenuItemRepository, name, category, price string) domain.MenuItem {
	t.Helper()

	item, err := menu.Insert(context.Background(), domain.MenuItem{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Active:   true,
	})
	if err != nil {
		t.Fatalf("insert menu item %q: %v", name, err)
	}
	return item
}

func countRows(t *testing.T, store *Store, table string) int {
	t.Helper()

	var n int
	if err := store.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestOrderRepository_CreateRoundTrip(t *testing.T) {
	store := openTestStore(t)
	menu := NewMenuItemRepository(store)
	repo := NewOrderRepository(store, menu)
	ctx := context.Background()

	donut := insertTestItem(t, menu, "Glazed Donut", "Donut", "1.49")
	coffee := insertTestItem(t, menu, "Iced Coffee", "Drink", "2.49")

	placed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	order := domain.Order{
		TransactionCode: "20250101-120000-5000",
		PlacedAt:        placed,
	}
	order.AddLine(domain.OrderLine{Item: donut, Qty: 3, UnitPrice: donut.Price})
	order.AddLine(domain.OrderLine{Item: coffee, Qty: 1, UnitPrice: coffee.Price})

	created, err := repo.Create(ctx, order)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created order has no assigned id")
	}
	for _, line := range created.Lines {
		if line.ID == 0 || line.OrderID != created.ID {
			t.Fatalf("line ids not populated: %+v", line)
		}
	}

	got, err := repo.FindByTransactionCode(ctx, order.TransactionCode)
	if err != nil {
		t.Fatalf("find by transaction code: %v", err)
	}
	if got.TransactionCode != order.TransactionCode {
		t.Fatalf("transaction code = %q, want %q", got.TransactionCode, order.TransactionCode)
	}
	if !got.PlacedAt.Equal(placed) {
		t.Fatalf("placed at = %v, want %v", got.PlacedAt, placed)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got.Lines))
	}
	if !got.Total().Equal(decimal.RequireFromString("6.96")) {
		t.Fatalf("total = %s, want 6.96", got.Total())
	}
}

func TestOrderRepository_ScenarioGlazedDonut(t *testing.T) {
	store := openTestStore(t)
	menu := NewMenuItemRepository(store)
	repo := NewOrderRepository(store, menu)
	ctx := context.Background()

	donut := insertTestItem(t, menu, "Glazed Donut", "Donut", "1.49")

	order := domain.Order{
		TransactionCode: "20250101-120000-5000",
		PlacedAt:        time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Lines:           []domain.OrderLine{{Item: donut, Qty: 3, UnitPrice: donut.Price}},
	}

	created, err := repo.Create(ctx, order)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if !created.Total().Equal(decimal.RequireFromString("4.47")) {
		t.Fatalf("total = %s, want 4.47", created.Total())
	}

	got, err := repo.FindByTransactionCode(ctx, "20250101-120000-5000")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	line := got.Lines[0]
	if line.Item.Name != "Glazed Donut" || line.Qty != 3 || !line.UnitPrice.Equal(decimal.RequireFromString("1.49")) {
		t.Fatalf("unexpected line data: %+v", line)
	}

	if _, err := repo.Create(ctx, order); !domain.IsDuplicateTransactionCode(err) {
		t.Fatalf("expected duplicate transaction code error, got %v", err)
	}
}

func TestOrderRepository_ZeroLineOrderRoundTrip(t *testing.T) {
	store := openTestStore(t)
	menu := NewMenuItemRepository(store)
	repo := NewOrderRepository(store, menu)
	ctx := context.Background()

	order := domain.Order{
		TransactionCode: "20250101-130000-1234",
		PlacedAt:        time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC),
	}

	created, err := repo.Create(ctx, order)
	if err != nil {
		t.Fatalf("create zero-line order: %v", err)
	}
	if len(created.Lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(created.Lines))
	}
	if !created.Total().Equal(decimal.Zero) {
		t.Fatalf("total = %s, want 0", created.Total())
	}
}

func TestOrderRepository_DuplicateLeavesStateUnchanged(t *testing.T) {
	store := openTestStore(t)
	menu := NewMenuItemRepository(store)
	repo := NewOrderRepository(store, menu)
	ctx := context.Background()

	donut := insertTestItem(t, menu, "Glazed Donut", "Donut", "1.49")
	cream := insertTestItem(t, menu, "Boston Cream", "Donut", "2.29")

	first := domain.Order{
		TransactionCode: "20250101-140000-2000",
		PlacedAt:        time.Date(2025, 1, 1, 14, 0, 0, 0, time.UTC),
		Lines:           []domain.OrderLine{{Item: donut, Qty: 2, UnitPrice: donut.Price}},
	}
	if _, err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create first order: %v", err)
	}

	// Повторный Create с тем же кодом, но другим набором строк.
	second := domain.Order{
		TransactionCode: "20250101-140000-2000",
		PlacedAt:        time.Date(2025, 1, 1, 14, 5, 0, 0, time.UTC),
		Lines: []domain.OrderLine{
			{Item: cream, Qty: 5, UnitPrice: cream.Price},
			{Item: donut, Qty: 1, UnitPrice: donut.Price},
		},
	}
	if _, err := repo.Create(ctx, second); !errors.Is(err, domain.ErrDuplicateTransactionCode) {
		t.Fatalf("expected ErrDuplicateTransactionCode, got %v", err)
	}

	if n := countRows(t, store, "orders"); n != 1 {
		t.Fatalf("expected 1 header row after duplicate, got %d", n)
	}
	if n := countRows(t, store, "order_lines"); n != 1 {
		t.Fatalf("expected 1 line row after duplicate, got %d", n)
	}

	got, err := repo.FindByTransactionCode(ctx, "20250101-140000-2000")
	if err != nil {
		t.Fatalf("find existing order: %v", err)
	}
	if len(got.Lines) != 1 || got.Lines[0].Qty != 2 {
		t.Fatalf("existing order changed by failed create: %+v", got)
	}
}

func TestOrderRepository_BadItemReferenceRollsBackHeader(t *testing.T) {
	store := openTestStore(t)
	menu := NewMenuItemRepository(store)
	repo := NewOrderRepository(store, menu)
	ctx := context.Background()

	donut := insertTestItem(t, menu, "Glazed Donut", "Donut", "1.49")

	// Вторая строка ссылается на несуществующую позицию: шапка и первая
	// строка уже записаны в транзакции и должны откатиться вместе.
	order := domain.Order{
		TransactionCode: "20250101-150000-3000",
		PlacedAt:        time.Date(2025, 1, 1, 15, 0, 0, 0, time.UTC),
		Lines: []domain.OrderLine{
			{Item: donut, Qty: 1, UnitPrice: donut.Price},
			{Item: domain.MenuItem{ID: 9999}, Qty: 1, UnitPrice: decimal.RequireFromString("1.00")},
		},
	}

	if _, err := repo.Create(ctx, order); !errors.Is(err, domain.ErrMenuItemReference) {
		t.Fatalf("expected ErrMenuItemReference, got %v", err)
	}

	if n := countRows(t, store, "orders"); n != 0 {
		t.Fatalf("expected 0 header rows after rollback, got %d", n)
	}
	if n := countRows(t, store, "order_lines"); n != 0 {
		t.Fatalf("expected 0 line rows after rollback, got %d", n)
	}
}

func TestOrderRepository_DeleteByTransactionCode(t *testing.T) {
	store := openTestStore(t)
	menu := NewMenuItemRepository(store)
	repo := NewOrderRepository(store, menu)
	ctx := context.Background()

	donut := insertTestItem(t, menu, "Glazed Donut", "Donut", "1.49")

	if err := repo.DeleteByTransactionCode(ctx, "20250101-000000-0000"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for unknown code, got %v", err)
	}

	order := domain.Order{
		TransactionCode: "20250101-160000-4000",
		PlacedAt:        time.Date(2025, 1, 1, 16, 0, 0, 0, time.UTC),
		Lines: []domain.OrderLine{
			{Item: donut, Qty: 2, UnitPrice: donut.Price},
			{Item: donut, Qty: 1, UnitPrice: donut.Price},
		},
	}
	if _, err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := repo.DeleteByTransactionCode(ctx, order.TransactionCode); err != nil {
		t.Fatalf("delete order: %v", err)
	}

	if n := countRows(t, store, "orders"); n != 0 {
		t.Fatalf("expected 0 header rows after delete, got %d", n)
	}
	if n := countRows(t, store, "order_lines"); n != 0 {
		t.Fatalf("expected 0 line rows after delete, got %d", n)
	}
	if _, err := repo.FindByTransactionCode(ctx, order.TransactionCode); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound after delete, got %v", err)
	}
}

func TestOrderRepository_FindAllNewestFirst(t *testing.T) {
	store := openTestStore(t)
	menu := NewMenuItemRepository(store)
	repo := NewOrderRepository(store, menu)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	codes := []struct {
		code   string
		offset time.Duration
	}{
		{"20250101-090000-1000", 0},
		{"20250101-091000-1001", 10 * time.Minute},
		{"20250101-090500-1002", 5 * time.Minute},
		// Тот же момент, что и второй заказ: разрешается по id.
		{"20250101-091000-1003", 10 * time.Minute},
	}
	for _, c := range codes {
		if _, err := repo.Create(ctx, domain.Order{
			TransactionCode: c.code,
			PlacedAt:        base.Add(c.offset),
		}); err != nil {
			t.Fatalf("create %s: %v", c.code, err)
		}
	}

	orders, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(orders) != 4 {
		t.Fatalf("expected 4 orders, got %d", len(orders))
	}

	for i := 1; i < len(orders); i++ {
		if orders[i].PlacedAt.After(orders[i-1].PlacedAt) {
			t.Fatalf("orders not sorted newest first: %v before %v",
				orders[i-1].PlacedAt, orders[i].PlacedAt)
		}
	}
	if orders[0].TransactionCode != "20250101-091000-1003" {
		t.Fatalf("tie not broken by id: first is %s", orders[0].TransactionCode)
	}
	for _, o := range orders {
		if o.Lines != nil {
			t.Fatalf("FindAll must return header-only orders, got lines for %s", o.TransactionCode)
		}
	}
}

func TestOrderRepository_SaleTimePriceSurvivesCatalogChange(t *testing.T) {
	store := openTestStore(t)
	menu := NewMenuItemRepository(store)
	repo := NewOrderRepository(store, menu)
	ctx := context.Background()

	donut := insertTestItem(t, menu, "Glazed Donut", "Donut", "1.49")

	order := domain.Order{
		TransactionCode: "20250101-170000-6000",
		PlacedAt:        time.Date(2025, 1, 1, 17, 0, 0, 0, time.UTC),
		Lines:           []domain.OrderLine{{Item: donut, Qty: 2, UnitPrice: donut.Price}},
	}
	if _, err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	// Цена в каталоге выросла. Историческая строка хранит старую цену.
	donut.Price = decimal.RequireFromString("1.99")
	if err := menu.Update(ctx, donut); err != nil {
		t.Fatalf("update catalog price: %v", err)
	}

	got, err := repo.FindByTransactionCode(ctx, order.TransactionCode)
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if !got.Lines[0].UnitPrice.Equal(decimal.RequireFromString("1.49")) {
		t.Fatalf("sale-time unit price = %s, want 1.49", got.Lines[0].UnitPrice)
	}
	if !got.Lines[0].Item.Price.Equal(decimal.RequireFromString("1.99")) {
		t.Fatalf("resolved catalog price = %s, want 1.99", got.Lines[0].Item.Price)
	}
	if !got.Total().Equal(decimal.RequireFromString("2.98")) {
		t.Fatalf("total = %s, want 2.98 (sale-time prices)", got.Total())
	}
}
