package seed

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
	"github.com/jcoffer921/jay-donuts-od/internal/storage/memory"
)

func TestApply_FillsEmptyCatalog(t *testing.T) {
	db := memory.NewDatabase()
	menu := db.MenuItems()
	ctx := context.Background()

	if err := Apply(ctx, menu); err != nil {
		t.Fatalf("apply seed: %v", err)
	}

	items, err := menu.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(items) != len(DefaultMenu()) {
		t.Fatalf("expected %d items, got %d", len(DefaultMenu()), len(items))
	}
	for _, item := range items {
		if !item.Active {
			t.Fatalf("seeded item %q is not active", item.Name)
		}
		if item.Price.IsNegative() || item.Price.IsZero() {
			t.Fatalf("seeded item %q has price %s", item.Name, item.Price)
		}
	}
}

func TestApply_Idempotent(t *testing.T) {
	db := memory.NewDatabase()
	menu := db.MenuItems()
	ctx := context.Background()

	if err := Apply(ctx, menu); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := Apply(ctx, menu); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	items, err := menu.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(items) != len(DefaultMenu()) {
		t.Fatalf("second apply duplicated items: %d", len(items))
	}
}

func TestApply_KeepsOperatorChanges(t *testing.T) {
	db := memory.NewDatabase()
	menu := db.MenuItems()
	ctx := context.Background()

	if err := Apply(ctx, menu); err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Оператор поднял цену и снял позицию с продажи; повторный запуск
	// сидирования не должен это затирать.
	items, _ := menu.FindAll(ctx)
	var glazed domain.MenuItem
	for _, item := range items {
		if item.Name == "Glazed Donut" {
			glazed = item
		}
	}
	glazed.Price = decimal.RequireFromString("9.99")
	glazed.Active = false
	if err := menu.Update(ctx, glazed); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := Apply(ctx, menu); err != nil {
		t.Fatalf("re-apply: %v", err)
	}

	got, err := menu.FindByID(ctx, glazed.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if !got.Price.Equal(decimal.RequireFromString("9.99")) || got.Active {
		t.Fatalf("seed overwrote operator changes: %+v", got)
	}
}
