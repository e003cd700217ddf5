package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookwormhq/bookworm-backend/pkg/db/models"
)

func discountRow(id string, price string, start, end time.Time) models.Discount {
	d := models.Discount{
		ID:            uuid.MustParse(id),
		DiscountPrice: decimal.RequireFromString(price),
		StartDate:     start,
	}
	if !end.IsZero() {
		e := end
		d.EndDate = &e
	}
	return d
}

func TestActiveDiscountIgnoresInactiveWindows(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	discounts := []models.Discount{
		discountRow("00000000-0000-0000-0000-000000000001", "9.99", asOf.Add(time.Hour), time.Time{}),
		discountRow("00000000-0000-0000-0000-000000000002", "8.99", asOf.Add(-48*time.Hour), asOf.Add(-time.Hour)),
	}

	if got := ActiveDiscount(discounts, asOf); got != nil {
		t.Fatalf("expected no active discount, got %v", got.ID)
	}
}

func TestActiveDiscountPicksLowestPrice(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	discounts := []models.Discount{
		discountRow("00000000-0000-0000-0000-000000000001", "12.50", asOf.Add(-time.Hour), time.Time{}),
		discountRow("00000000-0000-0000-0000-000000000002", "10.00", asOf.Add(-2*time.Hour), asOf.Add(time.Hour)),
		discountRow("00000000-0000-0000-0000-000000000003", "11.00", asOf.Add(-time.Hour), time.Time{}),
	}

	got := ActiveDiscount(discounts, asOf)
	if got == nil {
		t.Fatal("expected an active discount")
	}
	if got.ID != discounts[1].ID {
		t.Fatalf("expected discount %s, got %s", discounts[1].ID, got.ID)
	}
}

func TestActiveDiscountTieBreaksByLowestID(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	discounts := []models.Discount{
		discountRow("00000000-0000-0000-0000-00000000000b", "10.00", asOf.Add(-time.Hour), time.Time{}),
		discountRow("00000000-0000-0000-0000-00000000000a", "10.00", asOf.Add(-time.Hour), time.Time{}),
	}

	got := ActiveDiscount(discounts, asOf)
	if got == nil {
		t.Fatal("expected an active discount")
	}
	if got.ID != discounts[1].ID {
		t.Fatalf("expected lowest-id discount %s, got %s", discounts[1].ID, got.ID)
	}
}

func TestActiveDiscountWindowBoundariesInclusive(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	starting := []models.Discount{
		discountRow("00000000-0000-0000-0000-000000000001", "9.99", asOf, time.Time{}),
	}
	if got := ActiveDiscount(starting, asOf); got == nil {
		t.Fatal("discount starting exactly at asOf should be active")
	}

	ending := []models.Discount{
		discountRow("00000000-0000-0000-0000-000000000001", "9.99", asOf.Add(-time.Hour), asOf),
	}
	if got := ActiveDiscount(ending, asOf); got == nil {
		t.Fatal("discount ending exactly at asOf should be active")
	}
}

func TestResolveFallsBackToRegularPrice(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	book := models.Book{
		ID:    uuid.New(),
		Price: decimal.RequireFromString("19.99"),
	}

	resolved := resolve(book, asOf)
	if resolved.DiscountPrice != nil {
		t.Fatal("expected no discount price")
	}
	if !resolved.FinalPrice.Equal(book.Price) {
		t.Fatalf("expected final price %s, got %s", book.Price, resolved.FinalPrice)
	}
}

func TestResolveAppliesActiveDiscount(t *testing.T) {
	asOf := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	book := models.Book{
		ID:    uuid.New(),
		Price: decimal.RequireFromString("19.99"),
		Discounts: []models.Discount{
			discountRow("00000000-0000-0000-0000-000000000001", "14.99", asOf.Add(-time.Hour), time.Time{}),
		},
	}

	resolved := resolve(book, asOf)
	if resolved.DiscountPrice == nil {
		t.Fatal("expected a discount price")
	}
	if !resolved.FinalPrice.Equal(decimal.RequireFromString("14.99")) {
		t.Fatalf("expected final price 14.99, got %s", resolved.FinalPrice)
	}
	if !resolved.RegularPrice.Equal(book.Price) {
		t.Fatalf("regular price should be preserved, got %s", resolved.RegularPrice)
	}
}
