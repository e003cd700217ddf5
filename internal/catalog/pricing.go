package catalog

import (
	"time"

	"github.com/bookwormhq/bookworm-backend/pkg/db/models"
)

// ActiveDiscount selects the discount to apply for a book at the given
// instant. Among windows containing asOf it picks the lowest discount price;
// price ties resolve to the lowest discount id so concurrent requests see the
// same winner. Returns nil when no window is active.
func ActiveDiscount(discounts []models.Discount, asOf time.Time) *models.Discount {
	var winner *models.Discount
	for i := range discounts {
		d := &discounts[i]
		if !d.ActiveAt(asOf) {
			continue
		}
		if winner == nil {
			winner = d
			continue
		}
		switch d.DiscountPrice.Cmp(winner.DiscountPrice) {
		case -1:
			winner = d
		case 0:
			if d.ID.String() < winner.ID.String() {
				winner = d
			}
		}
	}
	return winner
}

// resolve builds the effective price for a book from its discount rows.
func resolve(book models.Book, asOf time.Time) ResolvedPrice {
	resolved := ResolvedPrice{
		BookID:       book.ID,
		RegularPrice: book.Price,
		FinalPrice:   book.Price,
	}
	if d := ActiveDiscount(book.Discounts, asOf); d != nil {
		price := d.DiscountPrice
		resolved.DiscountPrice = &price
		resolved.FinalPrice = price
	}
	return resolved
}
