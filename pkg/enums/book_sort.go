package enums

import "fmt"

// BookSort enumerates the catalog browsing sort modes.
type BookSort string

const (
	BookSortOnSale     BookSort = "on_sale"
	BookSortPopularity BookSort = "popularity"
	BookSortPriceAsc   BookSort = "price_asc"
	BookSortPriceDesc  BookSort = "price_desc"
	BookSortRecommend  BookSort = "recommend"
)

var validBookSorts = []BookSort{
	BookSortOnSale,
	BookSortPopularity,
	BookSortPriceAsc,
	BookSortPriceDesc,
	BookSortRecommend,
}

// String implements fmt.Stringer.
func (b BookSort) String() string {
	return string(b)
}

// IsValid reports whether the value is known.
func (b BookSort) IsValid() bool {
	for _, candidate := range validBookSorts {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBookSort converts raw input into a BookSort.
func ParseBookSort(value string) (BookSort, error) {
	for _, candidate := range validBookSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid book sort %q", value)
}
