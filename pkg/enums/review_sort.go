package enums

import "fmt"

// ReviewSort enumerates the review listing sort modes.
type ReviewSort string

const (
	ReviewSortNewest ReviewSort = "newest"
	ReviewSortOldest ReviewSort = "oldest"
)

var validReviewSorts = []ReviewSort{
	ReviewSortNewest,
	ReviewSortOldest,
}

// String implements fmt.Stringer.
func (r ReviewSort) String() string {
	return string(r)
}

// IsValid reports whether the value is known.
func (r ReviewSort) IsValid() bool {
	for _, candidate := range validReviewSorts {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReviewSort converts raw input into a ReviewSort.
func ParseReviewSort(value string) (ReviewSort, error) {
	for _, candidate := range validReviewSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid review sort %q", value)
}
