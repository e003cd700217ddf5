package enums

import "fmt"

// OrderLineErrorType enumerates the per-line rejection reasons returned when
// order validation fails.
type OrderLineErrorType string

const (
	OrderLineErrorTypeBookNotFound    OrderLineErrorType = "book_not_found"
	OrderLineErrorTypePriceChanged    OrderLineErrorType = "price_changed"
	OrderLineErrorTypeDiscountExpired OrderLineErrorType = "discount_expired"
	OrderLineErrorTypeNewDiscount     OrderLineErrorType = "new_discount"
)

var validOrderLineErrorTypes = []OrderLineErrorType{
	OrderLineErrorTypeBookNotFound,
	OrderLineErrorTypePriceChanged,
	OrderLineErrorTypeDiscountExpired,
	OrderLineErrorTypeNewDiscount,
}

// String implements fmt.Stringer.
func (o OrderLineErrorType) String() string {
	return string(o)
}

// IsValid reports whether the value is known.
func (o OrderLineErrorType) IsValid() bool {
	for _, candidate := range validOrderLineErrorTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderLineErrorType converts raw input into an OrderLineErrorType.
func ParseOrderLineErrorType(value string) (OrderLineErrorType, error) {
	for _, candidate := range validOrderLineErrorTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order line error type %q", value)
}
