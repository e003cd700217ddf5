package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookwormhq/bookworm-backend/internal/catalog"
	"github.com/bookwormhq/bookworm-backend/pkg/enums"
)

// priceTolerance absorbs representation drift between the client's float
// rendering and the stored price. Differences at or under a cent are not
// mismatches.
var priceTolerance = decimal.New(1, -2)

// ValidateLines compares each requested line against the resolved pricing and
// classifies mismatches. Every line is evaluated; the function never stops at
// the first failure, so one response reports every problem. The second return
// value is the subset of lines that validated cleanly, in request order.
func ValidateLines(lines []RequestLine, pricing map[uuid.UUID]catalog.ResolvedPrice) (map[uuid.UUID]LineError, []RequestLine) {
	errs := make(map[uuid.UUID]LineError)
	valid := make([]RequestLine, 0, len(lines))

	for _, line := range lines {
		resolved, ok := pricing[line.BookID]
		if !ok {
			errs[line.BookID] = LineError{Type: enums.OrderLineErrorTypeBookNotFound}
			continue
		}

		// No client price means the client defers to the server.
		if line.ClientPrice == nil {
			valid = append(valid, line)
			continue
		}

		if withinTolerance(*line.ClientPrice, resolved.FinalPrice) {
			valid = append(valid, line)
			continue
		}

		errs[line.BookID] = classifyMismatch(*line.ClientPrice, resolved)
	}

	return errs, valid
}

func classifyMismatch(clientPrice decimal.Decimal, resolved catalog.ResolvedPrice) LineError {
	old := clientPrice
	newPrice := resolved.FinalPrice
	regular := resolved.RegularPrice

	lineErr := LineError{
		OldPrice:     &old,
		NewPrice:     &newPrice,
		RegularPrice: &regular,
	}

	switch {
	case resolved.DiscountPrice == nil:
		// Server has no active discount; the client is holding a price from
		// a window that has since closed.
		lineErr.Type = enums.OrderLineErrorTypeDiscountExpired
	case withinTolerance(clientPrice, resolved.RegularPrice):
		// Client agreed with the regular price but a discount window opened
		// underneath them. The resubmission works in their favor.
		lineErr.Type = enums.OrderLineErrorTypeNewDiscount
	default:
		lineErr.Type = enums.OrderLineErrorTypePriceChanged
	}

	return lineErr
}

func withinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().Cmp(priceTolerance) <= 0
}
