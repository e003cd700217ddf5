package pagination

import "fmt"

// DefaultItemsPerPage is the page size when a client does not provide one.
const DefaultItemsPerPage = 15

// allowedItemsPerPage lists the page sizes the API accepts.
var allowedItemsPerPage = []int{5, 15, 20, 25}

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page         int
	ItemsPerPage int
}

// Page describes the window of a paged collection in a response.
type Page struct {
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
	StartItem    int `json:"start_item"`
	EndItem      int `json:"end_item"`
}

// Normalize fills defaults and validates the requested page size.
func Normalize(params Params) (Params, error) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.ItemsPerPage == 0 {
		params.ItemsPerPage = DefaultItemsPerPage
	}
	if !validItemsPerPage(params.ItemsPerPage) {
		return Params{}, fmt.Errorf("items per page must be one of %v", allowedItemsPerPage)
	}
	return params, nil
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	return (p.Page - 1) * p.ItemsPerPage
}

// Build computes the page window for a total item count. StartItem and
// EndItem are 1-based ordinals; both are 0 when the collection is empty or
// the requested page is past the end.
func Build(params Params, totalItems int) Page {
	totalPages := (totalItems + params.ItemsPerPage - 1) / params.ItemsPerPage

	start := params.Offset() + 1
	end := params.Offset() + params.ItemsPerPage
	if end > totalItems {
		end = totalItems
	}
	if totalItems == 0 || start > totalItems {
		start = 0
		end = 0
	}

	return Page{
		CurrentPage:  params.Page,
		ItemsPerPage: params.ItemsPerPage,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		StartItem:    start,
		EndItem:      end,
	}
}

func validItemsPerPage(value int) bool {
	for _, allowed := range allowedItemsPerPage {
		if allowed == value {
			return true
		}
	}
	return false
}
