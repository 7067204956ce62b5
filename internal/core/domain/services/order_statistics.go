package services

import (
	"cmp"
	"slices"

	"orderbot/internal/core/domain/model/order"
)

const (
	// TopProductsLimit is how many best sellers the statistics screen shows.
	TopProductsLimit = 5

	untitledProduct = "Untitled"
)

// ProductQuantity is the cumulative quantity sold for one product title.
type ProductQuantity struct {
	Title    string
	Quantity int
}

// TopProducts sums quantities per title across all lines and returns the n
// titles with the highest totals. Ties are broken by title in ascending order
// so that the result is stable for a fixed input.
//
// Lines without a title are counted under "Untitled". Quantities are summed
// as stored; a missing quantity is already one unit when the row is decoded.
func TopProducts(lines []order.Item, n int) []ProductQuantity {
	if n <= 0 || len(lines) == 0 {
		return []ProductQuantity{}
	}

	totals := make(map[string]int)
	for _, line := range lines {
		title := line.Title
		if title == "" {
			title = untitledProduct
		}
		totals[title] += line.Quantity
	}

	products := make([]ProductQuantity, 0, len(totals))
	for title, qty := range totals {
		products = append(products, ProductQuantity{Title: title, Quantity: qty})
	}

	slices.SortFunc(products, func(a, b ProductQuantity) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})

	if len(products) > n {
		products = products[:n]
	}
	return products
}
