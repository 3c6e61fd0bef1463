package product

// Product represents a catalog item and maps to the `products` table.
// Price is the live catalog price; carts and orders snapshot it at
// add/checkout time, so later edits here never move past totals.
type Product struct {
	ID           int     `json:"productId"`
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description,omitempty"`
	CategoryID   int     `json:"categoryId"`
	Price        float64 `json:"price"`
	Manufacturer string  `json:"manufacturer,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
	Available    bool    `json:"available"`
	Quantity     int     `json:"quantity"`
}
