package models

import "time"

// Availability is the stock state read from a product page.
type Availability int

const (
	// Unknown means the page could not be fetched or the add-to-cart
	// button was missing, so no stock decision can be made.
	Unknown Availability = iota
	InStock
	OutOfStock
)

func (a Availability) String() string {
	switch a {
	case InStock:
		return "in stock"
	case OutOfStock:
		return "out of stock"
	default:
		return "unknown"
	}
}

// StockStatus is the result of one stock check of one product page.
type StockStatus struct {
	URL          string
	Name         string
	Price        float64
	Availability Availability
}

// InStock reports whether the product can be added to a cart right now.
func (s StockStatus) InStock() bool {
	return s.Availability == InStock
}

// Outcome values stored with a purchase attempt.
const (
	OutcomePurchased = "purchased"
	OutcomeFailed    = "failed"
)

// PurchaseAttempt is one checkout attempt as kept in the history database.
type PurchaseAttempt struct {
	ID          int64     `json:"id"`
	ProductURL  string    `json:"product_url"`
	ProductName string    `json:"product_name"`
	VariantID   string    `json:"variant_id"`
	Price       float64   `json:"price"`
	Outcome     string    `json:"outcome"`
	Reason      string    `json:"reason,omitempty"`
	AttemptedAt time.Time `json:"attempted_at"`
}

// HistoryResponse is the JSON body served by the history API.
type HistoryResponse struct {
	Data       []PurchaseAttempt `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

type Pagination struct {
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

// CartSession is what a successful cart-add hands to the checkout driver.
// The token is single use.
type CartSession struct {
	VariantID   string
	Token       string
	CheckoutURL string
}
