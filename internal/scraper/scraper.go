package scraper

import "StockSniper/internal/models"

// Store defines what the poll loop needs from a storefront: a stock check
// for one product page and a cart-add that hands back a checkout session.
// A new storefront (another theme, another platform) only has to provide
// these two calls.
type Store interface {
	// CheckStock fetches and parses a product page. A fetch failure returns
	// an error together with an Unknown status.
	CheckStock(productURL string) (models.StockStatus, error)

	// AddToCart puts one unit of the product into a fresh cart and returns
	// the session needed to open its checkout.
	AddToCart(productURL string) (models.CartSession, error)

	// IsCheckoutURL reports whether url points into this store's checkout.
	IsCheckoutURL(url string) bool
}
