package shopify

import (
	"StockSniper/pkg/config"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNoContent   = errors.New("no page content")
	ErrNoButton    = errors.New("add to cart button not found")
	ErrOutOfStock  = errors.New("product is out of stock")
	ErrNoVariant   = errors.New("could not find variant ID")
	ErrNoCartToken = errors.New("cart cookie not found")
)

// StatusError is returned when the cart endpoint answers with anything but 200.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cart add failed with status %d", e.StatusCode)
}

// Screenshotter captures the state of the open browser session for later
// diagnosis. The checkout driver implements it.
type Screenshotter interface {
	Screenshot(name string)
}

// Store talks to one Shopify storefront over plain HTTP.
type Store struct {
	Fetcher      *Fetcher
	Client       *http.Client
	BaseURL      string
	CheckoutBase string
	UserAgent    string
	Selectors    config.StoreSelectors

	// Shots is optional; when set, unexpected cart-add failures are captured.
	Shots Screenshotter
}

// New builds a Store from the store and fetch sections of the config.
func New(storeConf config.StoreConfig, fetchConf config.FetchConfig) *Store {
	timeout := time.Duration(fetchConf.TimeoutSeconds) * time.Second
	return &Store{
		Fetcher:      NewFetcher(storeConf.UserAgent, fetchConf.Retries, timeout),
		Client:       &http.Client{Timeout: 30 * time.Second},
		BaseURL:      strings.TrimRight(storeConf.BaseURL, "/"),
		CheckoutBase: storeConf.CheckoutBase,
		UserAgent:    storeConf.UserAgent,
		Selectors:    storeConf.Selectors,
	}
}

// IsCheckoutURL reports whether url starts with the store's checkout base.
func (s *Store) IsCheckoutURL(url string) bool {
	return s.CheckoutBase != "" && strings.HasPrefix(url, s.CheckoutBase)
}

func (s *Store) screenshot(name string) {
	if s.Shots == nil {
		log.Printf("WARN: no browser session to capture %s", name)
		return
	}
	s.Shots.Screenshot(name)
}
