package shopify

import (
	"StockSniper/internal/models"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

type cartItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type cartAddRequest struct {
	Items []cartItem `json:"items"`
}

// AddToCart re-checks the product page, resolves its variant and adds one
// unit to a new cart. The cart cookie in the response becomes the checkout
// URL. Unexpected failures are captured with a browser screenshot.
func (s *Store) AddToCart(productURL string) (models.CartSession, error) {
	session, err := s.addToCart(productURL)
	if err != nil {
		if unexpectedCartError(err) {
			s.screenshot("add_to_cart_error")
		}
		log.Printf("ERROR: add to cart failed for %s: %v", productURL, err)
		return models.CartSession{}, err
	}
	return session, nil
}

func unexpectedCartError(err error) bool {
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrNoContent), errors.Is(err, ErrNoButton),
		errors.Is(err, ErrOutOfStock), errors.Is(err, ErrNoVariant),
		errors.As(err, &statusErr):
		return false
	}
	return true
}

func (s *Store) addToCart(productURL string) (models.CartSession, error) {
	doc, err := s.fetchDocument(productURL)
	if err != nil {
		return models.CartSession{}, fmt.Errorf("failed to fetch product page: %w", err)
	}

	button := doc.Find(s.Selectors.SubmitButton).First()
	if button.Length() == 0 {
		return models.CartSession{}, ErrNoButton
	}
	if !buttonInStock(button) {
		return models.CartSession{}, ErrOutOfStock
	}

	variantID, ok := ResolveVariant(doc, s.Selectors)
	if !ok {
		return models.CartSession{}, ErrNoVariant
	}
	log.Printf("Found variant ID: %s", variantID)

	resp, err := s.postCartAdd(productURL, variantID)
	if err != nil {
		return models.CartSession{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("ERROR: failed to add to cart. Status: %d", resp.StatusCode)
		log.Printf("ERROR: response: %s", string(body))
		return models.CartSession{}, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	log.Println("Successfully added to cart")

	token := cartToken(resp.Cookies())
	if token == "" {
		return models.CartSession{}, ErrNoCartToken
	}
	log.Printf("Cart token: %s", token)

	return models.CartSession{
		VariantID:   variantID,
		Token:       token,
		CheckoutURL: s.CheckoutBase + token,
	}, nil
}

func (s *Store) postCartAdd(productURL, variantID string) (*http.Response, error) {
	payload, err := json.Marshal(cartAddRequest{Items: []cartItem{{ID: variantID, Quantity: 1}}})
	if err != nil {
		return nil, fmt.Errorf("failed to create cart payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+"/cart/add.js", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create cart request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Origin", s.BaseURL)
	req.Header.Set("Referer", productURL)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cart request failed: %w", err)
	}
	return resp, nil
}

// cartToken returns the value of the "cart" cookie up to its first '%'.
func cartToken(cookies []*http.Cookie) string {
	for _, c := range cookies {
		if c.Name != "cart" {
			continue
		}
		token, _, _ := strings.Cut(c.Value, "%")
		return token
	}
	return ""
}
