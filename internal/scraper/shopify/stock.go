package shopify

import (
	"StockSniper/internal/models"
	"StockSniper/pkg/config"
	"StockSniper/utils"
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CheckStock fetches productURL and reads its stock status. When the page
// cannot be fetched the status is Unknown and the fetch error is returned.
func (s *Store) CheckStock(productURL string) (models.StockStatus, error) {
	doc, err := s.fetchDocument(productURL)
	if err != nil {
		return models.StockStatus{URL: productURL, Availability: models.Unknown}, err
	}
	status := ParseStock(doc, s.Selectors)
	status.URL = productURL
	return status, nil
}

func (s *Store) fetchDocument(productURL string) (*goquery.Document, error) {
	body, err := s.Fetcher.Fetch(productURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse HTML: %v", ErrNoContent, err)
	}
	return doc, nil
}

// ParseStock reads the product name, price and availability from a product
// page. A missing add-to-cart button yields Unknown; otherwise the product
// is in stock exactly when the button text contains "add to cart".
func ParseStock(doc *goquery.Document, sel config.StoreSelectors) models.StockStatus {
	status := models.StockStatus{
		Name:         strings.TrimSpace(doc.Find(sel.Title).First().Text()),
		Price:        utils.ParsePrice(strings.TrimSpace(doc.Find(sel.Price).First().Text())),
		Availability: models.Unknown,
	}

	button := doc.Find(sel.SubmitButton).First()
	if button.Length() == 0 {
		log.Printf("WARN: add to cart button not found for %q", status.Name)
		return status
	}

	if buttonInStock(button) {
		status.Availability = models.InStock
	} else {
		status.Availability = models.OutOfStock
	}
	return status
}

func buttonInStock(button *goquery.Selection) bool {
	text := strings.ToLower(strings.Join(strings.Fields(button.Text()), " "))
	return strings.Contains(text, "add to cart")
}
