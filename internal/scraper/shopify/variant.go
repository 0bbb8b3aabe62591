package shopify

import (
	"StockSniper/pkg/config"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ResolveVariant finds the variant ID needed by cart/add.js. Embedded JSON
// blocks are tried first, in document order; the hidden id input of the
// product form is the fallback.
func ResolveVariant(doc *goquery.Document, sel config.StoreSelectors) (string, bool) {
	var variantID string
	doc.Find(sel.VariantJSON).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if id, ok := variantFromJSON(scriptText(s.Nodes[0])); ok {
			variantID = id
			return false
		}
		return true
	})
	if variantID != "" {
		return variantID, true
	}

	if value, ok := doc.Find(sel.VariantInput).First().Attr("value"); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), true
	}
	return "", false
}

// scriptText returns the raw contents of a script element.
func scriptText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// variantFromJSON expects an object with a "variants" array and returns the
// first variant's id. Numeric ids keep their literal digits.
func variantFromJSON(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.Contains(raw, "variants") {
		return "", false
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return "", false
	}

	obj, ok := data.(map[string]interface{})
	if !ok {
		return "", false
	}
	variants, ok := obj["variants"].([]interface{})
	if !ok || len(variants) == 0 {
		return "", false
	}
	first, ok := variants[0].(map[string]interface{})
	if !ok {
		return "", false
	}

	switch id := first["id"].(type) {
	case json.Number:
		return id.String(), true
	case string:
		if id != "" {
			return id, true
		}
	}
	return "", false
}
