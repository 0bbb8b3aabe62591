package utils

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

// priceRegex finds the first price-looking number: 1,079 or 25.00 or 1,079.50.
var priceRegex = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// ParsePrice pulls the first price out of strings like "£25.00 GBP" or
// "Regular price $1,079.00". It returns 0 when nothing parses.
func ParsePrice(priceStr string) float64 {
	if priceStr == "" {
		return 0.0
	}

	found := priceRegex.FindString(priceStr)
	if found == "" {
		return 0.0
	}

	cleaned := strings.ReplaceAll(found, ",", "")
	if cleaned == "" {
		return 0.0
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		log.Printf("ParsePrice: failed to parse '%s' from '%s': %v", cleaned, priceStr, err)
		return 0.0
	}
	return price
}
