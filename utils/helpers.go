package utils

import (
	"regexp"
	"strings"
)

// UniqueStrings returns the non-empty entries of slice without duplicates,
// keeping the order of first appearance.
func UniqueStrings(slice []string) []string {
	seen := make(map[string]bool)
	unique := []string{}
	for _, entry := range slice {
		entry = strings.TrimSpace(entry)
		if entry == "" || seen[entry] {
			continue
		}
		seen[entry] = true
		unique = append(unique, entry)
	}
	return unique
}

var slugRegex = regexp.MustCompile(`[^\p{L}\p{N}-]+`)

// CreateSlug turns a product name into something safe for a file name.
func CreateSlug(title string) string {
	slug := strings.ReplaceAll(strings.TrimSpace(title), " ", "-")
	slug = slugRegex.ReplaceAllString(slug, "")
	return strings.ToLower(slug)
}
