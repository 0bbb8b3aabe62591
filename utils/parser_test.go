package utils

import (
	"reflect"
	"testing"
)

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected float64
	}{
		{"Pounds with code", "£25.00 GBP", 25.00},
		{"Regular price label", "Regular price $1,079.00", 1079.00},
		{"Integer price", "£40", 40.0},
		{"Sale range takes first", "£12.50 - £20.00", 12.50},
		{"Empty string", "", 0.0},
		{"Sold out text", "Sold out", 0.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ParsePrice(tc.input)
			if result != tc.expected {
				t.Errorf("ParsePrice(%q) = %f; want %f", tc.input, result, tc.expected)
			}
		})
	}
}

func TestUniqueStrings(t *testing.T) {
	got := UniqueStrings([]string{"a", " b ", "a", "", "c", "b"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueStrings() = %v; want %v", got, want)
	}
}

func TestCreateSlug(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Folklore Album Cardigan Socks", "folklore-album-cardigan-socks"},
		{"TTPD Typewriter Ornament!", "ttpd-typewriter-ornament"},
		{"  Acoustic / Piano  ", "acoustic--piano"},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := CreateSlug(tc.input); got != tc.expected {
			t.Errorf("CreateSlug(%q) = %q; want %q", tc.input, got, tc.expected)
		}
	}
}
