package models

import (
	"fmt"
	"strings"
)

// ShippingProfile is the delivery address typed into the checkout form.
type ShippingProfile struct {
	FirstName  string
	LastName   string
	Address1   string
	Address2   string
	City       string
	PostalCode string
	Country    string
	Email      string
	Phone      string
}

// PaymentProfile holds card details. It must never be logged: String and
// GoString only ever render a masked card number.
type PaymentProfile struct {
	Name        string
	Number      string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
}

func (p PaymentProfile) String() string {
	return fmt.Sprintf("card %s", MaskCardNumber(p.Number))
}

func (p PaymentProfile) GoString() string {
	return fmt.Sprintf("models.PaymentProfile{Number:%q}", MaskCardNumber(p.Number))
}

// Complete reports whether every field needed at checkout is set.
func (p PaymentProfile) Complete() bool {
	return p.Number != "" && p.ExpiryMonth != "" && p.ExpiryYear != "" && p.CVV != ""
}

// Complete reports whether every field typed at checkout is set.
func (s ShippingProfile) Complete() bool {
	return s.Email != "" && s.Country != "" && s.FirstName != "" &&
		s.LastName != "" && s.Address1 != "" && s.Phone != ""
}

// MaskCardNumber keeps only the last four digits.
func MaskCardNumber(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}
