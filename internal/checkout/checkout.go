package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

var ErrCheckoutUnreachable = errors.New("checkout page not reached")

// Run drives one checkout attempt: NAVIGATE, SHIPPING, PAYMENT, SUBMIT.
// Any failure is captured with a screenshot and ends this attempt only.
func (d *Driver) Run(ctx context.Context, productName, checkoutURL string) error {
	page := rodSurface{
		page:        d.page.Context(ctx),
		loadTimeout: seconds(d.conf.PageLoadTimeoutSeconds),
	}
	return d.run(ctx, page, productName, checkoutURL)
}

func (d *Driver) run(ctx context.Context, page surface, productName, checkoutURL string) error {
	if err := reachCheckout(ctx, checkoutURL, d.conf.MaxNavigateAttempts, seconds(d.conf.NavigateBackoffSeconds), page.Visit, d.sleep); err != nil {
		d.capture(shotName(productName, "checkout_error"))
		return err
	}
	log.Println("Successfully reached checkout page")

	if err := d.fillShipping(page); err != nil {
		d.capture(shotName(productName, "shipping_error"))
		return fmt.Errorf("filling shipping information: %w", err)
	}

	if err := d.fillPayment(page); err != nil {
		d.capture(shotName(productName, "payment_error"))
		return fmt.Errorf("filling payment information: %w", err)
	}

	if err := d.submit(ctx, page); err != nil {
		d.capture(shotName(productName, "checkout_error"))
		return fmt.Errorf("submitting payment: %w", err)
	}
	return nil
}

// reachCheckout visits url until the browser stays on a checkout path, at
// most attempts times, sleeping backoff between attempts.
func reachCheckout(ctx context.Context, url string, attempts int, backoff time.Duration, visit func(string) (string, error), sleep func(time.Duration)) error {
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		current, err := visit(url)
		switch {
		case err != nil:
			log.Printf("Attempt %d failed: %v", attempt, err)
		case strings.Contains(current, "checkout"):
			return nil
		default:
			log.Printf("WARN: Attempt %d: not on checkout page, current URL: %s", attempt, current)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt < attempts {
			sleep(backoff)
		}
	}
	return fmt.Errorf("%w after %d attempts", ErrCheckoutUnreachable, attempts)
}

func (d *Driver) fillShipping(page surface) error {
	log.Println("Filling shipping information")
	sel := d.conf.Selectors
	wait := seconds(d.conf.FrameWaitSeconds)

	if err := page.Type(sel.Email, d.shipping.Email, seconds(d.conf.ShippingWaitSeconds)); err != nil {
		return err
	}
	if err := page.SelectText(sel.Country, d.shipping.Country, wait); err != nil {
		return err
	}
	if err := page.Type(sel.FirstName, d.shipping.FirstName, wait); err != nil {
		return err
	}
	if err := page.Type(sel.LastName, d.shipping.LastName, wait); err != nil {
		return err
	}
	if err := page.Type(sel.Address1, d.shipping.Address1, wait); err != nil {
		return err
	}

	if err := page.WaitVisible(sel.AddressOptions, wait); err != nil {
		return fmt.Errorf("address suggestions: %w", err)
	}
	d.sleep(500 * time.Millisecond)
	if err := page.Click(sel.AddressFirstMatch, wait); err != nil {
		return fmt.Errorf("selecting first address: %w", err)
	}

	if err := page.Type(sel.Phone, d.shipping.Phone, wait); err != nil {
		return err
	}
	log.Println("Shipping information filled successfully.")
	return nil
}

// fillPayment types each card field inside its own payment iframe. The
// iframe is left again before the next field is looked up.
func (d *Driver) fillPayment(page surface) error {
	log.Println("Filling payment information")
	sel := d.conf.Selectors
	wait := seconds(d.conf.FrameWaitSeconds)

	if err := inFrame(page, sel.CardNumberFrame, wait, func(frame surface) error {
		return frame.Type(sel.CardNumber, d.payment.Number, wait)
	}); err != nil {
		return fmt.Errorf("card number: %w", err)
	}

	if err := inFrame(page, sel.ExpiryFrame, wait, func(frame surface) error {
		if err := frame.Type(sel.Expiry, d.payment.ExpiryMonth, wait); err != nil {
			return err
		}
		d.sleep(time.Second)
		return frame.Type(sel.Expiry, d.payment.ExpiryYear, wait)
	}); err != nil {
		return fmt.Errorf("card expiry: %w", err)
	}

	if err := inFrame(page, sel.CVVFrame, wait, func(frame surface) error {
		return frame.Type(sel.CVV, d.payment.CVV, wait)
	}); err != nil {
		return fmt.Errorf("card CVV: %w", err)
	}

	log.Println("Payment information filled successfully.")
	return nil
}

func inFrame(page surface, frameSelector string, wait time.Duration, fill func(surface) error) error {
	frame, err := page.Frame(frameSelector, wait)
	if err != nil {
		return err
	}
	return fill(frame)
}

func (d *Driver) submit(ctx context.Context, page surface) error {
	if err := page.Click(d.conf.Selectors.PayButton, seconds(d.conf.FrameWaitSeconds)); err != nil {
		return fmt.Errorf("pay now button: %w", err)
	}
	log.Println("Clicked Pay Now button")

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(seconds(d.conf.ProcessingWaitSeconds)):
	}
	return nil
}
