package checkout

import (
	"StockSniper/internal/models"
	"StockSniper/pkg/config"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	numberFrame = "iframe[id^='card-fields-number-']"
	expiryFrame = "iframe[id^='card-fields-expiry-']"
	cvvFrame    = "iframe[id^='card-fields-verification_value-']"
)

var (
	testShipping = models.ShippingProfile{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Address1:  "12 St James's Square",
		Country:   "United Kingdom",
		Email:     "ada@example.com",
		Phone:     "07700900000",
	}
	testPayment = models.PaymentProfile{
		Name:        "A Lovelace",
		Number:      "4242424242424242",
		ExpiryMonth: "04",
		ExpiryYear:  "29",
		CVV:         "123",
	}
)

// recorder is a scripted page. Every action lands in ops, prefixed with the
// document it happened in ("main" or the iframe selector).
type recorder struct {
	scope   string
	ops     *[]string
	fail    map[string]bool
	landing string
}

func (r *recorder) log(op string) {
	*r.ops = append(*r.ops, r.scope+" "+op)
}

func (r *recorder) check(selector string) error {
	if r.fail[selector] {
		return errors.New("timed out waiting for " + selector)
	}
	return nil
}

func (r *recorder) Visit(url string) (string, error) {
	r.log("visit " + url)
	if r.landing != "" {
		return r.landing, nil
	}
	return url, nil
}

func (r *recorder) Type(selector, value string, wait time.Duration) error {
	if err := r.check(selector); err != nil {
		return err
	}
	r.log("type " + selector + " " + value)
	return nil
}

func (r *recorder) SelectText(selector, text string, wait time.Duration) error {
	if err := r.check(selector); err != nil {
		return err
	}
	r.log("select " + selector + " " + text)
	return nil
}

func (r *recorder) WaitVisible(selector string, wait time.Duration) error {
	if err := r.check(selector); err != nil {
		return err
	}
	r.log("visible " + selector)
	return nil
}

func (r *recorder) Click(selector string, wait time.Duration) error {
	if err := r.check(selector); err != nil {
		return err
	}
	r.log("click " + selector)
	return nil
}

func (r *recorder) Frame(selector string, wait time.Duration) (surface, error) {
	if err := r.check(selector); err != nil {
		return nil, err
	}
	r.log("frame " + selector)
	return &recorder{scope: selector, ops: r.ops, fail: r.fail}, nil
}

func newTestDriver(ops *[]string, shots *[]string) *Driver {
	conf := config.DefaultConfig().Checkout
	conf.ProcessingWaitSeconds = 0
	conf.MaxNavigateAttempts = 2
	return &Driver{
		conf:     conf,
		shipping: testShipping,
		payment:  testPayment,
		sleep: func(d time.Duration) {
			*ops = append(*ops, "sleep "+d.String())
		},
		capture: func(name string) {
			*shots = append(*shots, name)
		},
	}
}

func TestRunFillsCheckoutInOrder(t *testing.T) {
	var ops, shots []string
	d := newTestDriver(&ops, &shots)
	page := &recorder{scope: "main", ops: &ops}

	err := d.run(context.Background(), page, "Cardigan Socks", "https://shop.test/checkouts/cn/tok")
	require.NoError(t, err)
	assert.Empty(t, shots)

	assert.Equal(t, []string{
		"main visit https://shop.test/checkouts/cn/tok",
		"main type #email ada@example.com",
		"main select #Select0 United Kingdom",
		"main type #TextField0 Ada",
		"main type #TextField1 Lovelace",
		"main type #shipping-address1 12 St James's Square",
		"main visible #shipping-address1-options",
		"sleep 500ms",
		"main click #shipping-address1-option-0",
		"main type #TextField5 07700900000",
		"main frame " + numberFrame,
		numberFrame + " type #number 4242424242424242",
		"main frame " + expiryFrame,
		expiryFrame + " type #expiry 04",
		"sleep 1s",
		expiryFrame + " type #expiry 29",
		"main frame " + cvvFrame,
		cvvFrame + " type #verification_value 123",
		"main click #checkout-pay-button",
	}, ops)
}

func TestRunFailuresStopTheAttempt(t *testing.T) {
	testCases := []struct {
		name     string
		failOn   string
		wantShot string
		// no recorded op may contain this once the attempt has failed
		notAfter string
	}{
		{
			name:     "Shipping field missing",
			failOn:   "#TextField5",
			wantShot: "cardigan-socks_shipping_error",
			notAfter: "frame",
		},
		{
			name:     "Address suggestions never shown",
			failOn:   "#shipping-address1-options",
			wantShot: "cardigan-socks_shipping_error",
			notAfter: "#TextField5",
		},
		{
			name:     "Expiry iframe missing",
			failOn:   expiryFrame,
			wantShot: "cardigan-socks_payment_error",
			notAfter: cvvFrame,
		},
		{
			name:     "CVV field missing",
			failOn:   "#verification_value",
			wantShot: "cardigan-socks_payment_error",
			notAfter: "#checkout-pay-button",
		},
		{
			name:     "Pay button missing",
			failOn:   "#checkout-pay-button",
			wantShot: "cardigan-socks_checkout_error",
			notAfter: "click #checkout-pay-button",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var ops, shots []string
			d := newTestDriver(&ops, &shots)
			page := &recorder{scope: "main", ops: &ops, fail: map[string]bool{tc.failOn: true}}

			err := d.run(context.Background(), page, "Cardigan Socks", "https://shop.test/checkouts/cn/tok")
			require.Error(t, err)
			assert.Equal(t, []string{tc.wantShot}, shots)
			for _, op := range ops {
				assert.NotContains(t, op, tc.notAfter)
			}
		})
	}
}

func TestRunUnreachableCheckout(t *testing.T) {
	var ops, shots []string
	d := newTestDriver(&ops, &shots)
	page := &recorder{scope: "main", ops: &ops, landing: "https://shop.test/throttle/queue"}

	err := d.run(context.Background(), page, "Cardigan Socks", "https://shop.test/checkouts/cn/tok")
	assert.ErrorIs(t, err, ErrCheckoutUnreachable)
	assert.Equal(t, []string{"cardigan-socks_checkout_error"}, shots)
	assert.Equal(t, []string{
		"main visit https://shop.test/checkouts/cn/tok",
		"sleep 20s",
		"main visit https://shop.test/checkouts/cn/tok",
	}, ops)
}

func TestRunCancelledWhileProcessing(t *testing.T) {
	var ops, shots []string
	d := newTestDriver(&ops, &shots)
	d.conf.ProcessingWaitSeconds = 3600

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	page := &recorder{scope: "main", ops: &ops}

	err := d.run(ctx, page, "Cardigan Socks", "https://shop.test/checkouts/cn/tok")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "main click #checkout-pay-button", ops[len(ops)-1])
	assert.Equal(t, []string{"cardigan-socks_checkout_error"}, shots)
}
