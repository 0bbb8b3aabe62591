package checkout

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReachCheckout(t *testing.T) {
	testCases := []struct {
		name       string
		landings   []string
		attempts   int
		wantErr    bool
		wantVisits int
		wantSleeps int
	}{
		{
			name:       "First visit lands on checkout",
			landings:   []string{"https://store.test/checkouts/cn/abc"},
			attempts:   10,
			wantVisits: 1,
		},
		{
			name:       "Redirected twice then checkout",
			landings:   []string{"https://store.test/cart", "https://store.test/throttle/queue", "https://store.test/checkouts/cn/abc"},
			attempts:   10,
			wantVisits: 3,
			wantSleeps: 2,
		},
		{
			name:       "Never reaches checkout",
			landings:   []string{"https://store.test/cart"},
			attempts:   4,
			wantErr:    true,
			wantVisits: 4,
			wantSleeps: 3,
		},
		{
			name:       "Zero attempts still tries once",
			landings:   []string{"https://store.test/"},
			attempts:   0,
			wantErr:    true,
			wantVisits: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			visits, sleeps := 0, 0
			visit := func(string) (string, error) {
				landing := tc.landings[min(visits, len(tc.landings)-1)]
				visits++
				return landing, nil
			}
			sleep := func(d time.Duration) {
				assert.Equal(t, 20*time.Second, d)
				sleeps++
			}

			err := reachCheckout(context.Background(), "https://store.test/checkouts/cn/abc", tc.attempts, 20*time.Second, visit, sleep)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrCheckoutUnreachable)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantVisits, visits)
			assert.Equal(t, tc.wantSleeps, sleeps)
		})
	}
}

func TestReachCheckoutRetriesNavigationErrors(t *testing.T) {
	calls := 0
	visit := func(string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("navigation timed out")
		}
		return "https://store.test/checkouts/cn/abc", nil
	}

	var slept []time.Duration
	err := reachCheckout(context.Background(), "x", 3, 20*time.Second, visit, func(d time.Duration) {
		slept = append(slept, d)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	// a failed navigation backs off like a redirect does
	assert.Equal(t, []time.Duration{20 * time.Second}, slept)
}

func TestReachCheckoutStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	visit := func(string) (string, error) {
		calls++
		cancel()
		return "https://store.test/", nil
	}

	err := reachCheckout(ctx, "x", 10, time.Second, visit, func(time.Duration) {})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestShotName(t *testing.T) {
	assert.Equal(t, "folklore-cardigan-socks_payment_error", shotName("Folklore Cardigan Socks", "payment_error"))
	assert.Equal(t, "shipping_error", shotName("", "shipping_error"))
}

func TestScreenshotPath(t *testing.T) {
	assert.Equal(t, "checkout_error.png", screenshotPath("", "checkout_error"))
	assert.Equal(t, filepath.Join("shots", "payment_error.png"), screenshotPath("shots", "payment_error"))
}
