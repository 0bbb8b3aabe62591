package shopify

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Fetcher issues GET requests for product pages.
type Fetcher struct {
	Client     *http.Client
	UserAgent  string
	Retries    int
	RetryDelay time.Duration
}

// NewFetcher returns a Fetcher with the given retry count and per-request timeout.
func NewFetcher(userAgent string, retries int, timeout time.Duration) *Fetcher {
	if retries < 1 {
		retries = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		Client:     &http.Client{Timeout: timeout},
		UserAgent:  userAgent,
		Retries:    retries,
		RetryDelay: 2 * time.Second,
	}
}

// Fetch returns the body of url. A response cut short mid-body is retried
// after RetryDelay, up to Retries attempts in total. Every other failure
// gives up at once. All failures wrap ErrNoContent.
func (f *Fetcher) Fetch(url string) ([]byte, error) {
	for attempt := 1; attempt <= f.Retries; attempt++ {
		body, err := f.fetchOnce(url)
		if err == nil {
			return body, nil
		}
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			log.Printf("ERROR: request failed for %s: %v", url, err)
			return nil, fmt.Errorf("%w: %v", ErrNoContent, err)
		}
		if attempt == f.Retries {
			log.Printf("ERROR: truncated response from %s: %v. Giving up after %d attempts", url, err, attempt)
			break
		}
		log.Printf("WARN: truncated response from %s: %v. Retrying %d/%d...", url, err, attempt+1, f.Retries)
		time.Sleep(f.RetryDelay)
	}
	return nil, fmt.Errorf("%w: %s still truncated after %d attempts", ErrNoContent, url, f.Retries)
}

func (f *Fetcher) fetchOnce(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("received status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	return body, nil
}
