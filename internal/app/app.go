package app

import (
	"StockSniper/internal/models"
	"StockSniper/internal/notifier"
	"StockSniper/internal/scraper"
	"StockSniper/pkg/config"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// History is the part of the purchase history store the app writes to.
type History interface {
	RecordAttempt(attempt models.PurchaseAttempt) error
	GetAttempts(limit, offset int) ([]models.PurchaseAttempt, error)
}

// Checkout drives one checkout attempt in the browser.
type Checkout interface {
	Run(ctx context.Context, productName, checkoutURL string) error
}

// App is the main application structure holding all dependencies.
// Checkout and Notifier may be nil: the check task needs no browser and
// notifications are off by default.
type App struct {
	Config    *config.Config
	Repo      History
	Store     scraper.Store
	Checkout  Checkout
	Notifier  notifier.Notifier
	Purchased *PurchasedSet

	// names announced since they last came back in stock
	notified map[string]bool

	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an application with an empty purchased set.
func New(cfg *config.Config, repo History, store scraper.Store) *App {
	return &App{
		Config:    cfg,
		Repo:      repo,
		Store:     store,
		Purchased: NewPurchasedSet(),
		notified:  make(map[string]bool),
		sleep:     sleepContext,
	}
}

// Run polls the product list until every product has been purchased or ctx
// is cancelled. Products that never come back in stock keep it running.
func (a *App) Run(ctx context.Context) error {
	products := a.Config.Store.Products
	if len(products) == 0 {
		log.Println("WARN: No products configured, nothing to watch.")
		return nil
	}
	interval := time.Duration(a.Config.Poll.IntervalSeconds) * time.Second

	log.Printf("--- Watching %d products ---", len(products))
	for pass := 1; ; pass++ {
		a.RunPass(ctx)
		if a.allPurchased() {
			log.Printf("All %d products purchased. Exiting.", len(products))
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Printf("Pass %d done (%d/%d purchased). Sleeping %s...", pass, a.Purchased.Len(), len(products), interval)
		if err := a.sleep(ctx, interval); err != nil {
			return err
		}
	}
}

func (a *App) allPurchased() bool {
	return a.Purchased.Len() >= len(a.Config.Store.Products)
}

// RunPass checks every product once, in list order, and stops at the first
// successful purchase. It reports whether a purchase was made.
func (a *App) RunPass(ctx context.Context) bool {
	for _, productURL := range a.Config.Store.Products {
		if ctx.Err() != nil {
			return false
		}

		status, err := a.Store.CheckStock(productURL)
		if err != nil {
			log.Printf("WARN: Skipping %s this pass: %v", productURL, err)
			continue
		}
		name := displayName(status)
		if !status.InStock() {
			if status.Availability == models.OutOfStock {
				delete(a.notified, name)
			}
			log.Printf("%s is %s.", name, status.Availability)
			continue
		}
		if a.Purchased.Has(name) {
			continue
		}
		if maxPrice := a.Config.Store.MaxPrice; maxPrice > 0 && status.Price > maxPrice {
			log.Printf("%s is in stock at %.2f, above max price %.2f. Skipping.", name, status.Price, maxPrice)
			continue
		}

		log.Printf("%s is in stock! Starting purchase.", name)
		if a.Notifier != nil && !a.notified[name] {
			a.Notifier.Notify(ctx, productURL, name)
			a.notified[name] = true
		}

		attempt := models.PurchaseAttempt{
			ProductURL:  productURL,
			ProductName: name,
			Price:       status.Price,
		}
		err = a.purchase(ctx, productURL, name, &attempt)
		a.record(attempt, err)
		if err != nil {
			log.Printf("ERROR: Purchase of %s failed: %v", name, err)
			continue
		}

		a.Purchased.Add(name)
		log.Printf("Purchased %s.", name)
		return true
	}
	return false
}

func (a *App) purchase(ctx context.Context, productURL, name string, attempt *models.PurchaseAttempt) error {
	if a.Checkout == nil {
		return errors.New("no checkout driver configured")
	}
	session, err := a.Store.AddToCart(productURL)
	attempt.VariantID = session.VariantID
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	if !a.Store.IsCheckoutURL(session.CheckoutURL) {
		return fmt.Errorf("unexpected checkout URL %q", session.CheckoutURL)
	}
	return a.Checkout.Run(ctx, name, session.CheckoutURL)
}

func (a *App) record(attempt models.PurchaseAttempt, err error) {
	if a.Repo == nil {
		return
	}
	attempt.Outcome = models.OutcomePurchased
	if err != nil {
		attempt.Outcome = models.OutcomeFailed
		attempt.Reason = err.Error()
	}
	attempt.AttemptedAt = time.Now()
	if err := a.Repo.RecordAttempt(attempt); err != nil {
		log.Printf("WARN: Could not record attempt for %s: %v", attempt.ProductURL, err)
	}
}

// RunCheck performs one pass of stock checks and prints the result for
// each product. Nothing is bought.
func (a *App) RunCheck() {
	log.Println("--- Starting Stock Check ---")
	for _, productURL := range a.Config.Store.Products {
		status, err := a.Store.CheckStock(productURL)
		if err != nil {
			fmt.Printf("%-14s %s (%v)\n", status.Availability, productURL, err)
			continue
		}
		fmt.Printf("%-14s %-8.2f %s (%s)\n", status.Availability, status.Price, displayName(status), productURL)
	}
	log.Println("--- Stock Check Finished ---")
}

// PrintHistory prints the latest recorded purchase attempts.
func (a *App) PrintHistory(limit int) error {
	attempts, err := a.Repo.GetAttempts(limit, 0)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		fmt.Println("No purchase attempts recorded.")
		return nil
	}
	for _, at := range attempts {
		line := fmt.Sprintf("%s  %-9s  %s  %s", at.AttemptedAt.Local().Format(time.DateTime), at.Outcome, at.ProductName, at.ProductURL)
		if at.Reason != "" {
			line += "  (" + at.Reason + ")"
		}
		fmt.Println(line)
	}
	return nil
}

// displayName falls back to the URL when the page has no title heading, so
// the purchased set always has a key.
func displayName(status models.StockStatus) string {
	if name := strings.TrimSpace(status.Name); name != "" {
		return name
	}
	return status.URL
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
