package main

import (
	"StockSniper/internal/app"
	"StockSniper/internal/checkout"
	"StockSniper/internal/database"
	"StockSniper/internal/notifier"
	"StockSniper/internal/scraper/shopify"
	"StockSniper/pkg/config"
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	task := flag.String("task", "watch", "Task to run: watch, check, or history")
	configPath := flag.String("config", "config.yml", "Path to the YAML config file")
	limit := flag.Int("limit", 50, "Number of attempts printed by the history task")
	flag.Parse()

	cfg := config.LoadConfig(*configPath)
	repo := database.InitDB(cfg.Database.Path)
	defer repo.Close()

	store := shopify.New(cfg.Store, cfg.Fetch)
	application := app.New(cfg, repo, store)

	log.Printf("Running task: %s", *task)

	switch *task {
	case "watch":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := watch(ctx, application, store); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("ERROR: %v", err)
		}

	case "check":
		application.RunCheck()

	case "history":
		if err := application.PrintHistory(*limit); err != nil {
			log.Fatalf("Failed to read history: %v", err)
		}

	default:
		log.Fatalf("Unknown task: %s.", *task)
	}
}

// watch owns the browser for the lifetime of the poll loop.
func watch(ctx context.Context, application *app.App, store *shopify.Store) error {
	cfg := application.Config
	if !cfg.Payment.Complete() {
		log.Println("WARN: Card details are incomplete; checkouts will fail at payment.")
	}
	if !cfg.Shipping.Complete() {
		log.Println("WARN: Shipping details are incomplete; checkouts will fail at shipping.")
	}

	n, err := notifier.New(cfg.Notify)
	if err != nil {
		log.Fatalf("Error configuring notifier: %v", err)
	}
	application.Notifier = n

	driver, err := checkout.Launch(cfg.Checkout, cfg.Store.UserAgent, cfg.Shipping, cfg.Payment)
	if err != nil {
		log.Fatalf("Failed to launch browser: %v", err)
	}
	defer driver.Close()

	store.Shots = driver
	application.Checkout = driver
	return application.Run(ctx)
}
