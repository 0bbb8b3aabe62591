package config

import (
	"StockSniper/internal/models"
	"StockSniper/utils"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// StoreSelectors holds the product page selectors of the storefront theme.
type StoreSelectors struct {
	Title        string `yaml:"title"`
	SubmitButton string `yaml:"submit_button"`
	Price        string `yaml:"price"`
	VariantJSON  string `yaml:"variant_json"`
	VariantInput string `yaml:"variant_input"`
}

// StoreConfig describes the storefront being watched.
type StoreConfig struct {
	BaseURL      string         `yaml:"base_url"`
	CheckoutBase string         `yaml:"checkout_base"`
	UserAgent    string         `yaml:"user_agent"`
	Products     []string       `yaml:"products"`
	MaxPrice     float64        `yaml:"max_price"`
	Selectors    StoreSelectors `yaml:"selectors"`
}

// FetchConfig holds settings for the product page fetcher.
type FetchConfig struct {
	Retries        int `yaml:"retries"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// PollConfig holds settings for the poll loop.
type PollConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// CheckoutSelectors holds the element ids and selectors of the checkout page.
type CheckoutSelectors struct {
	Email             string `yaml:"email"`
	Country           string `yaml:"country"`
	FirstName         string `yaml:"first_name"`
	LastName          string `yaml:"last_name"`
	Address1          string `yaml:"address1"`
	AddressOptions    string `yaml:"address_options"`
	AddressFirstMatch string `yaml:"address_first_option"`
	Phone             string `yaml:"phone"`
	CardNumberFrame   string `yaml:"card_number_frame"`
	CardNumber        string `yaml:"card_number"`
	ExpiryFrame       string `yaml:"expiry_frame"`
	Expiry            string `yaml:"expiry"`
	CVVFrame          string `yaml:"cvv_frame"`
	CVV               string `yaml:"cvv"`
	PayButton         string `yaml:"pay_button"`
}

// CheckoutConfig holds settings for the browser checkout driver.
type CheckoutConfig struct {
	Headless               bool              `yaml:"headless"`
	BrowserProfilePath     string            `yaml:"browser_profile_path"`
	PageLoadTimeoutSeconds int               `yaml:"page_load_timeout_seconds"`
	ShippingWaitSeconds    int               `yaml:"shipping_wait_seconds"`
	FrameWaitSeconds       int               `yaml:"frame_wait_seconds"`
	NavigateBackoffSeconds int               `yaml:"navigate_backoff_seconds"`
	MaxNavigateAttempts    int               `yaml:"max_navigate_attempts"`
	ProcessingWaitSeconds  int               `yaml:"processing_wait_seconds"`
	ScreenshotDir          string            `yaml:"screenshot_dir"`
	Selectors              CheckoutSelectors `yaml:"selectors"`
}

// NotifyConfig selects and configures the restock notifier.
// Credentials are never read from the YAML file.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Backend string `yaml:"backend"` // "smtp" or "sendgrid"

	From           string   `yaml:"-"`
	Password       string   `yaml:"-"`
	Recipients     []string `yaml:"-"`
	SMTPServer     string   `yaml:"-"`
	SMTPPort       int      `yaml:"-"`
	SendGridAPIKey string   `yaml:"-"`
}

// Config is the complete structure for the config.yml file plus the
// secrets read from the environment.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Poll     PollConfig     `yaml:"poll"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Notify   NotifyConfig   `yaml:"notify"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Shipping models.ShippingProfile `yaml:"-"`
	Payment  models.PaymentProfile  `yaml:"-"`
}

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultConfig returns the settings for a Dawn-themed Shopify storefront.
func DefaultConfig() *Config {
	cfg := &Config{
		Store: StoreConfig{
			UserAgent: defaultUserAgent,
			Selectors: StoreSelectors{
				Title:        "h1.product__title",
				SubmitButton: "button.product-form__submit.button.button--primary",
				Price:        ".price-item--regular",
				VariantJSON:  `script[type="application/json"]`,
				VariantInput: `input[name="id"]`,
			},
		},
		Fetch: FetchConfig{Retries: 3, TimeoutSeconds: 10},
		Poll:  PollConfig{IntervalSeconds: 5},
		Checkout: CheckoutConfig{
			Headless:               true,
			PageLoadTimeoutSeconds: 20,
			ShippingWaitSeconds:    120,
			FrameWaitSeconds:       15,
			NavigateBackoffSeconds: 20,
			MaxNavigateAttempts:    10,
			ProcessingWaitSeconds:  100,
			ScreenshotDir:          ".",
			Selectors: CheckoutSelectors{
				Email:             "#email",
				Country:           "#Select0",
				FirstName:         "#TextField0",
				LastName:          "#TextField1",
				Address1:          "#shipping-address1",
				AddressOptions:    "#shipping-address1-options",
				AddressFirstMatch: "#shipping-address1-option-0",
				Phone:             "#TextField5",
				CardNumberFrame:   "iframe[id^='card-fields-number-']",
				CardNumber:        "#number",
				ExpiryFrame:       "iframe[id^='card-fields-expiry-']",
				Expiry:            "#expiry",
				CVVFrame:          "iframe[id^='card-fields-verification_value-']",
				CVV:               "#verification_value",
				PayButton:         "#checkout-pay-button",
			},
		},
		Notify: NotifyConfig{Backend: "smtp"},
	}
	cfg.Database.Path = "history.db"
	cfg.Server.Port = "8080"
	return cfg
}

// Load reads the YAML file at path over the defaults, then overlays the
// secrets from the environment (and .env, when present).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config YAML: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: could not parse .env file: %v", err)
	}
	cfg.applyEnv()

	cfg.Store.BaseURL = strings.TrimRight(cfg.Store.BaseURL, "/")
	if cfg.Store.CheckoutBase == "" && cfg.Store.BaseURL != "" {
		cfg.Store.CheckoutBase = cfg.Store.BaseURL + "/checkouts/cn/"
	}
	cfg.Store.Products = utils.UniqueStrings(cfg.Store.Products)

	return cfg, nil
}

// LoadConfig is Load for entry points: any error is fatal.
func LoadConfig(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return cfg
}

func (c *Config) applyEnv() {
	c.Payment = models.PaymentProfile{
		Name:        os.Getenv("CARD_NAME"),
		Number:      os.Getenv("CARD_NUMBER"),
		ExpiryMonth: os.Getenv("CARD_EXPIRY_MONTH"),
		ExpiryYear:  os.Getenv("CARD_EXPIRY_YEAR"),
		CVV:         os.Getenv("CARD_CVV"),
	}
	c.Shipping = models.ShippingProfile{
		FirstName:  os.Getenv("SHIPPING_FIRST_NAME"),
		LastName:   os.Getenv("SHIPPING_LAST_NAME"),
		Address1:   os.Getenv("SHIPPING_ADDRESS"),
		City:       os.Getenv("SHIPPING_CITY"),
		PostalCode: os.Getenv("SHIPPING_POSTCODE"),
		Country:    os.Getenv("SHIPPING_COUNTRY"),
		Email:      os.Getenv("SHIPPING_EMAIL"),
		Phone:      os.Getenv("SHIPPING_PHONE"),
	}

	c.Notify.From = os.Getenv("EMAIL")
	c.Notify.Password = os.Getenv("PASSWORD")
	c.Notify.SMTPServer = os.Getenv("SMTP_SERVER")
	c.Notify.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	if port, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		c.Notify.SMTPPort = port
	}
	c.Notify.Recipients = nil
	for _, to := range strings.Split(os.Getenv("TO_EMAILS"), ",") {
		if to = strings.TrimSpace(to); to != "" {
			c.Notify.Recipients = append(c.Notify.Recipients, to)
		}
	}
}
