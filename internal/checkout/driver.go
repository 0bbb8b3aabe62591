package checkout

import (
	"StockSniper/internal/models"
	"StockSniper/pkg/config"
	"StockSniper/utils"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Driver owns the single browser session used for every checkout attempt.
// Create it with Launch and release it with Close.
type Driver struct {
	conf     config.CheckoutConfig
	shipping models.ShippingProfile
	payment  models.PaymentProfile

	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	sleep   func(time.Duration)
	capture func(name string)
}

// Launch starts the browser and opens the stealth page all checkouts run in.
func Launch(conf config.CheckoutConfig, userAgent string, shipping models.ShippingProfile, payment models.PaymentProfile) (*Driver, error) {
	d := &Driver{
		conf:     conf,
		shipping: shipping,
		payment:  payment,
		sleep:    time.Sleep,
	}
	d.capture = d.Screenshot

	// Leakless deadlocks on Windows, see go-rod/rod#853.
	d.launcher = launcher.New().
		Leakless(runtime.GOOS != "windows").
		Headless(conf.Headless).
		NoSandbox(true).
		Set("disable-gpu").
		Set("window-size", "1920,1080").
		Set("disable-blink-features", "AutomationControlled").
		Delete("enable-automation")
	if userAgent != "" {
		d.launcher = d.launcher.Set("user-agent", userAgent)
	}
	if conf.BrowserProfilePath != "" {
		d.launcher = d.launcher.UserDataDir(conf.BrowserProfilePath)
	}
	if bin, ok := launcher.LookPath(); ok {
		d.launcher = d.launcher.Bin(bin)
	}

	u, err := d.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	d.browser = rod.New().ControlURL(u)
	if err := d.browser.Connect(); err != nil {
		d.launcher.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	d.page, err = stealth.Page(d.browser)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to create stealth page: %w", err)
	}
	if userAgent != "" {
		if err := d.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
			log.Printf("WARN: failed to set user agent: %v", err)
		}
	}

	log.Println("Browser launched")
	return d, nil
}

// Close releases the page, the browser and the launcher's temp files.
func (d *Driver) Close() {
	if d.page != nil {
		if err := d.page.Close(); err != nil {
			log.Printf("WARN: closing page: %v", err)
		}
	}
	if d.browser != nil {
		if err := d.browser.Close(); err != nil {
			log.Printf("WARN: closing browser: %v", err)
		}
	}
	if d.launcher != nil {
		d.launcher.Cleanup()
	}
	log.Println("Browser closed")
}

// Screenshot writes a PNG of the current page to the screenshot directory.
// Failures are logged only.
func (d *Driver) Screenshot(name string) {
	if d.page == nil {
		log.Printf("WARN: no page to capture for %s", name)
		return
	}
	img, err := d.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		log.Printf("WARN: screenshot %s failed: %v", name, err)
		return
	}

	path := screenshotPath(d.conf.ScreenshotDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("WARN: creating screenshot dir: %v", err)
		return
	}
	if err := os.WriteFile(path, img, 0644); err != nil {
		log.Printf("WARN: saving screenshot %s: %v", path, err)
		return
	}
	log.Printf("Saved screenshot %s", path)
}

func screenshotPath(dir, name string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name+".png")
}

// shotName prefixes a failure phase with the product's slug so screenshots
// of different products do not overwrite each other.
func shotName(productName, phase string) string {
	slug := utils.CreateSlug(productName)
	if slug == "" {
		return phase
	}
	return slug + "_" + phase
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
