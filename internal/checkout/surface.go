package checkout

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// surface is the part of a browser page the checkout phases act on. A
// payment iframe is a surface of its own.
type surface interface {
	// Visit loads url and returns the URL the browser ended up on.
	Visit(url string) (string, error)
	// Type waits up to wait for selector and types value into it.
	Type(selector, value string, wait time.Duration) error
	SelectText(selector, text string, wait time.Duration) error
	WaitVisible(selector string, wait time.Duration) error
	Click(selector string, wait time.Duration) error
	// Frame waits for the iframe matching selector and returns its document.
	Frame(selector string, wait time.Duration) (surface, error)
}

// rodSurface drives a rod page or frame.
type rodSurface struct {
	page        *rod.Page
	loadTimeout time.Duration
}

func (s rodSurface) element(selector string, wait time.Duration) (*rod.Element, error) {
	el, err := s.page.Timeout(wait).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", selector, err)
	}
	return el, nil
}

func (s rodSurface) Visit(url string) (string, error) {
	p := s.page.Timeout(s.loadTimeout)
	if err := p.Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return "", fmt.Errorf("page failed to load: %w", err)
	}
	info, err := s.page.Info()
	if err != nil {
		return "", fmt.Errorf("reading page info: %w", err)
	}
	return info.URL, nil
}

// Type never logs value; it may be card data.
func (s rodSurface) Type(selector, value string, wait time.Duration) error {
	el, err := s.element(selector, wait)
	if err != nil {
		return err
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("typing into %s: %w", selector, err)
	}
	return nil
}

func (s rodSurface) SelectText(selector, text string, wait time.Duration) error {
	el, err := s.element(selector, wait)
	if err != nil {
		return err
	}
	if err := el.Select([]string{text}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("selecting %q in %s: %w", text, selector, err)
	}
	return nil
}

func (s rodSurface) WaitVisible(selector string, wait time.Duration) error {
	el, err := s.element(selector, wait)
	if err != nil {
		return err
	}
	if err := el.Timeout(wait).WaitVisible(); err != nil {
		return fmt.Errorf("%s not visible: %w", selector, err)
	}
	return nil
}

func (s rodSurface) Click(selector string, wait time.Duration) error {
	el, err := s.element(selector, wait)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("clicking %s: %w", selector, err)
	}
	return nil
}

func (s rodSurface) Frame(selector string, wait time.Duration) (surface, error) {
	iframe, err := s.element(selector, wait)
	if err != nil {
		return nil, err
	}
	frame, err := iframe.Frame()
	if err != nil {
		return nil, fmt.Errorf("entering %s: %w", selector, err)
	}
	// the frame keeps the page's context, not the lookup timeout
	return rodSurface{page: frame.Context(s.page.GetContext()), loadTimeout: s.loadTimeout}, nil
}
