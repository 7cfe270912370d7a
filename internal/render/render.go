// Package render drives the headless browser that renders listing and
// detail pages before they are queried.
package render

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/KhuatDuy04/crawl/internal/errs"
)

// Browser is a running rendering session.
type Browser interface {
	// NewPage opens an independent browsing context. Callers must Close it.
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is one browsing context.
type Page interface {
	// Goto navigates and waits for the document, bounded by timeout.
	Goto(ctx context.Context, url string, timeout time.Duration) error
	// HTML returns the rendered document markup. It gives up when ctx is done.
	HTML(ctx context.Context) (string, error)
	Close() error
}

// LaunchFunc starts a browser.
type LaunchFunc func(ctx context.Context) (Browser, error)

var ErrSessionClosed = errors.New("render session closed")

// Session owns the one process-wide browser. The browser is launched on first
// use; a failed launch is not remembered so the next crawl can try again.
type Session struct {
	launch LaunchFunc

	mu      sync.Mutex
	browser Browser
	closed  bool
}

func NewSession(launch LaunchFunc) *Session {
	return &Session{launch: launch}
}

// Browser returns the shared browser, launching it if needed. Launch errors
// are session errors.
func (s *Session) Browser(ctx context.Context) (Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errs.Session("browser", ErrSessionClosed)
	}
	if s.browser != nil {
		return s.browser, nil
	}
	b, err := s.launch(ctx)
	if err != nil {
		return nil, errs.Session("launch browser", err)
	}
	s.browser = b
	return b, nil
}

// Close tears the browser down. Only the first call does anything.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.browser = nil
	return err
}
