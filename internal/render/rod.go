package render

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

type RodOptions struct {
	// Bin is the Chrome binary; empty lets the launcher find or download one.
	Bin       string
	Headless  bool
	NoSandbox bool
	// ControlURL connects to an already running browser instead of launching.
	ControlURL string
}

// LaunchRod returns a LaunchFunc backed by go-rod.
func LaunchRod(opts RodOptions) LaunchFunc {
	return func(ctx context.Context) (Browser, error) {
		controlURL := opts.ControlURL

		var l *launcher.Launcher
		if controlURL == "" {
			l = launcher.New().Headless(opts.Headless).NoSandbox(opts.NoSandbox)
			if opts.Bin != "" {
				l = l.Bin(opts.Bin)
			}
			u, err := l.Launch()
			if err != nil {
				return nil, fmt.Errorf("launch chrome: %w", err)
			}
			controlURL = u
		}

		b := rod.New().ControlURL(controlURL)
		if err := b.Connect(); err != nil {
			if l != nil {
				l.Kill()
			}
			return nil, fmt.Errorf("connect %s: %w", controlURL, err)
		}
		return &rodBrowser{b: b, l: l}, nil
	}
}

type rodBrowser struct {
	b *rod.Browser
	l *launcher.Launcher // nil when connected to an external browser
}

// NewPage opens the page in its own incognito context so workers share no
// cookies or storage.
func (rb *rodBrowser) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inc, err := rb.b.Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}
	p, err := inc.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = inc.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	return &rodPage{ctx: inc, p: p}, nil
}

func (rb *rodBrowser) Close() error {
	err := rb.b.Close()
	if rb.l != nil {
		rb.l.Cleanup()
	}
	return err
}

type rodPage struct {
	ctx *rod.Browser
	p   *rod.Page

	// timeout of the last Goto, reused to bound HTML
	timeout time.Duration
}

func (rp *rodPage) Goto(ctx context.Context, url string, timeout time.Duration) error {
	rp.timeout = timeout
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := rp.p.Context(tctx)
	wait := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := p.Navigate(url); err != nil {
		return err
	}
	wait()
	return tctx.Err()
}

// HTML is bounded by the timeout of the last Goto, so a page whose main
// thread hangs after DOMContentLoaded cannot stall a worker.
func (rp *rodPage) HTML(ctx context.Context) (string, error) {
	if rp.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rp.timeout)
		defer cancel()
	}
	return rp.p.Context(ctx).HTML()
}

// Close closes the page and disposes of its incognito context.
func (rp *rodPage) Close() error {
	err := rp.p.Close()
	if cerr := rp.ctx.Close(); err == nil {
		err = cerr
	}
	return err
}
