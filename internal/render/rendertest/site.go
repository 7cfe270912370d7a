// Package rendertest provides an in-memory render.Browser for tests.
package rendertest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/KhuatDuy04/crawl/internal/render"
)

// Site serves pages from Handler. A Handler error is returned by Goto as the
// navigation failure.
type Site struct {
	Handler func(url string) (string, error)
	// Stall, when it reports true for a URL, makes HTML on that page block
	// until its ctx is done.
	Stall func(url string) bool

	mu        sync.Mutex
	requested []string
	opened    int
	closed    int
	shutdown  int
}

var ErrNotFound = errors.New("rendertest: no such page")

// Pages returns a Handler over a fixed url → html map.
func Pages(m map[string]string) func(string) (string, error) {
	return func(url string) (string, error) {
		html, ok := m[url]
		if !ok {
			return "", ErrNotFound
		}
		return html, nil
	}
}

func (s *Site) NewPage(ctx context.Context) (render.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.opened++
	s.mu.Unlock()
	return &page{site: s}, nil
}

func (s *Site) Close() error {
	s.mu.Lock()
	s.shutdown++
	s.mu.Unlock()
	return nil
}

// Requested lists every URL passed to Goto, in call order.
func (s *Site) Requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requested...)
}

// OpenPages is the number of pages opened and not yet closed.
func (s *Site) OpenPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened - s.closed
}

// Closes counts calls to Close on the site itself.
func (s *Site) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

type page struct {
	site *Site
	url  string
	html string
	done bool
}

func (p *page) Goto(ctx context.Context, url string, _ time.Duration) error {
	p.site.mu.Lock()
	p.site.requested = append(p.site.requested, url)
	p.site.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	html, err := p.site.Handler(url)
	if err != nil {
		return err
	}
	p.url = url
	p.html = html
	return nil
}

func (p *page) HTML(ctx context.Context) (string, error) {
	if p.site.Stall != nil && p.site.Stall(p.url) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return p.html, nil
}

func (p *page) Close() error {
	if p.done {
		return nil
	}
	p.done = true
	p.site.mu.Lock()
	p.site.closed++
	p.site.mu.Unlock()
	return nil
}
