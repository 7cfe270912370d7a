// Package scrape walks the listing pages of 123job.vn and turns detail pages
// into job records.
package scrape

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/KhuatDuy04/crawl/internal/render"
)

const (
	DefaultBaseURL       = "https://123job.vn/tuyen-dung"
	DefaultListSelector  = ".job__list-item-title a"
	DefaultMaxPages      = 200
	DefaultListTimeout   = 8 * time.Second
	DefaultDetailTimeout = 10 * time.Second
)

// parse builds a document from rendered markup and remembers where it came
// from so relative links resolve.
func parse(html, pageURL string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	if u, err := url.Parse(pageURL); err == nil {
		doc.Url = u
	}
	return doc, nil
}

// snapshot reads the rendered markup of page within timeout.
func snapshot(ctx context.Context, page render.Page, timeout time.Duration) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return page.HTML(tctx)
}

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
