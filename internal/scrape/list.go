package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/KhuatDuy04/crawl/internal/domain"
	"github.com/KhuatDuy04/crawl/internal/errs"
	"github.com/KhuatDuy04/crawl/internal/render"
	"github.com/KhuatDuy04/crawl/internal/scrape/util"
)

// ListCrawler finds detail links by paging through the listing of one job
// type until a page comes back empty, a page fails to load or MaxPages is
// reached.
type ListCrawler struct {
	BaseURL  string
	Selector string
	Timeout  time.Duration
	MaxPages int
	Limiter  *util.HostLimiter
	Log      *zap.Logger
}

// Discover returns the links of jobType in page order. A navigation failure
// ends discovery for the type without an error; only a dead ctx or a page
// that cannot be opened is returned as one, together with what was found.
func (c *ListCrawler) Discover(ctx context.Context, b render.Browser, jobType string) ([]domain.JobLink, error) {
	log := nopIfNil(c.Log).With(zap.String("job_type", jobType))

	page, err := b.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("open list page: %w", err)
	}
	defer page.Close()

	var out []domain.JobLink
	for n := 1; n <= c.maxPages(); n++ {
		pageURL, err := util.ListURL(c.baseURL(), jobType, n)
		if err != nil {
			return out, fmt.Errorf("list url: %w", err)
		}
		if err := c.Limiter.WaitURL(ctx, pageURL); err != nil {
			return out, err
		}

		log.Info("crawling list", zap.String("url", pageURL))
		links, err := c.links(ctx, page, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			log.Warn("list page failed, stopping job type", zap.String("url", pageURL), zap.Error(err))
			return out, nil
		}
		if len(links) == 0 {
			log.Debug("empty list page, end of listing", zap.Int("page", n))
			return out, nil
		}
		for _, l := range links {
			out = append(out, domain.JobLink{Link: l, JobType: jobType})
		}
	}

	log.Warn("page cap reached", zap.Int("max_pages", c.maxPages()), zap.Int("links", len(out)))
	return out, nil
}

func (c *ListCrawler) links(ctx context.Context, page render.Page, pageURL string) ([]string, error) {
	if err := page.Goto(ctx, pageURL, c.timeout()); err != nil {
		return nil, errs.Navigation(pageURL, err)
	}
	html, err := snapshot(ctx, page, c.timeout())
	if err != nil {
		return nil, errs.Navigation(pageURL, err)
	}
	doc, err := parse(html, pageURL)
	if err != nil {
		return nil, errs.Navigation(pageURL, err)
	}

	var links []string
	doc.Find(c.selector()).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		if abs := util.Resolve(doc.Url, href); abs != "" {
			links = append(links, abs)
		}
	})
	return links, nil
}

func (c *ListCrawler) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

func (c *ListCrawler) selector() string {
	if c.Selector == "" {
		return DefaultListSelector
	}
	return c.Selector
}

func (c *ListCrawler) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultListTimeout
	}
	return c.Timeout
}

// maxPages never exceeds DefaultMaxPages, whatever MaxPages says.
func (c *ListCrawler) maxPages() int {
	if c.MaxPages <= 0 {
		return DefaultMaxPages
	}
	return min(c.MaxPages, DefaultMaxPages)
}
