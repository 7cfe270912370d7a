package scrape

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/KhuatDuy04/crawl/internal/domain"
	"github.com/KhuatDuy04/crawl/internal/errs"
	"github.com/KhuatDuy04/crawl/internal/render"
	"github.com/KhuatDuy04/crawl/internal/scrape/extract"
	"github.com/KhuatDuy04/crawl/internal/scrape/util"
)

type DetailCrawler struct {
	Rules   *extract.RuleSet
	Timeout time.Duration
	Limiter *util.HostLimiter
	Log     *zap.Logger
}

// Extract loads link and applies the rule set to it. The only failure of a
// loaded page is a navigation error; missing fields come back as "".
func (c *DetailCrawler) Extract(ctx context.Context, b render.Browser, link, jobType string) (domain.JobRecord, error) {
	page, err := b.NewPage(ctx)
	if err != nil {
		return domain.JobRecord{}, fmt.Errorf("open detail page: %w", err)
	}
	defer page.Close()

	if err := c.Limiter.WaitURL(ctx, link); err != nil {
		return domain.JobRecord{}, err
	}

	nopIfNil(c.Log).Info("crawling detail", zap.String("link", link), zap.String("job_type", jobType))
	if err := page.Goto(ctx, link, c.timeout()); err != nil {
		return domain.JobRecord{}, errs.Navigation(link, err)
	}
	html, err := snapshot(ctx, page, c.timeout())
	if err != nil {
		return domain.JobRecord{}, errs.Navigation(link, err)
	}
	doc, err := parse(html, link)
	if err != nil {
		return domain.JobRecord{}, errs.Navigation(link, err)
	}

	rec := c.Rules.Apply(doc)
	rec.Link = link
	rec.JobType = jobType
	return rec, nil
}

func (c *DetailCrawler) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultDetailTimeout
	}
	return c.Timeout
}
