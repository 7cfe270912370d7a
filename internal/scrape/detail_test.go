package scrape_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KhuatDuy04/crawl/internal/errs"
	"github.com/KhuatDuy04/crawl/internal/render/rendertest"
	"github.com/KhuatDuy04/crawl/internal/scrape"
	"github.com/KhuatDuy04/crawl/internal/scrape/extract"
)

const detailPage = `<html><body>
<h1 class="js-job job-title">Go Developer</h1>
<div class="company-name"><h2>Acme</h2></div>
<img class="company-logo" src="/logo/acme.png">
</body></html>`

func TestExtractMergesLinkAndType(t *testing.T) {
	link := "https://123job.vn/viec-lam/go-developer.html"
	site := &rendertest.Site{Handler: rendertest.Pages(map[string]string{link: detailPage})}
	c := &scrape.DetailCrawler{Rules: extract.MustDefault(), Log: zap.NewNop()}

	rec, err := c.Extract(context.Background(), site, link, "2")
	require.NoError(t, err)

	assert.Equal(t, link, rec.Link)
	assert.Equal(t, "2", rec.JobType)
	assert.Equal(t, "Go Developer", rec.Title)
	assert.Equal(t, "Acme", rec.Company)
	assert.Equal(t, "https://123job.vn/logo/acme.png", rec.CompanyLogo)
	assert.Equal(t, "", rec.Benefit)
	assert.Zero(t, site.OpenPages())
}

func TestExtractNavigationError(t *testing.T) {
	site := &rendertest.Site{Handler: func(string) (string, error) {
		return "", errors.New("net::ERR_TIMED_OUT")
	}}
	c := &scrape.DetailCrawler{Rules: extract.MustDefault()}

	_, err := c.Extract(context.Background(), site, "https://123job.vn/viec-lam/x.html", "1")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrTypeNavigation))
	assert.Zero(t, site.OpenPages())
}

func TestExtractStalledPageTimesOut(t *testing.T) {
	link := "https://123job.vn/viec-lam/hung.html"
	site := &rendertest.Site{
		Handler: rendertest.Pages(map[string]string{link: detailPage}),
		Stall:   func(string) bool { return true },
	}
	c := &scrape.DetailCrawler{Rules: extract.MustDefault(), Timeout: 50 * time.Millisecond}

	start := time.Now()
	_, err := c.Extract(context.Background(), site, link, "1")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrTypeNavigation))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Zero(t, site.OpenPages())
}
