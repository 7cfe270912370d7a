// Package crawl runs full crawls: listing discovery per job type, then detail
// extraction and persistence of every discovered link.
package crawl

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KhuatDuy04/crawl/internal/domain"
	"github.com/KhuatDuy04/crawl/internal/render"
	"github.com/KhuatDuy04/crawl/internal/scrape"
)

// Upserter persists one extracted record.
type Upserter interface {
	UpsertJob(ctx context.Context, r domain.JobRecord) error
}

type Orchestrator struct {
	Session *render.Session
	List    *scrape.ListCrawler
	Detail  *scrape.DetailCrawler
	Store   Upserter

	// Workers bounds concurrent detail pages; <= 0 means one.
	Workers         int
	DefaultJobTypes []string
	Log             *zap.Logger

	// OnRecord, when set, sees every record right after it is stored.
	OnRecord func(domain.JobRecord)
}

// CrawlAll crawls jobTypes in order and returns the records that were both
// extracted and stored, ordered by job type and then by discovery. Failures of
// single links are logged and skipped. A session that cannot be started is
// returned as an error; so is ctx ending, together with the partial result.
func (o *Orchestrator) CrawlAll(ctx context.Context, jobTypes []string) ([]domain.JobRecord, error) {
	if len(jobTypes) == 0 {
		jobTypes = o.DefaultJobTypes
	}
	if len(jobTypes) == 0 {
		jobTypes = domain.DefaultJobTypes
	}
	log := o.logger()

	browser, err := o.Session.Browser(ctx)
	if err != nil {
		return nil, err
	}

	out := []domain.JobRecord{}
	for _, jt := range jobTypes {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		links, err := o.List.Discover(ctx, browser, jt)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			log.Warn("list crawl failed", zap.String("job_type", jt), zap.Int("links", len(links)), zap.Error(err))
		}
		log.Info("links discovered", zap.String("job_type", jt), zap.Int("links", len(links)))

		out = append(out, o.details(ctx, browser, links)...)
	}
	return out, ctx.Err()
}

func (o *Orchestrator) details(ctx context.Context, browser render.Browser, links []domain.JobLink) []domain.JobRecord {
	log := o.logger()
	results := make([]*domain.JobRecord, len(links))

	var g errgroup.Group
	g.SetLimit(o.workers())
	for i, l := range links {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, err := o.Detail.Extract(ctx, browser, l.Link, l.JobType)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn("detail crawl failed, skipping", zap.String("link", l.Link), zap.Error(err))
				}
				return nil
			}
			if err := o.Store.UpsertJob(ctx, rec); err != nil {
				log.Error("upsert failed, skipping", zap.String("link", l.Link), zap.Error(err))
				return nil
			}
			results[i] = &rec
			if o.OnRecord != nil {
				o.OnRecord(rec)
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.JobRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (o *Orchestrator) workers() int {
	if o.Workers <= 0 {
		return 1
	}
	return o.Workers
}

func (o *Orchestrator) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}
