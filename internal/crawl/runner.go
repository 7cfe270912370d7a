package crawl

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KhuatDuy04/crawl/internal/config"
	"github.com/KhuatDuy04/crawl/internal/domain"
	"github.com/KhuatDuy04/crawl/internal/errs"
	"github.com/KhuatDuy04/crawl/internal/events"
	"github.com/KhuatDuy04/crawl/internal/render"
	"github.com/KhuatDuy04/crawl/internal/scrape"
	"github.com/KhuatDuy04/crawl/internal/scrape/util"
)

type Status struct {
	RunID     string `json:"run_id"`
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	LastAdded int    `json:"last_added"`
	Running   bool   `json:"running"`
}

// Runner is the entry point for HTTP, scheduled and one-shot crawls. It
// builds an Orchestrator from the current config for every run and lets only
// one run hold LockPath at a time, across processes too.
type Runner struct {
	Session  *render.Session
	Store    Upserter
	Hub      *events.Hub
	Limiter  *util.HostLimiter
	LockPath string
	Config   func() config.Config
	Log      *zap.Logger

	status atomic.Value // Status
}

const lockRetry = 250 * time.Millisecond

// Run crawls jobTypes, or the configured defaults when empty.
func (r *Runner) Run(ctx context.Context, jobTypes []string) ([]domain.JobRecord, error) {
	cfg := r.Config()
	rules, err := cfg.Rules()
	if err != nil {
		return nil, errs.Internal("extraction rules", err)
	}
	if len(jobTypes) == 0 {
		jobTypes = cfg.Crawl.DefaultJobTypes
	}

	runID := uuid.NewString()
	log := r.logger().With(zap.String("run_id", runID))

	unlock, err := r.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	prev := r.Status()
	started := time.Now().Format(time.RFC3339)
	r.status.Store(Status{RunID: runID, LastRunAt: started, LastOkAt: prev.LastOkAt, Running: true})
	r.Hub.Publish(events.MakeEvent(runID, events.TypeCrawlStarted, 1, map[string]any{"job_types": jobTypes}))
	log.Info("crawl started", zap.Strings("job_types", jobTypes))

	o := &Orchestrator{
		Session: r.Session,
		List: &scrape.ListCrawler{
			BaseURL:  cfg.Crawl.BaseURL,
			Selector: cfg.Crawl.ListSelector,
			Timeout:  cfg.Crawl.ListTimeout(),
			MaxPages: cfg.Crawl.MaxPages,
			Limiter:  r.Limiter,
			Log:      log,
		},
		Detail: &scrape.DetailCrawler{
			Rules:   rules,
			Timeout: cfg.Crawl.DetailTimeout(),
			Limiter: r.Limiter,
			Log:     log,
		},
		Store:           r.Store,
		Workers:         cfg.Crawl.Workers,
		DefaultJobTypes: cfg.Crawl.DefaultJobTypes,
		Log:             log,
		OnRecord: func(rec domain.JobRecord) {
			r.Hub.Publish(events.MakeEvent(runID, events.TypeJobUpserted, 1, map[string]string{
				"link":     rec.Link,
				"job_type": rec.JobType,
				"title":    rec.Title,
			}))
		},
	}

	recs, err := o.CrawlAll(ctx, jobTypes)

	now := time.Now().Format(time.RFC3339)
	next := Status{RunID: runID, LastRunAt: started, LastOkAt: prev.LastOkAt, LastAdded: len(recs)}
	done := map[string]any{"added": len(recs)}
	if err != nil {
		next.LastError = err.Error()
		done["error"] = err.Error()
		log.Error("crawl finished with error", zap.Int("added", len(recs)), zap.Error(err))
	} else {
		next.LastOkAt = now
		log.Info("crawl finished", zap.Int("added", len(recs)))
	}
	r.status.Store(next)
	r.Hub.Publish(events.MakeEvent(runID, events.TypeCrawlFinished, 1, done))

	return recs, err
}

// Status describes the current or last run.
func (r *Runner) Status() Status {
	st, _ := r.status.Load().(Status)
	return st
}

func (r *Runner) lock(ctx context.Context) (func(), error) {
	if r.LockPath == "" {
		return func() {}, nil
	}
	fl := flock.New(r.LockPath)
	ok, err := fl.TryLockContext(ctx, lockRetry)
	if err != nil {
		return nil, fmt.Errorf("crawl lock %s: %w", r.LockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("crawl lock %s: not acquired", r.LockPath)
	}
	return func() { _ = fl.Unlock() }, nil
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}
