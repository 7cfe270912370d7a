package httpapi

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/KhuatDuy04/crawl/internal/config"
	"github.com/KhuatDuy04/crawl/internal/crawl"
	"github.com/KhuatDuy04/crawl/internal/domain"
	"github.com/KhuatDuy04/crawl/internal/events"
	"github.com/KhuatDuy04/crawl/internal/search"
)

// Crawler runs crawls on demand. *crawl.Runner implements it.
type Crawler interface {
	Run(ctx context.Context, jobTypes []string) ([]domain.JobRecord, error)
	Status() crawl.Status
}

// Searcher answers paged job queries. search.Engine implements it.
type Searcher interface {
	Search(ctx context.Context, q search.Query) (search.Result, error)
}

type Deps struct {
	Crawler  Crawler
	Searcher Searcher
	Hub      *events.Hub

	// CfgVal holds the live config.Config.
	CfgVal *atomic.Value

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Log *zap.Logger
}
