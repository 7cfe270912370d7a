// Package search answers filtered, paginated queries over stored jobs.
package search

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/KhuatDuy04/crawl/internal/domain"
	"github.com/KhuatDuy04/crawl/internal/errs"
	"github.com/KhuatDuy04/crawl/internal/store"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type Query struct {
	Page     int
	Limit    int
	Keyword  string
	Location string
	JobType  string
}

type Result struct {
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
	Data       []domain.JobRecord `json:"data"`
}

// Store is the part of store.DB the engine reads from.
type Store interface {
	FindJobs(ctx context.Context, f store.Filter, skip, take int) ([]domain.JobRecord, error)
	CountJobs(ctx context.Context, f store.Filter) (int, error)
}

type Engine struct {
	Store Store
}

// ParseQuery reads page, limit, keyword, location and job_type. Missing or
// empty values take their defaults; anything else that is not a positive
// integer is rejected.
func ParseQuery(v url.Values) (Query, error) {
	page, err := positiveInt(v, "page", DefaultPage)
	if err != nil {
		return Query{}, err
	}
	limit, err := positiveInt(v, "limit", DefaultLimit)
	if err != nil {
		return Query{}, err
	}
	q := Query{
		Page:     page,
		Limit:    limit,
		Keyword:  v.Get("keyword"),
		Location: v.Get("location"),
		JobType:  v.Get("job_type"),
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

func positiveInt(v url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.InvalidInput(fmt.Sprintf("%s must be an integer", key), err)
	}
	if n < 1 {
		return 0, errs.InvalidInput(fmt.Sprintf("%s must be >= 1", key), nil)
	}
	return n, nil
}

// Filter is the store predicate for q.
func (q Query) Filter() store.Filter {
	return store.Filter{
		Keyword:  q.Keyword,
		Location: q.Location,
		JobType:  q.JobType,
	}
}

// Validate rejects pages and limits below one, and pages whose offset
// does not fit in an int.
func (q Query) Validate() error {
	if q.Page < 1 {
		return errs.InvalidInput("page must be >= 1", nil)
	}
	if q.Limit < 1 {
		return errs.InvalidInput("limit must be >= 1", nil)
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return errs.InvalidInput("page is out of range", nil)
	}
	return nil
}

// Search returns page q.Page of the jobs matching q. Data is never nil.
func (e Engine) Search(ctx context.Context, q Query) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, err
	}
	f := q.Filter()

	data, err := e.Store.FindJobs(ctx, f, (q.Page-1)*q.Limit, q.Limit)
	if err != nil {
		return Result{}, errs.Internal("find jobs", err)
	}
	total, err := e.Store.CountJobs(ctx, f)
	if err != nil {
		return Result{}, errs.Internal("count jobs", err)
	}
	if data == nil {
		data = []domain.JobRecord{}
	}

	return Result{
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: TotalPages(total, q.Limit),
		Data:       data,
	}, nil
}

// TotalPages is ceil(total/limit); zero when there is nothing to show.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
