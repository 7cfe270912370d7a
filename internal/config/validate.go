package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"

	"github.com/KhuatDuy04/crawl/internal/domain"
	"github.com/KhuatDuy04/crawl/internal/scrape"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a cleaned copy of cfg and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" || seen[x] {
				continue
			}
			seen[x] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.App.Host = strings.TrimSpace(out.App.Host)
	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))
	out.Log.Format = strings.ToLower(strings.TrimSpace(out.Log.Format))
	out.Crawl.BaseURL = strings.TrimSpace(out.Crawl.BaseURL)
	out.Crawl.ListSelector = strings.TrimSpace(out.Crawl.ListSelector)
	out.Crawl.Schedule = strings.TrimSpace(out.Crawl.Schedule)
	out.Crawl.DefaultJobTypes = trimList(out.Crawl.DefaultJobTypes)
	if len(out.Crawl.DefaultJobTypes) == 0 {
		out.Crawl.DefaultJobTypes = append([]string(nil), domain.DefaultJobTypes...)
	}

	// ---- app / log ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if _, err := zapcore.ParseLevel(out.Log.Level); err != nil {
		res.addErr("log.level %q is not a level (debug, info, warn, error)", out.Log.Level)
	}
	if out.Log.Format != "json" && out.Log.Format != "console" {
		res.addErr("log.format must be json or console")
	}

	// ---- crawl ----

	if u, err := url.Parse(out.Crawl.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		res.addErr("crawl.base_url must be an absolute http(s) URL")
	}
	if _, err := cascadia.Compile(out.Crawl.ListSelector); err != nil {
		res.addErr("crawl.list_selector: %v", err)
	}
	if out.Crawl.ListTimeoutMS <= 0 {
		res.addErr("crawl.list_timeout_ms must be > 0")
	}
	if out.Crawl.DetailTimeoutMS <= 0 {
		res.addErr("crawl.detail_timeout_ms must be > 0")
	}
	if out.Crawl.MaxPages <= 0 {
		res.addErr("crawl.max_pages must be > 0")
	} else if out.Crawl.MaxPages > scrape.DefaultMaxPages {
		res.addErr("crawl.max_pages must be <= %d", scrape.DefaultMaxPages)
	}
	if out.Crawl.Workers <= 0 {
		res.addErr("crawl.workers must be > 0")
	} else if out.Crawl.Workers > 16 {
		res.addWarn("crawl.workers is %d; the site may throttle that many browser tabs.", out.Crawl.Workers)
	}
	if out.Crawl.RatePerSec < 0 {
		res.addErr("crawl.rate_per_sec must be >= 0")
	} else if out.Crawl.RatePerSec == 0 {
		res.addWarn("crawl.rate_per_sec is 0; navigations are not rate limited.")
	}
	if out.Crawl.Burst <= 0 {
		res.addErr("crawl.burst must be > 0")
	}
	if out.Crawl.Schedule != "" {
		if _, err := cron.ParseStandard(out.Crawl.Schedule); err != nil {
			res.addErr("crawl.schedule: %v", err)
		}
	}

	// ---- extraction ----

	rules, err := out.Rules()
	if err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			res.addErr("extraction: %s", line)
		}
	} else if n := len(rules.Fields()); n < len(domain.FieldSetters) {
		res.addWarn("extraction covers %d of %d fields; the rest are always empty.", n, len(domain.FieldSetters))
	}

	return out, res
}
