package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type CrawlHandler struct {
	Crawler Crawler
	Log     *zap.Logger
}

// Crawl runs a crawl synchronously and returns the stored records. Link-level
// failures only shrink the array; the response is still 200.
func (h CrawlHandler) Crawl(w http.ResponseWriter, r *http.Request) {
	var jobTypes []string
	if jt := strings.TrimSpace(r.URL.Query().Get("jobType")); jt != "" {
		jobTypes = []string{jt}
	}

	recs, err := h.Crawler.Run(r.Context(), jobTypes)
	if err != nil {
		if r.Context().Err() != nil {
			// client went away
			return
		}
		h.Log.Error("crawl failed", zap.Strings("job_types", jobTypes), zap.Error(err))
		WriteErr(w, r, err)
		return
	}
	writeJSON(w, recs)
}

func (h CrawlHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Crawler.Status())
}
