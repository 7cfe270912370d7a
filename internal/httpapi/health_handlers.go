package httpapi

import (
	"net/http"

	"github.com/KhuatDuy04/crawl/internal/events"
)

type HealthHandler struct {
	Crawler Crawler
	Hub     *events.Hub
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"ok": true}
	if h.Crawler != nil {
		out["crawl_running"] = h.Crawler.Status().Running
	}
	if h.Hub != nil {
		out["subscribers"] = h.Hub.Subscribers()
	}
	writeJSON(w, out)
}
