package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// NewMux wires every route. Middleware is applied by the caller with Chain.
func NewMux(d Deps) *http.ServeMux {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	mux := http.NewServeMux()

	hh := HealthHandler{Crawler: d.Crawler, Hub: d.Hub}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Crawl
	crh := CrawlHandler{Crawler: d.Crawler, Log: d.Log}
	mux.HandleFunc("/crawl", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: crh.Crawl,
	}))
	mux.HandleFunc("/crawl/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: crh.Status,
	}))

	// Search
	jh := JobsHandler{Searcher: d.Searcher}
	mux.HandleFunc("/job", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Search,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Log:         d.Log,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
