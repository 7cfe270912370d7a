package httpapi

import (
	"net/http"

	"github.com/KhuatDuy04/crawl/internal/search"
)

type JobsHandler struct {
	Searcher Searcher
}

// Search serves GET /job?page=&limit=&keyword=&location=&job_type=.
func (h JobsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q, err := search.ParseQuery(r.URL.Query())
	if err != nil {
		WriteErr(w, r, err)
		return
	}
	res, err := h.Searcher.Search(r.Context(), q)
	if err != nil {
		WriteErr(w, r, err)
		return
	}
	writeJSON(w, res)
}
