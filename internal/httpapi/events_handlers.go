package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/KhuatDuy04/crawl/internal/events"
)

type EventsHandler struct {
	Hub *events.Hub
	// KeepAlive is the interval between ping events; zero means 25s.
	KeepAlive time.Duration
}

func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "STREAM_UNSUPPORTED", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	keepAlive := h.KeepAlive
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	tick := time.NewTicker(keepAlive)
	defer tick.Stop()

	send := func(msg string) {
		fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
		flusher.Flush()
	}
	send(events.MakeEvent("", events.TypePing, 1, nil))

	for {
		select {
		case <-r.Context().Done():
			return
		case <-tick.C:
			send(events.MakeEvent("", events.TypePing, 1, nil))
		case msg, ok := <-ch:
			if !ok {
				return
			}
			send(msg)
		}
	}
}
