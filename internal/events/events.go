package events

import (
	"encoding/json"
	"time"
)

// Event types published while crawling.
const (
	TypePing          = "ping"
	TypeCrawlStarted  = "crawl_started"
	TypeJobUpserted   = "job_upserted"
	TypeCrawlFinished = "crawl_finished"
)

type Event struct {
	Type    string          `json:"type"`
	Version int             `json:"v"`
	At      time.Time       `json:"at"`
	RunID   string          `json:"run_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// MakeEvent renders one SSE payload. runID ties it to a crawl run and may be
// empty.
func MakeEvent(runID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:    typ,
		Version: v,
		At:      time.Now().UTC(),
		RunID:   runID,
		Data:    raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
