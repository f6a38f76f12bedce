package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/respawn/internal/progress"
	"github.com/go-chi/chi/v5"
)

// sseFrame is one server-sent event: the engine event type plus the
// display-ready report derived from its snapshot.
type sseFrame struct {
	Type   string          `json:"type"`
	Report progress.Report `json:"report"`
}

// handleSessionEvents streams session progress as server-sent events. The
// first frame carries the current state so late subscribers render right
// away; the stream ends when the session closes or the client disconnects.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := sess.Engine.Subscribe(16)
	writeFrame(w, flusher, sseFrame{
		Type:   "snapshot",
		Report: progress.FromSnapshot(sess.Engine.Plan(), sess.Engine.Snapshot()),
	})

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			writeFrame(w, flusher, sseFrame{
				Type:   string(ev.Type),
				Report: progress.FromSnapshot(sess.Engine.Plan(), ev.Snapshot),
			})
		case <-r.Context().Done():
			return
		}
	}
}

func writeFrame(w http.ResponseWriter, flusher http.Flusher, frame sseFrame) {
	data, _ := json.Marshal(frame)
	w.Write([]byte("data: "))
	w.Write(data)
	w.Write([]byte("\n\n"))
	flusher.Flush()
}
