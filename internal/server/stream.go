package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"brk-portal/internal/countdown"
	"brk-portal/internal/logger"
)

// streamCountdown sends countdown snapshots as server-sent events until the
// countdown ends or the client goes away.
func (s *Server) streamCountdown(w http.ResponseWriter, r *http.Request) {
	cal, err := s.portal.Calendar(r.Context(), mux.Vars(r)["slug"], r.URL.Query().Get("season"), "")
	if notFoundOr(w, r, err, fallbackChampionships) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		fail(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	// unbuffered: every snapshot is written before Run can return
	snaps := make(chan countdown.Snapshot)
	done := make(chan error, 1)
	go func() { done <- s.Engine.Run(ctx, cal.Events, 0, snaps) }()

	for {
		select {
		case snap := <-snaps:
			b, err := json.Marshal(snap)
			if err != nil {
				logger.Error("countdown stream: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: countdown\ndata: %s\n\n", b)
			flusher.Flush()
		case err := <-done:
			if err != nil && ctx.Err() == nil {
				logger.Warning("countdown stream: %v", err)
			}
			return
		}
	}
}
