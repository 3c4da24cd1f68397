package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/logger"
)

// StreamQuotes pushes the filtered quote list as server-sent events, once on
// connect and again after every write. A slow client only sees the latest
// list.
func (h *handler) StreamQuotes(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "streaming unsupported",
		})
		return
	}

	ctx := r.Context()
	updates := make(chan []model.Quote, 1)
	push := func(quotes []model.Quote) {
		for {
			select {
			case updates <- quotes:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	}

	unsubscribe, err := h.svc.Subscribe(ctx, listParams(r), push)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case quotes := <-updates:
			data, err := json.Marshal(quotesToDTO(quotes))
			if err != nil {
				logger.Error(ctx, "encode quote list", logger.ErrorF(err))
				continue
			}
			fmt.Fprintf(w, "event: quotes\ndata: %s\n\n", data)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
