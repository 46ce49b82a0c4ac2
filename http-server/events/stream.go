package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"printdesk/internal/events"
)

type EventSource interface {
	Subscribe() (<-chan events.TicketEvent, func())
}

// StreamTicketEvents is the SSE feed of ticket.status.changed events.
// Clients use it only as a reload trigger; the event body carries
// identifiers, not ticket state.
func StreamTicketEvents(log *slog.Logger, source EventSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.events.StreamTicketEvents"

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		flusher.Flush()

		ch, unsubscribe := source.Subscribe()
		defer unsubscribe()

		for {
			select {
			case <-r.Context().Done():
				return
			case ev, open := <-ch:
				if !open {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					log.Error("failed to encode event", slog.String("op", op), slog.String("error", err.Error()))
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
				flusher.Flush()
			}
		}
	}
}
