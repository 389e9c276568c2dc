package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/layergraph/pkg/domain"
)

// pingInterval keeps idle connections open through proxies.
var pingInterval = 15 * time.Second

// SubscribeEvents handles GET /documents/{id}/events as a Server-Sent Events
// stream of the document's mutations. Slow clients lose events rather than
// stall the store.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	doc, ok := s.open(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	events := make(chan domain.MutationEvent, 64)
	cancel := s.Editor.Subscribe(func(docID string, ev domain.MutationEvent) {
		if docID != doc.ID {
			return
		}
		select {
		case events <- ev:
		default:
		}
	})
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "event: ping\ndata: %s\n\n", id)
	flusher.Flush()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprintf(w, "event: ping\ndata: %s\n\n", id)
			flusher.Flush()
		case ev := <-events:
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Error("event encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		}
	}
}
