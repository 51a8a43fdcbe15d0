package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/threatmap-io/threatmap/internal/event"
	"github.com/threatmap-io/threatmap/internal/generator"
	"github.com/threatmap-io/threatmap/internal/metrics"
)

// GET /events/stream — server-sent events. Each subscriber gets its own
// generator and timeline; the loop stops as soon as the client goes away.
func (h *Handler) streamSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	metrics.StreamClients.WithLabelValues("sse").Inc()
	defer metrics.StreamClients.WithLabelValues("sse").Dec()
	slog.Info("stream subscriber connected", "transport", "sse", "remote", r.RemoteAddr)

	gen := h.newGenerator()
	err := gen.Run(r.Context(), func(ev event.Event) error {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: attack\ndata: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	if err != nil && !errors.Is(err, r.Context().Err()) {
		slog.Debug("stream ended", "transport", "sse", "err", err)
	}
	slog.Info("stream subscriber disconnected", "transport", "sse", "remote", r.RemoteAddr)
}

// newGenerator builds a per-connection generator from the latest config,
// so a hot-reload applies to the next subscriber.
func (h *Handler) newGenerator() *generator.Generator {
	cfg := h.loader.Config().Generator
	return generator.New(rand.New(rand.NewSource(time.Now().UnixNano())), cfg)
}
