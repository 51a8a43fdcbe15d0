package api

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/threatmap-io/threatmap/internal/config"
	"github.com/threatmap-io/threatmap/internal/event"
	"github.com/threatmap-io/threatmap/internal/history"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	store  *history.Store
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(store *history.Store, loader *config.Loader) http.Handler {
	h := &Handler{store: store, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /events/stream", h.streamSSE)
	h.mux.HandleFunc("GET /events/ws", h.streamWS)
	h.mux.HandleFunc("GET /v1/history/dates", h.listDates)
	h.mux.HandleFunc("GET /v1/history/summary", h.getSummary)
	h.mux.HandleFunc("GET /v1/history/countries", h.getCountries)
	h.mux.HandleFunc("GET /v1/history/events", h.getEvents)
	h.mux.HandleFunc("POST /v1/history/fetch/{date}", h.refreshDate)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// GET /v1/history/dates — cached dates, newest first.
func (h *Handler) listDates(w http.ResponseWriter, r *http.Request) {
	dates := h.store.Dates()
	if dates == nil {
		dates = []string{}
	}
	writeJSON(w, http.StatusOK, dates)
}

// summaryResponse adds data provenance to the aggregate counts.
type summaryResponse struct {
	event.Summary
	Source string `json:"source"`
}

// GET /v1/history/summary?date=YYYY-MM-DD — aggregate counts for a date.
func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	summary, source, err := h.store.Summary(r.Context(), date)
	if err != nil {
		writeHistoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: summary, Source: source})
}

// GET /v1/history/countries?date=YYYY-MM-DD — per-country breakdown.
func (h *Handler) getCountries(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	stats, err := h.store.CountryStats(r.Context(), date)
	if err != nil {
		writeHistoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GET /v1/history/events?date=YYYY-MM-DD — full record list for a date.
func (h *Handler) getEvents(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	events, err := h.store.Events(r.Context(), date)
	if err != nil {
		writeHistoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// POST /v1/history/fetch/{date} — force a re-fetch for a date.
func (h *Handler) refreshDate(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	count, err := h.store.Refresh(r.Context(), date)
	if err != nil {
		writeHistoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "success",
		"date":           date,
		"events_fetched": count,
	})
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 200 once config is loaded (the store has no warm-up
// requirement; empty caches are valid).
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ready",
		"cached_dates": len(h.store.Dates()),
	})
}

func writeHistoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, history.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
	case errors.Is(err, history.ErrFutureDate):
		writeError(w, http.StatusBadRequest, "cannot fetch data for future dates")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
