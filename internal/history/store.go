// Package history caches attack-event lists keyed by calendar date. Each
// date is populated once, either from the external intel source or from
// the deterministic synthetic fallback, and then served from memory until
// the process restarts.
package history

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/threatmap-io/threatmap/internal/config"
	"github.com/threatmap-io/threatmap/internal/event"
	"github.com/threatmap-io/threatmap/internal/intel"
	"github.com/threatmap-io/threatmap/internal/metrics"
)

// DateLayout is the wire format for history dates.
const DateLayout = "2006-01-02"

// Source values recorded on each cache entry.
const (
	SourceIntel     = "abuseipdb"
	SourceSynthetic = "synthetic"
)

var (
	// ErrInvalidDate is returned for strings that do not parse as real
	// calendar dates. No fetch is attempted for them.
	ErrInvalidDate = errors.New("history: invalid date, want YYYY-MM-DD")

	// ErrFutureDate is returned when a refresh is requested for a date
	// that has not happened yet.
	ErrFutureDate = errors.New("history: cannot fetch a future date")
)

// Fetcher is the external intel source. *intel.Client satisfies it; tests
// substitute fakes.
type Fetcher interface {
	Blacklist(ctx context.Context, confidenceMin, limit int) ([]intel.Report, error)
}

// Entry is the cached data for one date: the record list plus the derived
// aggregates, computed once at fetch time.
type Entry struct {
	Date      string
	Source    string
	Events    []event.Event
	Summary   event.Summary
	Countries []event.CountryStats
	FetchedAt time.Time
}

type call struct {
	done  chan struct{}
	entry *Entry
}

// Store is the date-keyed cache. Construct one per process and inject it
// into the HTTP handlers.
type Store struct {
	fetcher Fetcher
	now     func() time.Time

	mu       sync.RWMutex
	genCfg   config.GeneratorConf
	entries  map[string]*Entry
	inflight map[string]*call
}

// NewStore creates a Store backed by the given fetcher. The generator
// config supplies the location and attack-type pools used when mapping
// intel reports and when synthesizing fallback data.
func NewStore(fetcher Fetcher, genCfg config.GeneratorConf) *Store {
	return &Store{
		fetcher:  fetcher,
		now:      time.Now,
		genCfg:   genCfg,
		entries:  make(map[string]*Entry),
		inflight: make(map[string]*call),
	}
}

// SetGeneratorConf swaps the location/attack-type pools (used on config
// hot-reload). Already-cached entries are not rewritten.
func (s *Store) SetGeneratorConf(cfg config.GeneratorConf) {
	s.mu.Lock()
	s.genCfg = cfg
	s.mu.Unlock()
}

// Dates returns every cached date, newest first.
func (s *Store) Dates() []string {
	s.mu.RLock()
	dates := make([]string, 0, len(s.entries))
	for d := range s.entries {
		dates = append(dates, d)
	}
	s.mu.RUnlock()

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// Events returns the record list for date, fetching on first request.
func (s *Store) Events(ctx context.Context, date string) ([]event.Event, error) {
	e, err := s.lookup(ctx, date)
	if err != nil {
		return nil, err
	}
	return e.Events, nil
}

// Summary returns the aggregate counts for date, fetching on first request.
func (s *Store) Summary(ctx context.Context, date string) (event.Summary, string, error) {
	e, err := s.lookup(ctx, date)
	if err != nil {
		return event.Summary{}, "", err
	}
	return e.Summary, e.Source, nil
}

// CountryStats returns the per-country breakdown for date.
func (s *Store) CountryStats(ctx context.Context, date string) ([]event.CountryStats, error) {
	e, err := s.lookup(ctx, date)
	if err != nil {
		return nil, err
	}
	return e.Countries, nil
}

// Refresh unconditionally re-fetches date, replaces the cached entry, and
// returns the new event count. Future dates are rejected.
func (s *Store) Refresh(ctx context.Context, date string) (int, error) {
	day, err := parseDate(date)
	if err != nil {
		return 0, err
	}
	if day.After(s.now()) {
		return 0, ErrFutureDate
	}

	e, err := s.fetch(ctx, date, true)
	if err != nil {
		return 0, err
	}
	return len(e.Events), nil
}

func (s *Store) lookup(ctx context.Context, date string) (*Entry, error) {
	if _, err := parseDate(date); err != nil {
		return nil, err
	}

	s.mu.RLock()
	e, ok := s.entries[date]
	s.mu.RUnlock()
	if ok {
		metrics.HistoryCacheHits.Inc()
		return e, nil
	}

	metrics.HistoryCacheMisses.Inc()
	return s.fetch(ctx, date, false)
}

// fetch populates the entry for date. Concurrent calls for the same date
// collapse onto one in-flight fetch; every caller receives the entry that
// fetch produced. Distinct dates proceed independently.
func (s *Store) fetch(ctx context.Context, date string, force bool) (*Entry, error) {
	s.mu.Lock()
	if !force {
		if e, ok := s.entries[date]; ok {
			s.mu.Unlock()
			return e, nil
		}
	}
	if c, ok := s.inflight[date]; ok {
		s.mu.Unlock()
		select {
		case <-c.done:
			return c.entry, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c := &call{done: make(chan struct{})}
	s.inflight[date] = c
	genCfg := s.genCfg
	s.mu.Unlock()

	entry := s.fetchOrSynthesize(ctx, date, genCfg)

	s.mu.Lock()
	s.entries[date] = entry
	delete(s.inflight, date)
	s.mu.Unlock()

	c.entry = entry
	close(c.done)
	return entry, nil
}

// fetchOrSynthesize never fails: any fetch problem, including a missing
// API key or an empty result, degrades to the synthetic fallback.
func (s *Store) fetchOrSynthesize(ctx context.Context, date string, genCfg config.GeneratorConf) *Entry {
	start := s.now()
	defer func() {
		metrics.FetchDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	reports, err := s.fetcher.Blacklist(ctx, 50, 100)
	if err != nil || len(reports) == 0 {
		if err != nil {
			metrics.IntelFetchFailures.Inc()
		}
		return s.newEntry(date, SourceSynthetic, synthesize(date, genCfg))
	}
	return s.newEntry(date, SourceIntel, s.mapReports(reports, date, genCfg))
}

func (s *Store) newEntry(date, source string, events []event.Event) *Entry {
	return &Entry{
		Date:      date,
		Source:    source,
		Events:    events,
		Summary:   event.Summarize(date, events),
		Countries: event.ByCountry(events),
		FetchedAt: s.now(),
	}
}

// mapReports turns provider blacklist records into attack events placed at
// country centroids. Unknown source countries fall back to the first
// configured location; targets are drawn at random from the rest.
func (s *Store) mapReports(reports []intel.Report, date string, genCfg config.GeneratorConf) []event.Event {
	byCountry := make(map[string]config.Location, len(genCfg.Locations))
	for _, loc := range genCfg.Locations {
		byCountry[loc.Country] = loc
	}
	ts := midnightMillis(date)
	rng := rand.New(rand.NewSource(s.now().UnixNano()))

	events := make([]event.Event, 0, len(reports))
	for _, rep := range reports {
		src, ok := byCountry[rep.CountryCode]
		if !ok {
			src = genCfg.Locations[0]
		}
		dst := genCfg.Locations[rng.Intn(len(genCfg.Locations))]
		for dst.Country == src.Country {
			dst = genCfg.Locations[rng.Intn(len(genCfg.Locations))]
		}

		events = append(events, event.Event{
			ID:         newID(rng),
			Source:     spread(rng, src),
			Target:     spread(rng, dst),
			Type:       intel.TypeFor(rep.Categories),
			Severity:   intel.SeverityFor(rep.AbuseConfidenceScore, rep.TotalReports),
			Confidence: float64(rep.AbuseConfidenceScore) / 100.0,
			Timestamp:  ts,
		})
	}
	return events
}

func parseDate(date string) (time.Time, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return day, nil
}

func midnightMillis(date string) int64 {
	day, _ := time.Parse(DateLayout, date)
	return day.UnixMilli()
}
