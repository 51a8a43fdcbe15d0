// Package generator produces synthetic attack events for the live stream
// and the historical fallback path.
package generator

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/threatmap-io/threatmap/internal/config"
	"github.com/threatmap-io/threatmap/internal/event"
	"github.com/threatmap-io/threatmap/internal/metrics"
)

// coordJitter spreads events around a country centroid so arcs from the
// same country do not overlap on the globe.
const coordJitter = 1.0

// Generator produces one synthetic attack event per tick. It is not safe
// for concurrent use: every subscriber connection owns its own Generator
// (and therefore its own timeline), matching one generation loop per
// stream.
type Generator struct {
	rng       *rand.Rand
	locations []config.Location
	types     []string
	interval  time.Duration
	now       func() time.Time
	ids       io.Reader // nil = crypto/rand UUIDs
}

// New creates a Generator drawing from the given random source. Callers
// pass a seeded source so tests can reproduce exact sequences. Event IDs
// still come from crypto/rand.
func New(rng *rand.Rand, cfg config.GeneratorConf) *Generator {
	return &Generator{
		rng:       rng,
		locations: cfg.Locations,
		types:     cfg.AttackTypes,
		interval:  cfg.TickInterval(),
		now:       time.Now,
	}
}

// NewDeterministic is like New but also derives event IDs from rng, so a
// fixed seed reproduces the complete record set including identifiers.
// The historical synthetic fallback uses this to stay stable per date.
func NewDeterministic(rng *rand.Rand, cfg config.GeneratorConf) *Generator {
	g := New(rng, cfg)
	g.ids = rng
	return g
}

// Next returns a fresh event stamped with the current time.
func (g *Generator) Next() event.Event {
	return g.NextAt(g.now().UnixMilli())
}

// NextAt returns a fresh event stamped with the given UNIX-millisecond
// timestamp. Source and target countries are always distinct.
func (g *Generator) NextAt(ts int64) event.Event {
	source := g.locations[g.rng.Intn(len(g.locations))]
	target := g.locations[g.rng.Intn(len(g.locations))]
	for target.Country == source.Country {
		target = g.locations[g.rng.Intn(len(g.locations))]
	}

	// Draw 1–10 and collapse to the 1–5 scale.
	raw := g.rng.Intn(10) + 1
	severity := (raw + 1) / 2
	if severity < 1 {
		severity = 1
	} else if severity > 5 {
		severity = 5
	}

	ev := event.Event{
		ID:         g.newID(),
		Source:     g.jitter(source),
		Target:     g.jitter(target),
		Type:       g.types[g.rng.Intn(len(g.types))],
		Severity:   severity,
		Confidence: 0.5 + g.rng.Float64()*0.5,
		Timestamp:  ts,
	}
	metrics.EventsGenerated.Inc()
	return ev
}

// Run emits one event per tick until ctx is cancelled or emit fails
// (a failed emit means the subscriber is gone). The first event is emitted
// immediately so new subscribers see an arc without waiting a full tick.
func (g *Generator) Run(ctx context.Context, emit func(event.Event) error) error {
	if err := emit(g.Next()); err != nil {
		return err
	}

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := emit(g.Next()); err != nil {
				return err
			}
		}
	}
}

func (g *Generator) newID() string {
	if g.ids != nil {
		id, err := uuid.NewRandomFromReader(g.ids)
		if err == nil {
			return id.String()
		}
	}
	return uuid.New().String()
}

func (g *Generator) jitter(loc config.Location) event.Location {
	return event.Location{
		Country: loc.Country,
		Lat:     clamp(loc.Lat+(g.rng.Float64()*2-1)*coordJitter, -90, 90),
		Lng:     clamp(loc.Lng+(g.rng.Float64()*2-1)*coordJitter, -180, 180),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
