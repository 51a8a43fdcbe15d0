package history

import (
	"hash/fnv"
	"math/rand"

	"github.com/google/uuid"

	"github.com/threatmap-io/threatmap/internal/config"
	"github.com/threatmap-io/threatmap/internal/event"
	"github.com/threatmap-io/threatmap/internal/generator"
)

// Historical events are spread wider around the centroid than live ones so
// a day's worth of arcs does not stack on a single point.
const historicalJitter = 2.0

// synthesize produces the fallback record set for a date. The random
// source is seeded from the date string, so the same date always yields
// the same set (IDs included) for as long as the generator config is
// unchanged.
func synthesize(date string, genCfg config.GeneratorConf) []event.Event {
	rng := rand.New(rand.NewSource(dateSeed(date)))
	gen := generator.NewDeterministic(rng, genCfg)
	ts := midnightMillis(date)

	count := 30 + rng.Intn(51) // 30–80 events per day
	events := make([]event.Event, count)
	for i := range events {
		events[i] = gen.NextAt(ts)
	}
	return events
}

func dateSeed(date string) int64 {
	h := fnv.New64a()
	h.Write([]byte(date))
	return int64(h.Sum64())
}

func newID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func spread(rng *rand.Rand, loc config.Location) event.Location {
	lat := loc.Lat + (rng.Float64()*2-1)*historicalJitter
	lng := loc.Lng + (rng.Float64()*2-1)*historicalJitter
	if lat < -90 {
		lat = -90
	} else if lat > 90 {
		lat = 90
	}
	if lng < -180 {
		lng = -180
	} else if lng > 180 {
		lng = 180
	}
	return event.Location{Country: loc.Country, Lat: lat, Lng: lng}
}
