package event

import (
	"fmt"
	"strings"
)

// Location is a named place on the globe.
type Location struct {
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Event is a single attack record, live or historical. Events are
// immutable once created.
type Event struct {
	ID         string   `json:"id"`
	Source     Location `json:"source"`
	Target     Location `json:"target"`
	Type       string   `json:"type"` // "ddos", "bot", "bruteforce"
	Severity   int      `json:"severity"`
	Confidence float64  `json:"confidence"`
	Timestamp  int64    `json:"timestamp"` // UNIX milliseconds
}

// Validate checks the record invariants: severity 1–5, coordinates in
// range, distinct source and target countries.
func (e *Event) Validate() error {
	var errs []string

	if e.ID == "" {
		errs = append(errs, "id is required")
	}
	if e.Type == "" {
		errs = append(errs, "type is required")
	}
	if e.Severity < 1 || e.Severity > 5 {
		errs = append(errs, fmt.Sprintf("severity %d out of range [1,5]", e.Severity))
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		errs = append(errs, fmt.Sprintf("confidence %.2f out of range [0,1]", e.Confidence))
	}
	if e.Source.Country == e.Target.Country {
		errs = append(errs, fmt.Sprintf("source and target are both %q", e.Source.Country))
	}
	for _, loc := range []struct {
		name string
		Location
	}{{"source", e.Source}, {"target", e.Target}} {
		if loc.Lat < -90 || loc.Lat > 90 {
			errs = append(errs, fmt.Sprintf("%s lat %.4f out of range [-90,90]", loc.name, loc.Lat))
		}
		if loc.Lng < -180 || loc.Lng > 180 {
			errs = append(errs, fmt.Sprintf("%s lng %.4f out of range [-180,180]", loc.name, loc.Lng))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid event: %s", strings.Join(errs, "; "))
	}
	return nil
}
