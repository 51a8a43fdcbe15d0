package event_test

import (
	"testing"

	"github.com/threatmap-io/threatmap/internal/event"
)

func validEvent() event.Event {
	return event.Event{
		ID:         "evt-1",
		Source:     event.Location{Country: "US", Lat: 37.7, Lng: -95.7},
		Target:     event.Location{Country: "DE", Lat: 51.1, Lng: 10.4},
		Type:       "ddos",
		Severity:   3,
		Confidence: 0.8,
		Timestamp:  1734825600000,
	}
}

func TestValidate_OK(t *testing.T) {
	ev := validEvent()
	if err := ev.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*event.Event)
	}{
		{"missing id", func(e *event.Event) { e.ID = "" }},
		{"missing type", func(e *event.Event) { e.Type = "" }},
		{"severity too low", func(e *event.Event) { e.Severity = 0 }},
		{"severity too high", func(e *event.Event) { e.Severity = 6 }},
		{"confidence negative", func(e *event.Event) { e.Confidence = -0.1 }},
		{"confidence above one", func(e *event.Event) { e.Confidence = 1.1 }},
		{"same country", func(e *event.Event) { e.Target.Country = e.Source.Country }},
		{"lat out of range", func(e *event.Event) { e.Source.Lat = 91 }},
		{"lng out of range", func(e *event.Event) { e.Target.Lng = -181 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev := validEvent()
			tc.mutate(&ev)
			if err := ev.Validate(); err == nil {
				t.Errorf("expected validation error, got nil")
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	events := []event.Event{
		{Source: event.Location{Country: "US"}, Type: "ddos", Severity: 5},
		{Source: event.Location{Country: "US"}, Type: "bot", Severity: 3},
		{Source: event.Location{Country: "RU"}, Type: "ddos", Severity: 4},
	}

	s := event.Summarize("2024-12-22", events)
	if s.Date != "2024-12-22" {
		t.Errorf("date = %q, want 2024-12-22", s.Date)
	}
	if s.TotalEvents != 3 {
		t.Errorf("total = %d, want 3", s.TotalEvents)
	}
	if s.EventsByCountry["US"] != 2 || s.EventsByCountry["RU"] != 1 {
		t.Errorf("events_by_country = %v", s.EventsByCountry)
	}
	if s.EventsByType["ddos"] != 2 || s.EventsByType["bot"] != 1 {
		t.Errorf("events_by_type = %v", s.EventsByType)
	}
	if got, want := s.AvgSeverity, 4.0; got != want {
		t.Errorf("avg_severity = %v, want %v", got, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := event.Summarize("2024-12-22", nil)
	if s.TotalEvents != 0 || s.AvgSeverity != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestByCountry_SortedByCount(t *testing.T) {
	events := []event.Event{
		{Source: event.Location{Country: "RU"}, Type: "ddos", Severity: 4},
		{Source: event.Location{Country: "US"}, Type: "ddos", Severity: 5},
		{Source: event.Location{Country: "US"}, Type: "bot", Severity: 1},
	}

	stats := event.ByCountry(events)
	if len(stats) != 2 {
		t.Fatalf("len(stats) = %d, want 2", len(stats))
	}
	if stats[0].Country != "US" || stats[0].TotalEvents != 2 {
		t.Errorf("stats[0] = %+v, want US with 2 events", stats[0])
	}
	if stats[0].AvgSeverity != 3.0 {
		t.Errorf("US avg severity = %v, want 3.0", stats[0].AvgSeverity)
	}
	if stats[0].AttackTypes["ddos"] != 1 || stats[0].AttackTypes["bot"] != 1 {
		t.Errorf("US attack types = %v", stats[0].AttackTypes)
	}
	if stats[1].Country != "RU" {
		t.Errorf("stats[1].Country = %q, want RU", stats[1].Country)
	}
}
