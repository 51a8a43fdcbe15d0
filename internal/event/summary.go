package event

import "sort"

// Summary holds the per-date aggregates served by the history API.
type Summary struct {
	Date            string         `json:"date"`
	TotalEvents     int            `json:"total_events"`
	EventsByCountry map[string]int `json:"events_by_country"`
	EventsByType    map[string]int `json:"events_by_type"`
	AvgSeverity     float64        `json:"avg_severity"`
}

// CountryStats is the per-country breakdown for a single date.
type CountryStats struct {
	Country     string         `json:"country"`
	TotalEvents int            `json:"total_events"`
	AvgSeverity float64        `json:"avg_severity"`
	AttackTypes map[string]int `json:"attack_types"`
}

// Summarize aggregates a record list into the date summary. Countries are
// counted by attack source.
func Summarize(date string, events []Event) Summary {
	s := Summary{
		Date:            date,
		TotalEvents:     len(events),
		EventsByCountry: make(map[string]int),
		EventsByType:    make(map[string]int),
	}

	total := 0
	for _, ev := range events {
		s.EventsByCountry[ev.Source.Country]++
		s.EventsByType[ev.Type]++
		total += ev.Severity
	}
	if len(events) > 0 {
		s.AvgSeverity = float64(total) / float64(len(events))
	}
	return s
}

// ByCountry returns per-country stats sorted by event count, descending.
func ByCountry(events []Event) []CountryStats {
	type acc struct {
		count    int
		severity int
		types    map[string]int
	}
	byCountry := make(map[string]*acc)

	for _, ev := range events {
		a := byCountry[ev.Source.Country]
		if a == nil {
			a = &acc{types: make(map[string]int)}
			byCountry[ev.Source.Country] = a
		}
		a.count++
		a.severity += ev.Severity
		a.types[ev.Type]++
	}

	stats := make([]CountryStats, 0, len(byCountry))
	for country, a := range byCountry {
		stats = append(stats, CountryStats{
			Country:     country,
			TotalEvents: a.count,
			AvgSeverity: float64(a.severity) / float64(a.count),
			AttackTypes: a.types,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalEvents != stats[j].TotalEvents {
			return stats[i].TotalEvents > stats[j].TotalEvents
		}
		return stats[i].Country < stats[j].Country
	})
	return stats
}
