package config

import "time"

// Config is the top-level YAML structure.
type Config struct {
	Server    ServerConf    `yaml:"server"`
	Generator GeneratorConf `yaml:"generator"`
	Intel     IntelConf     `yaml:"intel"`
	History   HistoryConf   `yaml:"history"`
}

// ServerConf holds HTTP listener settings.
type ServerConf struct {
	Addr string `yaml:"addr"`
}

// GeneratorConf drives the live attack-event generator.
type GeneratorConf struct {
	TickIntervalMs int        `yaml:"tick_interval_ms"`
	AttackTypes    []string   `yaml:"attack_types"`
	Locations      []Location `yaml:"locations"`
}

// Location is a country centroid used for both live and historical events.
type Location struct {
	Country string  `yaml:"country"`
	Lat     float64 `yaml:"lat"`
	Lng     float64 `yaml:"lng"`
}

// IntelConf configures the external threat-intelligence source. An empty
// key leaves the fetcher unconfigured and the store on synthetic fallback.
type IntelConf struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// HistoryConf tunes the historical store.
type HistoryConf struct {
	WarmDays    int `yaml:"warm_days"`    // dates prefetched at startup
	WarmWorkers int `yaml:"warm_workers"` // concurrent prefetch fetches
}

// TickInterval returns the generator cadence as a duration.
func (g GeneratorConf) TickInterval() time.Duration {
	return time.Duration(g.TickIntervalMs) * time.Millisecond
}

// Timeout returns the fetch timeout as a duration.
func (i IntelConf) Timeout() time.Duration {
	return time.Duration(i.TimeoutMs) * time.Millisecond
}
