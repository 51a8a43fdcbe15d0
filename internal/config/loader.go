package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Loader reads a YAML config file and watches it for changes.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *Config
	onChange []func(*Config)
	watcher  *fsnotify.Watcher
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = cfg
	return l, nil
}

// Config returns the current (latest) configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the config reloads.
func (l *Loader) OnChange(fn func(*Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that hot-reloads the config on file
// changes. Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher add %s: %w", l.path, err)
	}
	l.watcher = w

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					cfg, err := l.load()
					if err != nil {
						// Keep serving the old config.
						continue
					}
					l.swap(cfg)
				}
			case <-w.Errors:
				// Ignore watcher errors.
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}

// Reload forces an immediate re-read of the config file.
func (l *Loader) Reload() (*Config, error) {
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.swap(cfg)
	return cfg, nil
}

func (l *Loader) swap(cfg *Config) {
	l.mu.Lock()
	l.current = cfg
	callbacks := make([]func(*Config), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
}

func (l *Loader) load() (*Config, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", l.path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", l.path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Generator.TickIntervalMs == 0 {
		cfg.Generator.TickIntervalMs = 1500
	}
	if len(cfg.Generator.AttackTypes) == 0 {
		cfg.Generator.AttackTypes = []string{"ddos", "bot", "bruteforce"}
	}
	if len(cfg.Generator.Locations) == 0 {
		cfg.Generator.Locations = DefaultLocations()
	}
	if cfg.Intel.BaseURL == "" {
		cfg.Intel.BaseURL = "https://api.abuseipdb.com/api/v2"
	}
	if cfg.Intel.TimeoutMs == 0 {
		cfg.Intel.TimeoutMs = 5000
	}
	if cfg.History.WarmWorkers == 0 {
		cfg.History.WarmWorkers = 4
	}
}

// DefaultLocations is the built-in country centroid list, used when the
// config does not supply one.
func DefaultLocations() []Location {
	return []Location{
		{Country: "US", Lat: 37.7749, Lng: -95.7129},
		{Country: "CN", Lat: 35.9042, Lng: 104.1954},
		{Country: "RU", Lat: 61.5240, Lng: 105.3188},
		{Country: "IN", Lat: 20.5937, Lng: 78.9629},
		{Country: "BR", Lat: -14.2350, Lng: -51.9253},
		{Country: "JP", Lat: 36.2048, Lng: 138.2529},
		{Country: "DE", Lat: 51.1657, Lng: 10.4515},
		{Country: "GB", Lat: 55.3781, Lng: -3.4360},
		{Country: "FR", Lat: 46.2276, Lng: 2.2137},
		{Country: "AU", Lat: -25.2744, Lng: 133.7751},
		{Country: "CA", Lat: 56.1304, Lng: -106.3468},
		{Country: "KR", Lat: 35.9078, Lng: 127.7669},
		{Country: "IT", Lat: 41.8719, Lng: 12.5674},
		{Country: "ES", Lat: 40.4637, Lng: -3.7492},
		{Country: "MX", Lat: 23.6345, Lng: -102.5528},
		{Country: "NL", Lat: 52.1326, Lng: 5.2913},
		{Country: "SE", Lat: 60.1282, Lng: 18.6435},
		{Country: "PL", Lat: 51.9194, Lng: 19.1451},
		{Country: "TR", Lat: 38.9637, Lng: 35.2433},
		{Country: "UA", Lat: 48.3794, Lng: 31.1656},
	}
}
