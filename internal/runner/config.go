package runner

import "time"

// QueueConfig is the runner's per-queue processing policy.
type QueueConfig struct {
	// Enabled gates the queue into tick processing.
	Enabled bool `json:"enabled"`
	// Priority orders queues within a tick; lower runs first.
	Priority int `json:"priority"`
	// MaxConcurrentMatches caps matches committed per tick for this queue.
	MaxConcurrentMatches int `json:"maxConcurrentMatches"`
}

// Config drives the periodic matchmaking loop.
type Config struct {
	// TickInterval is the period between matchmaking passes.
	TickInterval time.Duration `json:"tickInterval"`
	// MaxMatchesPerTick is the global per-tick budget across all queues.
	MaxMatchesPerTick int `json:"maxMatchesPerTick"`
	// AutoDispatch drives new lobbies straight through to Dispatched.
	AutoDispatch bool `json:"autoDispatch"`
	// QueueConfigs maps queue name to its processing policy.
	QueueConfigs map[string]QueueConfig `json:"queueConfigs"`
}

// DefaultConfig ticks every second with a 1000-match budget.
func DefaultConfig() Config {
	return Config{
		TickInterval:      time.Second,
		MaxMatchesPerTick: 1000,
		AutoDispatch:      true,
		QueueConfigs:      make(map[string]QueueConfig),
	}
}

// FastConfig halves the tick interval, for latency-sensitive deployments.
func FastConfig() Config {
	cfg := DefaultConfig()
	cfg.TickInterval = 500 * time.Millisecond
	return cfg
}

// SlowConfig ticks every five seconds, for low-traffic queues.
func SlowConfig() Config {
	cfg := DefaultConfig()
	cfg.TickInterval = 5 * time.Second
	return cfg
}
