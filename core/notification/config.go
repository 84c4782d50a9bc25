package notification

import "time"

// Config controls the orchestrator's pacing. The defaults match live-overlay
// usage: a fast tick while a job is playing, a slow tick while idle, a short
// cosmetic gap between consecutive notifications and a floor on how long any
// notification stays up.
type Config struct {
	BusyInterval  time.Duration `env:"NOTIFIER_BUSY_INTERVAL" envDefault:"10ms"`
	IdleInterval  time.Duration `env:"NOTIFIER_IDLE_INTERVAL" envDefault:"500ms"`
	CooldownDelay time.Duration `env:"NOTIFIER_COOLDOWN" envDefault:"500ms"`
	MinDisplay    time.Duration `env:"NOTIFIER_MIN_DISPLAY" envDefault:"1500ms"`
	HistoryLimit  int           `env:"NOTIFIER_HISTORY_LIMIT" envDefault:"20"`

	// ResourceDir is where sound and video references are checked for
	// existence before being announced. Empty disables the check and every
	// reference is assumed playable.
	ResourceDir string `env:"NOTIFIER_RESOURCE_DIR"`
}

// DefaultConfig returns the stock pacing configuration.
func DefaultConfig() Config {
	return Config{
		BusyInterval:  10 * time.Millisecond,
		IdleInterval:  500 * time.Millisecond,
		CooldownDelay: 500 * time.Millisecond,
		MinDisplay:    1500 * time.Millisecond,
		HistoryLimit:  20,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BusyInterval <= 0 {
		c.BusyInterval = def.BusyInterval
	}
	if c.IdleInterval <= 0 {
		c.IdleInterval = def.IdleInterval
	}
	if c.CooldownDelay <= 0 {
		c.CooldownDelay = def.CooldownDelay
	}
	if c.MinDisplay <= 0 {
		c.MinDisplay = def.MinDisplay
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = def.HistoryLimit
	}
	return c
}
