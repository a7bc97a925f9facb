package sweeper

import (
	"time"

	"github.com/AbdelrahmanM1/invoicemaker/internal/config"
)

// Config controls the preview sweep loop.
type Config struct {
	Interval time.Duration
	Timeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Interval: time.Hour,
		Timeout:  30 * time.Second,
	}
}

// ConfigFromApp derives the sweep schedule from service configuration.
func ConfigFromApp(cfg config.Config) Config {
	return Config{Interval: cfg.PreviewSweepInterval}.withDefaults()
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Interval <= 0 {
		c.Interval = defaults.Interval
	}
	if c.Timeout <= 0 {
		c.Timeout = defaults.Timeout
	}
	return c
}
