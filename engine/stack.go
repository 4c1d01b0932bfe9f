package engine

import (
	"log/slog"

	"github.com/use-agent/preview/config"
)

// NewFromConfig builds the dispatcher used by the binaries: the plain HTTP
// engine first, then the Chrome TLS engine when enabled and available. Call
// Close when done.
func NewFromConfig(cfg config.FetchConfig) *Dispatcher {
	opts := []Option{
		WithUserAgent(cfg.UserAgent),
		WithMaxBodyBytes(cfg.MaxBodyBytes),
	}

	engines := []Engine{NewHTTPEngine(opts...)}
	if cfg.ChromeTLS {
		chrome, err := NewChromeEngine(opts...)
		if err != nil {
			slog.Warn("chrome tls engine disabled", "error", err)
		} else {
			engines = append(engines, chrome)
		}
	}

	return NewDispatcher(engines, cfg.EscalationDelays, NewDomainMemory(cfg.MemoryTTL))
}
