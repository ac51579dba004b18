package outbound

import (
	"log/slog"
	"time"
)

// DispatcherOption is a functional option for configuring a Dispatcher
type DispatcherOption func(*dispatcherOptions)

type dispatcherOptions struct {
	interval    time.Duration
	batchSize   int
	sendTimeout time.Duration
	logger      *slog.Logger
}

// WithDispatchInterval sets how often the dispatcher scans for eligible messages
func WithDispatchInterval(d time.Duration) DispatcherOption {
	return func(o *dispatcherOptions) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithBatchSize sets how many messages are dispatched concurrently per cycle
func WithBatchSize(n int) DispatcherOption {
	return func(o *dispatcherOptions) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithSendTimeout bounds each transport call. Zero disables the bound, in
// which case a hung transport call occupies its batch slot indefinitely.
func WithSendTimeout(d time.Duration) DispatcherOption {
	return func(o *dispatcherOptions) {
		if d > 0 {
			o.sendTimeout = d
		}
	}
}

// WithLogger sets the logger for the dispatcher
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(o *dispatcherOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConfig applies the environment-backed configuration in one step.
func WithConfig(cfg Config) DispatcherOption {
	return func(o *dispatcherOptions) {
		if cfg.DispatchInterval > 0 {
			o.interval = cfg.DispatchInterval
		}
		if cfg.BatchSize > 0 {
			o.batchSize = cfg.BatchSize
		}
		if cfg.SendTimeout > 0 {
			o.sendTimeout = cfg.SendTimeout
		}
	}
}
