package limiter

import "log/slog"

type options struct {
	clock  Clock
	logger *slog.Logger
	name   string
}

// Option configures a Debouncer or Throttler.
type Option func(*options)

// WithClock sets the clock. Defaults to RealClock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName labels the limiter in log records.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func buildOptions(kind string, opts []Option) options {
	o := options{
		clock:  RealClock,
		logger: slog.Default(),
		name:   kind,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With("limiter", o.name, "policy", kind)
	return o
}
