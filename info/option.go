package info

import "log/slog"

type Option func(*options)

type options struct {
	summaries bool
	logger    *slog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{summaries: true}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithSummaries controls whether destination fields and summaries are computed eagerly.
// Disable it when only operations or field queries are needed; views are then computed on first access.
func WithSummaries(enabled bool) Option {
	return func(o *options) {
		o.summaries = enabled
	}
}

// WithLogger sets the logger used for tracing received operations and validation failures
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
