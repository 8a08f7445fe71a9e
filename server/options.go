package server

import hclog "github.com/hashicorp/go-hclog"

type options struct {
	logger hclog.Logger
}

// Option configures RunDirect/RunService.
type Option func(*options)

// WithLogger installs the hclog.Logger the runtime logs signal receipt,
// readiness, and drain activity to.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) *options {
	o := &options{logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
