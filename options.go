// Package fixedindex file: options.go

package fixedindex

import (
	"io"
	"log/slog"
)

const defaultDegree = 32

type options struct {
	degree int
	logger *slog.Logger
}

// Option configures stores and repos.
type Option func(*options)

// WithDegree sets the btree degree of the backing tree.
// Values below 2 are ignored.
func WithDegree(degree int) Option {
	return func(o *options) {
		if degree >= 2 {
			o.degree = degree
		}
	}
}

// WithLogger sets the logger used by Repo. Stores never log.
// If nil is passed, output is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{degree: defaultDegree}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
