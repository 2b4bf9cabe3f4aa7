package shotfile

import "log/slog"

// Option configures Open and Create.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	maxSlots int
	tolerant bool
}

func defaultOptions() *options {
	return &options{
		logger:   slog.New(slog.DiscardHandler),
		maxSlots: DefaultMaxSlots,
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger that receives scan warnings and write events.
// By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxSlots bounds the number of header slots scanned.
func WithMaxSlots(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSlots = n
		}
	}
}

// WithTolerantReads makes Open accept a header table whose last slot is cut
// short by the end of the file: the partial slot is logged and dropped. Payload
// reads still fail with ErrShortRead when bytes are missing.
func WithTolerantReads(on bool) Option {
	return func(o *options) {
		o.tolerant = on
	}
}
