package xmpmeta

import "log/slog"

// Option configures how stores are built and files are opened.
//
// Options use the functional options pattern and are accepted by New,
// Parse and Open alike.
//
// Example:
//
//	file, err := xmpmeta.Open("clip.mp4", xmpmeta.ModeRead,
//	    xmpmeta.WithStrictParsing(),
//	    xmpmeta.WithLogger(slog.Default()),
//	)
type Option func(*openOptions)

// openOptions holds configuration shared by stores and files.
type openOptions struct {
	logger   *slog.Logger
	registry *Registry
	strict   bool // Reject packets with RDF forms the parser skips
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		logger:   slog.New(slog.DiscardHandler),
		registry: DefaultRegistry(),
	}
}

func applyOptions(opts []Option) *openOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger routes debug records about opening, committing and
// closing files to logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRegistry resolves namespace keys through reg instead of the
// built-in table.
//
// Example:
//
//	reg := xmpmeta.NewRegistry([]xmpmeta.NamespaceEntry{
//	    {Key: "acme", Prefix: "acme", URI: "http://acme.example/ns/1.0/"},
//	}, nil)
//	store := xmpmeta.New(xmpmeta.WithRegistry(reg))
func WithRegistry(reg *Registry) Option {
	return func(o *openOptions) {
		if reg != nil {
			o.registry = reg
		}
	}
}

// WithStrictParsing treats any RDF form the parser would skip as a
// fatal error.
//
// By default, unrecognised constructs (typed nodes, literal parse
// types, duplicate properties) are skipped and reported through
// Store.Warnings. With strict parsing the packet is rejected instead.
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strict = true
	}
}
