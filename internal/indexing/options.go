package indexing

import "log/slog"

// StreamHook is called once per analyzed field with the tokenizer name and
// the number of tokens the stream emitted.
type StreamHook func(tokenizer string, tokens int)

// Options configures a Writer.
type Options struct {
	// MemoryLimit is the approximate buffer size in bytes at which the
	// writer stops accepting documents. Default: 64MB.
	MemoryLimit int64

	// MaxDocs is the document limit of the buffer. Default: 100,000.
	MaxDocs int

	// OnStream, if set, observes every token stream the writer consumes.
	OnStream StreamHook

	// Logger for writer events. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MemoryLimit: DefaultMemoryLimit,
		MaxDocs:     DefaultMaxDocs,
	}
}
