package zipstream

import (
	"log/slog"
	"time"
)

// config holds archive-wide settings resolved at construction.
type config struct {
	method      Method
	comment     string
	modTime     time.Time
	contentType string
	output      Sink
	logger      *slog.Logger
	progress    ProgressFunc
}

// Option configures an Archive.
type Option func(*config)

// WithMethod sets the default compression method for members that do
// not override it. The default is MethodDeflate.
func WithMethod(m Method) Option {
	return func(cfg *config) {
		cfg.method = m
	}
}

// WithComment sets the archive comment, at most 65534 bytes.
func WithComment(comment string) Option {
	return func(cfg *config) {
		cfg.comment = comment
	}
}

// WithModTime sets the default timestamp for members that do not carry
// their own. The default is the wall clock at construction.
func WithModTime(t time.Time) Option {
	return func(cfg *config) {
		cfg.modTime = t
	}
}

// WithContentType sets the MIME type forwarded to the sink. The
// default is "application/zip".
func WithContentType(mimeType string) Option {
	return func(cfg *config) {
		cfg.contentType = mimeType
	}
}

// WithOutput sets the destination sink. The default streams to
// standard output.
func WithOutput(s Sink) Option {
	return func(cfg *config) {
		cfg.output = s
	}
}

// WithLogger sets the logger for archive lifecycle events. Logging is
// disabled by default.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithProgress registers a callback for emission milestones.
func WithProgress(fn ProgressFunc) Option {
	return func(cfg *config) {
		cfg.progress = fn
	}
}

// addConfig holds per-member overrides.
type addConfig struct {
	method  Method
	comment string
	modTime time.Time
}

// AddOption configures a single member.
type AddOption func(*addConfig)

// AddWithMethod overrides the archive's default compression method for
// this member.
func AddWithMethod(m Method) AddOption {
	return func(cfg *addConfig) {
		cfg.method = m
	}
}

// AddWithComment sets the member comment, at most 65534 bytes.
func AddWithComment(comment string) AddOption {
	return func(cfg *addConfig) {
		cfg.comment = comment
	}
}

// AddWithModTime overrides the archive's default timestamp for this
// member.
func AddWithModTime(t time.Time) AddOption {
	return func(cfg *addConfig) {
		cfg.modTime = t
	}
}
