package zipstream

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ResponseSink streams the archive to an HTTP response. Open sets the
// download headers, so the archive must be constructed before the
// handler writes anything else to w.
type ResponseSink struct {
	w        http.ResponseWriter
	flusher  http.Flusher
	name     string
	mimeType string
	flush    bool
	state    sinkState
}

// ResponseOption configures a ResponseSink.
type ResponseOption func(*ResponseSink)

// ResponseWithFlush flushes the response after every write, trading
// throughput for immediate delivery of each member.
func ResponseWithFlush() ResponseOption {
	return func(s *ResponseSink) {
		s.flush = true
	}
}

// NewResponseSink returns a sink streaming to w. The archive name and
// content type arrive through Set before Open.
func NewResponseSink(w http.ResponseWriter, opts ...ResponseOption) *ResponseSink {
	s := &ResponseSink{w: w, mimeType: "application/zip"}
	for _, opt := range opts {
		opt(s)
	}
	if f, ok := w.(http.Flusher); ok {
		s.flusher = f
	}
	return s
}

// Set records the download name and content type.
func (s *ResponseSink) Set(key, value string) {
	switch key {
	case "name":
		s.name = value
	case "type":
		s.mimeType = value
	}
}

// Open emits the download headers.
func (s *ResponseSink) Open() error {
	if s.state != sinkInit {
		return fmt.Errorf("%w: sink already opened", ErrState)
	}
	h := s.w.Header()
	h.Set("Content-Type", s.mimeType)
	h.Set("Content-Disposition", contentDisposition(s.name))
	h.Set("Content-Transfer-Encoding", "binary")
	h.Set("Cache-Control", "public, must-revalidate")
	h.Set("X-Accel-Buffering", "no")
	s.state = sinkOpen
	return nil
}

// Write forwards p to the response body.
func (s *ResponseSink) Write(p []byte) (int, error) {
	if s.state != sinkOpen {
		return 0, fmt.Errorf("%w: write on unopened sink", ErrState)
	}
	n, err := s.w.Write(p)
	if err == nil && s.flush && s.flusher != nil {
		s.flusher.Flush()
	}
	return n, err
}

// Close flushes the response. The connection belongs to the HTTP
// server and stays open.
func (s *ResponseSink) Close() error {
	switch s.state {
	case sinkClosed:
		return nil
	case sinkInit:
		return fmt.Errorf("%w: close on unopened sink", ErrState)
	}
	s.state = sinkClosed
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

// contentDisposition builds an RFC 6266 header value carrying an
// ASCII-sanitized filename, plus the UTF-8 form when sanitizing changed
// the name.
func contentDisposition(name string) string {
	if name == "" {
		name = "archive.zip"
	}
	ascii := sanitizeASCII(name)
	if ascii == name {
		return fmt.Sprintf("attachment; filename=%q", ascii)
	}
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", ascii, url.PathEscape(name))
}

// sanitizeASCII replaces each character that cannot travel in a
// quoted-string filename parameter with a single underscore.
func sanitizeASCII(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || r > 0x7E || r == '"' || r == '\\' {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
