package zipstream

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Sink is the byte destination an Archive writes through. Sinks are
// forward-only; the engine never seeks.
//
// Set conveys advisory metadata ("name", "type") before Open; a sink
// may use or ignore it. Open is called exactly once before the first
// Write. Write is all-or-nothing: a short write must be surfaced as an
// error. Close flushes and releases the destination and is idempotent
// once closed.
type Sink interface {
	Set(key, value string)
	Open() error
	Write(p []byte) (int, error)
	Close() error
}

type sinkState uint8

const (
	sinkInit sinkState = iota
	sinkOpen
	sinkClosed
)

// FileSink writes the archive to a filesystem path. The file is
// created (or truncated) on Open and synced on Close.
type FileSink struct {
	path  string
	f     *os.File
	state sinkState
}

// NewFileSink returns a sink writing to path. An empty path defers to
// the archive name passed through Set("name", ...).
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Set records the archive name as the target path when none was given.
func (s *FileSink) Set(key, value string) {
	if key == "name" && s.path == "" {
		s.path = value
	}
}

// Open creates or truncates the target file.
func (s *FileSink) Open() error {
	if s.state != sinkInit {
		return fmt.Errorf("%w: sink already opened", ErrState)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return &FileError{Path: s.path, Err: err}
	}
	s.f = f
	s.state = sinkOpen
	return nil
}

// Write appends p to the file.
func (s *FileSink) Write(p []byte) (int, error) {
	if s.state != sinkOpen {
		return 0, fmt.Errorf("%w: write on unopened sink", ErrState)
	}
	return s.f.Write(p)
}

// Close syncs and closes the file. Closing an already-closed sink is a
// no-op.
func (s *FileSink) Close() error {
	switch s.state {
	case sinkClosed:
		return nil
	case sinkInit:
		return fmt.Errorf("%w: close on unopened sink", ErrState)
	}
	s.state = sinkClosed
	if err := s.f.Sync(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// StreamSink wraps a caller-provided writer. Metadata is ignored and
// the underlying writer is never closed, only flushed when it exposes
// a Flush method.
type StreamSink struct {
	w     io.Writer
	state sinkState
}

// NewStreamSink returns a sink writing to w.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

// Set ignores all metadata.
func (s *StreamSink) Set(string, string) {}

// Open marks the sink ready.
func (s *StreamSink) Open() error {
	if s.state != sinkInit {
		return fmt.Errorf("%w: sink already opened", ErrState)
	}
	if s.w == nil {
		return errors.New("zipstream: nil stream writer")
	}
	s.state = sinkOpen
	return nil
}

// Write forwards p to the wrapped writer.
func (s *StreamSink) Write(p []byte) (int, error) {
	if s.state != sinkOpen {
		return 0, fmt.Errorf("%w: write on unopened sink", ErrState)
	}
	return s.w.Write(p)
}

// Close flushes the wrapped writer when it supports flushing. The
// writer itself stays open; it belongs to the caller.
func (s *StreamSink) Close() error {
	switch s.state {
	case sinkClosed:
		return nil
	case sinkInit:
		return fmt.Errorf("%w: close on unopened sink", ErrState)
	}
	s.state = sinkClosed
	if f, ok := s.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
