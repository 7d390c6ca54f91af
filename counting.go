package zipstream

import (
	"fmt"
	"io"
)

// countingWriter wraps a writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n uint64
}

// Write implements io.Writer.
func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	if n > 0 {
		cw.n += uint64(n)
	}
	return n, err
}

// sinkWriter adapts a Sink to io.Writer, turning failures and short
// writes into ErrSink.
type sinkWriter struct {
	s Sink
}

// Write implements io.Writer.
func (sw sinkWriter) Write(p []byte) (int, error) {
	n, err := sw.s.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrSink, err)
	}
	if n != len(p) {
		return n, fmt.Errorf("%w: %w", ErrSink, io.ErrShortWrite)
	}
	return n, nil
}
