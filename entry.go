package zipstream

import (
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"time"

	"github.com/meigma/zipstream/internal/dostime"
	"github.com/meigma/zipstream/internal/wire"
)

type entryState uint8

const (
	entryInit entryState = iota
	entryData
	entryClosed
	entryFailed
)

// Entry is the handle passed to an Add callback. It accepts the
// member's payload via Write and is valid only until the enclosing Add
// call returns.
//
// Each chunk written updates the CRC-32 and the uncompressed size,
// then flows through the compression filter to the sink; compressed
// bytes are counted as they leave the filter.
type Entry struct {
	name    string
	comment string
	method  Method
	modDate uint16
	modTime uint16
	offset  uint64

	out    countingWriter // compressed payload bytes reaching the sink
	filter io.WriteCloser
	crc    hash.Hash32

	uncompressed uint64
	crc32        uint32

	state entryState
}

// newEntry prepares a member bound to the sink writer w at the given
// archive offset. The path, comment, and method have been validated by
// the archive.
func newEntry(w io.Writer, offset uint64, name, comment string, method Method, mod time.Time) *Entry {
	e := &Entry{
		name:    name,
		comment: comment,
		method:  method,
		offset:  offset,
		out:     countingWriter{w: w},
		crc:     crc32.NewIEEE(),
	}
	e.modDate, e.modTime = dostime.Encode(mod)
	return e
}

// Name returns the member's archive path.
func (e *Entry) Name() string { return e.name }

// writeHeader emits the local file header and opens the entry for
// payload writes. The filter is bound here: store passes bytes through
// untouched, deflate streams them through the encoder.
func (e *Entry) writeHeader(w io.Writer, deflater func(io.Writer) (io.WriteCloser, error)) error {
	if e.state != entryInit {
		return fmt.Errorf("%w: member %q already started", ErrState, e.name)
	}

	switch e.method {
	case MethodDeflate:
		f, err := deflater(&e.out)
		if err != nil {
			e.state = entryFailed
			return err
		}
		e.filter = f
	default:
		e.filter = nopCloser{&e.out}
	}

	hdr := wire.LocalHeader{
		Method:  e.method.wire(),
		ModTime: e.modTime,
		ModDate: e.modDate,
		Name:    []byte(e.name),
	}
	if _, err := w.Write(hdr.Encode()); err != nil {
		e.state = entryFailed
		return err
	}
	e.state = entryData
	return nil
}

// Write streams a chunk of the member's payload.
func (e *Entry) Write(p []byte) (int, error) {
	if e.state != entryData {
		return 0, fmt.Errorf("%w: write on %s member %q", ErrState, e.stateName(), e.name)
	}
	e.crc.Write(p)
	e.uncompressed += uint64(len(p))

	if _, err := e.filter.Write(p); err != nil {
		e.state = entryFailed
		return 0, e.filterErr(err)
	}
	return len(p), nil
}

// writeDescriptor flushes the filter tail, finalizes the CRC, and
// emits the Zip64 data descriptor.
func (e *Entry) writeDescriptor(w io.Writer) error {
	if e.state != entryData {
		return fmt.Errorf("%w: close on %s member %q", ErrState, e.stateName(), e.name)
	}
	if err := e.filter.Close(); err != nil {
		e.state = entryFailed
		return e.filterErr(err)
	}
	e.crc32 = e.crc.Sum32()

	if _, err := w.Write(wire.EncodeDataDescriptor(e.crc32, e.out.n, e.uncompressed)); err != nil {
		e.state = entryFailed
		return err
	}
	e.state = entryClosed
	e.crc = nil
	e.filter = nil
	return nil
}

// centralHeader returns the member's central directory record. Valid
// only once the entry is closed.
func (e *Entry) centralHeader() wire.CentralHeader {
	return wire.CentralHeader{
		Method:       e.method.wire(),
		ModTime:      e.modTime,
		ModDate:      e.modDate,
		CRC32:        e.crc32,
		Compressed:   e.out.n,
		Uncompressed: e.uncompressed,
		Offset:       e.offset,
		Name:         []byte(e.name),
		Comment:      []byte(e.comment),
	}
}

// filterErr attributes a filter failure: sink errors pass through,
// anything else came from the encoder.
func (e *Entry) filterErr(err error) error {
	if errors.Is(err, ErrSink) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDeflate, err)
}

func (e *Entry) stateName() string {
	switch e.state {
	case entryInit:
		return "unstarted"
	case entryData:
		return "open"
	case entryClosed:
		return "closed"
	default:
		return "failed"
	}
}

// nopCloser is the store filter: an identity pass-through.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
