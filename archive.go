package zipstream

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/meigma/zipstream/internal/wire"
)

// addChunkSize is the read granularity for AddReader and AddFile.
const addChunkSize = 8192

type archiveState uint8

const (
	archiveReady archiveState = iota
	archiveEntryOpen
	archiveClosed
	archiveFailed
)

func (s archiveState) String() string {
	switch s {
	case archiveReady:
		return "ready"
	case archiveEntryOpen:
		return "member open"
	case archiveClosed:
		return "closed"
	default:
		return "failed"
	}
}

// Archive streams a Zip64 archive to a sink, one member at a time.
//
// Members are serialized: Add returns with the member fully emitted
// before the next one may start. Close writes the central directory
// and trailing records. An Archive is not safe for concurrent use;
// independent archives are.
//
// Rejections of an invalid or duplicate path, an unknown method, or an
// over-long comment are returned before any byte of the member is
// written and leave the archive usable. Any other error while adding a
// member or closing leaves the archive failed and every later call
// returns ErrState. The bytes already handed to a failed archive's sink
// are not a valid archive; discarding them is the caller's decision.
type Archive struct {
	cfg  config
	sink Sink
	w    countingWriter

	// deflate encoder, created on first use and reused across members
	enc *flate.Writer

	entries []*Entry
	paths   map[string]struct{}
	state   archiveState
}

// New constructs an archive and opens its sink. The name is advisory
// metadata forwarded to the sink along with the content type.
func New(name string, opts ...Option) (*Archive, error) {
	cfg := config{
		method:      MethodDeflate,
		modTime:     time.Now(),
		contentType: "application/zip",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.method.valid() {
		return nil, &MethodError{Method: uint16(cfg.method)}
	}
	if len(cfg.comment) >= maxNameLen {
		return nil, fmt.Errorf("%w: archive comment is %d bytes", ErrComment, len(cfg.comment))
	}
	if cfg.output == nil {
		cfg.output = NewStreamSink(os.Stdout)
	}

	a := &Archive{
		cfg:   cfg,
		sink:  cfg.output,
		paths: make(map[string]struct{}),
	}
	a.w = countingWriter{w: sinkWriter{s: a.sink}}

	a.sink.Set("name", name)
	a.sink.Set("type", cfg.contentType)
	if err := a.sink.Open(); err != nil {
		a.state = archiveFailed
		return nil, err
	}

	a.log().Info("archive opened", "name", name, "method", cfg.method.String())
	return a, nil
}

// Send constructs an archive, hands it to fn, and closes it, returning
// the total bytes written.
func Send(name string, fn func(*Archive) error, opts ...Option) (uint64, error) {
	a, err := New(name, opts...)
	if err != nil {
		return 0, err
	}
	if err := fn(a); err != nil {
		a.fail()
		return 0, err
	}
	return a.Close()
}

// Add emits one member. fn receives an Entry handle and streams the
// payload through it; the handle is valid only until Add returns. The
// local header is written before fn runs and the data descriptor after
// it returns.
func (a *Archive) Add(path string, fn func(*Entry) error, opts ...AddOption) error {
	return a.add(path, false, fn, opts)
}

// AddBytes emits one member from an in-memory payload.
func (a *Archive) AddBytes(path string, data []byte, opts ...AddOption) error {
	return a.Add(path, func(e *Entry) error {
		_, err := e.Write(data)
		return err
	}, opts...)
}

// AddReader emits one member by draining src in 8 KiB chunks until
// EOF. The reader is not closed.
func (a *Archive) AddReader(path string, src io.Reader, opts ...AddOption) error {
	return a.Add(path, func(e *Entry) error {
		buf := make([]byte, addChunkSize)
		_, err := io.CopyBuffer(e, struct{ io.Reader }{src}, buf)
		return err
	}, opts...)
}

// AddFile emits one member from a file on disk. Unless overridden with
// AddWithModTime, the member timestamp is the file's modification
// time. Open, stat, and read failures surface as FileError.
func (a *Archive) AddFile(path, fsPath string, opts ...AddOption) error {
	if a.state != archiveReady {
		return fmt.Errorf("%w: add while archive is %s", ErrState, a.state)
	}

	f, err := os.Open(fsPath)
	if err != nil {
		return a.failWith(&FileError{Path: fsPath, Err: err})
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return a.failWith(&FileError{Path: fsPath, Err: err})
	}
	opts = append([]AddOption{AddWithModTime(info.ModTime())}, opts...)

	return a.Add(path, func(e *Entry) error {
		buf := make([]byte, addChunkSize)
		for {
			n, rerr := f.Read(buf)
			if n > 0 {
				if _, werr := e.Write(buf[:n]); werr != nil {
					return werr
				}
			}
			if rerr == io.EOF {
				return nil
			}
			if rerr != nil {
				return &FileError{Path: fsPath, Err: rerr}
			}
		}
	}, opts...)
}

// AddDir emits an explicit directory member. The stored name carries a
// trailing slash; the payload is empty and stored uncompressed.
func (a *Archive) AddDir(path string, opts ...AddOption) error {
	opts = append(opts, AddWithMethod(MethodStore))
	return a.add(path, true, func(*Entry) error { return nil }, opts)
}

// add is the serializing primitive behind every Add variant.
func (a *Archive) add(path string, dir bool, fn func(*Entry) error, opts []AddOption) error {
	if a.state != archiveReady {
		return fmt.Errorf("%w: add while archive is %s", ErrState, a.state)
	}
	if err := validatePath(path); err != nil {
		return err
	}

	name := path
	if dir {
		name += "/"
	}
	if _, dup := a.paths[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicatePath, name)
	}

	cfg := addConfig{method: a.cfg.method, modTime: a.cfg.modTime}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.method.valid() {
		return &MethodError{Method: uint16(cfg.method)}
	}
	if len(cfg.comment) >= maxNameLen {
		return fmt.Errorf("%w: member comment is %d bytes", ErrComment, len(cfg.comment))
	}
	if cfg.modTime.IsZero() {
		cfg.modTime = time.Now()
	}

	e := newEntry(&a.w, a.w.n, name, cfg.comment, cfg.method, cfg.modTime)
	a.state = archiveEntryOpen

	if err := e.writeHeader(&a.w, a.deflater); err != nil {
		return a.failWith(err)
	}
	a.report(StageMemberStart, name)

	if err := fn(e); err != nil {
		a.fail()
		return err
	}
	if err := e.writeDescriptor(&a.w); err != nil {
		return a.failWith(err)
	}

	a.entries = append(a.entries, e)
	a.paths[name] = struct{}{}
	a.state = archiveReady

	a.report(StageMemberDone, name)
	a.log().Debug("member written", "path", name,
		"size", e.uncompressed, "compressed", e.out.n, "method", e.method.String())
	return nil
}

// Close writes the central directory, the Zip64 end-of-directory
// record and locator, and the end-of-directory record, then closes the
// sink. It returns the total archive size in bytes.
func (a *Archive) Close() (uint64, error) {
	if a.state != archiveReady {
		return 0, fmt.Errorf("%w: close while archive is %s", ErrState, a.state)
	}
	a.report(StageDirectory, "")

	dirOffset := a.w.n
	for _, e := range a.entries {
		hdr := e.centralHeader()
		if _, err := a.w.Write(hdr.Encode()); err != nil {
			return 0, a.failWith(err)
		}
	}
	dirSize := a.w.n - dirOffset

	endOfDirOffset := a.w.n
	entries := uint64(len(a.entries))
	if _, err := a.w.Write(wire.EncodeZip64EndOfDir(entries, dirSize, dirOffset)); err != nil {
		return 0, a.failWith(err)
	}
	if _, err := a.w.Write(wire.EncodeZip64Locator(endOfDirOffset)); err != nil {
		return 0, a.failWith(err)
	}
	if _, err := a.w.Write(wire.EncodeEndOfDir(entries, dirSize, dirOffset, []byte(a.cfg.comment))); err != nil {
		return 0, a.failWith(err)
	}

	if err := a.sink.Close(); err != nil {
		return 0, a.failWith(fmt.Errorf("%w: %w", ErrSink, err))
	}
	a.state = archiveClosed

	a.report(StageFinished, "")
	a.log().Info("archive closed", "members", len(a.entries), "bytes", a.w.n)
	return a.w.n, nil
}

// Count returns the number of finalized members.
func (a *Archive) Count() int { return len(a.entries) }

// Written returns the bytes handed to the sink so far.
func (a *Archive) Written() uint64 { return a.w.n }

// deflater hands out the archive's deflate encoder, bound to w. The
// encoder is created once and reset between members.
func (a *Archive) deflater(w io.Writer) (io.WriteCloser, error) {
	if a.enc == nil {
		enc, err := flate.NewWriter(w, flate.DefaultCompression)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDeflate, err)
		}
		a.enc = enc
		return enc, nil
	}
	a.enc.Reset(w)
	return a.enc, nil
}

func (a *Archive) fail() {
	a.state = archiveFailed
}

func (a *Archive) failWith(err error) error {
	a.state = archiveFailed
	return err
}

func (a *Archive) report(stage ProgressStage, path string) {
	if a.cfg.progress == nil {
		return
	}
	a.cfg.progress(ProgressEvent{
		Stage:        stage,
		Path:         path,
		BytesWritten: a.w.n,
		Members:      len(a.entries),
	})
}

func (a *Archive) log() *slog.Logger {
	if a.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.cfg.logger
}
