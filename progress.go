package zipstream

// ProgressEvent reports a milestone during archive emission.
type ProgressEvent struct {
	// Stage identifies the current phase.
	Stage ProgressStage

	// Path is the member being processed, if applicable.
	Path string

	// BytesWritten is the total bytes handed to the sink so far.
	BytesWritten uint64

	// Members is the number of finalized members so far.
	Members int
}

// ProgressStage identifies the phase a ProgressEvent describes.
type ProgressStage uint8

const (
	// StageMemberStart fires after a member's local header is written.
	StageMemberStart ProgressStage = iota

	// StageMemberDone fires after a member's data descriptor is written.
	StageMemberDone

	// StageDirectory fires when the central directory starts.
	StageDirectory

	// StageFinished fires after the trailing records and sink close.
	StageFinished
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageMemberStart:
		return "member start"
	case StageMemberDone:
		return "member done"
	case StageDirectory:
		return "central directory"
	case StageFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates. Calls are made from the
// goroutine driving the archive; implementations should return quickly.
type ProgressFunc func(ProgressEvent)
