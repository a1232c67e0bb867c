package segment

// Frame is one analysis tick of the incoming stream. Frames are immutable
// once produced; the segmenter only copies them into bounded buffers.
type Frame struct {
	TimestampMs int64   // monotonic milliseconds
	Volume      float64 // RMS amplitude, >= 0
	Confidence  float64 // detection confidence, 0..1

	// Pitch fields are meaningful only when Pitched is true.
	Pitched   bool
	Frequency float64 // Hz
	Cents     float64 // signed deviation from the nearest note
	Note      string  // nearest note name, e.g. "G3"
}

// Segment is a completed note: its target pitch, time span, and the frames
// accumulated during its sustain. Frames are timestamp-ordered and fall
// within [StartMs, EndMs].
type Segment struct {
	Index   int    // 0-based note counter since construction or Reset
	Note    string // note name confirmed at onset
	StartMs int64
	EndMs   int64
	Frames  []Frame

	// Optional expectations for rhythm scoring, populated by the caller
	// from the exercise being played. Zero values mean "not supplied".
	ExpectedStartMs     int64
	ExpectedDurationMs  int64
	HasExpectedStart    bool
	HasExpectedDuration bool
}

// DurationMs returns the segment length in milliseconds.
func (s Segment) DurationMs() int64 {
	return s.EndMs - s.StartMs
}

// EventType identifies a note lifecycle event.
type EventType int

// Lifecycle events emitted by the Segmenter.
const (
	EventOnset EventType = iota + 1
	EventOffset
	EventNoteChange
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventOnset:
		return "onset"
	case EventOffset:
		return "offset"
	case EventNoteChange:
		return "note-change"
	default:
		return "unknown"
	}
}

// Event is one note lifecycle transition.
//
//   - EventOnset carries Note (the name confirmed after debouncing) and
//     GapFrames (the frames buffered during the preceding silence).
//   - EventOffset carries Segment, the fully accumulated completed note.
//   - EventNoteChange carries Segment (the just-completed sub-note) and
//     Note (the new name now being accumulated).
type Event struct {
	Type        EventType
	TimestampMs int64
	Note        string
	Segment     Segment
	GapFrames   []Frame
}
