package segment

import (
	"fmt"

	"github.com/cwbudde/algo-pitch/dsp/buffer"
)

// State identifies the segmenter's current phase.
type State int

// Segmenter states.
const (
	StateSilence State = iota
	StateNote
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNote:
		return "note"
	default:
		return "silence"
	}
}

// Segmenter is the debounced note-boundary state machine.
//
// Feed frames one at a time through Process. A Segmenter must not be driven
// by more than one frame stream concurrently; independent instances are
// fully independent.
type Segmenter struct {
	cfg SegmenterConfig

	state     State
	noteIndex int

	gap    *buffer.Ring[Frame]
	frames *buffer.Ring[Frame]

	// Silence-state accumulation.
	soundingSinceMs int64 // -1 while no onset candidate is held

	// Note-state accumulation.
	noteName       string
	startMs        int64
	lastPitchedMs  int64
	silenceSinceMs int64 // -1 while the offset timer is not running
	pendingNote    string
	pendingSinceMs int64
}

// NewSegmenter creates a segmenter with the given options.
func NewSegmenter(opts ...SegmenterOption) (*Segmenter, error) {
	cfg := ApplySegmenterOptions(opts...)

	if cfg.MinRMS <= 0 {
		return nil, fmt.Errorf("segment: MinRMS must be > 0: %v", cfg.MinRMS)
	}

	if cfg.MaxSilenceRMS < 0 || cfg.MaxSilenceRMS >= cfg.MinRMS {
		return nil, fmt.Errorf("segment: MaxSilenceRMS must be in [0, MinRMS): %v vs %v",
			cfg.MaxSilenceRMS, cfg.MinRMS)
	}

	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return nil, fmt.Errorf("segment: MinConfidence must be in [0, 1]: %v", cfg.MinConfidence)
	}

	if cfg.OnsetDebounceMs <= 0 || cfg.OffsetDebounceMs <= 0 || cfg.NoteChangeDebounceMs <= 0 {
		return nil, fmt.Errorf("segment: debounce windows must be > 0: onset %d, offset %d, change %d",
			cfg.OnsetDebounceMs, cfg.OffsetDebounceMs, cfg.NoteChangeDebounceMs)
	}

	if cfg.DropoutToleranceMs < 0 {
		return nil, fmt.Errorf("segment: DropoutToleranceMs must be >= 0: %d", cfg.DropoutToleranceMs)
	}

	gap, err := buffer.NewRing[Frame](cfg.MaxGapFrames)
	if err != nil {
		return nil, fmt.Errorf("segment: gap buffer: %v", err)
	}

	frames, err := buffer.NewRing[Frame](cfg.MaxNoteFrames)
	if err != nil {
		return nil, fmt.Errorf("segment: note buffer: %v", err)
	}

	s := &Segmenter{cfg: cfg, gap: gap, frames: frames}
	s.Reset()

	return s, nil
}

// Config returns the segmenter configuration.
func (s *Segmenter) Config() SegmenterConfig { return s.cfg }

// State returns the current state.
func (s *Segmenter) State() State { return s.state }

// NoteIndex returns the number of notes completed since construction or
// the last Reset.
func (s *Segmenter) NoteIndex() int { return s.noteIndex }

// Reset clears all accumulation and pending timers and returns to silence.
// Used between exercises.
func (s *Segmenter) Reset() {
	s.state = StateSilence
	s.noteIndex = 0
	s.gap.Reset()
	s.frames.Reset()
	s.soundingSinceMs = -1
	s.silenceSinceMs = -1
	s.lastPitchedMs = 0
	s.noteName = ""
	s.startMs = 0
	s.pendingNote = ""
	s.pendingSinceMs = 0
}

// Process advances the state machine by one frame. At most one event is
// emitted per frame; the second return value reports whether one was.
func (s *Segmenter) Process(f Frame) (Event, bool) {
	if s.state == StateNote {
		return s.processNote(f)
	}

	return s.processSilence(f)
}

// isSounding reports whether the frame is clearly a sounding note.
func (s *Segmenter) isSounding(f Frame) bool {
	return f.Pitched && f.Volume > s.cfg.MinRMS && f.Confidence > s.cfg.MinConfidence
}

func (s *Segmenter) processSilence(f Frame) (Event, bool) {
	s.gap.Push(f)

	if !s.isSounding(f) {
		s.soundingSinceMs = -1
		return Event{}, false
	}

	if s.soundingSinceMs < 0 {
		s.soundingSinceMs = f.TimestampMs
	}

	if f.TimestampMs-s.soundingSinceMs < s.cfg.OnsetDebounceMs {
		return Event{}, false
	}

	// Onset confirmed. Frames collected since the onset candidate belong
	// to the new note's attack; everything older is the inter-note gap.
	start := s.soundingSinceMs

	var gapFrames []Frame

	s.frames.Reset()

	for _, fr := range s.gap.Snapshot() {
		if fr.TimestampMs < start {
			gapFrames = append(gapFrames, fr)
		} else {
			s.frames.Push(fr)
		}
	}

	s.gap.Reset()
	s.state = StateNote
	s.noteName = f.Note
	s.startMs = start
	s.lastPitchedMs = f.TimestampMs
	s.silenceSinceMs = -1
	s.soundingSinceMs = -1
	s.pendingNote = ""

	return Event{
		Type:        EventOnset,
		TimestampMs: f.TimestampMs,
		Note:        f.Note,
		GapFrames:   gapFrames,
	}, true
}

func (s *Segmenter) processNote(f Frame) (Event, bool) {
	s.frames.Push(f)

	if f.Pitched && f.Confidence > s.cfg.MinConfidence {
		s.lastPitchedMs = f.TimestampMs
	}

	if s.isSounding(f) {
		s.silenceSinceMs = -1
		return s.trackNoteChange(f)
	}

	// Weak or unpitched reading. A flicker towards silence cancels any
	// pending note change.
	s.pendingNote = ""

	clearlySilent := f.Volume < s.cfg.MaxSilenceRMS
	dropoutExpired := f.TimestampMs-s.lastPitchedMs > s.cfg.DropoutToleranceMs

	// The offset timer starts only on clear silence or once a pitch
	// dropout has outlived its tolerance; hysteresis-band frames keep an
	// already-running timer alive.
	if (clearlySilent || dropoutExpired) && s.silenceSinceMs < 0 {
		s.silenceSinceMs = f.TimestampMs
	}

	if s.silenceSinceMs >= 0 && f.TimestampMs-s.silenceSinceMs >= s.cfg.OffsetDebounceMs {
		return s.finishNote(f.TimestampMs, s.silenceSinceMs)
	}

	return Event{}, false
}

// trackNoteChange debounces a change of detected note name while sounding.
func (s *Segmenter) trackNoteChange(f Frame) (Event, bool) {
	if f.Note == s.noteName {
		// Flicker back to the current note cancels the pending change.
		s.pendingNote = ""
		return Event{}, false
	}

	if f.Note != s.pendingNote {
		s.pendingNote = f.Note
		s.pendingSinceMs = f.TimestampMs

		return Event{}, false
	}

	if f.TimestampMs-s.pendingSinceMs < s.cfg.NoteChangeDebounceMs {
		return Event{}, false
	}

	// Change confirmed: close the old note at the instant the new name
	// first appeared and move the newer frames into the next accumulation.
	splitMs := s.pendingSinceMs

	completed := Segment{
		Index:   s.noteIndex,
		Note:    s.noteName,
		StartMs: s.startMs,
		EndMs:   splitMs,
	}

	var kept []Frame

	for _, fr := range s.frames.Snapshot() {
		if fr.TimestampMs < splitMs {
			completed.Frames = append(completed.Frames, fr)
		} else {
			kept = append(kept, fr)
		}
	}

	s.frames.Reset()

	for _, fr := range kept {
		s.frames.Push(fr)
	}

	s.noteIndex++
	s.noteName = s.pendingNote
	s.startMs = splitMs
	s.pendingNote = ""

	return Event{
		Type:        EventNoteChange,
		TimestampMs: f.TimestampMs,
		Note:        s.noteName,
		Segment:     completed,
	}, true
}

// finishNote emits the offset event and returns to silence. endMs is the
// instant the confirmed silence began; trailing silent frames seed the gap
// buffer for the next note.
func (s *Segmenter) finishNote(nowMs, endMs int64) (Event, bool) {
	completed := Segment{
		Index:   s.noteIndex,
		Note:    s.noteName,
		StartMs: s.startMs,
		EndMs:   endMs,
	}

	s.gap.Reset()

	for _, fr := range s.frames.Snapshot() {
		if fr.TimestampMs < endMs {
			completed.Frames = append(completed.Frames, fr)
		} else {
			s.gap.Push(fr)
		}
	}

	s.frames.Reset()
	s.noteIndex++
	s.state = StateSilence
	s.noteName = ""
	s.soundingSinceMs = -1
	s.silenceSinceMs = -1
	s.pendingNote = ""

	return Event{
		Type:        EventOffset,
		TimestampMs: nowMs,
		Segment:     completed,
	}, true
}
