// Package segment carves a continuous stream of per-frame pitch readings
// into discrete note events. A two-state machine (silence, note) debounces
// onsets, offsets, and note changes against configurable hold windows so
// that transient noise, brief pitch dropouts, and boundary chatter do not
// produce spurious events.
//
// All timing is derived from frame timestamps, never from the wall clock,
// so a given frame sequence always produces the same event sequence.
package segment
