// Package note provides twelve-tone equal-temperament pitch math: MIDI
// note numbers, note names, frequencies, and signed deviations in cents.
//
// The reference tuning is configurable; the conventional A4 = 440 Hz is
// the default. 100 cents equal one semitone, so deviations returned by
// Nearest always lie in [-50, 50].
package note
