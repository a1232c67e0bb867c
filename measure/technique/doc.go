// Package technique computes per-note technique metrics and pedagogical
// observations for monophonic instrument practice.
//
// An Analyzer consumes a completed note segment (plus the inter-note gap
// frames preceding it) and produces a Metrics bundle covering intonation
// stability, vibrato, attack and release shape, resonance defects, rhythm,
// and note transitions. Observe derives a short, ranked list of
// human-readable findings from a bundle.
//
// All analysis is synchronous, allocation-light, and free of I/O; invalid
// or degenerate segments yield zero-valued metrics rather than errors.
package technique
