// Package pitch estimates the fundamental frequency of monophonic audio
// frames using the YIN algorithm (difference function with cumulative-mean
// normalization, absolute threshold, and parabolic lag refinement).
//
// The difference function is evaluated through the FFT autocorrelation
// identity, so a frame of N samples costs O(N log N) instead of O(N·τmax).
// The cumulative-mean normalization cancels any constant FFT scaling, so
// results match the direct formula up to rounding.
//
// Estimation never fails: silence, noise, and out-of-band content all yield
// a zero Result rather than an error, keeping the real-time path free of
// control-flow branching on the caller side.
package pitch
