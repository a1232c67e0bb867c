// Package buffer provides bounded FIFO storage for real-time analysis.
// Ring keeps the most recent N values and evicts the oldest first, which
// bounds memory during pathologically long notes or silences.
package buffer
