// Package media estimates the duration of uploaded audio.
//
// Estimator.Duration tries, in order: a RIFF/WAVE header parse, ffprobe
// (when a binary is configured) and a byte-size heuristic. The result is
// only used for speech-rate statistics, so every path yields a positive
// number rather than an error.
package media
