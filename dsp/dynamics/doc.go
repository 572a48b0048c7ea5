// Package dynamics provides the building blocks of a two-stage feed-forward
// compressor: a peak envelope follower, a quadratic soft-knee gain curve,
// gain smoothing, topology-dependent harmonic shaping and the Stage type that
// composes them.
//
// All functions in this package are allocation-free and intended to be called
// from a real-time audio goroutine. Stage and the smoothers are not safe for
// concurrent use; configure them between blocks from the goroutine that
// processes audio.
package dynamics
