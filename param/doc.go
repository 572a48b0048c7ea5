// Package param defines the compressor's parameter set, its presets and
// persisted state, and Store, the lock-free channel through which control
// goroutines publish complete parameter snapshots to the audio goroutine.
package param
