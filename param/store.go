package param

import (
	"fmt"
	"sync/atomic"
)

// Source supplies the parameter snapshot for the next block. ok is false
// when parameters are unavailable; the engine then passes audio through.
type Source interface {
	Snapshot() (snap Snapshot, ok bool)
}

// Store publishes complete snapshots from control goroutines to the audio
// goroutine. Writers copy the current snapshot, modify the copy and publish
// it with compare-and-swap; the reader does a single atomic load per block.
// A reader therefore always sees a consistent snapshot, including across
// multi-field updates such as presets.
//
// The zero Store holds no snapshot and reports parameters as unavailable
// until Replace, Reset or any setter is called.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// NewStore returns a Store holding Default().
func NewStore() *Store {
	s := &Store{}
	s.Reset()

	return s
}

// Snapshot returns the current snapshot. It never blocks or allocates.
func (s *Store) Snapshot() (Snapshot, bool) {
	p := s.cur.Load()
	if p == nil {
		return Snapshot{}, false
	}

	return *p, true
}

// Current returns the current snapshot or Default() if none is held.
func (s *Store) Current() Snapshot {
	if snap, ok := s.Snapshot(); ok {
		return snap
	}

	return Default()
}

// Replace publishes snap after clamping every field.
func (s *Store) Replace(snap Snapshot) {
	snap = snap.Sanitize()
	s.cur.Store(&snap)
}

// Reset publishes the default snapshot.
func (s *Store) Reset() {
	s.Replace(Default())
}

// Set assigns a plain value to id.
func (s *Store) Set(id ID, v float64) error {
	if _, ok := ByID(id); !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownParameter, id)
	}

	s.update(func(snap Snapshot) Snapshot {
		snap, _ = snap.With(id, v)
		return snap
	})

	return nil
}

// SetByName assigns a plain value to the parameter called name.
func (s *Store) SetByName(name string, v float64) error {
	d, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	return s.Set(d.ID, v)
}

// SetNormalized assigns a normalized [0, 1] value to id.
func (s *Store) SetNormalized(id ID, n float64) error {
	d, ok := ByID(id)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownParameter, id)
	}

	return s.Set(id, d.Denormalize(n))
}

// Normalized returns the normalized value of id.
func (s *Store) Normalized(id ID) (float64, error) {
	d, ok := ByID(id)
	if !ok {
		return 0, fmt.Errorf("%w: id %d", ErrUnknownParameter, id)
	}

	v, err := s.Current().Get(id)
	if err != nil {
		return 0, err
	}

	return d.Normalize(v), nil
}

// ApplyPreset applies all of p's assignments as one atomic update.
func (s *Store) ApplyPreset(p Preset) {
	s.update(p.Apply)
}

// ApplyPresetByName looks up and applies a preset.
func (s *Store) ApplyPresetByName(name string) error {
	p, err := PresetByName(name)
	if err != nil {
		return err
	}

	s.ApplyPreset(p)

	return nil
}

// MarshalBinary encodes the current snapshot with Encode.
func (s *Store) MarshalBinary() ([]byte, error) {
	return Encode(s.Current())
}

// UnmarshalBinary decodes a state blob and publishes it.
func (s *Store) UnmarshalBinary(data []byte) error {
	snap, err := Decode(data)
	if err != nil {
		return err
	}

	s.Replace(snap)

	return nil
}

func (s *Store) update(fn func(Snapshot) Snapshot) {
	for {
		old := s.cur.Load()

		base := Default()
		if old != nil {
			base = *old
		}

		next := fn(base)
		if s.cur.CompareAndSwap(old, &next) {
			return
		}
	}
}
