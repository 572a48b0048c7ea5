package dynamics

import "math"

const (
	// GainSmootherCoefficient is the pole of the stage gain smoother.
	// At 48 kHz it gives a time constant of about 21 ms.
	GainSmootherCoefficient = 0.999

	// MinSmoothedGain and MaxSmoothedGain bound the smoothed linear gain.
	MinSmoothedGain = 0.01
	MaxSmoothedGain = 1.0
)

// GainSmoother low-pass filters a linear gain with a fixed one-pole
// coefficient. The zero value starts at unity gain.
type GainSmoother struct {
	value float64
	init  bool
}

// Process moves the smoothed gain towards target and returns it, clamped to
// [MinSmoothedGain, MaxSmoothedGain].
func (s *GainSmoother) Process(target float64) float64 {
	if !s.init {
		s.value = MaxSmoothedGain
		s.init = true
	}

	g := target + (s.value-target)*GainSmootherCoefficient
	if math.IsNaN(g) {
		g = s.value
	}

	s.value = math.Max(MinSmoothedGain, math.Min(g, MaxSmoothedGain))

	return s.value
}

// Value returns the current smoothed gain.
func (s *GainSmoother) Value() float64 {
	if !s.init {
		return MaxSmoothedGain
	}

	return s.value
}

// Reset returns the smoother to unity gain.
func (s *GainSmoother) Reset() {
	s.value = MaxSmoothedGain
	s.init = true
}

// Ramp is a linear value smoother: after SetTarget it moves from the current
// value to the target in a fixed number of steps. It is used for the makeup
// gain, which is retargeted once per block and advanced once per frame.
type Ramp struct {
	current float64
	target  float64
	step    float64
	steps   int
	left    int
}

// NewRamp returns a Ramp that takes seconds to reach a new target at
// sampleRate, starting at initial.
func NewRamp(sampleRate, seconds, initial float64) *Ramp {
	r := &Ramp{}
	r.SetLength(sampleRate, seconds)
	r.SetCurrentAndTarget(initial)

	return r
}

// SetLength sets the ramp duration. Non-positive durations make SetTarget
// jump immediately.
func (r *Ramp) SetLength(sampleRate, seconds float64) {
	n := math.Floor(sampleRate*seconds + 0.5)
	if !(n > 0) || math.IsInf(n, 0) {
		n = 0
	}

	r.steps = int(n)
	r.SetCurrentAndTarget(r.target)
}

// SetTarget starts a new ramp from the current value to target. Setting the
// target already being approached keeps the ramp running unchanged.
func (r *Ramp) SetTarget(target float64) {
	if math.IsNaN(target) || target == r.target {
		return
	}

	if r.steps == 0 {
		r.SetCurrentAndTarget(target)
		return
	}

	r.target = target
	r.left = r.steps
	r.step = (target - r.current) / float64(r.steps)
}

// SetCurrentAndTarget jumps to v with no ramp in progress.
func (r *Ramp) SetCurrentAndTarget(v float64) {
	r.current = v
	r.target = v
	r.step = 0
	r.left = 0
}

// Next advances the ramp by one step and returns the new value.
func (r *Ramp) Next() float64 {
	if r.left <= 0 {
		return r.target
	}

	r.left--
	if r.left == 0 {
		r.current = r.target
	} else {
		r.current += r.step
	}

	return r.current
}

// Render writes successive Next values into dst.
func (r *Ramp) Render(dst []float64) {
	for i := range dst {
		dst[i] = r.Next()
	}
}

// Current returns the current value without advancing.
func (r *Ramp) Current() float64 { return r.current }

// Target returns the value being approached.
func (r *Ramp) Target() float64 { return r.target }

// IsSmoothing reports whether a ramp is in progress.
func (r *Ramp) IsSmoothing() bool { return r.left > 0 }
