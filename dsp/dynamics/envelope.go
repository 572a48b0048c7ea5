package dynamics

import (
	"math"

	"github.com/cwbudde/algo-dualcomp/dsp/core"
)

const (
	// MinCoefficient and MaxCoefficient bound every derived time coefficient
	// so the follower stays stable at any sample rate.
	MinCoefficient = 1e-4
	MaxCoefficient = 0.9999

	// MaxEnvelope is the upper clamp of the tracked peak level (linear).
	MaxEnvelope = 10.0
)

// TimeCoefficient converts a time constant in milliseconds to a one-pole
// coefficient 1 - exp(-1/(ms*0.001*sampleRate)), clamped to
// [MinCoefficient, MaxCoefficient]. Non-positive or non-finite inputs
// yield MaxCoefficient (fastest response).
func TimeCoefficient(ms, sampleRate float64) float64 {
	samples := ms * 0.001 * sampleRate
	if !(samples > 0) || math.IsInf(samples, 0) {
		return MaxCoefficient
	}

	c := 1 - math.Exp(-1/samples)

	return core.Clamp(c, MinCoefficient, MaxCoefficient)
}

// EnvelopeFollower is an asymmetric attack/release peak tracker.
type EnvelopeFollower struct {
	attack  float64
	release float64
	env     float64
}

// SetCoefficients sets the attack and release coefficients directly. Values
// are clamped to [MinCoefficient, MaxCoefficient].
func (e *EnvelopeFollower) SetCoefficients(attack, release float64) {
	e.attack = clampCoefficient(attack)
	e.release = clampCoefficient(release)
}

// SetTimes derives the coefficients from millisecond time constants.
func (e *EnvelopeFollower) SetTimes(attackMs, releaseMs, sampleRate float64) {
	e.attack = TimeCoefficient(attackMs, sampleRate)
	e.release = TimeCoefficient(releaseMs, sampleRate)
}

// Coefficients returns the attack and release coefficients.
func (e *EnvelopeFollower) Coefficients() (attack, release float64) {
	return e.attack, e.release
}

// Process advances the follower by one detector sample and returns the new
// envelope.
func (e *EnvelopeFollower) Process(detector float64) float64 {
	level := math.Abs(detector)

	coef := e.release
	if level > e.env {
		coef = e.attack
	}

	env := e.env + (level-e.env)*coef
	if math.IsNaN(env) {
		env = 0
	}

	// Release tails flush to exact zero instead of stalling on subnormals.
	env = core.FlushDenormals(core.Clamp(env, 0, MaxEnvelope))
	e.env = env

	return env
}

// Value returns the current envelope.
func (e *EnvelopeFollower) Value() float64 { return e.env }

// Reset sets the envelope to zero. Coefficients are kept.
func (e *EnvelopeFollower) Reset() { e.env = 0 }

func clampCoefficient(c float64) float64 {
	if math.IsNaN(c) {
		return MaxCoefficient
	}

	return core.Clamp(c, MinCoefficient, MaxCoefficient)
}
