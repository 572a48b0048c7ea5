package dynamics

import (
	"math"
	"testing"
)

func TestTimeCoefficient(t *testing.T) {
	tests := []struct {
		name string
		ms   float64
		fs   float64
		want float64
	}{
		{name: "10ms at 48k", ms: 10, fs: 48000, want: 1 - math.Exp(-1.0/480)},
		{name: "150ms at 44.1k", ms: 150, fs: 44100, want: 1 - math.Exp(-1.0/6615)},
		{name: "zero time", ms: 0, fs: 48000, want: MaxCoefficient},
		{name: "negative time", ms: -5, fs: 48000, want: MaxCoefficient},
		{name: "tiny time clamps high", ms: 0.001, fs: 8000, want: MaxCoefficient},
		{name: "huge time clamps low", ms: 1e6, fs: 192000, want: MinCoefficient},
		{name: "nan", ms: math.NaN(), fs: 48000, want: MaxCoefficient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeCoefficient(tt.ms, tt.fs)
			if math.Abs(got-tt.want) > 1e-15 {
				t.Fatalf("TimeCoefficient(%v, %v) = %v, want %v", tt.ms, tt.fs, got, tt.want)
			}
		})
	}
}

func TestEnvelopeFollowerAttackRelease(t *testing.T) {
	var e EnvelopeFollower
	e.SetCoefficients(0.5, 0.1)

	if got := e.Process(1); got != 0.5 {
		t.Fatalf("attack step = %v, want 0.5", got)
	}

	if got := e.Process(-1); got != 0.75 {
		t.Fatalf("rectified attack step = %v, want 0.75", got)
	}

	if got := e.Process(0); math.Abs(got-0.675) > 1e-15 {
		t.Fatalf("release step = %v, want 0.675", got)
	}

	e.Reset()

	if e.Value() != 0 {
		t.Fatalf("Reset() left envelope at %v", e.Value())
	}

	a, r := e.Coefficients()
	if a != 0.5 || r != 0.1 {
		t.Fatalf("Reset() changed coefficients to %v/%v", a, r)
	}
}

func TestEnvelopeFollowerClamps(t *testing.T) {
	var e EnvelopeFollower
	e.SetCoefficients(2, -1)

	a, r := e.Coefficients()
	if a != MaxCoefficient || r != MinCoefficient {
		t.Fatalf("coefficients = %v/%v, want clamped", a, r)
	}

	for range 100 {
		e.Process(1e6)
	}

	if e.Value() != MaxEnvelope {
		t.Fatalf("envelope = %v, want %v", e.Value(), MaxEnvelope)
	}

	for range 100000 {
		if v := e.Process(0); v < 0 {
			t.Fatalf("negative envelope %v", v)
		}
	}

	if got := e.Process(math.NaN()); got != 0 {
		t.Fatalf("NaN input produced envelope %v, want 0", got)
	}
}

func TestEnvelopeFollowerSettlesOnConstantLevel(t *testing.T) {
	var e EnvelopeFollower
	e.SetTimes(1, 100, 48000)

	for range 48000 {
		e.Process(0.25)
	}

	if math.Abs(e.Value()-0.25) > 1e-9 {
		t.Fatalf("settled envelope = %v, want 0.25", e.Value())
	}
}

func TestEnvelopeFollowerReleaseReachesZero(t *testing.T) {
	var e EnvelopeFollower
	e.SetCoefficients(0.5, 0.01)
	e.Process(1)

	for range 20000 {
		e.Process(0)
	}

	if got := e.Value(); got != 0 {
		t.Fatalf("released envelope = %g, want exact zero", got)
	}
}
