package dynamics

import (
	"math"
	"testing"
)

func TestGainReductionDBBranches(t *testing.T) {
	tests := []struct {
		name  string
		envDB float64
		thrDB float64
		ratio float64
		knee  float64
		want  float64
	}{
		{name: "well below knee", envDB: -40, thrDB: -24, ratio: 4, knee: 6, want: 0},
		{name: "at lower knee edge", envDB: -27, thrDB: -24, ratio: 4, knee: 6, want: 0},
		{name: "above knee", envDB: -10, thrDB: -24, ratio: 4, knee: 6, want: 10.5},
		{name: "inside knee at threshold", envDB: -24, thrDB: -24, ratio: 4, knee: 6, want: 9.0 / 12 * 0.75},
		{name: "hard knee above", envDB: -14, thrDB: -20, ratio: 2, knee: 0, want: 3},
		{name: "hard knee at threshold", envDB: -20, thrDB: -20, ratio: 2, knee: 0, want: 0},
		{name: "clamped to 60", envDB: 100, thrDB: -60, ratio: 20, knee: 6, want: 60},
		{name: "ratio below one", envDB: 0, thrDB: -40, ratio: 0.5, knee: 6, want: 0},
		{name: "negative knee is hard", envDB: -14, thrDB: -20, ratio: 2, knee: -3, want: 3},
		{name: "nan level", envDB: math.NaN(), thrDB: -20, ratio: 2, knee: 6, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GainReductionDB(tt.envDB, tt.thrDB, tt.ratio, tt.knee)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("GainReductionDB(%v, %v, %v, %v) = %v, want %v",
					tt.envDB, tt.thrDB, tt.ratio, tt.knee, got, tt.want)
			}
		})
	}
}

func TestGainReductionDBBelowAndAboveKnee(t *testing.T) {
	const (
		thr  = -24.0
		knee = 6.0
	)

	for _, ratio := range []float64{1.5, 2, 4, 10, 20} {
		for env := -90.0; env < thr-knee/2; env += 0.5 {
			if gr := GainReductionDB(env, thr, ratio, knee); gr != 0 {
				t.Fatalf("ratio %v env %v: gr = %v, want 0", ratio, env, gr)
			}
		}

		for env := thr + knee/2 + 0.01; env < 40; env += 0.5 {
			want := math.Min((env-thr)*(1-1/ratio), MaxGainReductionDB)

			gr := GainReductionDB(env, thr, ratio, knee)
			if math.Abs(gr-want) > 1e-9 {
				t.Fatalf("ratio %v env %v: gr = %v, want %v", ratio, env, gr, want)
			}
		}
	}
}

func TestGainReductionDBKneeContinuity(t *testing.T) {
	const (
		thr   = -18.0
		ratio = 4.0
		eps   = 1e-9
	)

	for _, knee := range []float64{0.5, 3, 6, 12, 24} {
		half := knee / 2

		lowInside := GainReductionDB(thr-half+eps, thr, ratio, knee)
		if lowInside > 1e-6 {
			t.Fatalf("knee %v: value jump at lower edge: %v", knee, lowInside)
		}

		upperInside := GainReductionDB(thr+half-eps, thr, ratio, knee)
		upperOutside := GainReductionDB(thr+half+eps, thr, ratio, knee)

		if math.Abs(upperInside-upperOutside) > 1e-6 {
			t.Fatalf("knee %v: value jump at upper edge: %v vs %v", knee, upperInside, upperOutside)
		}

		// Slope inside the knee at its upper edge equals the ratio slope.
		const h = 1e-4
		inner := (GainReductionDB(thr+half-h, thr, ratio, knee) - GainReductionDB(thr+half-2*h, thr, ratio, knee)) / h
		if math.Abs(inner-(1-1/ratio)) > 1e-3 {
			t.Fatalf("knee %v: slope at upper edge = %v, want %v", knee, inner, 1-1/ratio)
		}
	}
}

func TestGainReductionDBRatioOneNeverCompresses(t *testing.T) {
	for env := -120.0; env <= 24; env += 0.25 {
		for _, knee := range []float64{0, 6, 24} {
			if gr := GainReductionDB(env, -40, 1, knee); gr != 0 {
				t.Fatalf("env %v knee %v: gr = %v, want 0", env, knee, gr)
			}
		}
	}
}
