package svf

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-dualcomp/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		channels   int
		wantErr    bool
	}{
		{name: "stereo", sampleRate: 48000, channels: 2},
		{name: "mono", sampleRate: 44100, channels: 1},
		{name: "zero rate", sampleRate: 0, channels: 2, wantErr: true},
		{name: "nan rate", sampleRate: math.NaN(), channels: 2, wantErr: true},
		{name: "no channels", sampleRate: 48000, channels: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.sampleRate, tt.channels, 80)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetCutoffClamps(t *testing.T) {
	f, err := New(48000, 1, 80)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	f.SetCutoff(0)
	if f.Cutoff() != 1 {
		t.Fatalf("Cutoff() = %v, want 1", f.Cutoff())
	}

	f.SetCutoff(1e6)
	if want := 0.49 * 48000; f.Cutoff() != want {
		t.Fatalf("Cutoff() = %v, want %v", f.Cutoff(), want)
	}

	f.SetCutoff(math.NaN())
	if want := 0.49 * 48000; f.Cutoff() != want {
		t.Fatalf("NaN cutoff changed tuning to %v", f.Cutoff())
	}
}

func steadyGain(t *testing.T, cutoff, freq float64) float64 {
	t.Helper()

	const fs = 48000

	f, err := New(fs, 1, cutoff)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	in := testutil.DeterministicSine(freq, fs, 1, 2*fs)
	out := append([]float64(nil), in...)
	f.ProcessBlock(out, 0)
	testutil.RequireFinite(t, out)

	return testutil.RMS(out[fs:]) / testutil.RMS(in[fs:])
}

func TestHighPassResponse(t *testing.T) {
	if g := steadyGain(t, 80, 1000); g < 0.99 || g > 1.01 {
		t.Fatalf("passband gain at 1 kHz = %v, want ~1", g)
	}

	if g := steadyGain(t, 80, 20); g > 0.1 {
		t.Fatalf("stopband gain at 20 Hz = %v, want < 0.1", g)
	}

	if g := steadyGain(t, 80, 80); math.Abs(g-1/math.Sqrt2) > 0.02 {
		t.Fatalf("gain at cutoff = %v, want ~0.707", g)
	}
}

func TestRemovesDC(t *testing.T) {
	f, err := New(48000, 1, 100)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	buf := testutil.DC(0.5, 48000)
	f.ProcessBlock(buf, 0)

	if tail := math.Abs(buf[len(buf)-1]); tail > 1e-6 {
		t.Fatalf("dc residue = %v", tail)
	}
}

func TestBlockMatchesSample(t *testing.T) {
	a, _ := New(48000, 2, 120)
	b, _ := New(48000, 2, 120)

	in := testutil.DeterministicNoise(3, 0.8, 1024)

	block := append([]float64(nil), in...)
	a.ProcessBlock(block, 1)

	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = b.ProcessSample(x, 1)
	}

	testutil.RequireSliceNearlyEqual(t, block, want, 1e-12)
}

func TestImpulseTailMatchesAndReachesZero(t *testing.T) {
	a, _ := New(48000, 1, 80)
	b, _ := New(48000, 1, 80)

	in := make([]float64, 48000)
	in[0] = 1

	block := append([]float64(nil), in...)
	a.ProcessBlock(block, 0)

	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = b.ProcessSample(x, 0)
	}

	testutil.RequireSliceNearlyEqual(t, block, want, 0)
	testutil.RequireSilent(t, block[len(block)-1024:])
}

func TestChannelsIndependent(t *testing.T) {
	f, _ := New(48000, 2, 80)

	left := testutil.DeterministicNoise(1, 1, 256)
	f.ProcessBlock(left, 0)

	silent := make([]float64, 256)
	f.ProcessBlock(silent, 1)
	testutil.RequireSilent(t, silent)
}

func TestOutOfRangeChannelPassesThrough(t *testing.T) {
	f, _ := New(48000, 1, 80)

	if got := f.ProcessSample(0.25, 3); got != 0.25 {
		t.Fatalf("ProcessSample() = %v, want pass-through", got)
	}

	buf := []float64{1, 2, 3}
	f.ProcessBlock(buf, -1)
	testutil.RequireSliceNearlyEqual(t, buf, []float64{1, 2, 3}, 0)
}

func TestReset(t *testing.T) {
	f, _ := New(48000, 1, 80)

	first := testutil.DeterministicNoise(9, 1, 128)
	warm := append([]float64(nil), first...)
	f.ProcessBlock(warm, 0)

	f.Reset()

	again := append([]float64(nil), first...)
	f.ProcessBlock(again, 0)
	testutil.RequireSliceNearlyEqual(t, again, warm, 0)
}

func BenchmarkProcessBlock(b *testing.B) {
	f, _ := New(48000, 1, 80)
	buf := testutil.DeterministicNoise(1, 1, 512)

	b.ReportAllocs()

	for b.Loop() {
		f.ProcessBlock(buf, 0)
	}
}
