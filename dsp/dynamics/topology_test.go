package dynamics

import (
	"testing"

	"github.com/cwbudde/algo-dualcomp/internal/testutil"
	"github.com/cwbudde/algo-dualcomp/measure/thd"
)

func TestShapeIdentityAtZero(t *testing.T) {
	for _, mode := range Topologies() {
		if got := Shape(0, mode); got != 0 {
			t.Fatalf("Shape(0, %v) = %v, want 0", mode, got)
		}
	}
}

func TestShapeMonotonicNearZero(t *testing.T) {
	for _, mode := range Topologies() {
		prev := Shape(-0.5, mode)
		for x := -0.5 + 0.001; x <= 0.5; x += 0.001 {
			y := Shape(x, mode)
			if y <= prev {
				t.Fatalf("%v: Shape not increasing at %v (%v <= %v)", mode, x, y, prev)
			}

			prev = y
		}
	}
}

func TestShapeFormulas(t *testing.T) {
	const x = 0.5

	testutil.RequireNear(t, "VCA", Shape(x, TopologyVCA), x+0.0005*x*x*x, 1e-15)
	testutil.RequireNear(t, "FET", Shape(x, TopologyFET), x+0.002*x*x+0.003*x*x*x, 1e-15)
	testutil.RequireNear(t, "Optical", Shape(x, TopologyOptical), 0.5+0.001*0.7615941559557649, 1e-15)

	if got := Shape(x, Topology(42)); got != x {
		t.Fatalf("unknown topology should pass through, got %v", got)
	}
}

func TestParseTopology(t *testing.T) {
	tests := []struct {
		in      string
		want    Topology
		wantErr bool
	}{
		{in: "VCA", want: TopologyVCA},
		{in: "fet", want: TopologyFET},
		{in: " Optical ", want: TopologyOptical},
		{in: "tube", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTopology(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTopology(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}

			if !tt.wantErr && got != tt.want {
				t.Fatalf("ParseTopology(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTopologyStrings(t *testing.T) {
	for _, mode := range Topologies() {
		if !mode.Valid() || mode.Description() == "" {
			t.Fatalf("%v: missing metadata", mode)
		}
	}

	if Topology(7).Valid() || Topology(-1).Valid() {
		t.Fatal("out-of-range topology reported as valid")
	}

	if got := Topology(7).String(); got != "Topology(7)" {
		t.Fatalf("String() = %q", got)
	}
}

// harmonicProfile shapes a bin-centred sine and returns its THD analysis.
func harmonicProfile(mode Topology) thd.Result {
	const (
		fs   = 48000.0
		size = 8192
		bin  = 171
	)

	freq := fs / size * bin
	sig := testutil.DeterministicSine(freq, fs, 0.5, size)

	for i, x := range sig {
		sig[i] = Shape(x, mode)
	}

	return thd.AnalyzeSignal(sig, thd.Config{SampleRate: fs, FundamentalFreq: freq})
}

func TestTopologyHarmonicCharacter(t *testing.T) {
	vca := harmonicProfile(TopologyVCA)
	if vca.EvenHD > 1e-9 {
		t.Fatalf("VCA even harmonics = %v, want none", vca.EvenHD)
	}

	if vca.OddHD < 1e-6 {
		t.Fatalf("VCA odd harmonics = %v, want measurable", vca.OddHD)
	}

	fet := harmonicProfile(TopologyFET)
	if fet.EvenHD <= fet.OddHD {
		t.Fatalf("FET even %v should dominate odd %v", fet.EvenHD, fet.OddHD)
	}

	if fet.THD <= vca.THD {
		t.Fatalf("FET THD %v should exceed VCA THD %v", fet.THD, vca.THD)
	}

	opt := harmonicProfile(TopologyOptical)
	if opt.EvenHD > 1e-9 {
		t.Fatalf("Optical even harmonics = %v, want none", opt.EvenHD)
	}
}
