package param

import (
	"math"
	"testing"
)

func TestDefinitionsTable(t *testing.T) {
	tests := []struct {
		name          string
		min, max, def float64
		unit          string
	}{
		{name: "topology", min: 0, max: 2, def: 0},
		{name: "scHPF", min: 20, max: 500, def: 80, unit: "Hz"},
		{name: "threshold1", min: -60, max: 0, def: -24, unit: "dB"},
		{name: "ratio1", min: 1, max: 10, def: 4, unit: ":1"},
		{name: "attack1", min: 0.1, max: 500, def: 10, unit: "ms"},
		{name: "release1", min: 20, max: 2000, def: 150, unit: "ms"},
		{name: "dualStage", min: 0, max: 1, def: 0},
		{name: "threshold2", min: -60, max: 0, def: -12, unit: "dB"},
		{name: "ratio2", min: 1, max: 20, def: 8, unit: ":1"},
		{name: "attack2", min: 0.01, max: 100, def: 1, unit: "ms"},
		{name: "release2", min: 20, max: 500, def: 50, unit: "ms"},
		{name: "knee", min: 0, max: 24, def: 6, unit: "dB"},
		{name: "makeup", min: 0, max: 24, def: 0, unit: "dB"},
		{name: "autoMakeup", min: 0, max: 1, def: 1},
		{name: "mix", min: 0, max: 100, def: 100, unit: "%"},
	}

	defs := Definitions()
	if len(defs) != len(tests) {
		t.Fatalf("len(Definitions()) = %d, want %d", len(defs), len(tests))
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := defs[i]
			if d.Name != tt.name || d.Min != tt.min || d.Max != tt.max || d.Default != tt.def || d.Unit != tt.unit {
				t.Fatalf("definition = %+v, want %+v", d, tt)
			}

			if int(d.ID) != i+1 {
				t.Fatalf("ID = %d, want %d", d.ID, i+1)
			}

			byID, ok := ByID(d.ID)
			if !ok || byID.Name != d.Name {
				t.Fatalf("ByID(%d) = %+v, %v", d.ID, byID, ok)
			}

			byName, ok := Lookup(tt.name)
			if !ok || byName.ID != d.ID {
				t.Fatalf("Lookup(%q) = %+v, %v", tt.name, byName, ok)
			}
		})
	}

	if _, ok := ByID(0); ok {
		t.Fatal("ByID(0) should fail")
	}

	if _, ok := Lookup("drive"); ok {
		t.Fatal("Lookup(drive) should fail")
	}
}

func TestDefinitionClamp(t *testing.T) {
	ratio, _ := ByID(IDRatio1)
	dual, _ := ByID(IDDualStage)
	topo, _ := ByID(IDTopology)
	mix, _ := ByID(IDMix)

	tests := []struct {
		name string
		d    Definition
		in   float64
		want float64
	}{
		{name: "ratio below one", d: ratio, in: 0.2, want: 1},
		{name: "ratio above max", d: ratio, in: 50, want: 10},
		{name: "ratio nan", d: ratio, in: math.NaN(), want: 4},
		{name: "bool high", d: dual, in: 0.7, want: 1},
		{name: "bool low", d: dual, in: 0.3, want: 0},
		{name: "choice rounds", d: topo, in: 1.4, want: 1},
		{name: "choice clamps", d: topo, in: 7, want: 2},
		{name: "mix negative", d: mix, in: -5, want: 0},
		{name: "mix above", d: mix, in: 140, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Clamp(tt.in); got != tt.want {
				t.Fatalf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	for _, d := range Definitions() {
		for _, n := range []float64{0, 0.25, 0.5, 1} {
			plain := d.Denormalize(n)
			if plain < d.Min || plain > d.Max {
				t.Fatalf("%s: Denormalize(%v) = %v out of range", d.Name, n, plain)
			}

			if d.Kind != KindFloat {
				continue
			}

			if back := d.Normalize(plain); math.Abs(back-n) > 1e-12 {
				t.Fatalf("%s: Normalize(Denormalize(%v)) = %v", d.Name, n, back)
			}
		}
	}
}

func TestSkewExpandsLowEnd(t *testing.T) {
	hpf, _ := ByID(IDSidechainHz)

	mid := hpf.Denormalize(0.5)
	if mid >= (hpf.Min+hpf.Max)/2 {
		t.Fatalf("skewed midpoint %v should sit below the linear midpoint", mid)
	}

	dual, _ := ByID(IDDualStage)
	if dual.Denormalize(0.5) != 1 || dual.Denormalize(0.49) != 0 {
		t.Fatal("bool threshold must be 0.5")
	}

	topo, _ := ByID(IDTopology)
	if topo.Denormalize(0.5) != 1 || topo.Denormalize(1) != 2 {
		t.Fatal("choice must round to nearest index")
	}
}

func TestFormatAndParse(t *testing.T) {
	tests := []struct {
		id   ID
		v    float64
		want string
	}{
		{id: IDTopology, v: 1, want: "FET (Aggressive/2nd+3rd)"},
		{id: IDSidechainHz, v: 80, want: "80 Hz"},
		{id: IDThreshold1, v: -24, want: "-24.0 dB"},
		{id: IDRatio2, v: 8, want: "8.00:1"},
		{id: IDAttack2, v: 0.05, want: "0.05 ms"},
		{id: IDRelease1, v: 150, want: "150.0 ms"},
		{id: IDAutoMakeup, v: 1, want: "On"},
		{id: IDDualStage, v: 0, want: "Off"},
		{id: IDMix, v: 30, want: "30 %"},
	}

	for _, tt := range tests {
		d, _ := ByID(tt.id)
		if got := d.Format(tt.v); got != tt.want {
			t.Fatalf("%s: Format(%v) = %q, want %q", d.Name, tt.v, got, tt.want)
		}
	}

	parses := []struct {
		id      ID
		in      string
		want    float64
		wantErr bool
	}{
		{id: IDTopology, in: "optical", want: 2},
		{id: IDDualStage, in: "on", want: 1},
		{id: IDAutoMakeup, in: "false", want: 0},
		{id: IDThreshold1, in: "-18dB", want: -18},
		{id: IDRatio1, in: "2.5", want: 2.5},
		{id: IDRatio1, in: "99", want: 10},
		{id: IDRatio2, in: "8:1", want: 8},
		{id: IDMix, in: "80 %", want: 80},
		{id: IDSidechainHz, in: " 120 Hz ", want: 120},
		{id: IDMix, in: "loud", wantErr: true},
		{id: IDRatio1, in: "4abc", wantErr: true},
		{id: IDRatio1, in: "6;rm", wantErr: true},
		{id: IDRatio1, in: "2.5 :1 junk", wantErr: true},
		{id: IDThreshold1, in: "-12 dB dB", wantErr: true},
		{id: IDKnee, in: "", wantErr: true},
		{id: IDDualStage, in: "maybe", wantErr: true},
	}

	for _, tt := range parses {
		d, _ := ByID(tt.id)

		got, err := d.Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: Parse(%q) err = %v", d.Name, tt.in, err)
		}

		if !tt.wantErr && got != tt.want {
			t.Fatalf("%s: Parse(%q) = %v, want %v", d.Name, tt.in, got, tt.want)
		}
	}
}
