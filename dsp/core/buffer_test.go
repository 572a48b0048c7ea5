package core

import "testing"

func TestZero(t *testing.T) {
	buf := []float64{1, 2, 3}
	Zero(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}

func TestNewPlanar(t *testing.T) {
	p := NewPlanar(2, 4)
	if len(p) != 2 {
		t.Fatalf("channels = %d, want 2", len(p))
	}

	for ch := range p {
		if len(p[ch]) != 4 || cap(p[ch]) != 4 {
			t.Fatalf("channel %d: len=%d cap=%d, want 4/4", ch, len(p[ch]), cap(p[ch]))
		}
	}

	p[0] = append(p[0], 9)
	if p[1][0] != 0 {
		t.Fatal("append on channel 0 overwrote channel 1")
	}

	if NewPlanar(0, 4) != nil {
		t.Fatal("expected nil for zero channels")
	}
}
