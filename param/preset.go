package param

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-dualcomp/dsp/dynamics"
)

// Value is one parameter assignment.
type Value struct {
	ID    ID
	Value float64
}

// Preset is a named set of parameter assignments. Parameters not listed
// keep their current value when the preset is applied.
type Preset struct {
	Name   string
	Values []Value
}

// Apply returns s with the preset's assignments applied.
func (p Preset) Apply(s Snapshot) Snapshot {
	for _, v := range p.Values {
		s, _ = s.With(v.ID, v.Value)
	}

	return s
}

func leveler(thr, ratio, attack, release float64, dual bool, hpf float64, topo dynamics.Topology) []Value {
	return []Value{
		{ID: IDThreshold1, Value: thr},
		{ID: IDRatio1, Value: ratio},
		{ID: IDAttack1, Value: attack},
		{ID: IDRelease1, Value: release},
		{ID: IDDualStage, Value: boolValue(dual)},
		{ID: IDSidechainHz, Value: hpf},
		{ID: IDTopology, Value: float64(topo)},
	}
}

var presets = []Preset{
	{Name: "Manual"},
	{Name: "Vocal Leveler", Values: leveler(-18, 2.5, 15, 150, false, 100, dynamics.TopologyOptical)},
	{Name: "Drum Punch", Values: leveler(-15, 2, 30, 150, true, 80, dynamics.TopologyFET)},
	{Name: "Bass Control", Values: leveler(-20, 4, 5, 200, false, 100, dynamics.TopologyVCA)},
	{Name: "Mix Bus Glue", Values: leveler(-10, 2, 30, 300, false, 80, dynamics.TopologyVCA)},
	{Name: "Parallel Comp", Values: append(
		leveler(-25, 6, 10, 120, true, 80, dynamics.TopologyFET),
		Value{ID: IDMix, Value: 30},
	)},
}

// Presets returns the factory presets in selector order, starting with
// Manual, which changes nothing.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)

	return out
}

// PresetByName finds a preset ignoring case, spaces, dashes and
// underscores, so "Bass Control", "bass-control" and "BassControl" match.
func PresetByName(name string) (Preset, error) {
	key := presetKey(name)
	for _, p := range presets {
		if presetKey(p.Name) == key {
			return p, nil
		}
	}

	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

func presetKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}

		return r
	}, strings.ToLower(s))
}
