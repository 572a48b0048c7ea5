package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-dualcomp/dsp/core"
	"github.com/cwbudde/algo-dualcomp/dsp/dynamics"
)

// ID is the stable identifier of a parameter, used for persisted state and
// automation.
type ID uint32

// Parameter IDs. Values are persisted and must never be renumbered.
const (
	IDTopology ID = iota + 1
	IDSidechainHz
	IDThreshold1
	IDRatio1
	IDAttack1
	IDRelease1
	IDDualStage
	IDThreshold2
	IDRatio2
	IDAttack2
	IDRelease2
	IDKnee
	IDMakeup
	IDAutoMakeup
	IDMix
)

// Kind is the value domain of a parameter.
type Kind int

const (
	KindFloat Kind = iota
	KindBool
	KindChoice
)

// Definition describes one parameter. Plain values are in Unit; normalized
// values are in [0, 1] and map to plain values through Skew.
type Definition struct {
	ID      ID
	Name    string
	Label   string
	Unit    string
	Kind    Kind
	Min     float64
	Max     float64
	Default float64
	Skew    float64 // 1 is linear; below 1 expands the low end
	Choices []string
}

var definitions = []Definition{
	{ID: IDTopology, Name: "topology", Label: "Topology", Kind: KindChoice, Min: 0, Max: 2, Default: 0, Skew: 1,
		Choices: []string{"VCA", "FET", "Optical"}},
	{ID: IDSidechainHz, Name: "scHPF", Label: "SC HPF", Unit: "Hz", Min: 20, Max: 500, Default: 80, Skew: 0.4},
	{ID: IDThreshold1, Name: "threshold1", Label: "Threshold 1", Unit: "dB", Min: -60, Max: 0, Default: -24, Skew: 1},
	{ID: IDRatio1, Name: "ratio1", Label: "Ratio 1", Unit: ":1", Min: 1, Max: 10, Default: 4, Skew: 1},
	{ID: IDAttack1, Name: "attack1", Label: "Attack 1", Unit: "ms", Min: 0.1, Max: 500, Default: 10, Skew: 0.5},
	{ID: IDRelease1, Name: "release1", Label: "Release 1", Unit: "ms", Min: 20, Max: 2000, Default: 150, Skew: 0.5},
	{ID: IDDualStage, Name: "dualStage", Label: "Dual Stage", Kind: KindBool, Min: 0, Max: 1, Default: 0, Skew: 1},
	{ID: IDThreshold2, Name: "threshold2", Label: "Threshold 2", Unit: "dB", Min: -60, Max: 0, Default: -12, Skew: 1},
	{ID: IDRatio2, Name: "ratio2", Label: "Ratio 2", Unit: ":1", Min: 1, Max: 20, Default: 8, Skew: 1},
	{ID: IDAttack2, Name: "attack2", Label: "Attack 2", Unit: "ms", Min: 0.01, Max: 100, Default: 1, Skew: 0.5},
	{ID: IDRelease2, Name: "release2", Label: "Release 2", Unit: "ms", Min: 20, Max: 500, Default: 50, Skew: 0.5},
	{ID: IDKnee, Name: "knee", Label: "Knee", Unit: "dB", Min: 0, Max: 24, Default: 6, Skew: 1},
	{ID: IDMakeup, Name: "makeup", Label: "Makeup Gain", Unit: "dB", Min: 0, Max: 24, Default: 0, Skew: 1},
	{ID: IDAutoMakeup, Name: "autoMakeup", Label: "Auto Makeup", Kind: KindBool, Min: 0, Max: 1, Default: 1, Skew: 1},
	{ID: IDMix, Name: "mix", Label: "Mix", Unit: "%", Min: 0, Max: 100, Default: 100, Skew: 1},
}

// Definitions returns all parameters in ID order. The returned slice is a
// copy.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)

	return out
}

// ByID returns the definition of id.
func ByID(id ID) (Definition, bool) {
	if id < 1 || int(id) > len(definitions) {
		return Definition{}, false
	}

	return definitions[id-1], true
}

// Lookup returns the definition whose Name matches name case-insensitively.
func Lookup(name string) (Definition, bool) {
	for _, d := range definitions {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}

	return Definition{}, false
}

// Clamp limits a plain value to the parameter's domain: ranges are clamped,
// bools become 0 or 1 and choices round to the nearest index. NaN maps to
// the default.
func (d Definition) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return d.Default
	}

	switch d.Kind {
	case KindBool:
		if v >= 0.5 {
			return 1
		}

		return 0
	case KindChoice:
		v = math.Round(v)
	}

	return core.Clamp(v, d.Min, d.Max)
}

// Normalize maps a plain value to [0, 1].
func (d Definition) Normalize(plain float64) float64 {
	if d.Max <= d.Min {
		return 0
	}

	n := (d.Clamp(plain) - d.Min) / (d.Max - d.Min)
	if d.Skew > 0 && d.Skew != 1 {
		n = math.Pow(n, d.Skew)
	}

	return n
}

// Denormalize maps a normalized value to a clamped plain value.
func (d Definition) Denormalize(n float64) float64 {
	if math.IsNaN(n) {
		return d.Default
	}

	n = math.Max(0, math.Min(n, 1))

	switch d.Kind {
	case KindBool:
		return d.Clamp(n)
	case KindChoice:
		return d.Clamp(d.Min + n*(d.Max-d.Min))
	}

	if d.Skew > 0 && d.Skew != 1 && n > 0 {
		n = math.Exp(math.Log(n) / d.Skew)
	}

	return d.Clamp(d.Min + n*(d.Max-d.Min))
}

// Format renders a plain value with its unit for display.
func (d Definition) Format(v float64) string {
	v = d.Clamp(v)

	switch d.Kind {
	case KindBool:
		if v != 0 {
			return "On"
		}

		return "Off"
	case KindChoice:
		i := int(v - d.Min)
		if i >= 0 && i < len(d.Choices) {
			if d.ID == IDTopology {
				t := dynamics.Topology(i)
				return t.String() + " (" + t.Description() + ")"
			}

			return d.Choices[i]
		}

		return fmt.Sprintf("%.0f", v)
	}

	switch d.Unit {
	case "Hz", "%":
		return fmt.Sprintf("%.0f %s", v, d.Unit)
	case ":1":
		return fmt.Sprintf("%.2f:1", v)
	case "ms":
		if v < 1 {
			return fmt.Sprintf("%.2f ms", v)
		}

		return fmt.Sprintf("%.1f ms", v)
	default:
		return fmt.Sprintf("%.1f %s", v, d.Unit)
	}
}

// Parse converts user text to a plain value: choice names, on/off/true/false
// for bools, otherwise a number with an optional unit suffix. Any other
// trailing text is rejected.
func (d Definition) Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)

	switch d.Kind {
	case KindBool:
		switch strings.ToLower(s) {
		case "on", "true", "yes", "1":
			return 1, nil
		case "off", "false", "no", "0":
			return 0, nil
		}

		return 0, fmt.Errorf("param %s: invalid bool %q", d.Name, s)
	case KindChoice:
		for i, c := range d.Choices {
			if strings.EqualFold(c, s) {
				return d.Min + float64(i), nil
			}
		}
	}

	num := strings.TrimSpace(strings.TrimSuffix(s, d.Unit))

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("param %s: invalid value %q: %w", d.Name, s, err)
	}

	return d.Clamp(v), nil
}
