package dynamics

import (
	"fmt"
	"math"
	"strings"
)

// Topology selects the analog compressor style whose coloration is emulated
// after gain reduction.
type Topology int

const (
	// TopologyVCA adds a small odd-order (cubic) component.
	TopologyVCA Topology = iota
	// TopologyFET adds second- and third-order components.
	TopologyFET
	// TopologyOptical adds a soft tanh saturation.
	TopologyOptical

	topologyCount
)

// Topologies lists all topologies in parameter order.
func Topologies() []Topology {
	return []Topology{TopologyVCA, TopologyFET, TopologyOptical}
}

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case TopologyVCA:
		return "VCA"
	case TopologyFET:
		return "FET"
	case TopologyOptical:
		return "Optical"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// Description summarizes the harmonic character of the topology.
func (t Topology) Description() string {
	switch t {
	case TopologyVCA:
		return "Clean/Odd"
	case TopologyFET:
		return "Aggressive/2nd+3rd"
	case TopologyOptical:
		return "Smooth/Warm"
	default:
		return ""
	}
}

// Valid reports whether t is one of the defined topologies.
func (t Topology) Valid() bool { return t >= 0 && t < topologyCount }

// ParseTopology parses a topology name case-insensitively.
func ParseTopology(s string) (Topology, error) {
	for _, t := range Topologies() {
		if strings.EqualFold(strings.TrimSpace(s), t.String()) {
			return t, nil
		}
	}

	return TopologyVCA, fmt.Errorf("dynamics: unknown topology %q", s)
}

// Shape applies the coloration of mode to x. All modes are the identity at
// zero and nearly linear for small inputs. Unknown modes pass x through.
func Shape(x float64, mode Topology) float64 {
	switch mode {
	case TopologyVCA:
		return x + 0.0005*x*x*x
	case TopologyFET:
		return x + 0.002*x*x + 0.003*x*x*x
	case TopologyOptical:
		return x + 0.001*math.Tanh(2*x)
	default:
		return x
	}
}
