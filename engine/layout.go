package engine

import "fmt"

// Layout is a main-bus channel configuration.
type Layout struct {
	Inputs  int
	Outputs int
}

var (
	// LayoutMono is one input and one output channel.
	LayoutMono = Layout{Inputs: 1, Outputs: 1}
	// LayoutStereo is two input and two output channels.
	LayoutStereo = Layout{Inputs: 2, Outputs: 2}
)

// LayoutFor returns the symmetric layout with channels inputs and outputs.
func LayoutFor(channels int) Layout {
	return Layout{Inputs: channels, Outputs: channels}
}

// String formats the layout as "in->out".
func (l Layout) String() string {
	return fmt.Sprintf("%d->%d", l.Inputs, l.Outputs)
}

// NegotiateLayout reports whether the engine can run l. Only mono and
// stereo are supported, and inputs must equal outputs.
func NegotiateLayout(l Layout) error {
	if l.Outputs != 1 && l.Outputs != 2 {
		return fmt.Errorf("%w: %d output channels", ErrUnsupportedLayout, l.Outputs)
	}

	if l.Inputs != l.Outputs {
		return fmt.Errorf("%w: %s", ErrUnsupportedLayout, l)
	}

	return nil
}
