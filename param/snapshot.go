package param

import (
	"github.com/cwbudde/algo-dualcomp/dsp/dynamics"
)

// StageParams are the per-stage compressor settings.
type StageParams struct {
	ThresholdDB float64
	Ratio       float64
	AttackMs    float64
	ReleaseMs   float64
}

// Snapshot is a complete, immutable set of parameter values. The engine
// latches one Snapshot per block.
type Snapshot struct {
	Topology    dynamics.Topology
	SidechainHz float64
	Stage1      StageParams
	Stage2      StageParams
	KneeDB      float64
	DualStage   bool
	MakeupDB    float64
	AutoMakeup  bool
	MixPercent  float64
}

// Default returns the snapshot holding every parameter's default.
func Default() Snapshot {
	var s Snapshot
	for _, d := range definitions {
		s = s.set(d, d.Default)
	}

	return s
}

// Get returns the plain value of id. Bools read as 0/1 and the topology as
// its index.
func (s Snapshot) Get(id ID) (float64, error) {
	switch id {
	case IDTopology:
		return float64(s.Topology), nil
	case IDSidechainHz:
		return s.SidechainHz, nil
	case IDThreshold1:
		return s.Stage1.ThresholdDB, nil
	case IDRatio1:
		return s.Stage1.Ratio, nil
	case IDAttack1:
		return s.Stage1.AttackMs, nil
	case IDRelease1:
		return s.Stage1.ReleaseMs, nil
	case IDDualStage:
		return boolValue(s.DualStage), nil
	case IDThreshold2:
		return s.Stage2.ThresholdDB, nil
	case IDRatio2:
		return s.Stage2.Ratio, nil
	case IDAttack2:
		return s.Stage2.AttackMs, nil
	case IDRelease2:
		return s.Stage2.ReleaseMs, nil
	case IDKnee:
		return s.KneeDB, nil
	case IDMakeup:
		return s.MakeupDB, nil
	case IDAutoMakeup:
		return boolValue(s.AutoMakeup), nil
	case IDMix:
		return s.MixPercent, nil
	default:
		return 0, ErrUnknownParameter
	}
}

// With returns a copy of s with id set to the clamped plain value v.
func (s Snapshot) With(id ID, v float64) (Snapshot, error) {
	d, ok := ByID(id)
	if !ok {
		return s, ErrUnknownParameter
	}

	return s.set(d, v), nil
}

// Sanitize returns s with every field clamped to its definition.
func (s Snapshot) Sanitize() Snapshot {
	for _, d := range definitions {
		v, _ := s.Get(d.ID)
		s = s.set(d, v)
	}

	return s
}

// StageConfig returns the dynamics configuration of stage 1 or 2 with the
// shared knee width.
func (s Snapshot) StageConfig(stage int) dynamics.StageConfig {
	p := s.Stage1
	if stage == 2 {
		p = s.Stage2
	}

	return dynamics.StageConfig{
		ThresholdDB: p.ThresholdDB,
		Ratio:       p.Ratio,
		AttackMs:    p.AttackMs,
		ReleaseMs:   p.ReleaseMs,
		KneeDB:      s.KneeDB,
	}
}

func (s Snapshot) set(d Definition, v float64) Snapshot {
	v = d.Clamp(v)

	switch d.ID {
	case IDTopology:
		s.Topology = dynamics.Topology(v)
	case IDSidechainHz:
		s.SidechainHz = v
	case IDThreshold1:
		s.Stage1.ThresholdDB = v
	case IDRatio1:
		s.Stage1.Ratio = v
	case IDAttack1:
		s.Stage1.AttackMs = v
	case IDRelease1:
		s.Stage1.ReleaseMs = v
	case IDDualStage:
		s.DualStage = v != 0
	case IDThreshold2:
		s.Stage2.ThresholdDB = v
	case IDRatio2:
		s.Stage2.Ratio = v
	case IDAttack2:
		s.Stage2.AttackMs = v
	case IDRelease2:
		s.Stage2.ReleaseMs = v
	case IDKnee:
		s.KneeDB = v
	case IDMakeup:
		s.MakeupDB = v
	case IDAutoMakeup:
		s.AutoMakeup = v != 0
	case IDMix:
		s.MixPercent = v
	}

	return s
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
