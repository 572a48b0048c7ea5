// Package config loads TOML session files for the dualcomp command.
//
// A session file looks like:
//
//	preset = "Vocal Leveler"
//
//	[engine]
//	sample_rate = 48000
//	block_size = 512
//	channels = 2
//
//	[params]
//	threshold1 = -20
//	dual_stage = true
//	topology = "Optical"
//	mix = "80 %"
//
// The preset is applied first, then every [params] entry. Parameter keys
// match parameter names ignoring case and underscores; values may be
// numbers, booleans or text accepted by the parameter's parser.
package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/cwbudde/algo-dualcomp/dsp/core"
	"github.com/cwbudde/algo-dualcomp/param"
)

// Engine holds the [engine] table. Zero fields keep the processor defaults.
type Engine struct {
	SampleRate float64 `toml:"sample_rate"`
	BlockSize  int     `toml:"block_size"`
	Channels   int     `toml:"channels"`
}

// Session is a decoded session file.
type Session struct {
	Preset string         `toml:"preset"`
	Engine Engine         `toml:"engine"`
	Params map[string]any `toml:"params"`
}

// Load reads and decodes the session file at path.
func Load(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config open: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return s, nil
}

// Decode reads a session from r. Unknown keys are rejected.
func Decode(r io.Reader) (*Session, error) {
	var s Session

	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("config decode: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}

		return nil, fmt.Errorf("config: unknown keys %s", strings.Join(keys, ", "))
	}

	return &s, nil
}

// ProcessorOptions returns the engine settings as processor options.
func (s *Session) ProcessorOptions() []core.ProcessorOption {
	return []core.ProcessorOption{
		core.WithSampleRate(s.Engine.SampleRate),
		core.WithBlockSize(s.Engine.BlockSize),
		core.WithChannels(s.Engine.Channels),
	}
}

// Snapshot applies the session's preset and parameters on top of base.
func (s *Session) Snapshot(base param.Snapshot) (param.Snapshot, error) {
	snap := base

	if s.Preset != "" {
		p, err := param.PresetByName(s.Preset)
		if err != nil {
			return base, fmt.Errorf("config preset: %w", err)
		}

		snap = p.Apply(snap)
	}

	// Sorted for deterministic error reporting.
	keys := make([]string, 0, len(s.Params))
	for k := range s.Params {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		def, ok := param.Lookup(strings.ReplaceAll(k, "_", ""))
		if !ok {
			return base, fmt.Errorf("config params: %w: %q", param.ErrUnknownParameter, k)
		}

		v, err := value(def, s.Params[k])
		if err != nil {
			return base, fmt.Errorf("config params: %w", err)
		}

		snap, err = snap.With(def.ID, v)
		if err != nil {
			return base, fmt.Errorf("config params: %w", err)
		}
	}

	return snap, nil
}

// Apply replaces the contents of store with the session's parameters,
// starting from defaults.
func (s *Session) Apply(store *param.Store) error {
	snap, err := s.Snapshot(param.Default())
	if err != nil {
		return err
	}

	store.Replace(snap)

	return nil
}

func value(def param.Definition, raw any) (float64, error) {
	switch v := raw.(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}

		return 0, nil
	case string:
		return def.Parse(v)
	default:
		return 0, fmt.Errorf("param %s: unsupported value type %T", def.Name, raw)
	}
}
