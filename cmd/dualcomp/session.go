package main

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-dualcomp/internal/config"
	"github.com/cwbudde/algo-dualcomp/param"
)

// setFlags collects repeated -set name=value overrides.
type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("expected name=value, got %q", v)
	}

	*s = append(*s, v)

	return nil
}

// apply parses every override and applies it to snap in order.
func (s setFlags) apply(snap param.Snapshot) (param.Snapshot, error) {
	for _, kv := range s {
		name, text, _ := strings.Cut(kv, "=")

		def, ok := param.Lookup(strings.ReplaceAll(strings.TrimSpace(name), "_", ""))
		if !ok {
			return snap, fmt.Errorf("-set %s: %w", kv, param.ErrUnknownParameter)
		}

		v, err := def.Parse(text)
		if err != nil {
			return snap, fmt.Errorf("-set %s: %w", kv, err)
		}

		snap, err = snap.With(def.ID, v)
		if err != nil {
			return snap, fmt.Errorf("-set %s: %w", kv, err)
		}
	}

	return snap, nil
}

// sessionSource holds the command-line view of a session: an optional
// TOML file, an optional preset override and -set overrides.
type sessionSource struct {
	path   string
	preset string
	sets   setFlags
}

// load reads the session file, if any, and resolves the parameter
// snapshot. The preset flag replaces the file's preset.
func (s *sessionSource) load() (*config.Session, param.Snapshot, error) {
	session := &config.Session{}

	if s.path != "" {
		loaded, err := config.Load(s.path)
		if err != nil {
			return nil, param.Snapshot{}, err
		}

		session = loaded
	}

	if s.preset != "" {
		session.Preset = s.preset
	}

	snap, err := session.Snapshot(param.Default())
	if err != nil {
		return nil, param.Snapshot{}, err
	}

	snap, err = s.sets.apply(snap)
	if err != nil {
		return nil, param.Snapshot{}, err
	}

	return session, snap, nil
}
