package param

import "errors"

var (
	// ErrUnknownParameter is returned for IDs or names outside Definitions.
	ErrUnknownParameter = errors.New("param: unknown parameter")

	// ErrUnknownPreset is returned by PresetByName for unknown names.
	ErrUnknownPreset = errors.New("param: unknown preset")

	// ErrInvalidState is returned when a state blob cannot be decoded.
	ErrInvalidState = errors.New("param: invalid state")
)
