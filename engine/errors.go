package engine

import "errors"

// ErrUnsupportedLayout is returned when a channel layout other than mono or
// stereo with matching input and output counts is requested.
var ErrUnsupportedLayout = errors.New("engine: unsupported channel layout")
