// Package core holds small numeric and buffer helpers shared by the DSP
// packages, plus the functional-option processor configuration.
package core
