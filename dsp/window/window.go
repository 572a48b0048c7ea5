// Package window generates DFT-even (periodic) analysis windows for the
// spectral measurements in measure/.
package window

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function. The zero value is Hann.
type Type int

const (
	TypeHann Type = iota
	TypeRectangular
	TypeHamming
	TypeBlackman
	TypeFlatTop
)

var errMismatchedLength = errors.New("window: samples and coefficients differ in length")

// cosine-sum coefficients a0, a1, a2, ... with alternating signs applied
// during evaluation.
var cosineTerms = map[Type][]float64{
	TypeRectangular: {1},
	TypeHann:        {0.5, 0.5},
	TypeHamming:     {0.54, 0.46},
	TypeBlackman:    {0.42, 0.5, 0.08},
	TypeFlatTop:     {0.21557895, 0.41663158, 0.277263158, 0.083578947, 0.006947368},
}

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeHann:
		return "Hann"
	case TypeRectangular:
		return "Rectangular"
	case TypeHamming:
		return "Hamming"
	case TypeBlackman:
		return "Blackman"
	case TypeFlatTop:
		return "FlatTop"
	default:
		return "Unknown"
	}
}

// MainLobeBins returns the half-width of the main lobe in DFT bins, which
// is how many neighbouring bins a tone's energy occupies on either side.
func (t Type) MainLobeBins() int {
	if terms, ok := cosineTerms[t]; ok {
		return len(terms)
	}

	return 2
}

// Generate returns length coefficients of window t. Unknown types fall
// back to Hann.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	GenerateInto(out, t)

	return out
}

// GenerateInto fills dst with window t without allocating.
func GenerateInto(dst []float64, t Type) {
	terms, ok := cosineTerms[t]
	if !ok {
		terms = cosineTerms[TypeHann]
	}

	n := float64(len(dst))
	for i := range dst {
		phase := 2 * math.Pi * float64(i) / n
		v, sign := 0.0, 1.0

		for k, a := range terms {
			v += sign * a * math.Cos(float64(k)*phase)
			sign = -sign
		}

		dst[i] = v
	}
}

// Apply multiplies buf in place by window t.
func Apply(t Type, buf []float64) {
	vecmath.MulBlockInPlace(buf, Generate(t, len(buf)))
}

// ApplyCoefficients writes samples*coeffs into dst.
func ApplyCoefficients(dst, samples, coeffs []float64) error {
	if len(samples) != len(coeffs) || len(dst) != len(samples) {
		return errMismatchedLength
	}

	vecmath.MulBlock(dst, samples, coeffs)

	return nil
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// CoherentGain returns the mean of the coefficients, the amplitude scaling a
// bin-centred tone experiences.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	return sum / float64(len(coeffs))
}
