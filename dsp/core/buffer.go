package core

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// NewPlanar allocates channels slices of n samples backed by one contiguous
// array, so per-channel scratch can be sized once and reused.
func NewPlanar(channels, n int) [][]float64 {
	if channels <= 0 || n < 0 {
		return nil
	}

	backing := make([]float64, channels*n)

	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = backing[ch*n : (ch+1)*n : (ch+1)*n]
	}

	return out
}
