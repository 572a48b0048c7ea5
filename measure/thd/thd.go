// Package thd measures harmonic distortion of a single tone: total
// harmonic distortion, THD+N and the even/odd harmonic split used to
// characterise compressor coloration.
package thd

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-dualcomp/dsp/window"
)

const (
	defaultRangeLowerHz = 20.0
	defaultRangeUpperHz = 20000.0
)

// Config holds THD analysis parameters.
type Config struct {
	SampleRate      float64
	FundamentalFreq float64 // 0 searches for the strongest bin in range
	RangeLowerFreq  float64
	RangeUpperFreq  float64
	MaxHarmonics    int // 0 includes every harmonic below RangeUpperFreq
	Window          window.Type
}

// Result holds the measured levels. Ratios are relative to the fundamental
// amplitude; harmonic groups are summed as root-sum-square.
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64
	THD              float64
	THDN             float64
	THDdB            float64
	THDNdB           float64
	EvenHD           float64
	OddHD            float64
	Harmonics        []float64 // H2, H3, ... relative to the fundamental
}

// Analyzer owns an FFT plan and scratch for repeated analyses of blocks of
// one fixed size.
type Analyzer struct {
	cfg  Config
	size int

	plan *algofft.Plan[complex128]
	win  []float64
	in   []complex128
	out  []complex128
	pow  []float64
}

// NewAnalyzer prepares an Analyzer for signals of size samples.
func NewAnalyzer(size int, cfg Config) (*Analyzer, error) {
	if size < 4 {
		return nil, fmt.Errorf("thd analysis size must be at least 4: %d", size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("thd fft plan for %d points: %w", size, err)
	}

	return &Analyzer{
		cfg:  normalizeConfig(cfg, size),
		size: size,
		plan: plan,
		win:  window.Generate(cfg.Window, size),
		in:   make([]complex128, size),
		out:  make([]complex128, size),
		pow:  make([]float64, size/2+1),
	}, nil
}

// AnalyzeSignal is a one-shot analysis zero-padding signal to the next
// power of two. It returns the zero Result if the signal is empty or the
// FFT cannot be planned.
func AnalyzeSignal(signal []float64, cfg Config) Result {
	if len(signal) == 0 {
		return Result{}
	}

	a, err := NewAnalyzer(nextPowerOf2(max(len(signal), 4)), cfg)
	if err != nil {
		return Result{}
	}

	return a.Analyze(signal)
}

// Analyze windows the first Size() samples of signal (zero-padded if
// shorter), transforms them and evaluates the harmonic levels.
func (a *Analyzer) Analyze(signal []float64) Result {
	n := min(len(signal), a.size)

	for i := range a.in {
		a.in[i] = 0
	}

	win := a.win
	if n < a.size {
		win = window.Generate(a.cfg.Window, n)
	}

	for i := range n {
		a.in[i] = complex(signal[i]*win[i], 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return Result{}
	}

	for i := range a.pow {
		x := a.out[i]
		a.pow[i] = real(x)*real(x) + imag(x)*imag(x)
	}

	return FromPower(a.pow, a.cfg)
}

// Size returns the FFT length.
func (a *Analyzer) Size() int { return a.size }

// FromPower evaluates THD metrics from a one-sided power spectrum
// (|X[k]|^2 for bins 0..N/2). Each component's level is the root of the
// power within the window's main lobe around its bin.
func FromPower(pow []float64, cfg Config) Result {
	if len(pow) < 3 {
		return Result{}
	}

	cfg = normalizeConfig(cfg, 2*(len(pow)-1))
	maxBin := len(pow) - 1
	binHz := cfg.SampleRate / float64(2*maxBin)

	lower := clampInt(int(math.Round(cfg.RangeLowerFreq/binHz)), 1, maxBin)
	upper := clampInt(int(math.Round(cfg.RangeUpperFreq/binHz)), lower, maxBin)

	fund := lower
	if cfg.FundamentalFreq > 0 {
		fund = clampInt(int(math.Round(cfg.FundamentalFreq/binHz)), lower, upper)
	} else {
		for i := lower; i <= upper; i++ {
			if pow[i] > pow[fund] {
				fund = i
			}
		}
	}

	lobe := min(cfg.Window.MainLobeBins()-1, fund/2)

	fundPow := lobePower(pow, fund, lobe)
	res := Result{FundamentalFreq: float64(fund) * binHz}

	if fundPow <= 0 {
		return res
	}

	var harmPow, evenPow, oddPow float64

	for k := 2; cfg.MaxHarmonics == 0 || k-1 <= cfg.MaxHarmonics; k++ {
		bin := k * fund
		if bin > upper {
			break
		}

		p := lobePower(pow, bin, lobe)
		harmPow += p

		if k%2 == 0 {
			evenPow += p
		} else {
			oddPow += p
		}

		res.Harmonics = append(res.Harmonics, math.Sqrt(p/fundPow))
	}

	total := 0.0
	for i := lower; i <= upper; i++ {
		total += pow[i]
	}

	residual := math.Max(total-fundPow, 0)

	res.FundamentalLevel = math.Sqrt(fundPow)
	res.THD = math.Sqrt(harmPow / fundPow)
	res.THDN = math.Sqrt(residual / fundPow)
	res.EvenHD = math.Sqrt(evenPow / fundPow)
	res.OddHD = math.Sqrt(oddPow / fundPow)
	res.THDdB = ratioToDB(res.THD)
	res.THDNdB = ratioToDB(res.THDN)

	return res
}

func normalizeConfig(cfg Config, fftSize int) Config {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = float64(fftSize)
	}

	if cfg.RangeLowerFreq <= 0 {
		cfg.RangeLowerFreq = defaultRangeLowerHz
	}

	if cfg.RangeUpperFreq <= 0 {
		cfg.RangeUpperFreq = math.Min(defaultRangeUpperHz, cfg.SampleRate/2)
	}

	if cfg.RangeUpperFreq < cfg.RangeLowerFreq {
		cfg.RangeUpperFreq = cfg.RangeLowerFreq
	}

	if cfg.MaxHarmonics < 0 {
		cfg.MaxHarmonics = 0
	}

	return cfg
}

func lobePower(pow []float64, bin, lobe int) float64 {
	lo := max(bin-lobe, 0)
	hi := min(bin+lobe, len(pow)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += pow[i]
	}

	return sum
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}

	if val > hi {
		return hi
	}

	return val
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
