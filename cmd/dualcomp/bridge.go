package main

import (
	"encoding/binary"
	"math"

	"github.com/cwbudde/algo-dualcomp/engine"
	"github.com/cwbudde/algo-dualcomp/param"
)

// duplexBridge adapts interleaved little-endian float32 device buffers to
// the engine's planar float64 blocks. All scratch is allocated up front so
// the device callback does not allocate.
type duplexBridge struct {
	eng      *engine.Engine
	src      param.Source
	channels int
	planar   [][]float64
	view     [][]float64
}

func newDuplexBridge(eng *engine.Engine, src param.Source, channels, block int) *duplexBridge {
	b := &duplexBridge{
		eng:      eng,
		src:      src,
		channels: channels,
		planar:   make([][]float64, channels),
		view:     make([][]float64, channels),
	}

	for ch := range b.planar {
		b.planar[ch] = make([]float64, block)
	}

	return b
}

// onData is the device data callback: it compresses frames of input into
// output. A missing or short input buffer is treated as silence.
func (b *duplexBridge) onData(output, input []byte, frames uint32) {
	const width = 4

	stride := b.channels * width
	total := int(frames)
	block := len(b.planar[0])

	for lo := 0; lo < total; lo += block {
		n := min(block, total-lo)

		for ch := range b.channels {
			dst := b.planar[ch][:n]

			for i := range dst {
				off := (lo+i)*stride + ch*width
				if off+width > len(input) {
					dst[i] = 0
					continue
				}

				dst[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(input[off:])))
			}

			b.view[ch] = dst
		}

		b.eng.Process(b.view, b.src)

		for ch := range b.channels {
			for i, v := range b.view[ch] {
				off := (lo+i)*stride + ch*width
				if off+width > len(output) {
					break
				}

				binary.LittleEndian.PutUint32(output[off:], math.Float32bits(float32(v)))
			}
		}
	}
}
