// Package wavio reads and writes RIFF/WAVE files as planar float64 audio.
//
// Reading accepts 16-bit and 24-bit integer PCM and 32-bit IEEE float.
// Writing always produces 32-bit IEEE float.
package wavio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE
)

// ErrFormat is returned for files that are not WAV or use an unsupported
// sample encoding.
var ErrFormat = errors.New("wavio: unsupported format")

// Audio is a decoded file.
type Audio struct {
	SampleRate int
	// Channels holds one slice per channel, all of equal length.
	Channels [][]float64
}

// Frames returns the number of sample frames.
func (a *Audio) Frames() int {
	if len(a.Channels) == 0 {
		return 0
	}

	return len(a.Channels[0])
}

type fmtChunk struct {
	format        uint16
	channels      int
	sampleRate    int
	bitsPerSample int
}

// Read decodes a WAV stream.
func Read(r io.Reader) (*Audio, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("wavio header: %w", err)
	}

	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE header", ErrFormat)
	}

	var (
		f      fmtChunk
		haveFm bool
	)

	for {
		var ch [8]byte
		if _, err := io.ReadFull(r, ch[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: no data chunk", ErrFormat)
			}

			return nil, fmt.Errorf("wavio chunk: %w", err)
		}

		id := string(ch[0:4])
		size := int64(binary.LittleEndian.Uint32(ch[4:8]))

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("wavio fmt chunk: %w", err)
			}

			parsed, err := parseFmt(body)
			if err != nil {
				return nil, err
			}

			f, haveFm = parsed, true
		case "data":
			if !haveFm {
				return nil, fmt.Errorf("%w: data chunk before fmt chunk", ErrFormat)
			}

			return readData(io.LimitReader(r, size), f)
		default:
			if _, err := io.CopyN(io.Discard, r, size); err != nil {
				return nil, fmt.Errorf("wavio skip %q: %w", id, err)
			}
		}

		if size%2 == 1 {
			if _, err := io.CopyN(io.Discard, r, 1); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("wavio pad: %w", err)
			}
		}
	}
}

func parseFmt(body []byte) (fmtChunk, error) {
	if len(body) < 16 {
		return fmtChunk{}, fmt.Errorf("%w: short fmt chunk (%d bytes)", ErrFormat, len(body))
	}

	f := fmtChunk{
		format:        binary.LittleEndian.Uint16(body[0:2]),
		channels:      int(binary.LittleEndian.Uint16(body[2:4])),
		sampleRate:    int(binary.LittleEndian.Uint32(body[4:8])),
		bitsPerSample: int(binary.LittleEndian.Uint16(body[14:16])),
	}

	// WAVE_FORMAT_EXTENSIBLE keeps the real format code at the start of
	// the sub-format GUID.
	if f.format == formatExtensible && len(body) >= 26 {
		f.format = binary.LittleEndian.Uint16(body[24:26])
	}

	if f.channels <= 0 || f.sampleRate <= 0 {
		return fmtChunk{}, fmt.Errorf("%w: %d channels at %d Hz", ErrFormat, f.channels, f.sampleRate)
	}

	switch {
	case f.format == formatPCM && (f.bitsPerSample == 16 || f.bitsPerSample == 24):
	case f.format == formatIEEEFloat && f.bitsPerSample == 32:
	default:
		return fmtChunk{}, fmt.Errorf("%w: format %d with %d bits", ErrFormat, f.format, f.bitsPerSample)
	}

	return f, nil
}

func readData(r io.Reader, f fmtChunk) (*Audio, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("wavio data: %w", err)
	}

	width := f.bitsPerSample / 8
	frameSize := width * f.channels
	frames := len(raw) / frameSize

	out := &Audio{SampleRate: f.sampleRate, Channels: make([][]float64, f.channels)}
	for ch := range out.Channels {
		out.Channels[ch] = make([]float64, frames)
	}

	for i := range frames {
		frame := raw[i*frameSize:]

		for ch := range f.channels {
			s := frame[ch*width:]

			var v float64

			switch {
			case f.format == formatIEEEFloat:
				v = float64(math.Float32frombits(binary.LittleEndian.Uint32(s)))
			case width == 2:
				v = float64(int16(binary.LittleEndian.Uint16(s))) / 32768
			default:
				u := int32(s[0]) | int32(s[1])<<8 | int32(s[2])<<16
				v = float64(u<<8>>8) / 8388608
			}

			out.Channels[ch][i] = v
		}
	}

	return out, nil
}

// Write encodes channels as a 32-bit float WAV stream. All channels must
// have the same length.
func Write(w io.Writer, sampleRate int, channels [][]float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("wavio sample rate must be positive: %d", sampleRate)
	}

	if len(channels) == 0 || len(channels) > math.MaxUint16 {
		return fmt.Errorf("wavio channel count out of range: %d", len(channels))
	}

	frames := len(channels[0])
	for ch, c := range channels {
		if len(c) != frames {
			return fmt.Errorf("wavio channel %d has %d frames, want %d", ch, len(c), frames)
		}
	}

	nch := len(channels)
	dataSize := frames * nch * 4
	blockAlign := nch * 4

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)

	hdr := make([]byte, 44)
	copy(hdr[0:], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:], uint32(36+dataSize))
	copy(hdr[8:], "WAVE")
	copy(hdr[12:], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:], 16)
	binary.LittleEndian.PutUint16(hdr[20:], formatIEEEFloat)
	binary.LittleEndian.PutUint16(hdr[22:], uint16(nch))
	binary.LittleEndian.PutUint32(hdr[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(hdr[28:], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(hdr[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:], 32)
	copy(hdr[36:], "data")
	binary.LittleEndian.PutUint32(hdr[40:], uint32(dataSize))
	buf.Write(hdr)

	var s [4]byte
	for i := range frames {
		for _, c := range channels {
			binary.LittleEndian.PutUint32(s[:], math.Float32bits(float32(c[i])))
			buf.Write(s[:])
		}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("wavio write: %w", err)
	}

	return nil
}
