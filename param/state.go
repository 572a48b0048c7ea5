package param

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	stateMagic   = "DCMP"
	stateVersion = uint32(1)

	// maxStateEntries bounds the entry count read from untrusted blobs.
	maxStateEntries = 1 << 12
)

// Save writes snap as a little-endian blob: magic, version, entry count,
// then (id uint32, plain value float64) per parameter.
func Save(w io.Writer, snap Snapshot) error {
	if _, err := io.WriteString(w, stateMagic); err != nil {
		return fmt.Errorf("param state: write header: %w", err)
	}

	header := [2]uint32{stateVersion, uint32(len(definitions))}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("param state: write header: %w", err)
	}

	for _, d := range definitions {
		v, _ := snap.Get(d.ID)

		entry := struct {
			ID    uint32
			Value float64
		}{uint32(d.ID), v}

		if err := binary.Write(w, binary.LittleEndian, entry); err != nil {
			return fmt.Errorf("param state: write %s: %w", d.Name, err)
		}
	}

	return nil
}

// Load reads a blob written by Save. Parameters missing from the blob keep
// their defaults, unknown IDs are skipped and values are clamped.
func Load(r io.Reader) (Snapshot, error) {
	magic := make([]byte, len(stateMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return Snapshot{}, fmt.Errorf("%w: read header: %w", ErrInvalidState, err)
	}

	if string(magic) != stateMagic {
		return Snapshot{}, fmt.Errorf("%w: bad magic %q", ErrInvalidState, magic)
	}

	var header [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return Snapshot{}, fmt.Errorf("%w: read header: %w", ErrInvalidState, err)
	}

	version, count := header[0], header[1]
	if version == 0 || version > stateVersion {
		return Snapshot{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidState, version)
	}

	if count > maxStateEntries {
		return Snapshot{}, fmt.Errorf("%w: entry count %d", ErrInvalidState, count)
	}

	snap := Default()

	for i := range count {
		var entry struct {
			ID    uint32
			Value float64
		}

		if err := binary.Read(r, binary.LittleEndian, &entry); err != nil {
			return Snapshot{}, fmt.Errorf("%w: entry %d: %w", ErrInvalidState, i, err)
		}

		if next, err := snap.With(ID(entry.ID), entry.Value); err == nil {
			snap = next
		}
	}

	return snap, nil
}

// Encode returns the Save encoding of snap.
func Encode(snap Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Save(&buf, snap); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a blob produced by Encode.
func Decode(data []byte) (Snapshot, error) {
	return Load(bytes.NewReader(data))
}
