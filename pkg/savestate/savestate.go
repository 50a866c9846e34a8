// Package savestate compresses a types.Stater snapshot for storage or
// transmission, independent of the cartridge's own battery-RAM save
// format (which the spec requires stay a bare, uncompressed byte blob).
// It's an extra persistence tier this core adds on top of the spec:
// save-state blobs round-trip the full machine (registers, VRAM, banked
// RAM, timers), not just external RAM.
package savestate

import (
	"fmt"

	"github.com/brackenmoor/gbcore/internal/types"
	"github.com/google/brotli/go/cbrotli"
)

// magic and version guard against loading a blob from an incompatible
// build; a mismatch is a hard error rather than best-effort decoding.
const (
	magic   = "GBCOREST"
	version = 1
)

// Encode serializes st's state and compresses it with brotli.
func Encode(st types.Stater) ([]byte, error) {
	s := types.NewState()
	st.Save(s)

	compressed, err := cbrotli.Encode(s.Bytes(), cbrotli.WriterOptions{Quality: 9})
	if err != nil {
		return nil, fmt.Errorf("savestate: compress: %w", err)
	}

	out := make([]byte, 0, len(magic)+1+len(compressed))
	out = append(out, magic...)
	out = append(out, version)
	out = append(out, compressed...)
	return out, nil
}

// Decode decompresses data produced by Encode and replays it into st.
func Decode(data []byte, st types.Stater) error {
	if len(data) < len(magic)+1 || string(data[:len(magic)]) != magic {
		return fmt.Errorf("savestate: not a savestate blob")
	}
	if data[len(magic)] != version {
		return fmt.Errorf("savestate: unsupported version %d", data[len(magic)])
	}

	raw, err := cbrotli.Decode(data[len(magic)+1:])
	if err != nil {
		return fmt.Errorf("savestate: decompress: %w", err)
	}
	st.Load(types.NewStateFromBytes(raw))
	return nil
}
