// Package ram provides the flat byte-addressable RAM blocks used for the
// WRAM banks and HRAM.
package ram

import "github.com/brackenmoor/gbcore/internal/types"

// RAM is a fixed-size, zero-indexed block of bytes.
type RAM struct {
	data []byte
}

// New returns a RAM block of the given size. Contents start zeroed: the
// original hardware leaves WRAM/HRAM with indeterminate garbage on power-on,
// but a deterministic fill is preferable for reproducible tests (see
// SPEC_FULL.md section 9, "Randomized RAM init").
func New(size int) *RAM {
	return &RAM{data: make([]byte, size)}
}

func (r *RAM) Read(address uint16) uint8 {
	return r.data[address]
}

func (r *RAM) Write(address uint16, value uint8) {
	r.data[address] = value
}

// Len returns the number of addressable bytes.
func (r *RAM) Len() int {
	return len(r.data)
}

// Bytes exposes the backing slice directly, for bulk operations such as
// DMA transfers.
func (r *RAM) Bytes() []byte {
	return r.data
}

var _ types.Stater = (*RAM)(nil)

func (r *RAM) Save(s *types.State) {
	s.WriteData(r.data)
}

func (r *RAM) Load(s *types.State) {
	s.ReadData(r.data)
}
