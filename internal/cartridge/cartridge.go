// Package cartridge parses the ROM header and constructs the appropriate
// memory bank controller, exposing the bank-switched cartridge window to
// the MMU.
package cartridge

import (
	"fmt"

	"github.com/brackenmoor/gbcore/internal/types"
	"github.com/cespare/xxhash"
)

// SaveStore is the host's battery-RAM persistence hook (spec 6: "save
// store" is an opaque external collaborator). Load is consulted once at
// construction; Save is called at every frame boundary where RAM is
// dirty. Implementations should be best-effort: a failing Save must not
// abort the frame (spec 7).
type SaveStore interface {
	Load(key string) (data []byte, ok bool)
	Save(key string, data []byte)
}

// nullStore is used when the host doesn't care about persistence (e.g.
// cartridges with no battery, or tests).
type nullStore struct{}

func (nullStore) Load(string) ([]byte, bool) { return nil, false }
func (nullStore) Save(string, []byte)        {}

// Cartridge owns the ROM image, the MBC it was constructed with, and the
// battery-RAM persistence hook.
type Cartridge struct {
	Header Header
	mbc    MBC
	store  SaveStore
}

// New parses the ROM header, builds the matching MBC, and if the
// cartridge is battery-backed, loads any prior save from store keyed by
// (title, globalChecksum).
func New(rom []byte, store SaveStore) (*Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	mbc, err := NewMBC(rom, h)
	if err != nil {
		return nil, err
	}
	if store == nil {
		store = nullStore{}
	}
	c := &Cartridge{Header: h, mbc: mbc, store: store}
	if h.HasBattery {
		if data, ok := store.Load(c.SaveKey()); ok {
			mbc.LoadRAM(data)
		}
	}
	return c, nil
}

// SaveKey returns the save-store key for this cartridge: an xxhash of the
// title and global checksum. The spec leaves the key format
// implementation-defined; hashing the pair keeps keys fixed-width and
// filesystem-safe without the host needing to do it itself.
func (c *Cartridge) SaveKey() string {
	digest := xxhash.New()
	digest.Write([]byte(c.Header.Title))
	var checksum [2]byte
	checksum[0] = uint8(c.Header.GlobalChecksum >> 8)
	checksum[1] = uint8(c.Header.GlobalChecksum)
	digest.Write(checksum[:])
	return fmt.Sprintf("%016x", digest.Sum64())
}

// Read dispatches a cartridge-window read ([0x0000-0x7FFF] or
// [0xA000-0xBFFF]) to the MBC.
func (c *Cartridge) Read(address uint16) uint8 {
	return c.mbc.Read(address)
}

// Write dispatches a cartridge-window write to the MBC.
func (c *Cartridge) Write(address uint16, value uint8) {
	c.mbc.Write(address, value)
}

// ExternalRAM returns the cartridge's external RAM in the spec's
// persisted format: an opaque byte sequence with no wrapper header,
// sized to the header's declared RAM size (for MBC2, its 512-byte
// built-in RAM, which the header does not declare).
func (c *Cartridge) ExternalRAM() []byte {
	return c.mbc.RAM()
}

// FlushIfDirty saves external RAM to the store if it has changed since
// the last flush and the cartridge is battery-backed. Called by the
// frame driver at each frame boundary (spec 4.7).
func (c *Cartridge) FlushIfDirty() {
	if !c.Header.HasBattery || !c.mbc.Dirty() {
		return
	}
	c.store.Save(c.SaveKey(), c.mbc.RAM())
	c.mbc.ClearDirty()
}

var _ types.Stater = (*Cartridge)(nil)

func (c *Cartridge) Save(s *types.State) {
	c.mbc.Save(s)
}

func (c *Cartridge) Load(s *types.State) {
	c.mbc.Load(s)
}
