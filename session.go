// Package gbcore is the host-facing entry point: it wraps the internal
// gameboy/cartridge/MMU/CPU/PPU machinery behind the small surface a host
// application actually needs to drive an emulated session (spec 6).
package gbcore

import (
	"github.com/brackenmoor/gbcore/internal/cartridge"
	"github.com/brackenmoor/gbcore/internal/gameboy"
	"github.com/brackenmoor/gbcore/internal/joypad"
	"github.com/brackenmoor/gbcore/pkg/log"
	"github.com/brackenmoor/gbcore/pkg/savestate"
)

// Button identifies a physical joypad button, re-exported so hosts never
// need to import an internal package.
type Button = joypad.Button

const (
	ButtonRight  = joypad.ButtonRight
	ButtonLeft   = joypad.ButtonLeft
	ButtonUp     = joypad.ButtonUp
	ButtonDown   = joypad.ButtonDown
	ButtonA      = joypad.ButtonA
	ButtonB      = joypad.ButtonB
	ButtonSelect = joypad.ButtonSelect
	ButtonStart  = joypad.ButtonStart
)

// SaveStore is the host's battery-RAM persistence hook.
type SaveStore = cartridge.SaveStore

// Option configures a Session at construction.
type Option func(*options)

type options struct {
	store  SaveStore
	logger log.Logger
}

// WithSaveStore attaches a battery-RAM persistence hook. Without one,
// battery-backed cartridges simply don't persist across sessions.
func WithSaveStore(store SaveStore) Option {
	return func(o *options) { o.store = store }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Session is one running emulated console: a loaded ROM plus its full
// machine state, advanced one frame at a time by the host's render loop.
type Session struct {
	gb *gameboy.GameBoy
}

// Load parses romBytes and returns a ready-to-run Session. If the
// cartridge is battery-backed and a save store is supplied via
// WithSaveStore, any prior save is loaded automatically.
func Load(romBytes []byte, opts ...Option) (*Session, error) {
	o := options{logger: log.NewNull()}
	for _, opt := range opts {
		opt(&o)
	}

	gb, err := gameboy.New(romBytes, o.store, o.logger)
	if err != nil {
		return nil, err
	}
	return &Session{gb: gb}, nil
}

// StepFrame runs the machine forward by one frame (~70224 T-cycles, or
// double that in CGB double-speed mode), flushing battery RAM at the
// frame boundary.
func (s *Session) StepFrame() {
	s.gb.Frame()
}

// Press and Release inject a joypad event, to be called between frames.
func (s *Session) Press(button Button)   { s.gb.Press(button) }
func (s *Session) Release(button Button) { s.gb.Release(button) }

// Framebuffer returns the most recently rendered frame as 160x144 packed
// RGBA, valid from the moment VBlank begins until the next one.
func (s *Session) Framebuffer() []byte {
	return s.gb.Framebuffer()
}

// Save returns the cartridge's current external RAM, in the bare,
// unwrapped format the spec's save store expects (title+checksum-keyed,
// opaque to this package). Hosts that manage their own persistence
// outside WithSaveStore can call this directly.
func (s *Session) Save() []byte {
	return s.gb.Cart.ExternalRAM()
}

// SaveState returns a compressed full-machine snapshot (registers, VRAM,
// all RAM, peripheral state) distinct from the bare battery-RAM format
// Save returns. RestoreState reverses it.
func (s *Session) SaveState() ([]byte, error) {
	return savestate.Encode(s.gb)
}

// RestoreState replays a snapshot produced by SaveState.
func (s *Session) RestoreState(data []byte) error {
	return savestate.Decode(data, s.gb)
}
