// Package gameboy wires the cartridge, MMU, CPU, PPU and Timer together
// and drives the per-frame T-cycle loop described in spec 4.7.
package gameboy

import (
	"github.com/brackenmoor/gbcore/internal/apu"
	"github.com/brackenmoor/gbcore/internal/cartridge"
	"github.com/brackenmoor/gbcore/internal/cpu"
	"github.com/brackenmoor/gbcore/internal/interrupts"
	"github.com/brackenmoor/gbcore/internal/joypad"
	"github.com/brackenmoor/gbcore/internal/mmu"
	"github.com/brackenmoor/gbcore/internal/ppu"
	"github.com/brackenmoor/gbcore/internal/serial"
	"github.com/brackenmoor/gbcore/internal/timer"
	"github.com/brackenmoor/gbcore/internal/types"
	"github.com/brackenmoor/gbcore/pkg/log"
)

// cyclesPerFrame is the nominal T-cycle budget for one 59.7 Hz DMG/CGB
// frame: 154 lines x 456 dots.
const cyclesPerFrame = 70224

// GameBoy is one emulated console instance: a cartridge plugged into the
// full peripheral set, advanced one frame at a time.
type GameBoy struct {
	Cart   *cartridge.Cartridge
	MMU    *mmu.MMU
	CPU    *cpu.CPU
	PPU    *ppu.PPU
	Timer  *timer.Controller
	Serial *serial.Controller
	APU    *apu.APU
	IRQ    *interrupts.Service
	Joypad *joypad.State

	log log.Logger

	// carry holds any cycles the last instruction of a frame overran the
	// budget by, so the next frame's accounting starts from the right
	// place instead of losing or double-counting them.
	carry int
}

// New constructs a GameBoy from a ROM image and a save store, wiring
// every peripheral into a shared MMU the way the CPU and PPU observe it.
func New(rom []byte, store cartridge.SaveStore, logger log.Logger) (*GameBoy, error) {
	if logger == nil {
		logger = log.NewNull()
	}
	cart, err := cartridge.New(rom, store)
	if err != nil {
		return nil, err
	}

	isCGB := cart.Header.CGBAware()
	irq := interrupts.NewService()
	p := ppu.New(irq, isCGB)
	a := apu.New()
	t := timer.NewController(irq)
	s := serial.NewController()
	j := joypad.New()
	m := mmu.New(cart, p, a, t, s, j, irq, isCGB)
	c := cpu.New(m, irq)

	logger.Infof("loaded cartridge %q (kind=%v cgb=%v ramSize=%d)", cart.Header.Title, cart.Header.Kind, isCGB, cart.Header.RAMSize)

	return &GameBoy{
		Cart: cart, MMU: m, CPU: c, PPU: p, Timer: t, Serial: s, APU: a, IRQ: irq, Joypad: j,
		log: logger,
	}, nil
}

// Step runs exactly one CPU instruction (or interrupt dispatch) and
// advances every peripheral by the same number of T-cycles, per the
// control flow in spec 2.
func (g *GameBoy) Step() int {
	cycles := int(g.CPU.Step())
	g.advancePeripherals(cycles)
	return cycles
}

func (g *GameBoy) advancePeripherals(cycles int) {
	g.PPU.Tick(uint16(cycles))
	g.Timer.Tick(uint16(cycles))
	g.Serial.Tick(uint16(cycles))
	g.MMU.StepHDMA()
}

// Frame runs CPU steps until the per-frame T-cycle budget is met,
// applying the CGB double-speed multiplier, and flushes battery RAM at
// the frame boundary.
func (g *GameBoy) Frame() {
	budget := cyclesPerFrame
	if g.MMU.DoubleSpeed() {
		budget *= 2
	}

	total := g.carry
	for total < budget {
		if g.CPU.Stopped() {
			g.handleStop()
		}
		total += g.Step()
	}
	g.carry = total - budget

	g.Cart.FlushIfDirty()
}

// handleStop lets an armed CGB speed-switch request take effect, then
// wakes the CPU. Frame calls it whenever the CPU reports Stopped, so
// neither STOP nor an undefined opcode keeps the CPU stopped past the
// next step; no joypad input is waited for.
func (g *GameBoy) handleStop() {
	g.MMU.ApplySpeedSwitch()
	g.CPU.Resume()
}

// Framebuffer returns the most recently rendered frame as packed RGBA.
func (g *GameBoy) Framebuffer() []byte {
	return g.PPU.Framebuffer()
}

// Press and Release forward joypad events and request the Joypad
// interrupt on a press that the game currently has selected.
func (g *GameBoy) Press(button joypad.Button) {
	if g.Joypad.Press(button) {
		g.IRQ.Request(interrupts.JoypadFlag)
	}
}

func (g *GameBoy) Release(button joypad.Button) {
	g.Joypad.Release(button)
}

var _ types.Stater = (*GameBoy)(nil)

// Save serializes every stateful component, in dependency order.
func (g *GameBoy) Save(s *types.State) {
	g.Cart.Save(s)
	g.MMU.Save(s)
	g.CPU.Save(s)
	g.PPU.Save(s)
	g.Timer.Save(s)
	g.Serial.Save(s)
	g.APU.Save(s)
	g.IRQ.Save(s)
	g.Joypad.Save(s)
	s.Write16(uint16(g.carry))
}

func (g *GameBoy) Load(s *types.State) {
	g.Cart.Load(s)
	g.MMU.Load(s)
	g.CPU.Load(s)
	g.PPU.Load(s)
	g.Timer.Load(s)
	g.Serial.Load(s)
	g.APU.Load(s)
	g.IRQ.Load(s)
	g.Joypad.Load(s)
	g.carry = int(s.Read16())
}
