package gameboy

import (
	"testing"

	"github.com/brackenmoor/gbcore/internal/types"
)

// buildNOPROM returns a minimal valid 32 KiB no-MBC ROM filled with NOPs,
// so Frame() can run a deterministic, panic-free instruction stream.
func buildNOPROM(t *testing.T) []byte {
	t.Helper()
	rom := make([]byte, 32*1024)
	rom[0x0148] = 0
	return rom // zero value is opcode 0x00, NOP
}

func newTestGameBoy(t *testing.T) *GameBoy {
	t.Helper()
	g, err := New(buildNOPROM(t), nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

// Frame runs until the 70224 T-cycle budget is met. Every NOP costs exactly
// 4 cycles, which divides the budget evenly, so no carry should remain.
func TestFrameCycleBudgetExact(t *testing.T) {
	g := newTestGameBoy(t)
	g.Frame()
	if g.carry != 0 {
		t.Fatalf("carry after an exact-division frame = %d, want 0", g.carry)
	}
}

// A carry from one frame is folded into the next frame's budget instead of
// being dropped or double-counted.
func TestFrameCarryCarriesForward(t *testing.T) {
	g := newTestGameBoy(t)
	g.carry = 2 // pretend the previous frame overran by 2 cycles
	g.Frame()
	// The frame starts 2 cycles in; 17556 four-cycle NOPs end it at 70226,
	// so the 2-cycle offset carries on (dropping it would leave 0).
	if g.carry != 2 {
		t.Fatalf("carry after folding in a prior overrun = %d, want 2", g.carry)
	}
}

// Save/Load round-trips every component's state, including the private
// carry accounting field.
func TestSaveLoadRoundTrip(t *testing.T) {
	g := newTestGameBoy(t)
	g.Frame()
	g.carry = 3

	st := types.NewState()
	g.Save(st)
	dump := st.Bytes()

	g2 := newTestGameBoy(t)
	g2.Load(types.NewStateFromBytes(dump))

	if g2.carry != 3 {
		t.Fatalf("carry after Load = %d, want 3", g2.carry)
	}
	if g2.CPU.PC != g.CPU.PC {
		t.Fatalf("PC after Load = 0x%04X, want 0x%04X", g2.CPU.PC, g.CPU.PC)
	}
}
