package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbacore/internal/busio"
	"gbacore/internal/cycle"
)

// fakeBus is a flat byte-addressable RAM standing in for the real Bus,
// letting CPU exec tests run without wiring every memory-mapped component.
type fakeBus struct {
	mem [0x10000]byte
}

func newFakeBus() *fakeBus { return &fakeBus{} }

func (b *fakeBus) Read8(addr uint32) uint8  { return b.mem[addr&0xFFFF] }
func (b *fakeBus) Write8(addr uint32, v uint8) { b.mem[addr&0xFFFF] = v }

func (b *fakeBus) Read16(addr uint32) uint16 {
	addr &^= 1
	return uint16(b.Read8(addr)) | uint16(b.Read8(addr+1))<<8
}
func (b *fakeBus) Write16(addr uint32, v uint16) {
	addr &^= 1
	b.Write8(addr, uint8(v))
	b.Write8(addr+1, uint8(v>>8))
}

func (b *fakeBus) Read32(addr uint32) uint32 {
	addr &^= 3
	return uint32(b.Read16(addr)) | uint32(b.Read16(addr+2))<<16
}
func (b *fakeBus) Write32(addr uint32, v uint32) {
	addr &^= 3
	b.Write16(addr, uint16(v))
	b.Write16(addr+2, uint16(v>>16))
}

func (b *fakeBus) AccessCycles(addr uint32, width busio.Width, kind cycle.AccessKind) cycle.Cycle {
	return cycle.Internal(1)
}
func (b *fakeBus) Tick(cycles int)       {}
func (b *fakeBus) HasPendingIRQ() bool   { return false }
func (b *fakeBus) TryDMA() (cycle.Cycle, bool) { return 0, false }

func (b *fakeBus) NoteFetch(opcode uint32) {}

func (b *fakeBus) ReadSignedHalfwordAligned(addr uint32) int32 {
	if addr&1 != 0 {
		return int32(int8(b.Read8(addr)))
	}
	return int32(int16(b.Read16(addr)))
}

func newTestCPU() (*CPU, *fakeBus) {
	bus := newFakeBus()
	c := New(bus)
	c.Reset()
	c.regs.CPSR().SetOpMode(ModeUSR)
	return c, bus
}

func putARM(bus *fakeBus, addr uint32, word uint32) {
	bus.Write32(addr, word)
}

func putThumb(bus *fakeBus, addr uint32, word uint16) {
	bus.Write16(addr, word)
}

// TestMovLslLsrChain exercises MOV r0,#1 ; MOV r1,r0 LSL #4 ; MOV r2,r1 LSR #2
// end to end, matching spec.md's worked ALU/shifter example.
func TestMovLslLsrChain(t *testing.T) {
	c, bus := newTestCPU()
	c.OverridePC(0)
	// MOV r0, #1
	putARM(bus, 0x00, 0xE3A00001)
	// MOV r1, r0, LSL #4
	putARM(bus, 0x04, 0xE1A01200)
	// MOV r2, r1, LSR #2
	putARM(bus, 0x08, 0xE1A02121)

	c.Step()
	c.Step()
	c.Step()

	assert.Equal(t, uint32(1), c.reg(0))
	assert.Equal(t, uint32(16), c.reg(1))
	assert.Equal(t, uint32(4), c.reg(2))
}

// TestStrhLdrhPrePostIndex exercises STRH/LDRH with pre- and post-indexed
// addressing and write-back.
func TestStrhLdrhPrePostIndex(t *testing.T) {
	c, bus := newTestCPU()
	c.OverridePC(0)
	c.setReg(0, 0x1000)
	c.setReg(1, 0xBEEF)

	// STRH r1, [r0, #4]! (pre-indexed, writeback): P=1 U=1 W=1 I=1(imm) L=0
	ins := uint32(0xE1E010B4) // cond=E I=1(bit22) P(24)=1 U(23)=1 W(21)=1 L(20)=0 Rn=0 Rd=1 offset=4
	putARM(bus, 0x00, ins)
	// LDRH r2, [r0], #4 (post-indexed): P=0 U=1 W=0 I=1 L=1. Stored before
	// the first Step, since that Step already prefetches the word at 0x04.
	ins2 := uint32(0xE0D020B4)
	putARM(bus, 0x04, ins2)
	c.Step()
	require.Equal(t, uint32(0x1004), c.reg(0), "base should write back to 0x1004 after pre-indexed STRH")
	assert.Equal(t, uint16(0xBEEF), bus.Read16(0x1004))

	c.Step()
	assert.Equal(t, uint32(0xBEEF), c.reg(2))
	assert.Equal(t, uint32(0x1008), c.reg(0), "base should advance by the offset after post-indexed LDRH")
}

// TestThumbPushPop exercises PUSH {r0,r1,lr} / POP {r0,r1,pc} round-tripping
// through the stack.
func TestThumbPushPop(t *testing.T) {
	c, bus := newTestCPU()
	c.setReg(13, 0x2000)
	c.setReg(0, 0x11111111)
	c.setReg(1, 0x22222222)
	c.setReg(14, 0x33333333)
	c.regs.CPSR().SetT(true)
	c.OverridePC(0x8000)

	// PUSH {r0,r1,lr}: 1011 0 10 1 00000011
	putThumb(bus, 0x8000, 0xB503)
	// POP {r0,r1,pc}: 1011 1 10 1 00000011 (stored before the first Step,
	// which already prefetches 0x8002)
	putThumb(bus, 0x8002, 0xBD03)
	c.Step()
	assert.Equal(t, uint32(0x2000-12), c.reg(13))

	c.setReg(0, 0)
	c.setReg(1, 0)
	c.Step()

	assert.Equal(t, uint32(0x11111111), c.reg(0))
	assert.Equal(t, uint32(0x22222222), c.reg(1))
	assert.Equal(t, uint32(0x2000), c.reg(13))
	assert.Equal(t, uint32(0x33333332), c.regs.PC())
}

// TestThumbLongBranchLink exercises the two-halfword BL sequence.
func TestThumbLongBranchLink(t *testing.T) {
	c, bus := newTestCPU()
	c.regs.CPSR().SetT(true)
	c.OverridePC(0x8000)
	// BL target = 0x8000+4+0x100 = 0x8104 (forward branch)
	// first half: offset bits [22:12] = 0 (since target-pc is small, encode manually)
	high := uint16(0xF000) // H=0, offset=0
	low := uint16(0xF800 | (0x80 & 0x7FF))
	putThumb(bus, 0x8000, high)
	putThumb(bus, 0x8002, low)

	c.Step() // first half: LR = PC+4
	lr := c.reg(14)
	assert.Equal(t, uint32(0x8004), lr)

	c.Step() // second half
	assert.True(t, c.reg(14)&1 == 1, "LR must have bit0 set after BL completes")
}

// TestPSRTransferMRSMSR round-trips CPSR through r0 via MRS/MSR.
func TestPSRTransferMRSMSR(t *testing.T) {
	c, bus := newTestCPU()
	c.OverridePC(0)
	c.regs.CPSR().SetN(true)

	// MRS r0, CPSR
	putARM(bus, 0x00, 0xE10F0000)
	// MSR CPSR_f, r0 (stored before the first Step, which prefetches 0x04)
	putARM(bus, 0x04, 0xE128F000)
	c.Step()
	assert.True(t, bits32Get(c.reg(0), 31))

	// MSR CPSR_f, r0 (flags only, using r0 with N cleared)
	c.setReg(0, 0)
	c.Step()
	assert.False(t, c.regs.CPSR().N())
}

func bits32Get(x uint32, n uint) bool { return (x>>n)&1 != 0 }

// TestSWIFromThumb exercises entering SVC mode via a THUMB SWI.
func TestSWIFromThumb(t *testing.T) {
	c, bus := newTestCPU()
	c.regs.CPSR().SetT(true)
	c.OverridePC(0x8000)
	putThumb(bus, 0x8000, 0xDF05) // SWI #5

	c.Step()

	assert.Equal(t, ModeSVC, c.mode())
	assert.Equal(t, uint32(0x00000008), c.regs.PC())
	assert.False(t, c.regs.CPSR().T(), "SWI entry always switches to ARM state")
}

// TestMSRControlFieldOnlyPreservesFlags exercises the field mask that
// TestPSRTransferMRSMSR does not: MSR CPSR_c,r0 must touch only the control
// byte (mode/T/F/I), leaving N/Z/C/V in the top byte untouched.
func TestMSRControlFieldOnlyPreservesFlags(t *testing.T) {
	c, bus := newTestCPU()
	c.OverridePC(0)
	c.regs.CPSR().SetOpMode(ModeUSR)
	c.regs.CPSR().SetN(true)
	c.regs.CPSR().SetZ(true)
	c.regs.CPSR().SetC(true)
	c.regs.CPSR().SetV(true)

	c.setReg(0, uint32(ModeSVC))

	// MSR CPSR_c, r0 (field mask = 0b0001, control byte only)
	putARM(bus, 0x00, 0xE121F000)
	c.Step()

	assert.Equal(t, ModeSVC, c.mode(), "control byte must be written")
	assert.True(t, c.regs.CPSR().N(), "N must survive a control-only MSR")
	assert.True(t, c.regs.CPSR().Z(), "Z must survive a control-only MSR")
	assert.True(t, c.regs.CPSR().C(), "C must survive a control-only MSR")
	assert.True(t, c.regs.CPSR().V(), "V must survive a control-only MSR")
}
