// Package cpu implements the ARM7TDMI core of spec.md: register file, PSR,
// barrel shifter, pipeline, exception engine, and the ARM/THUMB decoders and
// executors, all in one flat package the way the teacher keeps
// arm_decode.go/arm_exec.go/arm_instructions.go together instead of split
// across subpackages.
package cpu

import (
	"gbacore/internal/busio"
	"gbacore/internal/cycle"
	"gbacore/internal/dbg"
)

// Bus is the narrow memory/IRQ/DMA contract the CPU core depends on
// (spec.md §6). It embeds busio's interfaces and adds the one signed-load
// quirk (LDRSH at an odd address) that doesn't fit the generic Read16/Read32
// surface.
type Bus interface {
	busio.MemoryProvider
	busio.IRQSource
	busio.DMASource
	ReadSignedHalfwordAligned(addr uint32) int32

	// NoteFetch records the most recently prefetched opcode, so an
	// out-of-range read (e.g. BIOS protection) can return the last value
	// that sat on the bus instead of open-bus garbage.
	NoteFetch(opcode uint32)
}

// CPU is the top-level ARM7TDMI state machine: registers, pipeline, and the
// bus it executes against.
type CPU struct {
	regs *RegisterFile
	bus  Bus
	pl   pipeline

	halted bool
}

// New builds a CPU wired to bus. Callers still need to call Reset (or set
// up via internal/config) before Step.
func New(bus Bus) *CPU {
	return &CPU{
		regs: NewRegisterFile(),
		bus:  bus,
	}
}

// Reset puts the CPU in the post-reset state of spec.md §4.9: SVC mode, IRQ
// and FIQ disabled, ARM state, PC at the reset vector, pipeline flushed.
func (c *CPU) Reset() {
	c.regs = NewRegisterFile()
	c.regs.SetPC(0x00000000)
	c.flushPipeline()
	c.halted = false
}

// OverridePC forces PC to addr and flushes the pipeline, for test harnesses
// and the debug CLI that need to start execution somewhere other than the
// reset vector (e.g. skipping the BIOS boot sequence).
func (c *CPU) OverridePC(addr uint32) {
	c.regs.SetPC(addr)
	c.flushPipeline()
}

func (c *CPU) Registers() *RegisterFile { return c.regs }

// Step executes exactly one top-level cycle of spec.md §4.11's priority
// order: a pending IRQ takes precedence over DMA, which takes precedence
// over instruction execution. It returns the cycle cost of whatever it did.
func (c *CPU) Step() cycle.Cycle {
	if c.bus.HasPendingIRQ() && !c.regs.CPSR().I() {
		preemptedAddr := c.regs.PC()
		if c.pl.loaded {
			preemptedAddr = c.pl.currentAddr
		}
		c.raiseIRQAt(preemptedAddr)
		return cycle.Internal(3)
	}

	if cost, serviced := c.bus.TryDMA(); serviced {
		return cost
	}

	return c.step()
}

// raiseIRQAt enters IRQ mode for the not-yet-executed instruction at
// preemptedAddr. LR_irq is preemptedAddr+4, so the handler's
// "SUBS PC,LR,#4" resumes exactly at the preempted instruction, per
// spec.md §4.9/§5(c).
func (c *CPU) raiseIRQAt(preemptedAddr uint32) {
	c.handleException(ExceptionIRQ, preemptedAddr+4)
}

// step fetches/decodes (via the pipeline), executes one instruction, and
// returns its cycle cost. A not-yet-loaded pipeline is primed first.
func (c *CPU) step() cycle.Cycle {
	if !c.pl.loaded {
		c.syncPipeline()
	}

	decoded := c.pl.decoded
	thisAddr := c.pl.currentAddr
	thumb := c.regs.CPSR().T()

	var cost cycle.Cycle
	if thumb {
		cost = c.executeThumb(decoded, thisAddr)
	} else {
		cost = c.executeARM(decoded, thisAddr)
	}

	if !c.pl.branched {
		c.syncPipeline()
	}
	c.pl.branched = false

	return cost
}

// DebugStep executes one Step and returns the address of the instruction
// that just ran, for the disassembler CLI.
func (c *CPU) DebugStep() (ranAt uint32, cost cycle.Cycle) {
	addr := c.pl.currentAddr
	if !c.pl.loaded {
		addr = c.regs.PC() // flushed: the next instruction is fetched from PC
	}
	cost = c.Step()
	return addr, cost
}

// DecodeUntilBranch decodes (without executing) up to max instructions
// starting at the current pipeline position, stopping early at any branch
// family instruction, for the disassembler's straight-line listing mode.
func (c *CPU) DecodeUntilBranch(max int) []string {
	out := make([]string, 0, max)
	addr := c.pl.currentAddr
	if !c.pl.loaded {
		addr = c.regs.PC() // flushed: the next instruction is fetched from PC
	}
	start := addr
	thumb := c.regs.CPSR().T()
	size := c.instrSize()
	for i := 0; i < max; i++ {
		word := c.fetch(addr)
		var text string
		if thumb {
			text = disassembleThumb(uint16(word))
		} else {
			text = disassembleARM(word)
		}
		out = append(out, text)
		if isBranchMnemonic(text) {
			break
		}
		addr += size
	}
	dbg.Printf("decoded %d instructions from 0x%08X", len(out), start)
	return out
}
