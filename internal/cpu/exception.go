package cpu

import "gbacore/internal/dbg"

// ExceptionKind enumerates the seven entry points of spec.md §4.9, ordered by
// priority (Reset highest).
type ExceptionKind uint8

const (
	ExceptionReset ExceptionKind = iota
	ExceptionDataAbort
	ExceptionFIQ
	ExceptionIRQ
	ExceptionPrefetchAbort
	ExceptionUndefined
	ExceptionSoftwareInterrupt
)

type exceptionInfo struct {
	mode       Mode
	vector     uint32
	disableFIQ bool
}

func (k ExceptionKind) info() exceptionInfo {
	switch k {
	case ExceptionReset:
		return exceptionInfo{ModeSVC, 0x00000000, true}
	case ExceptionUndefined:
		return exceptionInfo{ModeUND, 0x00000004, false}
	case ExceptionSoftwareInterrupt:
		return exceptionInfo{ModeSVC, 0x00000008, false}
	case ExceptionPrefetchAbort:
		return exceptionInfo{ModeABT, 0x0000000C, false}
	case ExceptionDataAbort:
		return exceptionInfo{ModeABT, 0x00000010, false}
	case ExceptionIRQ:
		return exceptionInfo{ModeIRQ, 0x00000018, false}
	case ExceptionFIQ:
		return exceptionInfo{ModeFIQ, 0x0000001C, true}
	default:
		return exceptionInfo{ModeSVC, 0x00000000, false}
	}
}

// handleException performs mode switch, SPSR bank, link register save and
// pipeline flush for kind, per spec.md §4.9. linkValue is written to the
// new mode's LR as given; callers resolve it themselves (the preempted
// instruction's address +4 for IRQ, the address of the next instruction
// for SWI/Undefined).
func (c *CPU) handleException(kind ExceptionKind, linkValue uint32) {
	info := kind.info()
	dbg.Printf("cpu: exception %d entry, mode %s, vector %#08x\n", kind, info.mode, info.vector)
	oldCPSR := *c.regs.CPSR()
	oldMode := oldCPSR.OpMode()

	// FIQ genuinely enters its own mode/bank (spec.md §9 decision: the
	// original folds FIQ into IRQ's bank, which this implementation does
	// not reproduce).
	newCPSR := oldCPSR
	newCPSR.SetOpMode(info.mode)
	newCPSR.SetT(false)
	newCPSR.SetIRQDisabled(true)
	if info.disableFIQ {
		newCPSR.SetFIQDisabled(true)
	}

	c.regs.SetSPSR(info.mode, oldCPSR)
	c.regs.Set(14, linkValue, info.mode)
	c.regs.SetCPSR(newCPSR)
	_ = oldMode

	c.regs.SetPC(info.vector)
	c.flushPipeline()
}

// raiseSWI enters SVC mode from a SWI instruction. nextInstrAddr is the
// address of the instruction after the SWI.
func (c *CPU) raiseSWI(nextInstrAddr uint32) {
	c.handleException(ExceptionSoftwareInterrupt, nextInstrAddr)
}

func (c *CPU) raiseUndefined(nextInstrAddr uint32) {
	c.handleException(ExceptionUndefined, nextInstrAddr)
}
