// Package busio defines the narrow interfaces the CPU core depends on, per
// spec.md §6: a byte-addressable memory provider with a per-access cycle
// cost, an interrupt-flag provider, and a DMA-service collaborator. The
// concrete Bus implements all three; the CPU only ever sees this package's
// types, keeping the core decoupled from any particular bus wiring.
package busio

import "gbacore/internal/cycle"

// Width identifies the data width of a bus access for wait-state lookup.
type Width uint8

const (
	Byte Width = iota
	Halfword
	Word
)

// MemoryProvider is the byte-addressable little-endian memory boundary the
// CPU core drives. Default halfword/word behavior (composition from bytes,
// little-endian order, unaligned-access rotation/masking) is provided by
// the Bus implementation; this interface only names the primitive surface.
type MemoryProvider interface {
	Read8(addr uint32) uint8
	Write8(addr uint32, value uint8)
	Read16(addr uint32) uint16
	Write16(addr uint32, value uint16)
	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)
	AccessCycles(addr uint32, width Width, kind cycle.AccessKind) cycle.Cycle
	Tick(cycles int)
}

// IRQSource reports whether any interrupt-flag bit is currently pending.
type IRQSource interface {
	HasPendingIRQ() bool
}

// DMASource lets the top-level step yield to a pending DMA channel instead
// of executing an instruction, per spec.md §4.11.
type DMASource interface {
	TryDMA() (cycle.Cycle, bool)
}
