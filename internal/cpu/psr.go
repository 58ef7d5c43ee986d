package cpu

import "gbacore/internal/bits"

// PSR is a 32-bit program status register: N/Z/C/V/I/F/T flags plus the
// 5-bit mode field, per spec.md §4.4.
type PSR uint32

const (
	psrBitN = 31
	psrBitZ = 30
	psrBitC = 29
	psrBitV = 28
	psrBitI = 7
	psrBitF = 6
	psrBitT = 5
)

// NewPSR builds an initial PSR for mode, in ARM state (T clear) unless
// thumb is true.
func NewPSR(mode Mode, thumb bool) PSR {
	p := PSR(mode)
	if thumb {
		p = p.withBit(psrBitT, true)
	}
	return p
}

func (p PSR) withBit(n uint, v bool) PSR {
	return PSR(bits.Update32(uint32(p), n, v))
}

func (p PSR) N() bool { return bits.Get32(uint32(p), psrBitN) }
func (p PSR) Z() bool { return bits.Get32(uint32(p), psrBitZ) }
func (p PSR) C() bool { return bits.Get32(uint32(p), psrBitC) }
func (p PSR) V() bool { return bits.Get32(uint32(p), psrBitV) }
func (p PSR) I() bool { return bits.Get32(uint32(p), psrBitI) }
func (p PSR) F() bool { return bits.Get32(uint32(p), psrBitF) }
func (p PSR) T() bool { return bits.Get32(uint32(p), psrBitT) }

func (p *PSR) SetN(v bool) { *p = p.withBit(psrBitN, v) }
func (p *PSR) SetZ(v bool) { *p = p.withBit(psrBitZ, v) }
func (p *PSR) SetC(v bool) { *p = p.withBit(psrBitC, v) }
func (p *PSR) SetV(v bool) { *p = p.withBit(psrBitV, v) }
func (p *PSR) SetI(v bool) { *p = p.withBit(psrBitI, v) }
func (p *PSR) SetF(v bool) { *p = p.withBit(psrBitF, v) }
func (p *PSR) SetT(v bool) { *p = p.withBit(psrBitT, v) }

// SetIRQDisabled/SetFIQDisabled read more naturally at CPU reset/exception
// call sites than SetI/SetF.
func (p *PSR) SetIRQDisabled(v bool) { p.SetI(v) }
func (p *PSR) SetFIQDisabled(v bool) { p.SetF(v) }

// OpMode decodes the low five bits, forcing bit 4 set: any reserved
// pattern is normalized to its closest valid mode, per spec.md §4.4.
func (p PSR) OpMode() Mode {
	return normalizeMode(uint8(bits.GetBits32(uint32(p), 0, 4)) | 0b10000)
}

// SetOpMode overwrites the mode field, leaving every other bit untouched.
func (p *PSR) SetOpMode(m Mode) {
	*p = PSR(bits.SetBits32(uint32(*p), 0, 4, uint32(m)))
}

// UpdateZN sets Z from a zero-test and N from bit 31 of value, the common
// post-ALU flag update every S-flagged operation performs.
func (p *PSR) UpdateZN(value uint32) {
	p.SetZ(value == 0)
	p.SetN(bits.Get32(value, 31))
}

// Condition is one of the 15 usable ARM condition codes (spec.md §4.4);
// Always/NV are handled separately by callers since they never consult
// flags.
type Condition uint8

const (
	CondEQ Condition = iota
	CondNE
	CondCS
	CondCC
	CondMI
	CondPL
	CondVS
	CondVC
	CondHI
	CondLS
	CondGE
	CondLT
	CondGT
	CondLE
	CondAL
	CondNV
)

// Matches evaluates cond against the current flags, per spec.md §4.4's
// condition table.
func (p PSR) Matches(cond Condition) bool {
	switch cond {
	case CondEQ:
		return p.Z()
	case CondNE:
		return !p.Z()
	case CondCS:
		return p.C()
	case CondCC:
		return !p.C()
	case CondMI:
		return p.N()
	case CondPL:
		return !p.N()
	case CondVS:
		return p.V()
	case CondVC:
		return !p.V()
	case CondHI:
		return p.C() && !p.Z()
	case CondLS:
		return !p.C() || p.Z()
	case CondGE:
		return p.N() == p.V()
	case CondLT:
		return p.N() != p.V()
	case CondGT:
		return !p.Z() && p.N() == p.V()
	case CondLE:
		return p.Z() || p.N() != p.V()
	case CondAL, CondNV:
		return true
	default:
		return true
	}
}
