package cpu

import (
	"gbacore/internal/bits"
	"gbacore/util/convert"
)

// ShiftKind is the four barrel-shifter operations, per spec.md §3/§4.5.
type ShiftKind uint8

const (
	LSL ShiftKind = iota
	LSR
	ASR
	ROR
)

// AmountSource distinguishes an immediate shift amount from one read out of
// a register at execute time.
type AmountSource uint8

const (
	AmountImmediate AmountSource = iota
	AmountRegister
)

// Shift is the optional shift descriptor attached to a register operand.
type Shift struct {
	Kind         ShiftKind
	AmountSource AmountSource
	Amount       uint8 // immediate amount (0-31), or register index when AmountSource == AmountRegister
}

// OperandKind distinguishes the two Operand variants of spec.md §3.
type OperandKind uint8

const (
	OperandImmediate OperandKind = iota
	OperandRegister
)

// Operand is a tagged immediate-or-register value with an optional shift
// and an optional post-read bitwise-NOT, per spec.md §3's data model.
type Operand struct {
	Kind   OperandKind
	Imm    uint32
	Reg    uint8
	Shift  *Shift
	Negate bool
}

// ApplyShift implements the barrel shifter of spec.md §4.5. amount is the
// already-resolved shift count (read from the register or the immediate
// field by the caller); amountIsImmediate distinguishes the LSR/ASR/ROR
// "treat zero as 32/RRX" rule, which applies only to immediate amounts;
// carryIn is the current C flag, consulted by RRX. It returns the shifted
// result, the carry-out, and whether the carry actually changed (register
// shifts by zero leave C untouched).
func ApplyShift(lhs uint32, amount uint32, kind ShiftKind, amountIsImmediate bool, carryIn bool) (result uint32, carryOut bool, carryChanged bool) {
	switch kind {
	case LSL:
		return applyLSL(lhs, amount)
	case LSR:
		return applyLSR(lhs, amount, amountIsImmediate)
	case ASR:
		return applyASR(lhs, amount, amountIsImmediate)
	case ROR:
		return applyROR(lhs, amount, amountIsImmediate, carryIn)
	}
	return lhs, carryIn, false
}

func applyLSL(lhs uint32, amount uint32) (uint32, bool, bool) {
	switch {
	case amount == 0:
		return lhs, false, false
	case amount <= 31:
		return lhs << amount, bits.Get32(lhs, uint(32-amount)), true
	case amount == 32:
		return 0, bits.Get32(lhs, 0), true
	default:
		return 0, false, true
	}
}

func applyLSR(lhs uint32, amount uint32, immediate bool) (uint32, bool, bool) {
	if amount == 0 {
		if !immediate {
			return lhs, false, false
		}
		amount = 32 // LSR #0 (immediate) means LSR #32
	}
	switch {
	case amount <= 31:
		return lhs >> amount, bits.Get32(lhs, uint(amount-1)), true
	case amount == 32:
		return 0, bits.Get32(lhs, 31), true
	default:
		return 0, false, true
	}
}

func applyASR(lhs uint32, amount uint32, immediate bool) (uint32, bool, bool) {
	if amount == 0 {
		if !immediate {
			return lhs, false, false
		}
		amount = 32 // ASR #0 (immediate) means ASR #32
	}
	if amount >= 32 {
		return bits.ExtendedASR(lhs, 32), bits.Get32(lhs, 31), true
	}
	return bits.ExtendedASR(lhs, uint(amount)), bits.Get32(lhs, uint(amount-1)), true
}

func applyROR(lhs uint32, amount uint32, immediate bool, carryIn bool) (uint32, bool, bool) {
	if amount == 0 {
		if !immediate {
			return lhs, false, false
		}
		// RRX: rotate right through carry.
		result := (uint32(convert.BoolToInt(carryIn)) << 31) | (lhs >> 1)
		return result, bits.Get32(lhs, 0), true
	}
	rotated := bits.RotateRight32(lhs, uint(amount&31))
	carryBit := uint((amount - 1) & 31)
	return rotated, bits.Get32(lhs, carryBit), true
}
