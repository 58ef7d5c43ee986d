package cpu

import "gbacore/internal/bits"

// decodeARM dispatches a 32-bit ARM-state word to one of the eleven decoded
// formats of spec.md §4.6. The ordering of checks follows the standard
// ARMv4T decode tree: multiply/swap/halfword-transfer patterns must be
// distinguished from data-processing before the general data-processing
// fallback is taken.
func decodeARM(word uint32) interface{} {
	cond := Condition(bits.Field32(word, 28, 4))

	if word&0x0FFFFFF0 == 0x012FFF10 {
		return ArmBranchExchange{Cond: cond, Rm: uint8(bits.Field32(word, 0, 4))}
	}

	if word&0x0FC000F0 == 0x00000090 {
		return decodeMultiply(word, cond)
	}
	if word&0x0F8000F0 == 0x00800090 {
		return decodeMultiplyLong(word, cond)
	}
	if word&0x0FB00FF0 == 0x01000090 {
		return ArmSingleDataSwap{
			Cond: cond,
			Byte: bits.Get32(word, 22),
			Rn:   uint8(bits.Field32(word, 16, 4)),
			Rd:   uint8(bits.Field32(word, 12, 4)),
			Rm:   uint8(bits.Field32(word, 0, 4)),
		}
	}
	if word&0x0E000090 == 0x00000090 && bits.Field32(word, 5, 2) != 0 {
		return decodeHalfwordTransfer(word, cond)
	}

	switch bits.Field32(word, 26, 2) {
	case 0b00:
		if word&0x0FBF0FFF == 0x010F0000 {
			return ArmMRS{Cond: cond, SPSR: bits.Get32(word, 22), Rd: uint8(bits.Field32(word, 12, 4))}
		}
		if word&0x0DB0F000 == 0x0120F000 {
			return decodeMSR(word, cond)
		}
		return decodeDataProcessing(word, cond)
	case 0b01:
		return decodeSingleDataTransfer(word, cond)
	case 0b10:
		if bits.Get32(word, 25) {
			offset := int32(bits.Field32(word, 0, 24))
			if bits.Get32(word, 23) {
				offset |= -(1 << 24) // sign-extend 24-bit field
			}
			return ArmBranch{Cond: cond, Link: bits.Get32(word, 24), Offset: offset << 2}
		}
		return decodeBlockDataTransfer(word, cond)
	case 0b11:
		if bits.Get32(word, 24) {
			return ArmSoftwareInterrupt{Cond: cond, Comment: bits.Field32(word, 0, 24)}
		}
		return ArmUndefined{Cond: cond}
	}
	return ArmUndefined{Cond: cond}
}

func decodeMultiply(word uint32, cond Condition) ArmMultiply {
	return ArmMultiply{
		Cond:       cond,
		Accumulate: bits.Get32(word, 21),
		SetFlags:   bits.Get32(word, 20),
		Rd:         uint8(bits.Field32(word, 16, 4)),
		Rn:         uint8(bits.Field32(word, 12, 4)),
		Rs:         uint8(bits.Field32(word, 8, 4)),
		Rm:         uint8(bits.Field32(word, 0, 4)),
	}
}

func decodeMultiplyLong(word uint32, cond Condition) ArmMultiplyLong {
	return ArmMultiplyLong{
		Cond:       cond,
		Signed:     bits.Get32(word, 22),
		Accumulate: bits.Get32(word, 21),
		SetFlags:   bits.Get32(word, 20),
		RdHi:       uint8(bits.Field32(word, 16, 4)),
		RdLo:       uint8(bits.Field32(word, 12, 4)),
		Rs:         uint8(bits.Field32(word, 8, 4)),
		Rm:         uint8(bits.Field32(word, 0, 4)),
	}
}

func decodeHalfwordTransfer(word uint32, cond Condition) ArmHalfwordTransfer {
	sh := bits.Field32(word, 5, 2)
	return ArmHalfwordTransfer{
		Cond:      cond,
		Pre:       bits.Get32(word, 24),
		Up:        bits.Get32(word, 23),
		Imm:       bits.Get32(word, 22),
		WriteBack: bits.Get32(word, 21),
		Load:      bits.Get32(word, 20),
		Rn:        uint8(bits.Field32(word, 16, 4)),
		Rd:        uint8(bits.Field32(word, 12, 4)),
		OffsetImm: uint8(bits.Field32(word, 8, 4)<<4) | uint8(bits.Field32(word, 0, 4)),
		OffsetReg: uint8(bits.Field32(word, 0, 4)),
		Signed:    sh == 0b10 || sh == 0b11,
		Half:      sh == 0b01 || sh == 0b11,
	}
}

func decodeDataProcessing(word uint32, cond Condition) ArmDataProcessing {
	op2 := decodeOperand2(word)
	return ArmDataProcessing{
		Cond:     cond,
		Opcode:   uint8(bits.Field32(word, 21, 4)),
		SetFlags: bits.Get32(word, 20),
		Rn:       uint8(bits.Field32(word, 16, 4)),
		Rd:       uint8(bits.Field32(word, 12, 4)),
		Operand2: op2,
	}
}

func decodeOperand2(word uint32) Operand {
	if bits.Get32(word, 25) {
		imm := bits.Field32(word, 0, 8)
		rotate := bits.Field32(word, 8, 4) * 2
		return Operand{Kind: OperandImmediate, Imm: bits.RotateRight32(imm, uint(rotate))}
	}
	return decodeRegisterOperand(word)
}

// decodeRegisterOperand reads the shifted-register operand encoded in bits
// 0-11 (Rm, shift type, shift amount/register), the layout shared by
// data-processing's register form and single-data-transfer's register
// offset form.
func decodeRegisterOperand(word uint32) Operand {
	op := Operand{
		Kind: OperandRegister,
		Reg:  uint8(bits.Field32(word, 0, 4)),
		Shift: &Shift{
			Kind: ShiftKind(bits.Field32(word, 5, 2)),
		},
	}
	if bits.Get32(word, 4) {
		op.Shift.AmountSource = AmountRegister
		op.Shift.Amount = uint8(bits.Field32(word, 8, 4))
	} else {
		op.Shift.AmountSource = AmountImmediate
		op.Shift.Amount = uint8(bits.Field32(word, 7, 5))
	}
	return op
}

func decodeMSR(word uint32, cond Condition) ArmMSR {
	m := ArmMSR{Cond: cond, SPSR: bits.Get32(word, 22), FieldMask: uint8(bits.Field32(word, 16, 4))}
	if bits.Get32(word, 25) {
		imm := bits.Field32(word, 0, 8)
		rotate := bits.Field32(word, 8, 4) * 2
		m.Source = Operand{Kind: OperandImmediate, Imm: bits.RotateRight32(imm, uint(rotate))}
	} else {
		m.Source = Operand{Kind: OperandRegister, Reg: uint8(bits.Field32(word, 0, 4))}
	}
	return m
}

func decodeSingleDataTransfer(word uint32, cond Condition) ArmSingleDataTransfer {
	t := ArmSingleDataTransfer{
		Cond:           cond,
		RegisterOffset: bits.Get32(word, 25),
		Pre:            bits.Get32(word, 24),
		Up:             bits.Get32(word, 23),
		Byte:           bits.Get32(word, 22),
		WriteBack:      bits.Get32(word, 21),
		Load:           bits.Get32(word, 20),
		Rn:             uint8(bits.Field32(word, 16, 4)),
		Rd:             uint8(bits.Field32(word, 12, 4)),
	}
	if t.RegisterOffset {
		t.Offset = decodeRegisterOperand(word)
	} else {
		t.Offset = Operand{Kind: OperandImmediate, Imm: bits.Field32(word, 0, 12)}
	}
	return t
}

func decodeBlockDataTransfer(word uint32, cond Condition) ArmBlockDataTransfer {
	return ArmBlockDataTransfer{
		Cond:         cond,
		Pre:          bits.Get32(word, 24),
		Up:           bits.Get32(word, 23),
		PSRForceUser: bits.Get32(word, 22),
		WriteBack:    bits.Get32(word, 21),
		Load:         bits.Get32(word, 20),
		Rn:           uint8(bits.Field32(word, 16, 4)),
		RegList:      uint16(bits.Field32(word, 0, 16)),
	}
}
