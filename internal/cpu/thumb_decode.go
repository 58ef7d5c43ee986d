package cpu

import "gbacore/internal/bits"

// decodeThumb dispatches a 16-bit THUMB-state halfword to one of the
// nineteen decoded formats of spec.md §4.6.
func decodeThumb(word uint16) interface{} {
	w := uint32(word)

	switch {
	case w&0xF800 == 0x1800: // 00011 xx: add/subtract (format 2)
		return ThumbAddSub{
			Immediate: bits.Get32(w, 10),
			Subtract:  bits.Get32(w, 9),
			RnOrImm:   uint8(bits.Field32(w, 6, 3)),
			Rs:        uint8(bits.Field32(w, 3, 3)),
			Rd:        uint8(bits.Field32(w, 0, 3)),
		}
	case w&0xE000 == 0x0000: // 000: move shifted register (format 1)
		return ThumbMoveShifted{
			Kind:   ShiftKind(bits.Field32(w, 11, 2)),
			Amount: uint8(bits.Field32(w, 6, 5)),
			Rs:     uint8(bits.Field32(w, 3, 3)),
			Rd:     uint8(bits.Field32(w, 0, 3)),
		}
	case w&0xE000 == 0x2000: // 001: move/compare/add/subtract immediate (format 3)
		return ThumbImmediateOp{
			Op:  uint8(bits.Field32(w, 11, 2)),
			Rd:  uint8(bits.Field32(w, 8, 3)),
			Imm: uint8(bits.Field32(w, 0, 8)),
		}
	case w&0xFC00 == 0x4000: // 010000: ALU operations (format 4)
		return ThumbALU{
			Op: uint8(bits.Field32(w, 6, 4)),
			Rs: uint8(bits.Field32(w, 3, 3)),
			Rd: uint8(bits.Field32(w, 0, 3)),
		}
	case w&0xFC00 == 0x4400: // 010001: hi register operations / BX (format 5)
		h1 := bits.Get32(w, 7)
		h2 := bits.Get32(w, 6)
		rs := uint8(bits.Field32(w, 3, 3))
		rd := uint8(bits.Field32(w, 0, 3))
		if h1 {
			rd += 8
		}
		if h2 {
			rs += 8
		}
		return ThumbHiRegOp{Op: uint8(bits.Field32(w, 8, 2)), Rs: rs, Rd: rd}
	case w&0xF800 == 0x4800: // 01001: PC-relative load (format 6)
		return ThumbPCRelativeLoad{
			Rd:  uint8(bits.Field32(w, 8, 3)),
			Imm: uint16(bits.Field32(w, 0, 8)) << 2,
		}
	case w&0xF200 == 0x5000: // 0101, bit9=0: load/store with register offset (format 7)
		return ThumbLoadStoreReg{
			Load: bits.Get32(w, 11),
			Byte: bits.Get32(w, 10),
			Ro:   uint8(bits.Field32(w, 6, 3)),
			Rb:   uint8(bits.Field32(w, 3, 3)),
			Rd:   uint8(bits.Field32(w, 0, 3)),
		}
	case w&0xF200 == 0x5200: // 0101, bit9=1: load/store sign-extended byte/halfword (format 8)
		return ThumbLoadStoreSignExt{
			HFlag: bits.Get32(w, 11),
			SFlag: bits.Get32(w, 10),
			Ro:    uint8(bits.Field32(w, 6, 3)),
			Rb:    uint8(bits.Field32(w, 3, 3)),
			Rd:    uint8(bits.Field32(w, 0, 3)),
		}
	case w&0xE000 == 0x6000: // 011: load/store with immediate offset (format 9)
		return ThumbLoadStoreImm{
			Byte: bits.Get32(w, 12),
			Load: bits.Get32(w, 11),
			Imm:  uint8(bits.Field32(w, 6, 5)),
			Rb:   uint8(bits.Field32(w, 3, 3)),
			Rd:   uint8(bits.Field32(w, 0, 3)),
		}
	case w&0xF000 == 0x8000: // 1000: load/store halfword (format 10)
		return ThumbLoadStoreHalfword{
			Load: bits.Get32(w, 11),
			Imm:  uint8(bits.Field32(w, 6, 5)),
			Rb:   uint8(bits.Field32(w, 3, 3)),
			Rd:   uint8(bits.Field32(w, 0, 3)),
		}
	case w&0xF000 == 0x9000: // 1001: SP-relative load/store (format 11)
		return ThumbSPRelativeLoadStore{
			Load: bits.Get32(w, 11),
			Rd:   uint8(bits.Field32(w, 8, 3)),
			Imm:  uint16(bits.Field32(w, 0, 8)) << 2,
		}
	case w&0xF000 == 0xA000: // 1010: load address (format 12)
		return ThumbLoadAddress{
			SP:  bits.Get32(w, 11),
			Rd:  uint8(bits.Field32(w, 8, 3)),
			Imm: uint16(bits.Field32(w, 0, 8)) << 2,
		}
	case w&0xFF00 == 0xB000: // 10110000: add offset to stack pointer (format 13)
		return ThumbAddOffsetToSP{
			Negative: bits.Get32(w, 7),
			Imm:      uint16(bits.Field32(w, 0, 7)) << 2,
		}
	case w&0xF600 == 0xB400: // 1011 L10 R: push/pop registers (format 14)
		return ThumbPushPop{
			Load:            bits.Get32(w, 11),
			IncludeLRorPC:   bits.Get32(w, 8),
			RegList:         uint8(bits.Field32(w, 0, 8)),
		}
	case w&0xF000 == 0xC000: // 1100: multiple load/store (format 15)
		return ThumbMultipleLoadStore{
			Load:    bits.Get32(w, 11),
			Rb:      uint8(bits.Field32(w, 8, 3)),
			RegList: uint8(bits.Field32(w, 0, 8)),
		}
	case w&0xFF00 == 0xDF00: // 11011111: software interrupt (format 17)
		return ThumbSoftwareInterrupt{Comment: uint8(bits.Field32(w, 0, 8))}
	case w&0xF000 == 0xD000: // 1101: conditional branch (format 16)
		offset := int32(int8(bits.Field32(w, 0, 8))) << 1
		return ThumbConditionalBranch{Cond: Condition(bits.Field32(w, 8, 4)), Offset: offset}
	case w&0xF800 == 0xE000: // 11100: unconditional branch (format 18)
		offset := int32(bits.Field32(w, 0, 11))
		if bits.Get32(w, 10) {
			offset |= -(1 << 11)
		}
		return ThumbUnconditionalBranch{Offset: offset << 1}
	case w&0xF000 == 0xF000: // 1111: long branch with link (format 19)
		return ThumbLongBranchLink{
			High:   bits.Get32(w, 11),
			Offset: bits.Field32(w, 0, 11),
		}
	default:
		return ThumbUndefined{Word: word}
	}
}
