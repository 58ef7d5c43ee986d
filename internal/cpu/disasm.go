package cpu

import "fmt"

// disassembleARM and disassembleThumb produce a short mnemonic line for the
// debug CLI's straight-line listing mode (DecodeUntilBranch); they are not
// used by Step and make no claim to cover every addressing-mode nuance a
// full disassembler would.
func disassembleARM(word uint32) string {
	switch ins := decodeARM(word).(type) {
	case ArmBranch:
		if ins.Link {
			return fmt.Sprintf("BL #%d", ins.Offset)
		}
		return fmt.Sprintf("B #%d", ins.Offset)
	case ArmBranchExchange:
		return fmt.Sprintf("BX r%d", ins.Rm)
	case ArmDataProcessing:
		return fmt.Sprintf("<dp op=%d> r%d", ins.Opcode, ins.Rd)
	case ArmSingleDataTransfer:
		if ins.Load {
			return fmt.Sprintf("LDR r%d, [r%d]", ins.Rd, ins.Rn)
		}
		return fmt.Sprintf("STR r%d, [r%d]", ins.Rd, ins.Rn)
	case ArmSoftwareInterrupt:
		return fmt.Sprintf("SWI #%d", ins.Comment)
	default:
		return fmt.Sprintf("0x%08X", word)
	}
}

func disassembleThumb(word uint16) string {
	switch ins := decodeThumb(word).(type) {
	case ThumbUnconditionalBranch:
		return fmt.Sprintf("B #%d", ins.Offset)
	case ThumbConditionalBranch:
		return fmt.Sprintf("Bcond #%d", ins.Offset)
	case ThumbLongBranchLink:
		return "BL"
	case ThumbHiRegOp:
		if ins.Op == 3 {
			return fmt.Sprintf("BX r%d", ins.Rs)
		}
		return fmt.Sprintf("<hireg op=%d> r%d", ins.Op, ins.Rd)
	case ThumbSoftwareInterrupt:
		return fmt.Sprintf("SWI #%d", ins.Comment)
	default:
		return fmt.Sprintf("0x%04X", word)
	}
}

func isBranchMnemonic(text string) bool {
	return len(text) >= 1 && (text[0] == 'B' || (len(text) > 2 && text[:3] == "SWI"))
}
