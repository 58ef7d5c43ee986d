package cpu

// Decoded THUMB-state instruction variants, covering the nineteen formats
// of spec.md §4.6's THUMB table.

type ThumbMoveShifted struct {
	Kind        ShiftKind
	Amount      uint8
	Rs, Rd      uint8
}

type ThumbAddSub struct {
	Immediate bool
	Subtract  bool
	RnOrImm   uint8
	Rs, Rd    uint8
}

type ThumbImmediateOp struct {
	Op  uint8 // 0=MOV 1=CMP 2=ADD 3=SUB
	Rd  uint8
	Imm uint8
}

type ThumbALU struct {
	Op     uint8 // 0..15, standard THUMB ALU opcode field
	Rs, Rd uint8
}

type ThumbHiRegOp struct {
	Op     uint8 // 0=ADD 1=CMP 2=MOV 3=BX
	Rs, Rd uint8 // already widened to 0-15
}

type ThumbPCRelativeLoad struct {
	Rd  uint8
	Imm uint16 // word-aligned byte offset
}

type ThumbLoadStoreReg struct {
	Load, Byte bool
	Ro, Rb, Rd uint8
}

type ThumbLoadStoreSignExt struct {
	HFlag, SFlag bool
	Ro, Rb, Rd   uint8
}

type ThumbLoadStoreImm struct {
	Load, Byte bool
	Imm        uint8
	Rb, Rd     uint8
}

type ThumbLoadStoreHalfword struct {
	Load   bool
	Imm    uint8
	Rb, Rd uint8
}

type ThumbSPRelativeLoadStore struct {
	Load bool
	Rd   uint8
	Imm  uint16
}

type ThumbLoadAddress struct {
	SP  bool
	Rd  uint8
	Imm uint16
}

type ThumbAddOffsetToSP struct {
	Negative bool
	Imm      uint16
}

type ThumbPushPop struct {
	Load, IncludeLRorPC bool
	RegList             uint8
}

type ThumbMultipleLoadStore struct {
	Load    bool
	Rb      uint8
	RegList uint8
}

type ThumbConditionalBranch struct {
	Cond   Condition
	Offset int32
}

type ThumbSoftwareInterrupt struct {
	Comment uint8
}

type ThumbUnconditionalBranch struct {
	Offset int32
}

type ThumbLongBranchLink struct {
	High   bool // false: first half (LR = PC + offset<<12); true: second half
	Offset uint32
}

type ThumbUndefined struct {
	Word uint16
}
