package cpu

// The decoded-instruction structs below are the ARM-state variants of
// spec.md §4.6's eleven formats. decodeARM returns one of these as an
// interface{}; executeARM type-switches on the concrete type.

type ArmDataProcessing struct {
	Cond     Condition
	Opcode   uint8 // AND=0..MVN=15, the standard ARM data-processing opcode field
	SetFlags bool
	Rn, Rd   uint8
	Operand2 Operand
}

type ArmMultiply struct {
	Cond                Condition
	Accumulate          bool
	SetFlags            bool
	Rd, Rn, Rs, Rm      uint8
}

type ArmMultiplyLong struct {
	Cond                   Condition
	Signed                 bool
	Accumulate             bool
	SetFlags               bool
	RdHi, RdLo, Rs, Rm     uint8
}

type ArmSingleDataSwap struct {
	Cond   Condition
	Byte   bool
	Rn, Rd, Rm uint8
}

type ArmBranchExchange struct {
	Cond Condition
	Rm   uint8
}

// ArmHalfwordTransfer covers LDRH/STRH/LDRSB/LDRSH (and LDRD/STRD, unused on
// ARMv4T but decoded the same way).
type ArmHalfwordTransfer struct {
	Cond                   Condition
	Pre, Up, Imm, WriteBack, Load bool
	Rn, Rd                 uint8
	OffsetImm              uint8 // valid when Imm
	OffsetReg              uint8 // valid when !Imm
	Signed                 bool
	Half                   bool // true: halfword; false: byte (only meaningful when Signed)
}

type ArmSingleDataTransfer struct {
	Cond                                Condition
	RegisterOffset, Pre, Up, Byte, WriteBack, Load bool
	Rn, Rd                              uint8
	Offset                              Operand
}

type ArmBlockDataTransfer struct {
	Cond                          Condition
	Pre, Up, PSRForceUser, WriteBack, Load bool
	Rn                            uint8
	RegList                       uint16
}

type ArmBranch struct {
	Cond   Condition
	Link   bool
	Offset int32 // already sign-extended and *4
}

type ArmMRS struct {
	Cond  Condition
	SPSR  bool
	Rd    uint8
}

// FieldMask bits, per spec.md §4.7: bit3=f (flags, bits 31-24), bit2=s
// (status, bits 23-16), bit1=x (extension, bits 15-8), bit0=c (control,
// bits 7-0). MSR only writes the bytes whose bit is set.
type ArmMSR struct {
	Cond      Condition
	SPSR      bool
	FieldMask uint8 // 4-bit f/s/x/c mask, decoded from bits 19/18/17/16
	Source    Operand
}

type ArmSoftwareInterrupt struct {
	Cond    Condition
	Comment uint32
}

type ArmUndefined struct {
	Cond Condition
}
