package cpu

// RegisterFile holds the 16 visible registers plus the banked copies spec.md
// §3/§4.3 require. Access is always by (index, mode); the routing table in
// spec.md §4.3 is realized here as an explicit table keyed by (mode, index)
// rather than per-mode special-casing, per §9's design note.
type RegisterFile struct {
	main    [13]uint32 // R0-R12 for every mode except FIQ's R8-R12
	fiqBank [5]uint32  // R8_fiq..R12_fiq
	sp      [numBanks]uint32
	lr      [numBanks]uint32
	pc      uint32

	cpsr PSR
	spsr [numBanks]PSR
}

func NewRegisterFile() *RegisterFile {
	rf := &RegisterFile{}
	rf.cpsr = NewPSR(ModeSVC, false)
	rf.cpsr.SetFIQDisabled(true)
	rf.cpsr.SetIRQDisabled(true)
	return rf
}

// Get returns register idx as visible in mode. Reading R15 is the caller's
// responsibility to offset for the pipeline effect (spec.md §3's "reading
// R15 returns address_of_current_instruction + 2*instr_size" invariant is
// implemented by the pipeline, not here) — Get simply returns the raw PC
// slot.
func (rf *RegisterFile) Get(idx uint8, mode Mode) uint32 {
	switch {
	case idx == 15:
		return rf.pc
	case mode == ModeFIQ && idx >= 8 && idx <= 12:
		return rf.fiqBank[idx-8]
	case idx == 13:
		return rf.sp[mode.bank()]
	case idx == 14:
		return rf.lr[mode.bank()]
	default:
		return rf.main[idx]
	}
}

// Set writes register idx as visible in mode. Writes to PC are never
// banked.
func (rf *RegisterFile) Set(idx uint8, value uint32, mode Mode) {
	switch {
	case idx == 15:
		rf.pc = value
	case mode == ModeFIQ && idx >= 8 && idx <= 12:
		rf.fiqBank[idx-8] = value
	case idx == 13:
		rf.sp[mode.bank()] = value
	case idx == 14:
		rf.lr[mode.bank()] = value
	default:
		rf.main[idx] = value
	}
}

// PC returns the raw program-counter slot (the pipeline is responsible for
// keeping it at the correct pipeline-effect offset during fetch/decode).
func (rf *RegisterFile) PC() uint32 { return rf.pc }

// SetPC overwrites the raw program-counter slot directly, bypassing any
// mode-banking (R15 is never banked).
func (rf *RegisterFile) SetPC(addr uint32) { rf.pc = addr }

func (rf *RegisterFile) CPSR() *PSR    { return &rf.cpsr }
func (rf *RegisterFile) SetCPSR(p PSR) { rf.cpsr = p }

// GetSPSR returns the saved PSR for mode's exception bank. USR/SYS have no
// SPSR of their own; spec.md §4.3 leaves this case to the implementer, so
// this returns the zero PSR rather than panicking.
func (rf *RegisterFile) GetSPSR(mode Mode) PSR {
	return rf.spsr[mode.bank()]
}

func (rf *RegisterFile) SetSPSR(mode Mode, value PSR) {
	if mode.bank() == bankMain {
		return // SPSR_usr/SPSR_sys do not exist.
	}
	rf.spsr[mode.bank()] = value
}
