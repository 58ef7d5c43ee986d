package cpu

import (
	"gbacore/internal/bits"
	"gbacore/internal/busio"
	"gbacore/internal/cycle"
)

func (c *CPU) executeThumb(decoded interface{}, thisAddr uint32) cycle.Cycle {
	switch ins := decoded.(type) {
	case ThumbMoveShifted:
		return c.thumbMoveShifted(ins)
	case ThumbAddSub:
		return c.thumbAddSub(ins)
	case ThumbImmediateOp:
		return c.thumbImmediateOp(ins)
	case ThumbALU:
		return c.thumbALU(ins)
	case ThumbHiRegOp:
		return c.thumbHiRegOp(ins)
	case ThumbPCRelativeLoad:
		return c.thumbPCRelativeLoad(ins, thisAddr)
	case ThumbLoadStoreReg:
		return c.thumbLoadStoreReg(ins)
	case ThumbLoadStoreSignExt:
		return c.thumbLoadStoreSignExt(ins)
	case ThumbLoadStoreImm:
		return c.thumbLoadStoreImm(ins)
	case ThumbLoadStoreHalfword:
		return c.thumbLoadStoreHalfword(ins)
	case ThumbSPRelativeLoadStore:
		return c.thumbSPRelativeLoadStore(ins)
	case ThumbLoadAddress:
		return c.thumbLoadAddress(ins, thisAddr)
	case ThumbAddOffsetToSP:
		return c.thumbAddOffsetToSP(ins)
	case ThumbPushPop:
		return c.thumbPushPop(ins)
	case ThumbMultipleLoadStore:
		return c.thumbMultipleLoadStore(ins)
	case ThumbConditionalBranch:
		return c.thumbConditionalBranch(ins, thisAddr)
	case ThumbSoftwareInterrupt:
		return c.thumbSWI(ins, thisAddr)
	case ThumbUnconditionalBranch:
		return c.thumbUnconditionalBranch(ins, thisAddr)
	case ThumbLongBranchLink:
		return c.thumbLongBranchLink(ins, thisAddr)
	case ThumbUndefined:
		return c.execUndefinedThumb(thisAddr)
	default:
		return cycle.Internal(1)
	}
}

func (c *CPU) thumbMoveShifted(ins ThumbMoveShifted) cycle.Cycle {
	rs := c.reg(ins.Rs)
	result, carryOut, changed := ApplyShift(rs, uint32(ins.Amount), ins.Kind, true, c.regs.CPSR().C())
	if !changed {
		carryOut = c.regs.CPSR().C()
	}
	c.setReg(ins.Rd, result)
	psr := c.regs.CPSR()
	psr.UpdateZN(result)
	psr.SetC(carryOut)
	return cycle.Internal(1)
}

func (c *CPU) thumbAddSub(ins ThumbAddSub) cycle.Cycle {
	rs := c.reg(ins.Rs)
	var operand uint32
	if ins.Immediate {
		operand = uint32(ins.RnOrImm)
	} else {
		operand = c.reg(ins.RnOrImm)
	}
	var result uint32
	var carryOut, overflow bool
	if ins.Subtract {
		result, carryOut, overflow = addWithCarry(rs, ^operand, true)
	} else {
		result, carryOut, overflow = addWithCarry(rs, operand, false)
	}
	c.setReg(ins.Rd, result)
	psr := c.regs.CPSR()
	psr.UpdateZN(result)
	psr.SetC(carryOut)
	psr.SetV(overflow)
	return cycle.Internal(1)
}

func (c *CPU) thumbImmediateOp(ins ThumbImmediateOp) cycle.Cycle {
	rd := c.reg(ins.Rd)
	imm := uint32(ins.Imm)
	psr := c.regs.CPSR()
	switch ins.Op {
	case 0: // MOV
		c.setReg(ins.Rd, imm)
		psr.UpdateZN(imm)
	case 1: // CMP
		result, carryOut, overflow := addWithCarry(rd, ^imm, true)
		psr.UpdateZN(result)
		psr.SetC(carryOut)
		psr.SetV(overflow)
	case 2: // ADD
		result, carryOut, overflow := addWithCarry(rd, imm, false)
		c.setReg(ins.Rd, result)
		psr.UpdateZN(result)
		psr.SetC(carryOut)
		psr.SetV(overflow)
	case 3: // SUB
		result, carryOut, overflow := addWithCarry(rd, ^imm, true)
		c.setReg(ins.Rd, result)
		psr.UpdateZN(result)
		psr.SetC(carryOut)
		psr.SetV(overflow)
	}
	return cycle.Internal(1)
}

func (c *CPU) thumbALU(ins ThumbALU) cycle.Cycle {
	rd := c.reg(ins.Rd)
	rs := c.reg(ins.Rs)
	psr := c.regs.CPSR()
	var result uint32
	var carryOut, overflow, changed bool
	logical := false
	test := false

	switch ins.Op {
	case 0x0: // AND
		result = rd & rs
		logical = true
	case 0x1: // EOR
		result = rd ^ rs
		logical = true
	case 0x2: // LSL
		result, carryOut, changed = ApplyShift(rd, rs&0xFF, LSL, false, psr.C())
		c.setReg(ins.Rd, result)
		psr.UpdateZN(result)
		if changed {
			psr.SetC(carryOut)
		}
		return cycle.Internal(2)
	case 0x3: // LSR
		result, carryOut, changed = ApplyShift(rd, rs&0xFF, LSR, false, psr.C())
		c.setReg(ins.Rd, result)
		psr.UpdateZN(result)
		if changed {
			psr.SetC(carryOut)
		}
		return cycle.Internal(2)
	case 0x4: // ASR
		result, carryOut, changed = ApplyShift(rd, rs&0xFF, ASR, false, psr.C())
		c.setReg(ins.Rd, result)
		psr.UpdateZN(result)
		if changed {
			psr.SetC(carryOut)
		}
		return cycle.Internal(2)
	case 0x5: // ADC
		result, carryOut, overflow = addWithCarry(rd, rs, psr.C())
	case 0x6: // SBC
		result, carryOut, overflow = addWithCarry(rd, ^rs, psr.C())
	case 0x7: // ROR
		result, carryOut, changed = ApplyShift(rd, rs&0xFF, ROR, false, psr.C())
		c.setReg(ins.Rd, result)
		psr.UpdateZN(result)
		if changed {
			psr.SetC(carryOut)
		}
		return cycle.Internal(2)
	case 0x8: // TST
		result = rd & rs
		logical = true
		test = true
	case 0x9: // NEG
		result, carryOut, overflow = addWithCarry(0, ^rs, true)
	case 0xA: // CMP
		result, carryOut, overflow = addWithCarry(rd, ^rs, true)
		test = true
	case 0xB: // CMN
		result, carryOut, overflow = addWithCarry(rd, rs, false)
		test = true
	case 0xC: // ORR
		result = rd | rs
		logical = true
	case 0xD: // MUL
		result = rd * rs
		logical = true
	case 0xE: // BIC
		result = rd &^ rs
		logical = true
	case 0xF: // MVN
		result = ^rs
		logical = true
	}

	psr.UpdateZN(result)
	if logical {
		// Logical ops leave C untouched on THUMB's single-cycle ALU format.
	} else {
		psr.SetC(carryOut)
		psr.SetV(overflow)
	}
	if !test {
		c.setReg(ins.Rd, result)
	}
	if ins.Op == 0xD { // MUL: booth-recoded cycle count keyed off Rs, per ARM's MUL timing
		return cycle.Internal(multiplierCycles(rs))
	}
	return cycle.Internal(1)
}

func (c *CPU) thumbHiRegOp(ins ThumbHiRegOp) cycle.Cycle {
	rs := c.reg(ins.Rs)
	switch ins.Op {
	case 0: // ADD
		c.setReg(ins.Rd, c.reg(ins.Rd)+rs)
		if ins.Rd == 15 {
			c.branchTo(c.reg(15))
		}
	case 1: // CMP
		result, carryOut, overflow := addWithCarry(c.reg(ins.Rd), ^rs, true)
		psr := c.regs.CPSR()
		psr.UpdateZN(result)
		psr.SetC(carryOut)
		psr.SetV(overflow)
	case 2: // MOV
		c.setReg(ins.Rd, rs)
		if ins.Rd == 15 {
			c.branchTo(rs)
		}
	case 3: // BX
		c.regs.CPSR().SetT(bits.Get32(rs, 0))
		c.branchTo(rs)
	}
	return cycle.Internal(1)
}

func (c *CPU) thumbPCRelativeLoad(ins ThumbPCRelativeLoad, thisAddr uint32) cycle.Cycle {
	base := (thisAddr + 4) &^ 3
	value := c.bus.Read32(base + uint32(ins.Imm))
	c.setReg(ins.Rd, value)
	return c.bus.AccessCycles(base+uint32(ins.Imm), busio.Word, cycle.NonSeq)
}

func (c *CPU) thumbLoadStoreReg(ins ThumbLoadStoreReg) cycle.Cycle {
	addr := c.reg(ins.Rb) + c.reg(ins.Ro)
	if ins.Load {
		if ins.Byte {
			c.setReg(ins.Rd, uint32(c.bus.Read8(addr)))
		} else {
			c.setReg(ins.Rd, uint32(c.bus.Read32(addr)))
		}
	} else {
		if ins.Byte {
			c.bus.Write8(addr, uint8(c.reg(ins.Rd)))
		} else {
			c.bus.Write32(addr, c.reg(ins.Rd))
		}
	}
	return cycle.Internal(1)
}

func (c *CPU) thumbLoadStoreSignExt(ins ThumbLoadStoreSignExt) cycle.Cycle {
	addr := c.reg(ins.Rb) + c.reg(ins.Ro)
	switch {
	case !ins.HFlag && !ins.SFlag: // STRH
		c.bus.Write16(addr, uint16(c.reg(ins.Rd)))
	case !ins.HFlag && ins.SFlag: // LDSB
		c.setReg(ins.Rd, uint32(int32(int8(c.bus.Read8(addr)))))
	case ins.HFlag && !ins.SFlag: // LDRH
		c.setReg(ins.Rd, uint32(c.bus.Read16(addr)))
	default: // LDSH
		c.setReg(ins.Rd, uint32(c.bus.ReadSignedHalfwordAligned(addr)))
	}
	return cycle.Internal(1)
}

func (c *CPU) thumbLoadStoreImm(ins ThumbLoadStoreImm) cycle.Cycle {
	var addr uint32
	if ins.Byte {
		addr = c.reg(ins.Rb) + uint32(ins.Imm)
	} else {
		addr = c.reg(ins.Rb) + uint32(ins.Imm)*4
	}
	if ins.Load {
		if ins.Byte {
			c.setReg(ins.Rd, uint32(c.bus.Read8(addr)))
		} else {
			c.setReg(ins.Rd, c.bus.Read32(addr))
		}
	} else {
		if ins.Byte {
			c.bus.Write8(addr, uint8(c.reg(ins.Rd)))
		} else {
			c.bus.Write32(addr, c.reg(ins.Rd))
		}
	}
	return cycle.Internal(1)
}

func (c *CPU) thumbLoadStoreHalfword(ins ThumbLoadStoreHalfword) cycle.Cycle {
	addr := c.reg(ins.Rb) + uint32(ins.Imm)*2
	if ins.Load {
		c.setReg(ins.Rd, uint32(c.bus.Read16(addr)))
	} else {
		c.bus.Write16(addr, uint16(c.reg(ins.Rd)))
	}
	return cycle.Internal(1)
}

func (c *CPU) thumbSPRelativeLoadStore(ins ThumbSPRelativeLoadStore) cycle.Cycle {
	addr := c.reg(13) + uint32(ins.Imm)
	if ins.Load {
		c.setReg(ins.Rd, c.bus.Read32(addr))
	} else {
		c.bus.Write32(addr, c.reg(ins.Rd))
	}
	return cycle.Internal(1)
}

func (c *CPU) thumbLoadAddress(ins ThumbLoadAddress, thisAddr uint32) cycle.Cycle {
	var base uint32
	if ins.SP {
		base = c.reg(13)
	} else {
		base = (thisAddr + 4) &^ 3
	}
	c.setReg(ins.Rd, base+uint32(ins.Imm))
	return cycle.Internal(1)
}

func (c *CPU) thumbAddOffsetToSP(ins ThumbAddOffsetToSP) cycle.Cycle {
	if ins.Negative {
		c.setReg(13, c.reg(13)-uint32(ins.Imm))
	} else {
		c.setReg(13, c.reg(13)+uint32(ins.Imm))
	}
	return cycle.Internal(1)
}

func (c *CPU) thumbPushPop(ins ThumbPushPop) cycle.Cycle {
	count := bits.PopCount16(uint16(ins.RegList))
	if ins.IncludeLRorPC {
		count++
	}
	sp := c.reg(13)
	if ins.Load { // POP
		addr := sp
		for r := uint8(0); r < 8; r++ {
			if bits.Get32(uint32(ins.RegList), uint(r)) {
				c.setReg(r, c.bus.Read32(addr))
				addr += 4
			}
		}
		if ins.IncludeLRorPC {
			value := c.bus.Read32(addr)
			addr += 4
			c.branchTo(value)
		}
		c.setReg(13, addr)
	} else { // PUSH
		addr := sp - uint32(count)*4
		writeAddr := addr
		for r := uint8(0); r < 8; r++ {
			if bits.Get32(uint32(ins.RegList), uint(r)) {
				c.bus.Write32(writeAddr, c.reg(r))
				writeAddr += 4
			}
		}
		if ins.IncludeLRorPC {
			c.bus.Write32(writeAddr, c.reg(14))
		}
		c.setReg(13, addr)
	}
	return cycle.Internal(1).Add(cycle.NSeqFetch(uint32(count)))
}

func (c *CPU) thumbMultipleLoadStore(ins ThumbMultipleLoadStore) cycle.Cycle {
	count := bits.PopCount16(uint16(ins.RegList))
	base := c.reg(ins.Rb)
	addr := base
	for r := uint8(0); r < 8; r++ {
		if bits.Get32(uint32(ins.RegList), uint(r)) {
			if ins.Load {
				c.setReg(r, c.bus.Read32(addr))
			} else {
				c.bus.Write32(addr, c.reg(r))
			}
			addr += 4
		}
	}
	if count == 0 {
		// Empty list on THUMB: base steps by the full 0x40, nothing transferred.
		addr = base + 0x40
	}
	if !ins.Load || ins.Rb != uint8(firstSetBit(ins.RegList)) {
		c.setReg(ins.Rb, addr)
	}
	return cycle.Internal(1).Add(cycle.NSeqFetch(uint32(count)))
}

func firstSetBit(list uint8) int {
	for r := 0; r < 8; r++ {
		if list&(1<<uint(r)) != 0 {
			return r
		}
	}
	return -1
}

func (c *CPU) thumbConditionalBranch(ins ThumbConditionalBranch, thisAddr uint32) cycle.Cycle {
	if !c.regs.CPSR().Matches(ins.Cond) {
		return cycle.Internal(1)
	}
	target := thisAddr + 4 + uint32(ins.Offset)
	c.branchTo(target)
	return cycle.Internal(2)
}

func (c *CPU) thumbSWI(ins ThumbSoftwareInterrupt, thisAddr uint32) cycle.Cycle {
	c.raiseSWI(thisAddr + 2)
	c.pl.branched = true
	return cycle.Internal(2)
}

func (c *CPU) thumbUnconditionalBranch(ins ThumbUnconditionalBranch, thisAddr uint32) cycle.Cycle {
	target := thisAddr + 4 + uint32(ins.Offset)
	c.branchTo(target)
	return cycle.Internal(2)
}

// thumbLongBranchLink implements the two-halfword BL sequence: the first
// half stashes PC + (offset<<12) in LR; the second half computes the final
// target from LR + (offset<<1) and sets LR to the return address with bit 0
// set (marking THUMB state for any interworking return).
func (c *CPU) thumbLongBranchLink(ins ThumbLongBranchLink, thisAddr uint32) cycle.Cycle {
	if !ins.High {
		offset := int32(ins.Offset)
		if bits.Get32(ins.Offset, 10) {
			offset |= -(1 << 11)
		}
		c.setReg(14, (thisAddr+4)+uint32(offset<<12))
		return cycle.Internal(1)
	}
	target := c.reg(14) + ins.Offset<<1
	nextInstr := thisAddr + 2
	c.setReg(14, nextInstr|1)
	c.branchTo(target)
	return cycle.Internal(2)
}

func (c *CPU) execUndefinedThumb(thisAddr uint32) cycle.Cycle {
	c.raiseUndefined(thisAddr + 2)
	c.pl.branched = true
	return cycle.Internal(2)
}
