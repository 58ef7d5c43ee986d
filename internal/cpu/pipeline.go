package cpu

// pipeline is the two-buffered-word model of spec.md §3/§4.8: a "current"
// word (already fetched, decoded) and a "next" word (prefetched), plus the
// addresses both were fetched from. flush discards both; sync advances
// current<-next, decodes the new current, and prefetches a new next.
type pipeline struct {
	currentWord uint32
	nextWord    uint32
	currentAddr uint32
	nextAddr    uint32
	decoded     interface{}
	loaded      bool
	branched    bool // set by exec when it already repositioned PC/flushed, so step must not re-sync
}

// instrSize returns 4 in ARM state, 2 in THUMB state.
func (c *CPU) instrSize() uint32 {
	if c.regs.CPSR().T() {
		return 2
	}
	return 4
}

func (c *CPU) fetch(addr uint32) uint32 {
	if c.regs.CPSR().T() {
		return uint32(c.bus.Read16(addr))
	}
	return c.bus.Read32(addr)
}

func (c *CPU) decode(word uint32) interface{} {
	if c.regs.CPSR().T() {
		return decodeThumb(uint16(word))
	}
	return decodeARM(word)
}

// flushPipeline discards both buffered words, per spec.md §4.8: every
// branch, mode switch, and exception entry must call this before the next
// sync refills the pipeline from the new PC.
func (c *CPU) flushPipeline() {
	c.pl = pipeline{}
}

// syncPipeline advances the pipeline by one slot: current becomes what was
// next (or is read fresh after a flush), current is decoded, and a new next
// word is prefetched.
func (c *CPU) syncPipeline() {
	size := c.instrSize()
	pc := c.regs.PC()

	if !c.pl.loaded {
		c.pl.currentAddr = pc
		c.pl.currentWord = c.fetch(pc)
		c.pl.nextAddr = pc + size
		c.pl.nextWord = c.fetch(pc + size)
		c.pl.loaded = true
	} else {
		c.pl.currentAddr = c.pl.nextAddr
		c.pl.currentWord = c.pl.nextWord
		c.pl.nextAddr = c.pl.currentAddr + size
		c.pl.nextWord = c.fetch(c.pl.nextAddr)
	}

	c.pl.decoded = c.decode(c.pl.currentWord)
	c.bus.NoteFetch(c.pl.nextWord)
	// R15 always reads as (address of current instruction) + 2*instr_size,
	// the pipeline effect spec.md §3 requires.
	c.regs.SetPC(c.pl.currentAddr + 2*size)
}
