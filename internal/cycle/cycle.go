// Package cycle is a newtype over the small nonnegative bus-cycle counts
// the CPU core deals in. The memory provider is the single source of truth
// for per-access cost; this package just gives that cost a typed, addable
// shape instead of a bare int.
package cycle

// Cycle is an opaque nonnegative cycle count.
type Cycle uint32

// AccessKind classifies a bus access for wait-state lookup.
type AccessKind uint8

const (
	NonSeq AccessKind = iota
	Seq
)

// Internal constructs a Cycle for n purely-internal cycles (no bus access),
// e.g. the extra cycles a multiply or a register-specified shift spends.
func Internal(n uint32) Cycle {
	return Cycle(n)
}

// SeqFetch constructs a Cycle for a sequential instruction fetch of n cycles.
func SeqFetch(n uint32) Cycle {
	return Cycle(n)
}

// NSeqFetch constructs a Cycle for a non-sequential instruction fetch of n
// cycles.
func NSeqFetch(n uint32) Cycle {
	return Cycle(n)
}

// Add returns the checked sum of a and b. Cycle counts never approach
// uint32 overflow in practice (a full frame is on the order of 10^5 cycles),
// but the addition saturates rather than wrapping, matching §9's "checked
// addition" note.
func (a Cycle) Add(b Cycle) Cycle {
	sum := uint64(a) + uint64(b)
	if sum > uint64(^Cycle(0)) {
		return ^Cycle(0)
	}
	return Cycle(sum)
}

// Repeat returns n copies of c added together.
func (c Cycle) Repeat(n int) Cycle {
	total := Cycle(0)
	for i := 0; i < n; i++ {
		total = total.Add(c)
	}
	return total
}

// Sum adds every Cycle in cs together, starting from zero.
func Sum(cs ...Cycle) Cycle {
	total := Cycle(0)
	for _, c := range cs {
		total = total.Add(c)
	}
	return total
}
