package cycle

import "testing"

func TestAddAndRepeat(t *testing.T) {
	c := Internal(3).Add(SeqFetch(1))
	if c != 4 {
		t.Fatalf("Add = %d, want 4", c)
	}
	if got := Internal(2).Repeat(3); got != 6 {
		t.Fatalf("Repeat = %d, want 6", got)
	}
}

func TestSum(t *testing.T) {
	if got := Sum(Internal(1), Internal(2), Internal(3)); got != 6 {
		t.Fatalf("Sum = %d, want 6", got)
	}
	if got := Sum(); got != 0 {
		t.Fatalf("Sum() empty = %d, want 0", got)
	}
}
