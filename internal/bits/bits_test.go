package bits

import "testing"

func TestGetSetBits32(t *testing.T) {
	x := SetBits32(0, 4, 7, 0xF)
	if x != 0xF0 {
		t.Fatalf("SetBits32 = %#x, want 0xF0", x)
	}
	if GetBits32(x, 4, 7) != 0xF {
		t.Fatalf("GetBits32 = %#x, want 0xF", GetBits32(x, 4, 7))
	}
}

func TestUpdate32(t *testing.T) {
	x := Update32(0, 31, true)
	if x != 0x8000_0000 {
		t.Fatalf("Update32 set = %#x", x)
	}
	x = Update32(x, 31, false)
	if x != 0 {
		t.Fatalf("Update32 clear = %#x", x)
	}
}

func TestSignExtend(t *testing.T) {
	if got := SignExtend(0x7FF, 12); got != 2047 {
		t.Fatalf("SignExtend positive = %d", got)
	}
	if got := SignExtend(0xFFF, 12); got != -1 {
		t.Fatalf("SignExtend -1 = %d", got)
	}
	if got := SignExtend(0x800, 12); got != -2048 {
		t.Fatalf("SignExtend min = %d", got)
	}
}

func TestRotateRight32(t *testing.T) {
	if got := RotateRight32(0x1, 1); got != 0x8000_0000 {
		t.Fatalf("RotateRight32 = %#x", got)
	}
	if got := RotateRight32(0x12345678, 0); got != 0x12345678 {
		t.Fatalf("RotateRight32 by 0 changed value: %#x", got)
	}
}

func TestExtendedASR(t *testing.T) {
	if got := ExtendedASR(0x8000_0000, 32); got != 0xFFFF_FFFF {
		t.Fatalf("ExtendedASR sign-set by 32 = %#x", got)
	}
	if got := ExtendedASR(0x7FFF_FFFF, 33); got != 0 {
		t.Fatalf("ExtendedASR sign-clear by 33 = %#x", got)
	}
	if got := ExtendedASR(0xFFFF_FFF0, 4); got != 0xFFFF_FFFF {
		t.Fatalf("ExtendedASR in-range = %#x", got)
	}
}

func TestPopCount16(t *testing.T) {
	if PopCount16(0xFFFF) != 16 {
		t.Fatalf("PopCount16 all ones = %d", PopCount16(0xFFFF))
	}
	if PopCount16(0) != 0 {
		t.Fatalf("PopCount16 zero = %d", PopCount16(0))
	}
	if PopCount16(0b1010_1010) != 4 {
		t.Fatalf("PopCount16 = %d", PopCount16(0b1010_1010))
	}
}
