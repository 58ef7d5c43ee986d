package cpu

import "testing"

func TestApplyShiftLSL(t *testing.T) {
	cases := []struct {
		name        string
		lhs, amount uint32
		wantResult  uint32
		wantCarry   bool
	}{
		{"LSL #0 leaves carry untouched", 0xFFFFFFFF, 0, 0xFFFFFFFF, false},
		{"LSL #1", 0x80000001, 1, 0x00000002, true},
		{"LSL #31", 0x00000001, 31, 0x80000000, false},
		{"LSL #32 zeroes result, carry = old bit0", 0x00000001, 32, 0, true},
		{"LSL #33 zeroes both", 0xFFFFFFFF, 33, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, carry, _ := ApplyShift(tc.lhs, tc.amount, LSL, true, false)
			if result != tc.wantResult || carry != tc.wantCarry {
				t.Errorf("LSL(%#x, %d) = (%#x, %v), want (%#x, %v)",
					tc.lhs, tc.amount, result, carry, tc.wantResult, tc.wantCarry)
			}
		})
	}
}

func TestApplyShiftLSRImmediateZeroMeansThirtyTwo(t *testing.T) {
	result, carry, _ := ApplyShift(0x80000000, 0, LSR, true, false)
	if result != 0 || !carry {
		t.Errorf("LSR #0 (immediate) = (%#x, %v), want (0, true)", result, carry)
	}
}

func TestApplyShiftLSRRegisterZeroIsNoop(t *testing.T) {
	// A register-sourced shift amount of zero leaves the operand and the C
	// flag untouched; carryChanged tells the caller to ignore the returned
	// carry value rather than overwrite its own.
	result, _, changed := ApplyShift(0x80000000, 0, LSR, false, true)
	if result != 0x80000000 || changed {
		t.Errorf("LSR #0 (register) = (%#x, changed=%v), want (0x80000000, changed=false)", result, changed)
	}
}

func TestApplyShiftASRSignExtends(t *testing.T) {
	result, carry, _ := ApplyShift(0x80000000, 31, ASR, true, false)
	if result != 0xFFFFFFFF || carry {
		t.Errorf("ASR #31 of negative = (%#x, %v), want (0xFFFFFFFF, false)", result, carry)
	}
}

func TestApplyShiftASRImmediateZeroMeansThirtyTwo(t *testing.T) {
	result, carry, _ := ApplyShift(0x7FFFFFFF, 0, ASR, true, false)
	if result != 0 || carry {
		t.Errorf("ASR #0 (immediate) of positive = (%#x, %v), want (0, false)", result, carry)
	}
}

func TestApplyShiftRORRotatesAndCarries(t *testing.T) {
	result, carry, _ := ApplyShift(0x00000001, 1, ROR, true, false)
	if result != 0x80000000 || !carry {
		t.Errorf("ROR #1 of 1 = (%#x, %v), want (0x80000000, true)", result, carry)
	}
}

func TestApplyShiftRRX(t *testing.T) {
	result, carry, changed := ApplyShift(0x00000002, 0, ROR, true, true)
	if !changed {
		t.Fatalf("RRX should report carryChanged")
	}
	if result != 0x80000001 || carry {
		t.Errorf("RRX with carry-in of 1 on 0x2 = (%#x, %v), want (0x80000001, false)", result, carry)
	}
}
