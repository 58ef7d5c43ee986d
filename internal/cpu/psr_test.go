package cpu

import "testing"

func TestPSRConditionTable(t *testing.T) {
	cases := []struct {
		name string
		n, z, c, v bool
		cond Condition
		want bool
	}{
		{"EQ true", false, true, false, false, CondEQ, true},
		{"EQ false", false, false, false, false, CondEQ, false},
		{"NE", false, false, false, false, CondNE, true},
		{"CS", false, false, true, false, CondCS, true},
		{"CC", false, false, false, false, CondCC, true},
		{"MI", true, false, false, false, CondMI, true},
		{"PL", false, false, false, false, CondPL, true},
		{"VS", false, false, false, true, CondVS, true},
		{"VC", false, false, false, false, CondVC, true},
		{"HI", false, false, true, false, CondHI, true},
		{"HI blocked by Z", false, true, true, false, CondHI, false},
		{"LS", false, true, false, false, CondLS, true},
		{"GE equal NV", true, false, false, true, CondGE, true},
		{"LT differing NV", true, false, false, false, CondLT, true},
		{"GT", false, false, false, false, CondGT, true},
		{"GT blocked by Z", false, true, false, false, CondGT, false},
		{"LE by Z", false, true, false, false, CondLE, true},
		{"AL always true", false, false, false, false, CondAL, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p PSR
			p.SetN(tc.n)
			p.SetZ(tc.z)
			p.SetC(tc.c)
			p.SetV(tc.v)
			if got := p.Matches(tc.cond); got != tc.want {
				t.Errorf("Matches(%v) = %v, want %v", tc.cond, got, tc.want)
			}
		})
	}
}

func TestPSRFlagRoundTrip(t *testing.T) {
	var p PSR
	p.SetN(true)
	p.SetZ(true)
	p.SetC(true)
	p.SetV(true)

	if !p.N() || !p.Z() || !p.C() || !p.V() {
		t.Fatalf("expected all flags set, got %032b", uint32(p))
	}

	p.SetN(false)
	if p.N() {
		t.Errorf("SetN(false) did not clear N")
	}
	if !p.Z() || !p.C() || !p.V() {
		t.Errorf("clearing N disturbed other flags: %032b", uint32(p))
	}
}

func TestPSROpModeNormalizesReservedPattern(t *testing.T) {
	p := NewPSR(ModeSVC, false)
	p.SetOpMode(Mode(0b10100)) // reserved pattern
	if got := p.OpMode(); got != ModeUSR {
		t.Errorf("OpMode() on reserved bits = %v, want %v", got, ModeUSR)
	}
}

func TestPSROpModeRoundTrip(t *testing.T) {
	for _, m := range []Mode{ModeUSR, ModeFIQ, ModeIRQ, ModeSVC, ModeABT, ModeUND, ModeSYS} {
		p := NewPSR(ModeUSR, false)
		p.SetOpMode(m)
		if got := p.OpMode(); got != m {
			t.Errorf("OpMode() after SetOpMode(%v) = %v", m, got)
		}
	}
}

func TestPSRUpdateZN(t *testing.T) {
	var p PSR
	p.UpdateZN(0)
	if !p.Z() || p.N() {
		t.Errorf("UpdateZN(0): Z=%v N=%v, want Z=true N=false", p.Z(), p.N())
	}
	p.UpdateZN(0x80000000)
	if p.Z() || !p.N() {
		t.Errorf("UpdateZN(0x80000000): Z=%v N=%v, want Z=false N=true", p.Z(), p.N())
	}
}

func TestNewPSRThumbBit(t *testing.T) {
	arm := NewPSR(ModeUSR, false)
	thumb := NewPSR(ModeUSR, true)
	if arm.T() {
		t.Errorf("NewPSR(..., false) set T")
	}
	if !thumb.T() {
		t.Errorf("NewPSR(..., true) did not set T")
	}
}
