package vm

import "testing"

func TestPSRSetCC(t *testing.T) {
	tests := []struct {
		value         Word
		n, z, p       bool
	}{
		{0, false, true, false},
		{1, false, false, true},
		{0x7FFF, false, false, true},
		{0x8000, true, false, false},
		{0xFFFF, true, false, false},
	}

	for _, tt := range tests {
		var psr PSR
		psr.SetCC(tt.value)
		if psr.N != tt.n || psr.Z != tt.z || psr.P != tt.p {
			t.Errorf("SetCC(0x%04X) = N:%v Z:%v P:%v, want N:%v Z:%v P:%v",
				tt.value, psr.N, psr.Z, psr.P, tt.n, tt.z, tt.p)
		}
	}
}

func TestPSRToWordFromWordRoundTrip(t *testing.T) {
	original := PSR{N: true, Z: false, P: false, Supervisor: true}
	w := original.ToWord()

	var restored PSR
	restored.FromWord(w)
	if restored != original {
		t.Errorf("round trip mismatch: got %+v, want %+v", restored, original)
	}
}

func TestCPUSetRegisterUpdatesConditionCodes(t *testing.T) {
	c := NewCPU()
	c.SetRegister(R2, 0)
	if !c.PSR.Z {
		t.Errorf("expected Z flag set after writing zero")
	}
	c.SetRegister(R2, 5)
	if !c.PSR.P {
		t.Errorf("expected P flag set after writing positive value")
	}
}

func TestNewCPUBootState(t *testing.T) {
	c := NewCPU()
	if c.PSR.Supervisor {
		t.Errorf("expected CPU to boot in user mode")
	}
	if !c.PSR.Z {
		t.Errorf("expected Z flag set at boot")
	}
}
