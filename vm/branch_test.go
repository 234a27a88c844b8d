package vm

import "testing"

func encodeBR(n, z, p bool, offset9 Word) Word {
	var bits Word
	if n {
		bits |= 1 << 11
	}
	if z {
		bits |= 1 << 10
	}
	if p {
		bits |= 1 << 9
	}
	return OpBR<<OpcodeShift | bits | (offset9 & 0x1FF)
}

func TestExecuteBranch(t *testing.T) {
	tests := []struct {
		name    string
		n, z, p bool
		psrN    bool
		psrZ    bool
		psrP    bool
		taken   bool
	}{
		{"BRz taken on zero", false, true, false, false, true, false, true},
		{"BRz not taken on positive", false, true, false, false, false, true, false},
		{"BRnzp always taken", true, true, true, false, false, true, true},
		{"BR (no bits) never taken", false, false, false, true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewVM()
			m.CPU.PC = 0x3000
			m.CPU.PSR.N, m.CPU.PSR.Z, m.CPU.PSR.P = tt.psrN, tt.psrZ, tt.psrP

			inst := m.Decode(encodeBR(tt.n, tt.z, tt.p, 5))
			inst.Address = 0x2FFF
			if err := ExecuteBranch(m, inst); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := Word(0x3000)
			if tt.taken {
				want = 0x3005
			}
			if m.CPU.PC != want {
				t.Errorf("PC = 0x%04X, want 0x%04X", m.CPU.PC, want)
			}
		})
	}
}

func TestExecuteJmp(t *testing.T) {
	m := NewVM()
	m.CPU.R[3] = 0x4000
	opcode := OpJMP<<OpcodeShift | 3<<SRShift
	inst := m.Decode(opcode)
	if err := ExecuteJmp(m, inst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CPU.PC != 0x4000 {
		t.Errorf("PC = 0x%04X, want 0x4000", m.CPU.PC)
	}
}

func TestExecuteJsrPCRelative(t *testing.T) {
	m := NewVM()
	m.CPU.PC = 0x3000
	opcode := OpJSR<<OpcodeShift | (1 << 11) | (0x10 & 0x7FF)
	inst := m.Decode(opcode)
	if err := ExecuteJsr(m, inst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CPU.R[R7] != 0x3000 {
		t.Errorf("R7 = 0x%04X, want 0x3000 (return address)", m.CPU.R[R7])
	}
	if m.CPU.PC != 0x3010 {
		t.Errorf("PC = 0x%04X, want 0x3010", m.CPU.PC)
	}
}

func TestExecuteJsrr(t *testing.T) {
	m := NewVM()
	m.CPU.PC = 0x3000
	m.CPU.R[2] = 0x5000
	opcode := OpJSR<<OpcodeShift | 2<<SRShift // bit 11 clear -> JSRR
	inst := m.Decode(opcode)
	if err := ExecuteJsr(m, inst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CPU.R[R7] != 0x3000 {
		t.Errorf("R7 = 0x%04X, want 0x3000", m.CPU.R[R7])
	}
	if m.CPU.PC != 0x5000 {
		t.Errorf("PC = 0x%04X, want 0x5000", m.CPU.PC)
	}
}
