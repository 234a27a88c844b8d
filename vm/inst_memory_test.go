package vm

import "testing"

func TestExecuteLd(t *testing.T) {
	m := NewVM()
	m.CPU.PC = 0x3000
	m.Memory.WriteWordUnsafe(0x3005, 0x1234)

	opcode := OpLD<<OpcodeShift | 1<<DRShift | (5 & 0x1FF)
	inst := m.Decode(opcode)
	if err := ExecuteLd(m, inst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CPU.R[1] != 0x1234 {
		t.Errorf("R1 = 0x%04X, want 0x1234", m.CPU.R[1])
	}
	if !m.CPU.PSR.P {
		t.Errorf("expected P flag set")
	}
}

func TestExecuteLdi(t *testing.T) {
	m := NewVM()
	m.CPU.PC = 0x3000
	m.Memory.WriteWordUnsafe(0x3005, 0x4000) // pointer cell
	m.Memory.WriteWordUnsafe(0x4000, 0x00FF) // target cell

	opcode := OpLDI<<OpcodeShift | 2<<DRShift | (5 & 0x1FF)
	inst := m.Decode(opcode)
	if err := ExecuteLdi(m, inst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CPU.R[2] != 0x00FF {
		t.Errorf("R2 = 0x%04X, want 0x00FF", m.CPU.R[2])
	}
}

func TestExecuteLdr(t *testing.T) {
	m := NewVM()
	m.CPU.R[3] = 0x5000
	m.Memory.WriteWordUnsafe(0x5003, 0x0007)

	opcode := OpLDR<<OpcodeShift | 4<<DRShift | 3<<SRShift | (3 & 0x3F)
	inst := m.Decode(opcode)
	if err := ExecuteLdr(m, inst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CPU.R[4] != 0x0007 {
		t.Errorf("R4 = 0x%04X, want 0x0007", m.CPU.R[4])
	}
}

func TestExecuteLeaSetsConditionCodes(t *testing.T) {
	m := NewVM()
	m.CPU.PC = 0x3000

	opcode := OpLEA<<OpcodeShift | 0<<DRShift | (0x10 & 0x1FF)
	inst := m.Decode(opcode)
	if err := ExecuteLea(m, inst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CPU.R[0] != 0x3010 {
		t.Errorf("R0 = 0x%04X, want 0x3010", m.CPU.R[0])
	}
	if !m.CPU.PSR.P {
		t.Errorf("LEA must set condition codes (pinned ambiguity, DESIGN.md)")
	}
}

func TestExecuteStAndSti(t *testing.T) {
	m := NewVM()
	m.CPU.PC = 0x3000
	m.CPU.R[0] = 0xABCD

	stOpcode := OpST<<OpcodeShift | 0<<DRShift | (2 & 0x1FF)
	if err := ExecuteSt(m, m.Decode(stOpcode)); err != nil {
		t.Fatalf("ST: unexpected error: %v", err)
	}
	if got := m.Memory.ReadWordUnsafe(0x3002); got != 0xABCD {
		t.Errorf("mem[0x3002] = 0x%04X, want 0xABCD", got)
	}

	m.Memory.WriteWordUnsafe(0x3010, 0x6000) // pointer cell for STI
	stiOpcode := OpSTI<<OpcodeShift | 0<<DRShift | (0x10 & 0x1FF)
	if err := ExecuteSti(m, m.Decode(stiOpcode)); err != nil {
		t.Fatalf("STI: unexpected error: %v", err)
	}
	if got := m.Memory.ReadWordUnsafe(0x6000); got != 0xABCD {
		t.Errorf("mem[0x6000] = 0x%04X, want 0xABCD", got)
	}
}

func TestExecuteStr(t *testing.T) {
	m := NewVM()
	m.CPU.R[5] = 0x7000
	m.CPU.R[0] = 0x0042

	opcode := OpSTR<<OpcodeShift | 0<<DRShift | 5<<SRShift | (4 & 0x3F)
	if err := ExecuteStr(m, m.Decode(opcode)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Memory.ReadWordUnsafe(0x7004); got != 0x0042 {
		t.Errorf("mem[0x7004] = 0x%04X, want 0x0042", got)
	}
}
