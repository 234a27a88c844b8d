package vm

import "testing"

func trapOpcode(vector Word) Word {
	return OpTRAP<<OpcodeShift | (vector & 0xFF)
}

func TestExecuteTrapBuiltinGetc(t *testing.T) {
	m := NewVM()
	m.Memory.PushInput('A')

	inst := m.Decode(trapOpcode(TrapGETC))
	if err := ExecuteTrap(m, inst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CPU.R[R0] != 'A' {
		t.Errorf("R0 = %c, want A", m.CPU.R[R0])
	}
}

func TestExecuteTrapBuiltinOut(t *testing.T) {
	m := NewVM()
	var got []byte
	m.Memory.OutputSink = func(b byte) { got = append(got, b) }
	m.CPU.R[R0] = 'Z'

	if err := ExecuteTrap(m, m.Decode(trapOpcode(TrapOUT))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "Z" {
		t.Errorf("output = %q, want %q", got, "Z")
	}
}

func TestExecuteTrapBuiltinPuts(t *testing.T) {
	m := NewVM()
	var got []byte
	m.Memory.OutputSink = func(b byte) { got = append(got, b) }

	msg := "HI"
	base := Word(0x4000)
	for i, c := range msg {
		m.Memory.WriteWordUnsafe(base+Word(i), Word(c))
	}
	m.Memory.WriteWordUnsafe(base+Word(len(msg)), 0)
	m.CPU.R[R0] = base

	if err := ExecuteTrap(m, m.Decode(trapOpcode(TrapPUTS))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != msg {
		t.Errorf("output = %q, want %q", got, msg)
	}
}

func TestExecuteTrapBuiltinHalt(t *testing.T) {
	m := NewVM()
	if err := ExecuteTrap(m, m.Decode(trapOpcode(TrapHALT))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Memory.Running() {
		t.Errorf("expected machine to be halted")
	}
	if m.State != StateHalted {
		t.Errorf("State = %v, want StateHalted", m.State)
	}
}

func TestExecuteTrapOSDelegated(t *testing.T) {
	m := NewVM()
	m.CPU.PC = 0x3000
	// Install a handler in the vector table: TRAP x30's entry is non-zero,
	// so execution jumps instead of running the built-in handler.
	m.Memory.WriteWordUnsafe(0x30, 0x5000)

	inst := m.Decode(trapOpcode(0x30))
	inst.Address = 0x2FFF
	if err := ExecuteTrap(m, inst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CPU.PC != 0x5000 {
		t.Errorf("PC = 0x%04X, want 0x5000 (jumped to OS handler)", m.CPU.PC)
	}
	if m.CPU.R[R7] != 0x3000 {
		t.Errorf("R7 = 0x%04X, want 0x3000 (return address saved)", m.CPU.R[R7])
	}
}

func TestExecuteTrapUnhandledVector(t *testing.T) {
	m := NewVM()
	err := ExecuteTrap(m, m.Decode(trapOpcode(0x50)))
	if err == nil {
		t.Fatalf("expected error for unhandled trap vector")
	}
}
