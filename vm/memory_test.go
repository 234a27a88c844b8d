package vm

import "testing"

func TestMemoryKeyboardReadClearsReadyBit(t *testing.T) {
	m := NewMemory()
	m.SetKeyboardData('Q')
	m.SetKeyboardReady(true)

	if !m.KeyboardReady() {
		t.Fatalf("expected keyboard ready before read")
	}
	got, err := m.ReadWord(KBDRAddr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 'Q' {
		t.Errorf("KBDR = %c, want Q", got)
	}
	if m.KeyboardReady() {
		t.Errorf("expected ready bit cleared after reading KBDR")
	}
}

func TestMemoryWriteDDRInvokesOutputSink(t *testing.T) {
	m := NewMemory()
	var got byte
	m.OutputSink = func(b byte) { got = b }

	if err := m.WriteWord(DDRAddr, 'X'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 'X' {
		t.Errorf("OutputSink received %c, want X", got)
	}
}

func TestMemoryAccessedTracksLastTouch(t *testing.T) {
	m := NewMemory()
	if _, err := m.ReadWord(0x3000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Accessed(0x3000) {
		t.Errorf("expected 0x3000 to be the most recently accessed address")
	}
	if m.Accessed(0x3001) {
		t.Errorf("0x3001 was never touched")
	}
}

func TestMemoryLoadImage(t *testing.T) {
	m := NewMemory()
	words := []Word{0x1000, 0x2000, 0x3000}
	if err := m.LoadImage(0x3000, words); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, w := range words {
		if got := m.ReadWordUnsafe(0x3000 + Word(i)); got != w {
			t.Errorf("mem[0x%04X] = 0x%04X, want 0x%04X", 0x3000+i, got, w)
		}
	}
}

func TestMemoryLoadImageOverflow(t *testing.T) {
	m := NewMemory()
	words := make([]Word, 10)
	if err := m.LoadImage(MemorySize-5, words); err == nil {
		t.Errorf("expected error loading image past end of memory")
	}
}

func TestMemoryRunningAndHalt(t *testing.T) {
	m := NewMemory()
	if !m.Running() {
		t.Fatalf("expected machine to boot running")
	}
	m.Halt()
	if m.Running() {
		t.Errorf("expected machine halted after Halt()")
	}
}
