package vm

import (
	"fmt"
)

// Memory is the LC-3's flat 65,536-word address space .
// Four device registers are layered on top at fixed addresses (section 6);
// everything else is an ordinary, initially-zero word.
type Memory struct {
	cells [MemorySize]Word

	// lastAccessed and hasAccessed implement the accessed(addr) predicate
	// : true iff the most recent fetch/LDx/STx touched
	// addr. Recomputed on every memory touch, not just writes, so a host
	// can detect a KBDR read as readily as a DDR write.
	lastAccessed Word
	hasAccessed  bool

	AccessCount uint64
	ReadCount   uint64
	WriteCount  uint64

	// InputQueue holds bytes for the built-in GETC/IN handling used when no
	// OS trap handler has been installed (vm/syscall.go); those handlers read
	// it directly and KBSR/KBDR are not touched. A host driving KBSR/KBDR
	// directly does not need this; it is the convenience path for embedding
	// the VM without a cooperating host loop.
	InputQueue []byte

	// OutputSink receives characters written to DDR via the built-in OUT/
	// PUTS/PUTSP handlers.
	OutputSink func(byte)
}

// NewMemory creates a zeroed memory image with the machine running
// (MCR bit 15 set), matching the reference LC-3 boot state.
func NewMemory() *Memory {
	m := &Memory{}
	m.cells[MCRAddr] = MCRRunBit
	m.cells[DSRAddr] = DSRReadyBit
	return m
}

func (m *Memory) touch(addr Word) {
	m.lastAccessed = addr
	m.hasAccessed = true
	m.AccessCount++
}

// Accessed reports whether addr was the most recently touched memory cell.
func (m *Memory) Accessed(addr Word) bool {
	return m.hasAccessed && m.lastAccessed == addr
}

// ReadWord reads the word at addr. Reading KBDR clears KBSR's ready bit, the
// mechanism by which a host (or the built-in trap handlers) observes that a
// pending character has been consumed.
func (m *Memory) ReadWord(addr Word) (Word, error) {
	m.touch(addr)
	m.ReadCount++

	if addr == KBDRAddr {
		value := m.cells[KBDRAddr]
		m.cells[KBSRAddr] &^= KBSRReadyBit
		return value, nil
	}
	return m.cells[addr], nil
}

// WriteWord writes value to addr. Writing DDR invokes OutputSink (if set)
// with the low byte and leaves DSR's ready bit set, since this
// implementation's display is always ready .
func (m *Memory) WriteWord(addr Word, value Word) error {
	m.touch(addr)
	m.WriteCount++

	m.cells[addr] = value
	if addr == DDRAddr && m.OutputSink != nil {
		m.OutputSink(byte(value))
	}
	return nil
}

// ReadWordUnsafe reads a cell without updating access tracking or device
// side effects, for use by diagnostics (disassembly, memory dumps) that
// must not disturb `accessed`.
func (m *Memory) ReadWordUnsafe(addr Word) Word {
	return m.cells[addr]
}

// WriteWordUnsafe writes a cell without updating access tracking or device
// side effects.
func (m *Memory) WriteWordUnsafe(addr Word, value Word) {
	m.cells[addr] = value
}

// PushInput appends a byte to InputQueue for the built-in GETC/IN handlers;
// KBDR and KBSR are left unchanged.
func (m *Memory) PushInput(b byte) {
	m.InputQueue = append(m.InputQueue, b)
}

// KeyboardReady reports whether KBSR's ready bit is set.
func (m *Memory) KeyboardReady() bool {
	return m.cells[KBSRAddr]&KBSRReadyBit != 0
}

// SetKeyboardReady sets or clears KBSR's ready bit, the host-side half of
// the memory-mapped keyboard cooperation protocol .
func (m *Memory) SetKeyboardReady(ready bool) {
	if ready {
		m.cells[KBSRAddr] |= KBSRReadyBit
	} else {
		m.cells[KBSRAddr] &^= KBSRReadyBit
	}
}

// SetKeyboardData writes KBDR directly, the host-side counterpart to
// SetKeyboardReady.
func (m *Memory) SetKeyboardData(b byte) {
	m.cells[KBDRAddr] = Word(b)
}

// Running reports whether MCR's top bit is set.
func (m *Memory) Running() bool {
	return m.cells[MCRAddr]&MCRRunBit != 0
}

// Halt clears MCR's top bit, the terminal state a TRAP x25 (HALT) or a
// direct MCR write produces.
func (m *Memory) Halt() {
	m.cells[MCRAddr] &^= MCRRunBit
}

// LoadImage writes words into memory starting at origin, as produced by the
// assembler/loader .
func (m *Memory) LoadImage(origin Word, words []Word) error {
	for i, w := range words {
		addr := int(origin) + i
		if addr >= MemorySize {
			return fmt.Errorf("image overflows memory at offset %d (origin 0x%04X)", i, origin)
		}
		m.cells[addr] = w
	}
	return nil
}

// Reset clears all memory to zero and restores the boot-state device
// registers.
func (m *Memory) Reset() {
	for i := range m.cells {
		m.cells[i] = 0
	}
	m.cells[MCRAddr] = MCRRunBit
	m.cells[DSRAddr] = DSRReadyBit
	m.lastAccessed = 0
	m.hasAccessed = false
	m.AccessCount = 0
	m.ReadCount = 0
	m.WriteCount = 0
}

// View returns a read-only snapshot of the full memory buffer.
func (m *Memory) View() [MemorySize]Word {
	return m.cells
}
