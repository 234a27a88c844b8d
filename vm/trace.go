package vm

import (
	"fmt"
	"io"
	"strings"
)

// TraceEntry is a single recorded instruction execution.
type TraceEntry struct {
	Cycle   uint64
	Address Word
	Opcode  Word
	NextPC  Word
}

// ExecutionTrace records one entry per executed instruction, for the
// `--trace` CLI flag and the debugger's history view.
type ExecutionTrace struct {
	Enabled    bool
	Writer     io.Writer
	MaxEntries int

	entries []TraceEntry
}

// NewExecutionTrace creates an enabled trace writing to w.
func NewExecutionTrace(w io.Writer) *ExecutionTrace {
	return &ExecutionTrace{
		Enabled:    true,
		Writer:     w,
		MaxEntries: 100_000,
		entries:    make([]TraceEntry, 0, 1024),
	}
}

// Record appends one trace entry, dropping further entries once
// MaxEntries is reached rather than growing without bound.
func (t *ExecutionTrace) Record(cycle uint64, addr, opcode, nextPC Word) {
	if !t.Enabled {
		return
	}
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}
	t.entries = append(t.entries, TraceEntry{Cycle: cycle, Address: addr, Opcode: opcode, NextPC: nextPC})
}

// Flush writes all recorded entries to Writer, one line each.
func (t *ExecutionTrace) Flush() error {
	if t.Writer == nil {
		return nil
	}
	for _, e := range t.entries {
		if err := t.writeEntry(e); err != nil {
			return err
		}
	}
	return nil
}

func (t *ExecutionTrace) writeEntry(e TraceEntry) error {
	line := fmt.Sprintf("[%06d] 0x%04X: 0x%04X -> PC=0x%04X\n", e.Cycle, e.Address, e.Opcode, e.NextPC)
	_, err := t.Writer.Write([]byte(line))
	return err
}

// GetEntries returns all recorded entries.
func (t *ExecutionTrace) GetEntries() []TraceEntry {
	return t.entries
}

// Clear discards all recorded entries.
func (t *ExecutionTrace) Clear() {
	t.entries = t.entries[:0]
}

// FormatOpcode renders an instruction word's mnemonic-ish opcode name,
// used by the debugger when a full disassembler pass isn't available.
func FormatOpcode(opcode Word) string {
	names := []string{"BR", "ADD", "LD", "ST", "JSR", "AND", "LDR", "STR",
		"RTI", "NOT", "LDI", "STI", "JMP", "RES", "LEA", "TRAP"}
	op := opcode >> OpcodeShift
	return strings.ToUpper(names[op])
}
