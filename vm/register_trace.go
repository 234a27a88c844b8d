package vm

import (
	"fmt"
	"io"
)

// RegisterChangeEntry records that one register changed value as a side
// effect of the instruction at Address.
type RegisterChangeEntry struct {
	Cycle    uint64
	Address  Word
	Register int // 0-7, or -1 for PC, -2 for PSR
	OldValue Word
	NewValue Word
}

func (e RegisterChangeEntry) registerName() string {
	switch {
	case e.Register == -1:
		return "PC"
	case e.Register == -2:
		return "PSR"
	default:
		return fmt.Sprintf("R%d", e.Register)
	}
}

// RegisterTrace records every register write, for the debugger's
// "what changed" view and the `-register-trace` CLI flag.
type RegisterTrace struct {
	Enabled    bool
	Writer     io.Writer
	MaxEntries int

	entries []RegisterChangeEntry
}

// NewRegisterTrace creates an enabled register trace writing to w.
func NewRegisterTrace(w io.Writer) *RegisterTrace {
	return &RegisterTrace{
		Enabled:    true,
		Writer:     w,
		MaxEntries: 100_000,
		entries:    make([]RegisterChangeEntry, 0, 1024),
	}
}

// RecordChanges diffs before against cpu's current state and appends one
// entry per changed register, PC, or PSR.
func (t *RegisterTrace) RecordChanges(cycle uint64, addr Word, before *RegisterSnapshot, cpu *CPU) {
	if !t.Enabled {
		return
	}

	var after RegisterSnapshot
	after.Capture(cpu)

	for _, reg := range before.ChangedRegisters(&after) {
		t.append(RegisterChangeEntry{
			Cycle: cycle, Address: addr, Register: reg,
			OldValue: before.R[reg], NewValue: after.R[reg],
		})
	}
	if before.PC != after.PC {
		t.append(RegisterChangeEntry{
			Cycle: cycle, Address: addr, Register: -1,
			OldValue: before.PC, NewValue: after.PC,
		})
	}
	if before.PSRChanged(&after) {
		t.append(RegisterChangeEntry{
			Cycle: cycle, Address: addr, Register: -2,
			OldValue: before.PSR.ToWord(), NewValue: after.PSR.ToWord(),
		})
	}
}

func (t *RegisterTrace) append(e RegisterChangeEntry) {
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}
	t.entries = append(t.entries, e)
}

// Flush writes all recorded entries to Writer.
func (t *RegisterTrace) Flush() error {
	if t.Writer == nil {
		return nil
	}
	for _, e := range t.entries {
		line := fmt.Sprintf("[%06d] 0x%04X: %s 0x%04X -> 0x%04X\n",
			e.Cycle, e.Address, e.registerName(), e.OldValue, e.NewValue)
		if _, err := t.Writer.Write([]byte(line)); err != nil {
			return err
		}
	}
	return nil
}

// GetEntries returns all recorded entries.
func (t *RegisterTrace) GetEntries() []RegisterChangeEntry {
	return t.entries
}

// Clear discards all recorded entries.
func (t *RegisterTrace) Clear() {
	t.entries = t.entries[:0]
}
