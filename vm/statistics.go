package vm

import (
	"fmt"
	"io"
	"sort"
)

// InstructionStats tracks how often one opcode executed.
type InstructionStats struct {
	Mnemonic string
	Count    uint64
}

// HotPathEntry is a frequently executed address.
type HotPathEntry struct {
	Address Word
	Count   uint64
}

// PerformanceStatistics tracks aggregate execution counters for the
// `--stats` CLI flag and the debugger's summary view .
type PerformanceStatistics struct {
	Enabled bool

	TotalInstructions uint64
	InstructionCounts map[Word]uint64 // opcode -> count
	AddressCounts     map[Word]uint64 // address -> execution count

	BranchCount      uint64
	BranchTakenCount uint64
	TrapCount        uint64
}

// NewPerformanceStatistics creates an enabled statistics tracker.
func NewPerformanceStatistics() *PerformanceStatistics {
	return &PerformanceStatistics{
		Enabled:           true,
		InstructionCounts: make(map[Word]uint64),
		AddressCounts:     make(map[Word]uint64),
	}
}

// RecordInstruction records that opcode op executed at address addr.
func (s *PerformanceStatistics) RecordInstruction(op Word, addr Word) {
	if !s.Enabled {
		return
	}
	s.TotalInstructions++
	s.InstructionCounts[op]++
	s.AddressCounts[addr]++

	if op == OpBR {
		s.BranchCount++
	}
	if op == OpTRAP {
		s.TrapCount++
	}
}

// RecordBranchTaken records that the most recent BR actually branched;
// callers distinguish this from RecordInstruction since taken-ness is
// only known inside the branch executor.
func (s *PerformanceStatistics) RecordBranchTaken() {
	if s.Enabled {
		s.BranchTakenCount++
	}
}

// MnemonicCounts returns per-opcode execution counts sorted by count
// descending.
func (s *PerformanceStatistics) MnemonicCounts() []InstructionStats {
	out := make([]InstructionStats, 0, len(s.InstructionCounts))
	for op, count := range s.InstructionCounts {
		out = append(out, InstructionStats{Mnemonic: FormatOpcode(op << OpcodeShift), Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// HotPath returns the top n most-executed addresses.
func (s *PerformanceStatistics) HotPath(n int) []HotPathEntry {
	out := make([]HotPathEntry, 0, len(s.AddressCounts))
	for addr, count := range s.AddressCounts {
		out = append(out, HotPathEntry{Address: addr, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Flush writes a human-readable statistics summary to w.
func (s *PerformanceStatistics) Flush(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "total instructions: %d\n", s.TotalInstructions); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "branches: %d taken, %d not taken\n",
		s.BranchTakenCount, s.BranchCount-s.BranchTakenCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "traps: %d\n", s.TrapCount); err != nil {
		return err
	}
	for _, stat := range s.MnemonicCounts() {
		if _, err := fmt.Fprintf(w, "  %-6s %d\n", stat.Mnemonic, stat.Count); err != nil {
			return err
		}
	}
	return nil
}

// Clear discards all recorded statistics.
func (s *PerformanceStatistics) Clear() {
	s.TotalInstructions = 0
	s.InstructionCounts = make(map[Word]uint64)
	s.AddressCounts = make(map[Word]uint64)
	s.BranchCount = 0
	s.BranchTakenCount = 0
	s.TrapCount = 0
}
