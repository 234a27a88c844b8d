package vm

import (
	"fmt"
	"io"
	"sort"
)

// CoverageEntry tracks how many times, and when, an address executed.
type CoverageEntry struct {
	Address        Word
	ExecutionCount uint64
	FirstExecution uint64
	LastExecution  uint64
}

// CodeCoverage tracks which instruction addresses have executed, for the
// `--coverage` CLI flag and the assembler tooling's dead-code hints
// .
type CodeCoverage struct {
	Enabled bool
	Writer  io.Writer

	executed  map[Word]*CoverageEntry
	codeStart Word
	codeEnd   Word
}

// NewCodeCoverage creates a new coverage tracker.
func NewCodeCoverage(w io.Writer) *CodeCoverage {
	return &CodeCoverage{
		Enabled:  true,
		Writer:   w,
		executed: make(map[Word]*CoverageEntry),
	}
}

// SetCodeRange restricts coverage tracking to [start, end), the loaded
// program's address range.
func (c *CodeCoverage) SetCodeRange(start, end Word) {
	c.codeStart = start
	c.codeEnd = end
}

// RecordExecution records that addr executed at the given cycle count.
func (c *CodeCoverage) RecordExecution(addr Word, cycle uint64) {
	if !c.Enabled {
		return
	}
	if c.codeEnd != 0 && (addr < c.codeStart || addr >= c.codeEnd) {
		return
	}

	entry, ok := c.executed[addr]
	if !ok {
		entry = &CoverageEntry{Address: addr, FirstExecution: cycle}
		c.executed[addr] = entry
	}
	entry.ExecutionCount++
	entry.LastExecution = cycle
}

// Executed reports whether addr has executed at least once.
func (c *CodeCoverage) Executed(addr Word) bool {
	_, ok := c.executed[addr]
	return ok
}

// ExecutionCount returns how many times addr has executed.
func (c *CodeCoverage) ExecutionCount(addr Word) uint64 {
	if entry, ok := c.executed[addr]; ok {
		return entry.ExecutionCount
	}
	return 0
}

// UnexecutedInRange returns addresses in [start, end) that never ran,
// useful for flagging assembled-but-dead code.
func (c *CodeCoverage) UnexecutedInRange(start, end Word) []Word {
	var unexecuted []Word
	for addr := start; addr < end; addr++ {
		if !c.Executed(addr) {
			unexecuted = append(unexecuted, addr)
		}
	}
	return unexecuted
}

// Summary returns coverage entries sorted by address.
func (c *CodeCoverage) Summary() []CoverageEntry {
	entries := make([]CoverageEntry, 0, len(c.executed))
	for _, e := range c.executed {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Address < entries[j].Address })
	return entries
}

// Flush writes a coverage summary to Writer.
func (c *CodeCoverage) Flush() error {
	if c.Writer == nil {
		return nil
	}
	for _, e := range c.Summary() {
		line := fmt.Sprintf("0x%04X: executed %d time(s), cycles [%d..%d]\n",
			e.Address, e.ExecutionCount, e.FirstExecution, e.LastExecution)
		if _, err := c.Writer.Write([]byte(line)); err != nil {
			return err
		}
	}
	return nil
}

// Clear discards all recorded coverage.
func (c *CodeCoverage) Clear() {
	c.executed = make(map[Word]*CoverageEntry)
}
