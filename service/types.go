package service

import "github.com/lookbusy1344/lc3-emulator/vm"

// RegisterState represents a snapshot of CPU registers
type RegisterState struct {
	Registers [8]vm.Word
	PSR       PSRState
	PC        vm.Word
	Cycles    uint64
}

// PSRState represents processor status flags for serialization
type PSRState struct {
	N          bool // Negative
	Z          bool // Zero
	P          bool // Positive
	Supervisor bool
}

// BreakpointInfo represents a breakpoint for UI display
type BreakpointInfo struct {
	Address   vm.Word `json:"address"`
	Enabled   bool    `json:"enabled"`
	Condition string  `json:"condition"` // Expression that must evaluate to true
}

// WatchpointInfo represents a watchpoint for UI display
type WatchpointInfo struct {
	ID      int     `json:"id"`
	Address vm.Word `json:"address"`
	Type    string  `json:"type"` // "read", "write", "readwrite"
	Enabled bool    `json:"enabled"`
}

// MemoryRegion represents a contiguous memory region, one entry per word
type MemoryRegion struct {
	Address vm.Word
	Data    []vm.Word
	Size    vm.Word
}

// ExecutionState represents the current state of execution
type ExecutionState string

const (
	StateRunning    ExecutionState = "running"
	StateHalted     ExecutionState = "halted"
	StateBreakpoint ExecutionState = "breakpoint"
	StateError      ExecutionState = "error"
)

// VMStateToExecution converts vm.ExecutionState to service.ExecutionState
func VMStateToExecution(state vm.ExecutionState) ExecutionState {
	switch state {
	case vm.StateRunning:
		return StateRunning
	case vm.StateHalted:
		return StateHalted
	case vm.StateBreakpoint:
		return StateBreakpoint
	case vm.StateError:
		return StateError
	default:
		return StateHalted
	}
}

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address vm.Word `json:"address"`
	Opcode  vm.Word `json:"opcode"`
	Text    string  `json:"text"`   // Mnemonic rendering of the instruction
	Symbol  string  `json:"symbol"` // Symbol at this address, if any
}

// StackEntry represents a single stack location
type StackEntry struct {
	Address vm.Word `json:"address"`
	Value   vm.Word `json:"value"`
	Symbol  string  `json:"symbol"` // If value points to a symbol
}

// SourceMapEntry associates an assembled address with its originating
// source line, in program order (unlike sourceMapByAddr's map, order here
// reflects listing order for display).
type SourceMapEntry struct {
	Address    vm.Word
	LineNumber int
	Line       string
}

