package vm

import (
	"fmt"
)

// ExecutionState represents the current state of execution.
type ExecutionState int

const (
	StateRunning ExecutionState = iota
	StateHalted
	StateBreakpoint
	StateError
)

func (s ExecutionState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateBreakpoint:
		return "breakpoint"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Instruction is a decoded LC-3 instruction: the raw word plus its address,
// ready for an executor to act on. Operand extraction is left to each
// executor, since each opcode has its own field layout.
type Instruction struct {
	Address Word
	Opcode  Word // full 16-bit instruction word
	Op      Word // top 4 bits
}

// VM is the complete LC-3 virtual machine: registers, memory, and the
// bookkeeping a host needs to single-step, batch-run, and inspect state
// .
type VM struct {
	CPU    *CPU
	Memory *Memory
	State  ExecutionState

	// MaxCycles bounds a Run() call; the host is responsible for batch
	// sizing .
	MaxCycles      uint64
	InstructionLog []Word

	LastError error

	EntryPoint Word

	// ExitCode is set when a built-in HALT trap runs.
	ExitCode int

	// Diagnostics, enabled independently by the host/CLI.
	ExecutionTrace *ExecutionTrace
	Statistics     *PerformanceStatistics
	CodeCoverage   *CodeCoverage
	RegisterTrace  *RegisterTrace
}

// NewVM creates a new virtual machine instance with memory running
// (MCR set) and the PC at the conventional LC-3 program origin.
func NewVM() *VM {
	m := &VM{
		CPU:            NewCPU(),
		Memory:         NewMemory(),
		State:          StateHalted,
		MaxCycles:      DefaultMaxCycles,
		InstructionLog: make([]Word, 0, DefaultLogCapacity),
		EntryPoint:     DefaultOrigin,
	}
	m.CPU.PC = DefaultOrigin
	return m
}

// Reset discards all VM state: registers cleared, memory zeroed, execution
// state returned to halted .
func (m *VM) Reset() {
	m.CPU.Reset()
	m.Memory.Reset()
	m.State = StateHalted
	m.InstructionLog = m.InstructionLog[:0]
	m.LastError = nil
	m.ExitCode = 0
}

// Load writes an assembled image into memory and returns its origin, which
// the host typically installs as PC .
func (m *VM) Load(origin Word, words []Word) (Word, error) {
	if err := m.Memory.LoadImage(origin, words); err != nil {
		return 0, fmt.Errorf("load: %w", err)
	}
	m.EntryPoint = origin
	return origin, nil
}

// SetPC sets the program counter.
func (m *VM) SetPC(addr Word) {
	m.CPU.PC = addr
}

// PC returns the program counter.
func (m *VM) PC() Word {
	return m.CPU.PC
}

// Registers returns a snapshot of R0..R7, PC, and PSR .
func (m *VM) Registers() RegisterSnapshot {
	var snap RegisterSnapshot
	snap.Capture(m.CPU)
	return snap
}

// MemoryView returns a read-only copy of the memory buffer.
func (m *VM) MemoryView() [MemorySize]Word {
	return m.Memory.View()
}

// Accessed reports whether addr was the most recently touched memory
// location .
func (m *VM) Accessed(addr Word) bool {
	return m.Memory.Accessed(addr)
}

// Tick executes a single instruction . If the machine
// is halted (MCR clear), Tick is a no-op that returns immediately: halting
// is a terminal state, not an error .
func (m *VM) Tick() error {
	if !m.Memory.Running() {
		m.State = StateHalted
		return nil
	}
	return m.Step()
}

// Step fetches, decodes, and executes one instruction, maintaining the
// condition-code invariant and the `accessed` bookkeeping used by hosts to
// emulate memory-mapped I/O.
func (m *VM) Step() error {
	if m.State == StateError {
		return fmt.Errorf("VM is in error state: %w", m.LastError)
	}

	if m.MaxCycles > 0 && m.CPU.Cycles >= m.MaxCycles {
		m.LastError = fmt.Errorf("cycle limit exceeded (%d cycles)", m.MaxCycles)
		m.State = StateError
		return m.LastError
	}

	var regsBefore RegisterSnapshot
	if m.RegisterTrace != nil && m.RegisterTrace.Enabled {
		regsBefore.Capture(m.CPU)
	}

	pcBefore := m.CPU.PC
	m.InstructionLog = append(m.InstructionLog, pcBefore)

	word, err := m.Fetch()
	if err != nil {
		m.State = StateError
		m.LastError = fmt.Errorf("fetch failed at PC=0x%04X: %w", pcBefore, err)
		return m.LastError
	}
	m.CPU.IncrementPC()

	inst := m.Decode(word)

	if err := m.Execute(inst); err != nil {
		if m.State != StateHalted && m.State != StateBreakpoint {
			m.State = StateError
			m.LastError = fmt.Errorf("execute failed at PC=0x%04X: %w", inst.Address, err)
		}
		return err
	}

	m.CPU.IncrementCycles(1)

	if m.CodeCoverage != nil {
		m.CodeCoverage.RecordExecution(inst.Address, m.CPU.Cycles)
	}
	if m.ExecutionTrace != nil && m.ExecutionTrace.Enabled {
		m.ExecutionTrace.Record(m.CPU.Cycles, inst.Address, inst.Opcode, m.CPU.PC)
	}
	if m.RegisterTrace != nil && m.RegisterTrace.Enabled {
		m.RegisterTrace.RecordChanges(m.CPU.Cycles, inst.Address, &regsBefore, m.CPU)
	}
	if m.Statistics != nil {
		m.Statistics.RecordInstruction(inst.Op, inst.Address)
	}

	if !m.Memory.Running() {
		m.State = StateHalted
	}

	return nil
}

// Fetch reads the instruction word at the current PC.
func (m *VM) Fetch() (Word, error) {
	return m.Memory.ReadWord(m.CPU.PC)
}

// Decode extracts the opcode field from a raw instruction word; dispatch
// on the remaining bits happens per-opcode in Execute.
func (m *VM) Decode(word Word) *Instruction {
	return &Instruction{
		Address: m.CPU.PC - 1, // PC already advanced past this instruction
		Opcode:  word,
		Op:      word >> OpcodeShift,
	}
}

// Execute dispatches a decoded instruction to its executor. Reserved
// opcode 1101 is IllegalInstruction.
func (m *VM) Execute(inst *Instruction) error {
	switch inst.Op {
	case OpADD, OpAND:
		return ExecuteAddAnd(m, inst)
	case OpNOT:
		return ExecuteNot(m, inst)
	case OpBR:
		return ExecuteBranch(m, inst)
	case OpJMP:
		return ExecuteJmp(m, inst)
	case OpJSR:
		return ExecuteJsr(m, inst)
	case OpLD:
		return ExecuteLd(m, inst)
	case OpLDI:
		return ExecuteLdi(m, inst)
	case OpLDR:
		return ExecuteLdr(m, inst)
	case OpLEA:
		return ExecuteLea(m, inst)
	case OpST:
		return ExecuteSt(m, inst)
	case OpSTI:
		return ExecuteSti(m, inst)
	case OpSTR:
		return ExecuteStr(m, inst)
	case OpTRAP:
		return ExecuteTrap(m, inst)
	case OpRTI:
		return ExecuteRTI(m, inst)
	default: // OpRES, the reserved 1101 pattern
		return &VMError{Kind: IllegalInstruction, Address: inst.Address,
			Message: fmt.Sprintf("reserved opcode 0x%X", inst.Op)}
	}
}

// Run executes instructions until halt, error, or breakpoint, bounded by
// MaxCycles. The host is expected to call this for a bulk run and Step for
// single-stepping .
func (m *VM) Run() error {
	m.State = StateRunning

	for m.State == StateRunning {
		if !m.Memory.Running() {
			m.State = StateHalted
			return nil
		}
		if err := m.Step(); err != nil {
			return err
		}
	}

	return nil
}

// GetState returns the current execution state.
func (m *VM) GetState() ExecutionState {
	return m.State
}

// GetInstructionHistory returns the history of executed instruction
// addresses.
func (m *VM) GetInstructionHistory() []Word {
	return m.InstructionLog
}

// DumpState returns a human-readable summary of the VM state for
// diagnostics.
func (m *VM) DumpState() string {
	return fmt.Sprintf(
		"PC=0x%04X PSR=[%s%s%s %s] Cycles=%d State=%s",
		m.CPU.PC,
		flagChar(m.CPU.PSR.N, "N"), flagChar(m.CPU.PSR.Z, "Z"), flagChar(m.CPU.PSR.P, "P"),
		map[bool]string{true: "sup", false: "usr"}[m.CPU.PSR.Supervisor],
		m.CPU.Cycles,
		m.State,
	)
}

func flagChar(set bool, ch string) string {
	if set {
		return ch
	}
	return "-"
}
