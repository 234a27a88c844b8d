package service

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/lookbusy1344/lc3-emulator/debugger"
	"github.com/lookbusy1344/lc3-emulator/loader"
	"github.com/lookbusy1344/lc3-emulator/parser"
	"github.com/lookbusy1344/lc3-emulator/vm"
)

const (
	// Validator limits for API safety
	maxDisassemblyCount = 1000  // Maximum number of instructions to disassemble
	maxStackCount       = 1000  // Maximum number of stack entries to return
	maxStackOffset      = 32768 // Maximum stack offset; half the 16-bit address space
	stepsBeforeYield    = 1000  // Yield every N steps during execution
)

var serviceLog *log.Logger

func init() {
	// Check if debug logging is enabled via environment variable
	if os.Getenv("LC3_EMULATOR_DEBUG") != "" {
		// Create debug log file.
		// Note: File handle intentionally not closed - kept open for process lifetime.
		// This is acceptable for debug logging; the OS cleans up on process exit.
		logPath := filepath.Join(os.TempDir(), "lc3-emulator-service-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			serviceLog = log.New(os.Stderr, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			serviceLog = log.New(f, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		// Disable logging by default
		serviceLog = log.New(io.Discard, "", 0)
	}
}

// DebuggerService provides a thread-safe interface to debugger functionality.
// This service is shared by the TUI, the CLI, and the HTTP/WebSocket API.
//
// Lock Ordering:
// The service uses its own sync.RWMutex (s.mu) to protect all field access,
// including access to the debugger. When calling Debugger methods that have
// their own internal mutex (like ShouldBreak), the lock order is:
// s.mu -> debugger.mu
//
// This is safe because:
// - The TUI uses the Debugger's internal mutex directly (no service mutex)
// - The service always acquires s.mu before any Debugger method that uses d.mu
// - The API server only accesses debugger state through the service
//
// Do NOT acquire locks in the reverse order (debugger.mu -> s.mu) as this
// would create a deadlock risk.
type DebuggerService struct {
	mu              sync.RWMutex
	vm              *vm.VM
	debugger        *debugger.Debugger
	symbols         map[string]vm.Word
	sourceMap       []SourceMapEntry      // Address to source line mapping with line numbers, in listing order
	sourceMapByAddr map[vm.Word]string    // Quick lookup by address (for debugger)
	program         *parser.Program
	entryPoint      vm.Word
	outputBuf       *bytes.Buffer
}

// NewDebuggerService creates a new debugger service wired to machine. Output
// written to the DDR (console output) is captured into an internal buffer
// that GetOutput drains, on top of whatever OutputSink the caller already
// set; a WebSocket server typically overwrites OutputSink after this call to
// broadcast output live (see api.EventWriter) while GetOutput still serves
// polling clients.
func NewDebuggerService(machine *vm.VM) *DebuggerService {
	s := &DebuggerService{
		vm:              machine,
		debugger:        debugger.NewDebugger(machine),
		symbols:         make(map[string]vm.Word),
		sourceMapByAddr: make(map[vm.Word]string),
		outputBuf:       &bytes.Buffer{},
	}
	machine.Memory.OutputSink = func(b byte) {
		s.mu.Lock()
		s.outputBuf.WriteByte(b)
		s.mu.Unlock()
	}
	return s
}

// GetVM returns the underlying VM (for testing)
func (s *DebuggerService) GetVM() *vm.VM {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vm
}

// LoadProgram loads and initializes a parsed program. entryOverride, if
// non-nil, becomes PC instead of the first segment's .ORIG address.
func (s *DebuggerService) LoadProgram(program *parser.Program, entryOverride *vm.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := loader.LoadProgram(s.vm, program, entryOverride)
	if err != nil {
		return err
	}

	s.program = program
	s.entryPoint = result.EntryPoint

	// Extract symbols
	s.symbols = make(map[string]vm.Word)
	for name, symbol := range program.SymbolTable.GetAllSymbols() {
		if symbol.Defined {
			s.symbols[name] = symbol.Value
		}
	}

	// Build source map with line numbers from the encoder's address->source
	// position mapping
	s.sourceMap = nil
	s.sourceMapByAddr = make(map[vm.Word]string)
	for addr, pos := range result.SourceMap {
		line := fmt.Sprintf("%s:%d", pos.Filename, pos.Line)
		s.sourceMap = append(s.sourceMap, SourceMapEntry{Address: addr, LineNumber: pos.Line, Line: line})
		s.sourceMapByAddr[addr] = line
	}
	sort.Slice(s.sourceMap, func(i, j int) bool { return s.sourceMap[i].Address < s.sourceMap[j].Address })

	// Load into debugger
	s.debugger.LoadSymbols(s.symbols)
	s.debugger.LoadSourceMap(s.sourceMapByAddr)

	// Reset execution state to halted (not running until execution begins)
	s.vm.State = vm.StateHalted
	s.debugger.Running = false

	return nil
}

// GetRegisterState returns current register state (thread-safe)
func (s *DebuggerService) GetRegisterState() RegisterState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var regs [8]vm.Word
	copy(regs[:], s.vm.CPU.R[:])

	return RegisterState{
		Registers: regs,
		PSR: PSRState{
			N:          s.vm.CPU.PSR.N,
			Z:          s.vm.CPU.PSR.Z,
			P:          s.vm.CPU.PSR.P,
			Supervisor: s.vm.CPU.PSR.Supervisor,
		},
		PC:     s.vm.CPU.PC,
		Cycles: s.vm.CPU.Cycles,
	}
}

// Step executes a single instruction
func (s *DebuggerService) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vm.Step()
}

// Continue runs until breakpoint or halt
func (s *DebuggerService) Continue() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.debugger.Running = true
	s.debugger.StepMode = debugger.StepNone

	return nil
}

// Pause pauses execution and sets VM state to halted
func (s *DebuggerService) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugger.Running = false
	s.vm.State = vm.StateHalted
}

// Reset performs a complete reset to initial state.
// This clears the loaded program, all breakpoints, and resets the VM to
// pristine state. Use ResetToEntryPoint() to restart the current program
// instead.
func (s *DebuggerService) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Full VM reset: clears all registers (PC=0), memory, and execution state
	s.vm.Reset()

	// Clear loaded program and associated metadata
	s.program = nil
	s.entryPoint = 0
	s.vm.EntryPoint = 0
	s.symbols = make(map[string]vm.Word)
	s.sourceMap = nil
	s.sourceMapByAddr = make(map[vm.Word]string)
	s.outputBuf.Reset()

	// Clear all breakpoints and watchpoints
	s.debugger.Breakpoints.Clear()
	s.debugger.Watchpoints.Clear()

	// Reset execution control
	s.debugger.Running = false
	s.vm.State = vm.StateHalted

	return nil
}

// ResetToEntryPoint resets the CPU to the loaded program's entry point
// without clearing the loaded program or memory contents. This is useful
// for restarting execution of the current program.
func (s *DebuggerService) ResetToEntryPoint() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program == nil {
		// No program loaded, perform full reset
		s.vm.Reset()
		s.vm.State = vm.StateHalted
		s.debugger.Running = false
		return nil
	}

	s.vm.CPU.Reset()
	s.vm.CPU.PC = s.entryPoint
	s.vm.State = vm.StateHalted
	s.debugger.Running = false

	return nil
}

// GetExecutionState returns current execution state
func (s *DebuggerService) GetExecutionState() ExecutionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return VMStateToExecution(s.vm.State)
}

// AddBreakpoint adds a breakpoint at the specified address
func (s *DebuggerService) AddBreakpoint(address vm.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate that the address corresponds to actual code (not a directive)
	if _, exists := s.sourceMapByAddr[address]; !exists {
		return fmt.Errorf("invalid breakpoint address: x%04X does not correspond to an assembled location", address)
	}

	s.debugger.Breakpoints.AddBreakpoint(address, false, "")
	return nil
}

// RemoveBreakpoint removes a breakpoint
func (s *DebuggerService) RemoveBreakpoint(address vm.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debugger.Breakpoints.DeleteBreakpointAt(address)
}

// GetBreakpoints returns all breakpoints
func (s *DebuggerService) GetBreakpoints() []BreakpointInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bps := s.debugger.Breakpoints.GetAllBreakpoints()
	result := make([]BreakpointInfo, len(bps))
	for i, bp := range bps {
		result[i] = BreakpointInfo{
			Address:   bp.Address,
			Enabled:   bp.Enabled,
			Condition: bp.Condition,
		}
	}
	return result
}

// ClearAllBreakpoints removes all breakpoints
func (s *DebuggerService) ClearAllBreakpoints() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugger.Breakpoints.Clear()
}

// GetMemory returns size words of memory starting at address.
// Unreadable cells (there are none on LC-3's flat address space, but a
// future bounds-checked Memory could add some) are reported as zero rather
// than aborting the whole request, so a memory view can still render the
// rest of the requested range.
func (s *DebuggerService) GetMemory(address vm.Word, size vm.Word) ([]vm.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	serviceLog.Printf("GetMemory: address=x%04X, size=%d", address, size)
	data := make([]vm.Word, size)
	addr := address
	for i := vm.Word(0); i < size; i++ {
		w, err := s.vm.Memory.ReadWord(addr)
		if err != nil {
			serviceLog.Printf("GetMemory: ReadWord failed at offset %d: %v", i, err)
			data[i] = 0
		} else {
			data[i] = w
		}
		addr++
	}
	serviceLog.Printf("GetMemory: success, returning %d words", len(data))
	return data, nil
}

// GetSourceLine returns the source line for an address
func (s *DebuggerService) GetSourceLine(address vm.Word) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sourceMapByAddr[address]
}

// GetSourceMap returns the source map entries with line numbers
func (s *DebuggerService) GetSourceMap() []SourceMapEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]SourceMapEntry, len(s.sourceMap))
	copy(result, s.sourceMap)
	return result
}

// GetSourceMapByAddr returns address-to-line lookup (for debugger display)
func (s *DebuggerService) GetSourceMapByAddr() map[vm.Word]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[vm.Word]string, len(s.sourceMapByAddr))
	for addr, line := range s.sourceMapByAddr {
		result[addr] = line
	}
	return result
}

// GetSymbols returns all symbols
func (s *DebuggerService) GetSymbols() map[string]vm.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()

	symbols := make(map[string]vm.Word, len(s.symbols))
	for k, v := range s.symbols {
		symbols[k] = v
	}
	return symbols
}

// GetSymbolForAddress resolves an address to a symbol name
func (s *DebuggerService) GetSymbolForAddress(addr vm.Word) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSymbolForAddressUnsafe(addr)
}

// RunUntilHalt runs the program until halt or breakpoint.
// If Running is already false (e.g., Pause() was called before this
// goroutine started), returns immediately. This handles the race where
// Pause() is called between Continue() setting Running=true and this
// function starting execution.
func (s *DebuggerService) RunUntilHalt() error {
	serviceLog.Println("RunUntilHalt() called")
	s.mu.Lock()
	if !s.debugger.Running {
		serviceLog.Println("RunUntilHalt() - already paused, exiting early")
		s.mu.Unlock()
		return nil
	}
	s.vm.State = vm.StateRunning
	s.mu.Unlock()

	stepCount := 0

	for {
		s.mu.Lock()
		if !s.debugger.Running || s.vm.State != vm.StateRunning {
			serviceLog.Printf("Exiting loop: Running=%v, State=%v", s.debugger.Running, s.vm.State)
			s.mu.Unlock()
			break
		}

		if shouldBreak, _ := s.debugger.ShouldBreak(); shouldBreak {
			serviceLog.Println("Breakpoint hit")
			s.debugger.Running = false
			s.vm.State = vm.StateBreakpoint
			s.mu.Unlock()
			break
		}

		pc := s.vm.CPU.PC
		err := s.vm.Step()
		halted := s.vm.State == vm.StateHalted
		s.mu.Unlock()

		if stepCount == 0 {
			serviceLog.Printf("Executing at PC=x%04X", pc)
		}

		// If error but VM is halted, it's normal program termination (HALT trap)
		if err != nil && !halted {
			serviceLog.Printf("Step error: %v", err)
			s.mu.Lock()
			s.debugger.Running = false
			s.mu.Unlock()
			return err
		}

		if halted {
			serviceLog.Println("VM halted")
			s.mu.Lock()
			s.debugger.Running = false
			s.mu.Unlock()
			break
		}

		stepCount++
		if stepCount >= stepsBeforeYield {
			serviceLog.Printf("Yielding after %d steps", stepCount)
			stepCount = 0
			time.Sleep(1 * time.Millisecond)
		}
	}

	serviceLog.Println("RunUntilHalt() completed")
	return nil
}

// IsRunning returns whether execution is in progress
func (s *DebuggerService) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.debugger.Running
}

// SetRunning sets the running state synchronously.
// Used by async execution methods to set state before launching goroutines.
func (s *DebuggerService) SetRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugger.Running = running
	if running {
		s.vm.State = vm.StateRunning
	} else if s.vm.State == vm.StateRunning {
		s.vm.State = vm.StateHalted
	}
}

// GetExitCode returns the program exit code
func (s *DebuggerService) GetExitCode() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vm.ExitCode
}

// GetOutput returns captured program output and clears the buffer
func (s *DebuggerService) GetOutput() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	output := s.outputBuf.String()
	s.outputBuf.Reset()
	return output
}

// GetDisassembly returns disassembled instructions starting at address.
// Returns a truncated result if memory reads fail before count is reached.
//
// Parameters:
//   - startAddr: the address of the first instruction to disassemble
//   - count: must be positive and <= maxDisassemblyCount
func (s *DebuggerService) GetDisassembly(startAddr vm.Word, count int) []DisassemblyLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if count <= 0 || count > maxDisassemblyCount {
		return []DisassemblyLine{}
	}

	lines := make([]DisassemblyLine, 0, count)
	addr := startAddr

	for i := 0; i < count; i++ {
		opcode, err := s.vm.Memory.ReadWord(addr)
		if err != nil {
			break
		}

		symbol := s.getSymbolForAddressUnsafe(addr)
		text := debugger.Disassemble(opcode, addr)

		lines = append(lines, DisassemblyLine{
			Address: addr,
			Opcode:  opcode,
			Text:    text,
			Symbol:  symbol,
		})

		addr++
		if addr == 0 {
			break // wrapped past the top of the address space
		}
	}

	return lines
}

// GetStack returns stack contents from R6 (the conventional stack pointer)
// plus offset words.
//
// Parameters:
//   - offset: word offset from R6, in [-maxStackOffset, maxStackOffset]
//   - count: number of stack entries to read, in (0, maxStackCount]
func (s *DebuggerService) GetStack(offset int, count int) []StackEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if count <= 0 || count > maxStackCount {
		return []StackEntry{}
	}
	if offset < -maxStackOffset || offset > maxStackOffset {
		return []StackEntry{}
	}

	sp := int(s.vm.CPU.R[vm.R6])
	startAddr := vm.Word(sp + offset)

	entries := make([]StackEntry, 0, count)
	addr := startAddr
	for i := 0; i < count; i++ {
		value, err := s.vm.Memory.ReadWord(addr)
		if err != nil {
			break
		}

		symbol := s.getSymbolForAddressUnsafe(value)

		entries = append(entries, StackEntry{
			Address: addr,
			Value:   value,
			Symbol:  symbol,
		})

		addr++
	}

	return entries
}

// getSymbolForAddressUnsafe is the internal version without locking
func (s *DebuggerService) getSymbolForAddressUnsafe(addr vm.Word) string {
	for name, symbolAddr := range s.symbols {
		if symbolAddr == addr {
			return name
		}
	}
	return ""
}

// StepOver executes one instruction, stepping over subroutine calls
func (s *DebuggerService) StepOver() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debugger == nil || s.program == nil {
		return fmt.Errorf("no program loaded")
	}

	s.debugger.SetStepOver()

	for s.debugger.Running {
		if s.debugger.StepMode != debugger.StepSingle {
			if shouldBreak, _ := s.debugger.ShouldBreak(); shouldBreak {
				s.debugger.Running = false
				break
			}
		}

		err := s.vm.Step()
		if err != nil {
			s.debugger.Running = false
			return err
		}

		if s.debugger.StepMode == debugger.StepSingle {
			if shouldBreak, _ := s.debugger.ShouldBreak(); shouldBreak {
				s.debugger.Running = false
				break
			}
		}
	}

	return nil
}

// StepOut puts the debugger in step-out mode and marks it running. Step-out
// mode has no stop condition of its own: execution does not stop when the
// current subroutine returns, only at a breakpoint, a watchpoint or halt.
func (s *DebuggerService) StepOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debugger == nil || s.program == nil {
		return fmt.Errorf("no program loaded")
	}

	s.debugger.SetStepOut()
	return nil
}

// AddWatchpoint adds a watchpoint at the specified address
func (s *DebuggerService) AddWatchpoint(address vm.Word, watchType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debugger == nil {
		return fmt.Errorf("no program loaded")
	}

	var wpType debugger.WatchType
	switch watchType {
	case "read":
		wpType = debugger.WatchRead
	case "write":
		wpType = debugger.WatchWrite
	case "readwrite":
		wpType = debugger.WatchReadWrite
	default:
		return fmt.Errorf("invalid watchpoint type: %s", watchType)
	}

	expression := fmt.Sprintf("[x%04X]", address)
	s.debugger.Watchpoints.AddWatchpoint(wpType, expression, address, false, 0)

	return nil
}

// RemoveWatchpoint removes a watchpoint by ID
func (s *DebuggerService) RemoveWatchpoint(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debugger == nil {
		return fmt.Errorf("no program loaded")
	}

	return s.debugger.Watchpoints.DeleteWatchpoint(id)
}

// GetWatchpoints returns all watchpoints
func (s *DebuggerService) GetWatchpoints() []WatchpointInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.debugger == nil {
		return []WatchpointInfo{}
	}

	wps := s.debugger.Watchpoints.GetAllWatchpoints()
	result := make([]WatchpointInfo, len(wps))
	for i, wp := range wps {
		var wpType string
		switch wp.Type {
		case debugger.WatchRead:
			wpType = "read"
		case debugger.WatchWrite:
			wpType = "write"
		case debugger.WatchReadWrite:
			wpType = "readwrite"
		}

		result[i] = WatchpointInfo{
			ID:      wp.ID,
			Address: wp.Address,
			Type:    wpType,
			Enabled: wp.Enabled,
		}
	}
	return result
}

// ExecuteCommand executes a debugger command and returns its output
func (s *DebuggerService) ExecuteCommand(command string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debugger == nil {
		return "", fmt.Errorf("no program loaded")
	}

	err := s.debugger.ExecuteCommand(command)
	output := s.debugger.GetOutput()

	return output, err
}

// EvaluateExpression evaluates an expression and returns the result
func (s *DebuggerService) EvaluateExpression(expr string) (vm.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debugger == nil || s.debugger.Evaluator == nil {
		return 0, fmt.Errorf("no program loaded")
	}

	return s.debugger.Evaluator.EvaluateExpression(expr, s.vm, s.symbols)
}

// SendInput queues input for the guest program's GETC/IN trap handlers.
// Unlike a blocking terminal, LC-3's built-in keyboard handling is
// non-blocking (an idle KBDR reads as 0), so this simply feeds the queue;
// there is no separate "waiting for input" state to coordinate with.
func (s *DebuggerService) SendInput(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < len(input); i++ {
		s.vm.Memory.PushInput(input[i])
	}
	serviceLog.Printf("SendInput: queued %d bytes", len(input))
}

// EnableExecutionTrace enables execution tracing
func (s *DebuggerService) EnableExecutionTrace() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vm.ExecutionTrace == nil {
		var buf bytes.Buffer
		s.vm.ExecutionTrace = vm.NewExecutionTrace(&buf)
	}
	s.vm.ExecutionTrace.Enabled = true
	return nil
}

// DisableExecutionTrace disables execution tracing
func (s *DebuggerService) DisableExecutionTrace() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vm.ExecutionTrace != nil {
		s.vm.ExecutionTrace.Enabled = false
	}
}

// GetExecutionTraceData returns execution trace entries
func (s *DebuggerService) GetExecutionTraceData() ([]vm.TraceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.vm.ExecutionTrace == nil {
		return []vm.TraceEntry{}, nil
	}

	return s.vm.ExecutionTrace.GetEntries(), nil
}

// ClearExecutionTrace clears execution trace entries
func (s *DebuggerService) ClearExecutionTrace() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vm.ExecutionTrace != nil {
		s.vm.ExecutionTrace.Clear()
	}
}

// EnableStatistics enables performance statistics collection
func (s *DebuggerService) EnableStatistics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vm.Statistics == nil {
		s.vm.Statistics = vm.NewPerformanceStatistics()
	}
	s.vm.Statistics.Enabled = true
	return nil
}

// DisableStatistics disables performance statistics collection
func (s *DebuggerService) DisableStatistics() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vm.Statistics != nil {
		s.vm.Statistics.Enabled = false
	}
}

// GetStatistics returns performance statistics as a human-readable summary
func (s *DebuggerService) GetStatistics() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.vm.Statistics == nil {
		return "", fmt.Errorf("statistics not enabled")
	}

	var buf bytes.Buffer
	if err := s.vm.Statistics.Flush(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
