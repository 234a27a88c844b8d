package api

import (
	"time"

	"github.com/lookbusy1344/lc3-emulator/service"
	"github.com/lookbusy1344/lc3-emulator/vm"
)

// SessionCreateRequest represents a request to create a new session
type SessionCreateRequest struct {
	MaxCycles uint64 `json:"maxCycles,omitempty"` // Cycle budget before Run() gives up (default: vm.DefaultMaxCycles)
}

// SessionCreateResponse represents the response from creating a session
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStatusResponse represents the current status of a session
type SessionStatusResponse struct {
	SessionID string `json:"sessionId"`
	State     string `json:"state"`
	PC        uint16 `json:"pc"`
	Cycles    uint64 `json:"cycles"`
	Error     string `json:"error,omitempty"`
}

// LoadProgramRequest represents a request to load a program
type LoadProgramRequest struct {
	Source string `json:"source"` // Assembly source code
}

// LoadProgramResponse represents the response from loading a program
type LoadProgramResponse struct {
	Success bool              `json:"success"`
	Errors  []string          `json:"errors,omitempty"`
	Symbols map[string]uint16 `json:"symbols,omitempty"`
}

// RegistersResponse represents the current register state
type RegistersResponse struct {
	R0     uint16   `json:"r0"`
	R1     uint16   `json:"r1"`
	R2     uint16   `json:"r2"`
	R3     uint16   `json:"r3"`
	R4     uint16   `json:"r4"`
	R5     uint16   `json:"r5"`
	R6     uint16   `json:"r6"` // conventional stack pointer
	R7     uint16   `json:"r7"` // conventional link register
	PC     uint16   `json:"pc"`
	PSR    PSRFlags `json:"psr"`
	Cycles uint64   `json:"cycles"`
}

// PSRFlags represents the processor status register's condition codes
// and privilege level
type PSRFlags struct {
	N          bool `json:"n"` // Negative
	Z          bool `json:"z"` // Zero
	P          bool `json:"p"` // Positive
	Supervisor bool `json:"supervisor"`
}

// MemoryRequest represents a request for memory data
type MemoryRequest struct {
	Address uint16 `json:"address"`
	Length  uint16 `json:"length"` // number of words
}

// MemoryResponse represents memory data, one word per entry
type MemoryResponse struct {
	Address uint16   `json:"address"`
	Data    []uint16 `json:"data"`
	Length  uint16   `json:"length"`
}

// DisassemblyRequest represents a request for disassembly
type DisassemblyRequest struct {
	Address uint16 `json:"address"`
	Count   uint16 `json:"count"`
}

// DisassemblyResponse represents disassembled instructions
type DisassemblyResponse struct {
	Instructions []InstructionInfo `json:"instructions"`
}

// InstructionInfo represents a disassembled instruction
type InstructionInfo struct {
	Address     uint16 `json:"address"`
	MachineCode uint16 `json:"machineCode"`
	Disassembly string `json:"disassembly"`
	Symbol      string `json:"symbol,omitempty"`
}

// BreakpointRequest represents a request to add/remove a breakpoint
type BreakpointRequest struct {
	Address uint16 `json:"address"`
}

// BreakpointsResponse represents a list of breakpoints
type BreakpointsResponse struct {
	Breakpoints []uint16 `json:"breakpoints"`
}

// StdinRequest represents a request to send stdin data
type StdinRequest struct {
	Data string `json:"data"`
}

// WatchpointRequest represents a request to add a watchpoint
type WatchpointRequest struct {
	Address uint16 `json:"address"`
	Type    string `json:"type,omitempty"` // "read", "write", or "readwrite" (default)
}

// WatchpointResponse represents a newly created watchpoint
type WatchpointResponse struct {
	ID      int    `json:"id"`
	Address uint16 `json:"address"`
	Type    string `json:"type"`
}

// WatchpointsResponse represents a list of watchpoints
type WatchpointsResponse struct {
	Watchpoints []service.WatchpointInfo `json:"watchpoints"`
}

// TraceEntryInfo represents one recorded instruction execution
type TraceEntryInfo struct {
	Cycle   uint64 `json:"cycle"`
	Address uint16 `json:"address"`
	Opcode  uint16 `json:"opcode"`
	NextPC  uint16 `json:"nextPc"`
}

// TraceDataResponse represents collected execution trace entries
type TraceDataResponse struct {
	Entries []TraceEntryInfo `json:"entries"`
	Count   int              `json:"count"`
}

// StatisticsResponse represents a formatted performance statistics summary
type StatisticsResponse struct {
	Summary string `json:"summary"`
}

// SourceMapResponse represents the address-to-source-line mapping
type SourceMapResponse struct {
	Entries []service.SourceMapEntry `json:"entries"`
}

// ConsoleResponse represents buffered console output
type ConsoleResponse struct {
	Output string `json:"output"`
}

// EvaluateRequest represents a request to evaluate a debugger expression
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse represents the result of evaluating an expression
type EvaluateResponse struct {
	Value uint16 `json:"value"`
}

// ExampleInfo describes an available example program
type ExampleInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ExamplesResponse represents a list of available examples
type ExamplesResponse struct {
	Examples []ExampleInfo `json:"examples"`
	Count    int           `json:"count"`
}

// ExampleContentResponse represents the source of an example program
type ExampleContentResponse struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse represents a simple success response
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Event represents a WebSocket event
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// StateEvent represents a state change event
type StateEvent struct {
	State     string    `json:"state"`
	PC        uint16    `json:"pc"`
	Registers [8]uint16 `json:"registers"`
	PSR       PSRFlags  `json:"psr"`
	Cycles    uint64    `json:"cycles"`
}

// OutputEvent represents console output
type OutputEvent struct {
	Stream  string `json:"stream"`  // "stdout" or "stderr"
	Content string `json:"content"` // Output content
}

// ExecutionEvent represents execution events like breakpoints
type ExecutionEvent struct {
	Event   string `json:"event"` // "breakpoint_hit", "error", "halted"
	Address uint16 `json:"address,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
	Message string `json:"message,omitempty"`
}

// ToRegisterResponse converts service.RegisterState to API response
func ToRegisterResponse(regs *service.RegisterState) *RegistersResponse {
	return &RegistersResponse{
		R0: regs.Registers[0],
		R1: regs.Registers[1],
		R2: regs.Registers[2],
		R3: regs.Registers[3],
		R4: regs.Registers[4],
		R5: regs.Registers[5],
		R6: regs.Registers[vm.R6],
		R7: regs.Registers[vm.R7],
		PC: regs.PC,
		PSR: PSRFlags{
			N:          regs.PSR.N,
			Z:          regs.PSR.Z,
			P:          regs.PSR.P,
			Supervisor: regs.PSR.Supervisor,
		},
		Cycles: regs.Cycles,
	}
}

// ToInstructionInfo converts service.DisassemblyLine to API response
func ToInstructionInfo(line *service.DisassemblyLine) InstructionInfo {
	return InstructionInfo{
		Address:     line.Address,
		MachineCode: line.Opcode,
		Disassembly: line.Text,
		Symbol:      line.Symbol,
	}
}
