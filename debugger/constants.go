package debugger

// TUI Display Update Constants
const (
	// DisplayUpdateFrequency controls how often the TUI display updates during continuous execution
	// (every N cycles to keep display responsive without overwhelming the terminal)
	DisplayUpdateFrequency = 100
)

// Code View Context Constants
const (
	// CodeContextLinesBefore is the default number of lines to show before PC in the full code view
	CodeContextLinesBefore = 20

	// CodeContextLinesAfter is the default number of lines to show after PC in the full code view
	CodeContextLinesAfter = 80

	// CodeContextLinesBeforeCompact is the number of lines to show before PC in compact views
	CodeContextLinesBeforeCompact = 5

	// CodeContextLinesAfterCompact is the number of lines to show after PC in compact views
	CodeContextLinesAfterCompact = 10
)

// Memory Display Constants. LC-3 memory is word-addressed (no separate byte
// or halfword access), so a dump row is a run of consecutive words rather
// than bytes.
const (
	// MemoryDisplayRows is the number of rows to show in the memory dump view
	MemoryDisplayRows = 16

	// MemoryDisplayWordsPerRow is the number of words displayed per row
	MemoryDisplayWordsPerRow = 8
)

// Stack Display Constants. R6 is the conventional LC-3 stack pointer; there
// is no hardware-enforced stack segment to bound the view by.
const (
	// StackDisplayWords is the number of words to show in the stack view
	StackDisplayWords = 16

	// StackInspectionMaxOffset is the maximum word offset when inspecting stack in debugger commands
	StackInspectionMaxOffset = 16
)

// Register Display Constants. LC-3 has 8 general-purpose registers plus PC
// and PSR.
const (
	// RegisterViewRows is the fixed height of the register view panel
	RegisterViewRows = 7

	// RegisterGroupSize is the number of registers displayed per row
	RegisterGroupSize = 4
)
