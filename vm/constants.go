package vm

// ============================================================================
// LC-3 Architecture Constants
// ============================================================================
// These values are defined by the LC-3 reference architecture (Patt & Patel)
// and should not be modified.

// Word is a 16-bit memory cell or register value. Signed interpretation is
// two's complement.
type Word = uint16

// MemorySize is the number of addressable words: the address space is
// exactly 65,536 words wide.
const MemorySize = 1 << 16

const (
	WordBits = 16
	SignBit  = 1 << (WordBits - 1) // 0x8000
	WordMask = 0xFFFF
	ByteMask = 0xFF
)

// Opcodes occupy the top 4 bits of every instruction word.
const (
	OpBR   Word = 0b0000
	OpADD  Word = 0b0001
	OpLD   Word = 0b0010
	OpST   Word = 0b0011
	OpJSR  Word = 0b0100 // also JSRR
	OpAND  Word = 0b0101
	OpLDR  Word = 0b0110
	OpSTR  Word = 0b0111
	OpRTI  Word = 0b1000
	OpNOT  Word = 0b1001
	OpLDI  Word = 0b1010
	OpSTI  Word = 0b1011
	OpJMP  Word = 0b1100
	OpRES  Word = 0b1101 // reserved: illegal
	OpLEA  Word = 0b1110
	OpTRAP Word = 0b1111
)

// Device-mapped register addresses .
const (
	KBSRAddr Word = 0xFE00 // Keyboard status register.
	KBDRAddr Word = 0xFE02 // Keyboard data register.
	DSRAddr  Word = 0xFE04 // Display status register.
	DDRAddr  Word = 0xFE06 // Display data register.
	MCRAddr  Word = 0xFFFE // Machine control register.
)

// Bit positions within the status registers above.
const (
	KBSRReadyBit = 1 << 15
	DSRReadyBit  = 1 << 15
	MCRRunBit    = 1 << 15
)

// TrapVectorTableStart and TrapVectorTableEnd bound the 256-word region
// where TRAP vector handler addresses live: mem[v] holds the handler
// address for TRAP v.
const (
	TrapVectorTableStart Word = 0x0000
	TrapVectorTableEnd   Word = 0x00FF
)

// Pseudo-trap mnemonics expand to TRAP x<vector> at assembly time; the VM
// itself only ever sees a TRAP opcode and an 8-bit vector.
const (
	TrapGETC  Word = 0x20
	TrapOUT   Word = 0x21
	TrapPUTS  Word = 0x22
	TrapIN    Word = 0x23
	TrapPUTSP Word = 0x24
	TrapHALT  Word = 0x25
)

// DefaultMaxCycles bounds a Run() call absent an explicit cycle limit,
// mirroring the host's responsibility  to bound batch
// size rather than let tick() run forever.
const DefaultMaxCycles = 1_000_000

// DefaultLogCapacity is the initial capacity reserved for InstructionLog.
const DefaultLogCapacity = 1024

// DefaultOrigin is where the VM places PC when no program has been loaded.
const DefaultOrigin Word = 0x3000

// Instruction field widths, used by callers (notably the encoder) that need
// to reproduce the VM's own sign-extension behaviour at assembly time.
const (
	Imm5Bits    = 5
	Offset6Bits = 6
	Offset9Bits = 9
	Offset11Bits = 11
	Trap8Bits   = 8
)
