package encoder

import (
	"github.com/lookbusy1344/lc3-emulator/parser"
	"github.com/lookbusy1344/lc3-emulator/vm"
)

// encodeTrap packs TRAP and its pseudo-op aliases (GETC/OUT/PUTS/IN/
// PUTSP/HALT), which the parser already reduced to a TRAP statement
// carrying the resolved 8-bit vector in stmt.Imm.
func (e *Encoder) encodeTrap(stmt *parser.Statement) (vm.Word, error) {
	return vm.OpTRAP<<vm.OpcodeShift | (stmt.Imm & 0xFF), nil
}
