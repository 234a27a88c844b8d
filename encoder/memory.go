package encoder

import (
	"github.com/lookbusy1344/lc3-emulator/parser"
	"github.com/lookbusy1344/lc3-emulator/vm"
)

// encodeDrOffset9 packs the LD/LDI/LEA family: DR plus a 9-bit
// PC-relative offset.
func (e *Encoder) encodeDrOffset9(op vm.Word, stmt *parser.Statement) (vm.Word, error) {
	if stmt.DR < 0 {
		return 0, newEncodeError(stmt.Address, "%s requires a destination register", stmt.Mnemonic)
	}
	return op<<vm.OpcodeShift | vm.Word(stmt.DR)<<vm.DRShift | field(stmt.Offset, 9), nil
}

// encodeSrOffset9 packs the ST/STI family: SR (in the DR bit position)
// plus a 9-bit PC-relative offset.
func (e *Encoder) encodeSrOffset9(op vm.Word, stmt *parser.Statement) (vm.Word, error) {
	if stmt.SR1 < 0 {
		return 0, newEncodeError(stmt.Address, "%s requires a source register", stmt.Mnemonic)
	}
	return op<<vm.OpcodeShift | vm.Word(stmt.SR1)<<vm.DRShift | field(stmt.Offset, 9), nil
}

func (e *Encoder) encodeDrBaseOffset6(stmt *parser.Statement) (vm.Word, error) {
	if stmt.DR < 0 || stmt.BaseR < 0 {
		return 0, newEncodeError(stmt.Address, "LDR requires DR and BaseR")
	}
	return vm.OpLDR<<vm.OpcodeShift | vm.Word(stmt.DR)<<vm.DRShift | vm.Word(stmt.BaseR)<<vm.SRShift | field(stmt.Offset, 6), nil
}

func (e *Encoder) encodeSrBaseOffset6(stmt *parser.Statement) (vm.Word, error) {
	if stmt.SR1 < 0 || stmt.BaseR < 0 {
		return 0, newEncodeError(stmt.Address, "STR requires SR and BaseR")
	}
	return vm.OpSTR<<vm.OpcodeShift | vm.Word(stmt.SR1)<<vm.DRShift | vm.Word(stmt.BaseR)<<vm.SRShift | field(stmt.Offset, 6), nil
}
