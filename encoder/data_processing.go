package encoder

import (
	"github.com/lookbusy1344/lc3-emulator/parser"
	"github.com/lookbusy1344/lc3-emulator/vm"
)

func (e *Encoder) encodeAddAnd(op vm.Word, stmt *parser.Statement) (vm.Word, error) {
	if stmt.DR < 0 || stmt.SR1 < 0 {
		return 0, newEncodeError(stmt.Address, "%s requires DR and SR1", stmt.Mnemonic)
	}
	word := op<<vm.OpcodeShift | vm.Word(stmt.DR)<<vm.DRShift | vm.Word(stmt.SR1)<<vm.SRShift

	if stmt.ImmMode {
		return word | vm.ImmModeBit | (stmt.Imm & 0x1F), nil
	}
	if stmt.SR2 < 0 {
		return 0, newEncodeError(stmt.Address, "%s requires SR2 when not in immediate mode", stmt.Mnemonic)
	}
	return word | vm.Word(stmt.SR2), nil
}

func (e *Encoder) encodeNot(stmt *parser.Statement) (vm.Word, error) {
	if stmt.DR < 0 || stmt.SR1 < 0 {
		return 0, newEncodeError(stmt.Address, "NOT requires DR and SR")
	}
	// Bits 5-0 of NOT are fixed at all-ones .
	return vm.OpNOT<<vm.OpcodeShift | vm.Word(stmt.DR)<<vm.DRShift | vm.Word(stmt.SR1)<<vm.SRShift | 0x3F, nil
}
