package encoder

import (
	"github.com/lookbusy1344/lc3-emulator/parser"
	"github.com/lookbusy1344/lc3-emulator/vm"
)

func (e *Encoder) encodeBranch(stmt *parser.Statement) (vm.Word, error) {
	var nzp vm.Word
	if stmt.N {
		nzp |= 0b100
	}
	if stmt.Z {
		nzp |= 0b010
	}
	if stmt.P {
		nzp |= 0b001
	}
	return vm.OpBR<<vm.OpcodeShift | nzp<<vm.NZPShift | field(stmt.Offset, 9), nil
}

func (e *Encoder) encodeJmp(stmt *parser.Statement) (vm.Word, error) {
	if stmt.BaseR < 0 {
		return 0, newEncodeError(stmt.Address, "JMP requires a base register")
	}
	return vm.OpJMP<<vm.OpcodeShift | vm.Word(stmt.BaseR)<<vm.SRShift, nil
}

// encodeJsr packs JSR (PC-relative, bit 11 set) and JSRR (register,
// bit 11 clear) — the two assembler mnemonics share one opcode.
func (e *Encoder) encodeJsr(stmt *parser.Statement) (vm.Word, error) {
	if stmt.JSRRegisterMode {
		if stmt.BaseR < 0 {
			return 0, newEncodeError(stmt.Address, "JSRR requires a base register")
		}
		return vm.OpJSR<<vm.OpcodeShift | vm.Word(stmt.BaseR)<<vm.SRShift, nil
	}
	return vm.OpJSR<<vm.OpcodeShift | (1 << 11) | field(stmt.Offset, 11), nil
}
