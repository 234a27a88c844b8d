package debugger

import (
	"fmt"

	"github.com/lookbusy1344/lc3-emulator/vm"
)

// Disassemble renders a single raw instruction word as LC-3 assembly text,
// the way it would read in a listing, for use in the disassembly and
// source views. Unlike the assembler's own formatter it works from the
// decoded bit fields of a machine word rather than a parsed Statement, so
// branch/load/store targets print as absolute addresses without any
// further symbol lookup (callers that want a label add one themselves).
func Disassemble(word vm.Word, addr vm.Word) string {
	op := word >> vm.OpcodeShift
	dr := int((word >> vm.DRShift) & vm.RegisterMask)
	sr1 := int((word >> vm.SRShift) & vm.RegisterMask)
	sr2 := int(word & vm.RegisterMask)
	immMode := word&vm.ImmModeBit != 0
	imm5 := int(vm.SignedValue(vm.SignExtend(word&0x1F, 5)))
	pcOffset9 := int(vm.SignedValue(vm.SignExtend(word&0x1FF, 9)))
	pcOffset11 := int(vm.SignedValue(vm.SignExtend(word&0x7FF, 11)))
	offset6 := int(vm.SignedValue(vm.SignExtend(word&0x3F, 6)))
	target9 := vm.Word(int(addr) + 1 + pcOffset9)
	target11 := vm.Word(int(addr) + 1 + pcOffset11)

	switch op {
	case vm.OpADD, vm.OpAND:
		name := "ADD"
		if op == vm.OpAND {
			name = "AND"
		}
		if immMode {
			return fmt.Sprintf("%s R%d, R%d, #%d", name, dr, sr1, imm5)
		}
		return fmt.Sprintf("%s R%d, R%d, R%d", name, dr, sr1, sr2)
	case vm.OpNOT:
		return fmt.Sprintf("NOT R%d, R%d", dr, sr1)
	case vm.OpBR:
		n, z, p := word&0x0800 != 0, word&0x0400 != 0, word&0x0200 != 0
		mnemonic := branchMnemonic(n, z, p)
		return fmt.Sprintf("%s x%04X", mnemonic, target9)
	case vm.OpJMP:
		if sr1 == 7 {
			return "RET"
		}
		return fmt.Sprintf("JMP R%d", sr1)
	case vm.OpJSR:
		if word&0x0800 == 0 {
			return fmt.Sprintf("JSRR R%d", sr1)
		}
		return fmt.Sprintf("JSR x%04X", target11)
	case vm.OpLD:
		return fmt.Sprintf("LD R%d, x%04X", dr, target9)
	case vm.OpLDI:
		return fmt.Sprintf("LDI R%d, x%04X", dr, target9)
	case vm.OpLEA:
		return fmt.Sprintf("LEA R%d, x%04X", dr, target9)
	case vm.OpLDR:
		return fmt.Sprintf("LDR R%d, R%d, #%d", dr, sr1, offset6)
	case vm.OpST:
		return fmt.Sprintf("ST R%d, x%04X", dr, target9)
	case vm.OpSTI:
		return fmt.Sprintf("STI R%d, x%04X", dr, target9)
	case vm.OpSTR:
		return fmt.Sprintf("STR R%d, R%d, #%d", dr, sr1, offset6)
	case vm.OpTRAP:
		vector := word & 0xFF
		if name, ok := trapMnemonicForDebugger(vector); ok {
			return name
		}
		return fmt.Sprintf("TRAP x%02X", vector)
	case vm.OpRTI:
		return "RTI"
	default:
		return fmt.Sprintf(".FILL x%04X", word)
	}
}

func branchMnemonic(n, z, p bool) string {
	if n && z && p {
		return "BR"
	}
	s := "BR"
	if n {
		s += "n"
	}
	if z {
		s += "z"
	}
	if p {
		s += "p"
	}
	return s
}

func trapMnemonicForDebugger(vector vm.Word) (string, bool) {
	switch vector {
	case vm.TrapGETC:
		return "GETC", true
	case vm.TrapOUT:
		return "OUT", true
	case vm.TrapPUTS:
		return "PUTS", true
	case vm.TrapIN:
		return "IN", true
	case vm.TrapPUTSP:
		return "PUTSP", true
	case vm.TrapHALT:
		return "HALT", true
	default:
		return "", false
	}
}

// IsCallInstruction reports whether word is a JSR/JSRR, the LC-3
// equivalent of a subroutine call, used to decide whether "next" should
// step over it rather than into it.
func IsCallInstruction(word vm.Word) bool {
	return word>>vm.OpcodeShift == vm.OpJSR
}
