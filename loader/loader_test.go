package loader_test

import (
	"testing"

	"github.com/lookbusy1344/lc3-emulator/loader"
	"github.com/lookbusy1344/lc3-emulator/parser"
	"github.com/lookbusy1344/lc3-emulator/vm"
)

func assembleOrFatal(t *testing.T, src string) *parser.Program {
	t.Helper()
	p := parser.NewParser(src, "test.asm")
	program, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v (%v)", err, p.Errors())
	}
	return program
}

func TestLoadProgramSetsDefaultEntryPoint(t *testing.T) {
	program := assembleOrFatal(t, `
.ORIG x3000
HALT
.END
`)
	machine := vm.NewVM()
	result, err := loader.LoadProgram(machine, program, nil)
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if result.EntryPoint != 0x3000 {
		t.Errorf("entry point = %#04x, want 0x3000", result.EntryPoint)
	}
	if machine.CPU.PC != 0x3000 {
		t.Errorf("PC = %#04x, want 0x3000", machine.CPU.PC)
	}
	word, err := machine.Memory.ReadWord(0x3000)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if word != vm.OpTRAP<<vm.OpcodeShift|vm.TrapHALT {
		t.Errorf("word at 0x3000 = %#04x, want the HALT trap encoding", word)
	}
}

func TestLoadProgramHonorsEntryOverride(t *testing.T) {
	program := assembleOrFatal(t, `
.ORIG x3000
MAIN HALT
.END
`)
	machine := vm.NewVM()
	override := vm.Word(0x3005)
	result, err := loader.LoadProgram(machine, program, &override)
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if result.EntryPoint != 0x3005 {
		t.Errorf("entry point = %#04x, want override 0x3005", result.EntryPoint)
	}
}

func TestLoadProgramMultipleSegments(t *testing.T) {
	program := assembleOrFatal(t, `
.ORIG x0
.FILL x1234
.END
.ORIG x3000
HALT
.END
`)
	machine := vm.NewVM()
	result, err := loader.LoadProgram(machine, program, nil)
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if len(result.Origins) != 2 {
		t.Fatalf("got %d origins, want 2", len(result.Origins))
	}
	if result.EntryPoint != 0 {
		t.Errorf("entry point = %#04x, want 0 (first segment)", result.EntryPoint)
	}
	word, err := machine.Memory.ReadWord(0)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if word != 0x1234 {
		t.Errorf("word at 0x0000 = %#04x, want 0x1234", word)
	}
	if len(result.SourceMap) != 2 {
		t.Errorf("got %d source map entries, want 2", len(result.SourceMap))
	}
}

func TestLoadProgramRejectsEmptyProgram(t *testing.T) {
	program := &parser.Program{SymbolTable: parser.NewSymbolTable()}
	machine := vm.NewVM()
	if _, err := loader.LoadProgram(machine, program, nil); err == nil {
		t.Error("expected an error for a program with no segments")
	}
}
