package tools

import (
	"strings"
	"testing"
)

const xrefSample = `
.ORIG x3000
        JSR SUB
        BR DONE
DONE    HALT
SUB     LD R0, VAL
        RET
VAL     .FILL x000A
.END
`

func TestXRef_CollectsDefinedSymbols(t *testing.T) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(xrefSample, "test.asm")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	for _, name := range []string{"DONE", "SUB", "VAL"} {
		sym, ok := symbols[name]
		if !ok || !sym.Defined {
			t.Errorf("expected %s to be defined, got: %+v", name, symbols[name])
		}
	}
}

func TestXRef_MarksSubroutine(t *testing.T) {
	gen := NewXRefGenerator()
	_, err := gen.Generate(xrefSample, "test.asm")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	sym, ok := gen.GetSymbol("SUB")
	if !ok || !sym.IsFunction {
		t.Errorf("expected SUB to be marked a subroutine, got: %+v", sym)
	}
}

func TestXRef_GetFunctionsReturnsSubroutines(t *testing.T) {
	gen := NewXRefGenerator()
	_, err := gen.Generate(xrefSample, "test.asm")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	functions := gen.GetFunctions()
	if len(functions) != 1 || functions[0].Name != "SUB" {
		t.Errorf("expected [SUB], got: %+v", functions)
	}
}

func TestXRef_GetUnusedSymbols(t *testing.T) {
	source := `
.ORIG x3000
UNUSED  .FILL x0000
        HALT
.END
`
	gen := NewXRefGenerator()
	_, err := gen.Generate(source, "test.asm")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	unused := gen.GetUnusedSymbols()
	if len(unused) != 1 || unused[0].Name != "UNUSED" {
		t.Errorf("expected [UNUSED], got: %+v", unused)
	}
}

func TestXRef_ReportIncludesSummary(t *testing.T) {
	report, err := GenerateXRef(xrefSample, "test.asm")
	if err != nil {
		t.Fatalf("GenerateXRef error: %v", err)
	}
	if !strings.Contains(report, "Summary") {
		t.Errorf("expected report to include a Summary section, got:\n%s", report)
	}
	if !strings.Contains(report, "SUB") {
		t.Errorf("expected report to mention SUB, got:\n%s", report)
	}
}
