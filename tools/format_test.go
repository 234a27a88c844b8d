package tools

import (
	"strings"
	"testing"
)

const sampleProgram = `
.ORIG x3000
START   ADD R0, R0, #5  ; load 5
        AND R1, R1, #0
LOOP    ADD R1, R1, #1
        BRp LOOP
        HALT
.END
`

func TestFormat_ProducesOrigAndEnd(t *testing.T) {
	formatter := NewFormatter(DefaultFormatOptions())
	result, err := formatter.Format(sampleProgram, "test.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, ".ORIG x3000") {
		t.Errorf("expected .ORIG x3000 in output, got:\n%s", result)
	}
	if !strings.Contains(result, ".END") {
		t.Errorf("expected .END in output, got:\n%s", result)
	}
}

func TestFormat_PreservesLabels(t *testing.T) {
	formatter := NewFormatter(DefaultFormatOptions())
	result, err := formatter.Format(sampleProgram, "test.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "START") || !strings.Contains(result, "LOOP") {
		t.Errorf("expected both labels preserved, got:\n%s", result)
	}
}

func TestFormat_PreservesComment(t *testing.T) {
	formatter := NewFormatter(DefaultFormatOptions())
	result, err := formatter.Format(sampleProgram, "test.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "; load 5") {
		t.Errorf("expected comment preserved, got:\n%s", result)
	}
}

func TestFormat_ImmediateOperand(t *testing.T) {
	formatter := NewFormatter(DefaultFormatOptions())
	result, err := formatter.Format(sampleProgram, "test.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "#5") {
		t.Errorf("expected immediate #5 in output, got:\n%s", result)
	}
}

func TestFormat_CompactStyleHasNoColumnPadding(t *testing.T) {
	result, err := FormatStringWithStyle(sampleProgram, "test.asm", FormatCompact)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	for _, line := range strings.Split(result, "\n") {
		if strings.Contains(line, "   ADD") {
			t.Errorf("compact style should not pad to instruction column, got: %q", line)
		}
	}
}

func TestFormat_BranchRendersAbsoluteTarget(t *testing.T) {
	formatter := NewFormatter(DefaultFormatOptions())
	result, err := formatter.Format(sampleProgram, "test.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "BRp     x3002") {
		t.Errorf("expected BRp with a hex target, got:\n%s", result)
	}
}

func TestFormat_TrapPseudoOps(t *testing.T) {
	source := `
.ORIG x3000
GETC
OUT
HALT
.END
`
	formatter := NewFormatter(DefaultFormatOptions())
	result, err := formatter.Format(source, "test.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	for _, want := range []string{"GETC", "OUT", "HALT"} {
		if !strings.Contains(result, want) {
			t.Errorf("expected %s in output, got:\n%s", want, result)
		}
	}
}

func TestFormat_InvalidSourceReturnsError(t *testing.T) {
	formatter := NewFormatter(DefaultFormatOptions())
	_, err := formatter.Format(".ORIG x3000\nADD R0, R0\n.END\n", "bad.asm")
	if err == nil {
		t.Error("expected a parse error for ADD with too few operands")
	}
}

func TestFormat_MultipleSegments(t *testing.T) {
	source := `
.ORIG x3000
HALT
.END
.ORIG x4000
HALT
.END
`
	formatter := NewFormatter(DefaultFormatOptions())
	result, err := formatter.Format(source, "test.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if strings.Count(result, ".ORIG") != 2 {
		t.Errorf("expected two .ORIG blocks, got:\n%s", result)
	}
}
