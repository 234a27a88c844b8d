package encoder_test

import (
	"testing"

	"github.com/lookbusy1344/lc3-emulator/encoder"
	"github.com/lookbusy1344/lc3-emulator/parser"
	"github.com/lookbusy1344/lc3-emulator/vm"
)

func newTestEncoder() *encoder.Encoder {
	return encoder.NewEncoder(parser.NewSymbolTable())
}

func encodeOne(t *testing.T, stmt *parser.Statement) vm.Word {
	t.Helper()
	words, err := newTestEncoder().EncodeStatement(stmt)
	if err != nil {
		t.Fatalf("EncodeStatement: %v", err)
	}
	if len(words) != 1 {
		t.Fatalf("got %d words, want 1", len(words))
	}
	return words[0]
}

func baseStmt(mnemonic string) *parser.Statement {
	return &parser.Statement{
		Kind:     parser.StmtInstruction,
		Mnemonic: mnemonic,
		DR:       -1, SR1: -1, SR2: -1, BaseR: -1,
	}
}

func TestEncodeAddRegisterMode(t *testing.T) {
	stmt := baseStmt("ADD")
	stmt.DR, stmt.SR1, stmt.SR2 = 0, 1, 2
	word := encodeOne(t, stmt)
	want := vm.OpADD<<vm.OpcodeShift | 0<<vm.DRShift | 1<<vm.SRShift | 2
	if word != want {
		t.Errorf("got %#04x, want %#04x", word, want)
	}
}

func TestEncodeAddImmediateMode(t *testing.T) {
	stmt := baseStmt("ADD")
	stmt.DR, stmt.SR1 = 3, 3
	stmt.ImmMode = true
	stmt.Imm = 0x1F // -1 as a 5-bit two's-complement field
	word := encodeOne(t, stmt)
	want := vm.OpADD<<vm.OpcodeShift | 3<<vm.DRShift | 3<<vm.SRShift | vm.ImmModeBit | 0x1F
	if word != want {
		t.Errorf("got %#04x, want %#04x", word, want)
	}
}

func TestEncodeAndMissingSR2IsError(t *testing.T) {
	stmt := baseStmt("AND")
	stmt.DR, stmt.SR1 = 0, 1
	_, err := newTestEncoder().EncodeStatement(stmt)
	if err == nil {
		t.Error("expected an error when AND has neither SR2 nor immediate mode set")
	}
}

func TestEncodeNot(t *testing.T) {
	stmt := baseStmt("NOT")
	stmt.DR, stmt.SR1 = 5, 4
	word := encodeOne(t, stmt)
	want := vm.OpNOT<<vm.OpcodeShift | 5<<vm.DRShift | 4<<vm.SRShift | 0x3F
	if word != want {
		t.Errorf("got %#04x, want %#04x", word, want)
	}
}

func TestEncodeBranchConditionBits(t *testing.T) {
	stmt := baseStmt("BR")
	stmt.N, stmt.Z, stmt.P = true, false, true
	stmt.Offset = -3
	word := encodeOne(t, stmt)
	want := vm.OpBR<<vm.OpcodeShift | 0b101<<vm.NZPShift | (vm.Word(0x1FD))
	if word != want {
		t.Errorf("got %#04x, want %#04x", word, want)
	}
}

func TestEncodeJsrPCRelative(t *testing.T) {
	stmt := baseStmt("JSR")
	stmt.Offset = 0x10
	word := encodeOne(t, stmt)
	want := vm.OpJSR<<vm.OpcodeShift | (1 << 11) | 0x10
	if word != want {
		t.Errorf("got %#04x, want %#04x", word, want)
	}
}

func TestEncodeJsrrRegisterMode(t *testing.T) {
	stmt := baseStmt("JSR")
	stmt.JSRRegisterMode = true
	stmt.BaseR = 3
	word := encodeOne(t, stmt)
	want := vm.OpJSR<<vm.OpcodeShift | 3<<vm.SRShift
	if word != want {
		t.Errorf("got %#04x, want %#04x", word, want)
	}
}

func TestEncodeLdAndSt(t *testing.T) {
	ld := baseStmt("LD")
	ld.DR = 2
	ld.Offset = 5
	ldWord := encodeOne(t, ld)
	if want := vm.OpLD<<vm.OpcodeShift | 2<<vm.DRShift | 5; ldWord != want {
		t.Errorf("LD got %#04x, want %#04x", ldWord, want)
	}

	st := baseStmt("ST")
	st.SR1 = 2
	st.Offset = -5
	stWord := encodeOne(t, st)
	if want := vm.OpST<<vm.OpcodeShift | 2<<vm.DRShift | 0x1FB; stWord != want {
		t.Errorf("ST got %#04x, want %#04x", stWord, want)
	}
}

func TestEncodeLdrAndStrBaseOffset6(t *testing.T) {
	ldr := baseStmt("LDR")
	ldr.DR, ldr.BaseR, ldr.Offset = 0, 1, 3
	ldrWord := encodeOne(t, ldr)
	if want := vm.OpLDR<<vm.OpcodeShift | 0<<vm.DRShift | 1<<vm.SRShift | 3; ldrWord != want {
		t.Errorf("LDR got %#04x, want %#04x", ldrWord, want)
	}

	str := baseStmt("STR")
	str.SR1, str.BaseR, str.Offset = 2, 6, -1
	strWord := encodeOne(t, str)
	if want := vm.OpSTR<<vm.OpcodeShift | 2<<vm.DRShift | 6<<vm.SRShift | 0x3F; strWord != want {
		t.Errorf("STR got %#04x, want %#04x", strWord, want)
	}
}

func TestEncodeTrapVector(t *testing.T) {
	stmt := baseStmt("TRAP")
	stmt.Imm = 0x25
	word := encodeOne(t, stmt)
	want := vm.OpTRAP<<vm.OpcodeShift | 0x25
	if word != want {
		t.Errorf("got %#04x, want %#04x", word, want)
	}
}

func TestEncodeRTI(t *testing.T) {
	stmt := baseStmt("RTI")
	word := encodeOne(t, stmt)
	if word != vm.OpRTI<<vm.OpcodeShift {
		t.Errorf("got %#04x, want %#04x", word, vm.OpRTI<<vm.OpcodeShift)
	}
}

func TestEncodeSegmentProducesSourceMapAndImage(t *testing.T) {
	seg := &parser.Segment{
		Origin: 0x3000,
		Statements: []*parser.Statement{
			{Kind: parser.StmtInstruction, Mnemonic: "TRAP", Imm: 0x25, Address: 0x3000,
				DR: -1, SR1: -1, SR2: -1, BaseR: -1},
			{Kind: parser.StmtStringz, StringzText: "hi", Address: 0x3001},
		},
	}

	sourceMap := make(encoder.SourceMap)
	img, err := newTestEncoder().EncodeSegment(seg, sourceMap)
	if err != nil {
		t.Fatalf("EncodeSegment: %v", err)
	}
	if img.Origin != 0x3000 {
		t.Errorf("origin = %#x, want 0x3000", img.Origin)
	}
	// 1 word for TRAP + 3 words for "hi\0"
	if len(img.Words) != 4 {
		t.Fatalf("got %d words, want 4", len(img.Words))
	}
	if img.Words[0] != vm.OpTRAP<<vm.OpcodeShift|0x25 {
		t.Errorf("TRAP word = %#04x", img.Words[0])
	}
	if img.Words[1] != vm.Word('h') || img.Words[2] != vm.Word('i') || img.Words[3] != 0 {
		t.Errorf("STRINGZ words = %v, want ['h','i',0]", img.Words[1:])
	}
	if len(sourceMap) != 4 {
		t.Errorf("got %d source map entries, want 4", len(sourceMap))
	}
}
