package encoder

import (
	"github.com/lookbusy1344/lc3-emulator/parser"
	"github.com/lookbusy1344/lc3-emulator/vm"
)

// Image is one assembled .ORIG..END segment: an origin address and the
// contiguous words placed there, ready for the loader .
type Image struct {
	Origin vm.Word
	Words  []vm.Word
}

// SourceMap associates an assembled address with the source position
// that produced it, letting a debugger map an address back to a line of
// assembly.
type SourceMap map[vm.Word]parser.Position

// Encoder reduces a parser.Program's resolved statements to final 16-bit
// words. The parser has already done symbol resolution and offset range
// checking; encoding here is pure bit-packing.
type Encoder struct {
	symbolTable *parser.SymbolTable
}

// NewEncoder creates an encoder over program's symbol table, kept for
// diagnostics that want to annotate an encoded word with the label that
// produced it.
func NewEncoder(symbolTable *parser.SymbolTable) *Encoder {
	return &Encoder{symbolTable: symbolTable}
}

// EncodeProgram encodes every segment of program, returning one Image per
// .ORIG block and a SourceMap spanning all of them.
func (e *Encoder) EncodeProgram(program *parser.Program) ([]*Image, SourceMap, error) {
	images := make([]*Image, 0, len(program.Segments))
	sourceMap := make(SourceMap)

	for _, seg := range program.Segments {
		img, err := e.EncodeSegment(seg, sourceMap)
		if err != nil {
			return nil, nil, err
		}
		images = append(images, img)
	}

	return images, sourceMap, nil
}

// EncodeSegment encodes one .ORIG..END segment, recording each word's
// source position in sourceMap as it goes.
func (e *Encoder) EncodeSegment(seg *parser.Segment, sourceMap SourceMap) (*Image, error) {
	img := &Image{Origin: seg.Origin}

	for _, stmt := range seg.Statements {
		words, err := e.EncodeStatement(stmt)
		if err != nil {
			return nil, err
		}
		addr := stmt.Address
		for _, w := range words {
			sourceMap[addr] = stmt.Pos
			img.Words = append(img.Words, w)
			addr++
		}
	}

	return img, nil
}

// EncodeStatement encodes one resolved statement into its final word(s):
// one word for an instruction or .FILL, n words for .BLKW (zero-filled),
// len(s)+1 words for .STRINGZ (the trailing word is the NUL terminator).
func (e *Encoder) EncodeStatement(stmt *parser.Statement) ([]vm.Word, error) {
	switch stmt.Kind {
	case parser.StmtFill:
		return []vm.Word{stmt.FillValue}, nil

	case parser.StmtBlkw:
		return make([]vm.Word, stmt.BlkwCount), nil

	case parser.StmtStringz:
		words := make([]vm.Word, len(stmt.StringzText)+1)
		for i := 0; i < len(stmt.StringzText); i++ {
			words[i] = vm.Word(stmt.StringzText[i])
		}
		return words, nil
	}

	word, err := e.encodeInstruction(stmt)
	if err != nil {
		return nil, err
	}
	return []vm.Word{word}, nil
}

// encodeInstruction dispatches stmt to the bit-packer for its mnemonic
// family .
func (e *Encoder) encodeInstruction(stmt *parser.Statement) (vm.Word, error) {
	switch stmt.Mnemonic {
	case "ADD":
		return e.encodeAddAnd(vm.OpADD, stmt)
	case "AND":
		return e.encodeAddAnd(vm.OpAND, stmt)
	case "NOT":
		return e.encodeNot(stmt)
	case "BR":
		return e.encodeBranch(stmt)
	case "JMP":
		return e.encodeJmp(stmt)
	case "JSR":
		return e.encodeJsr(stmt)
	case "LD":
		return e.encodeDrOffset9(vm.OpLD, stmt)
	case "LDI":
		return e.encodeDrOffset9(vm.OpLDI, stmt)
	case "LEA":
		return e.encodeDrOffset9(vm.OpLEA, stmt)
	case "ST":
		return e.encodeSrOffset9(vm.OpST, stmt)
	case "STI":
		return e.encodeSrOffset9(vm.OpSTI, stmt)
	case "LDR":
		return e.encodeDrBaseOffset6(stmt)
	case "STR":
		return e.encodeSrBaseOffset6(stmt)
	case "TRAP":
		return e.encodeTrap(stmt)
	case "RTI":
		return vm.OpRTI << vm.OpcodeShift, nil
	default:
		return 0, newEncodeError(stmt.Address, "unknown mnemonic %q", stmt.Mnemonic)
	}
}

// field reduces a signed displacement to its bits-wide two's-complement
// field, masking off everything above the field width. Go's int->Word
// conversion already performs the two's-complement wrap for a negative
// v, so only the mask is needed.
func field(v int, bits int) vm.Word {
	return vm.Word(v) & ((1 << uint(bits)) - 1)
}
