package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// StatementKind distinguishes an assembled instruction from a data
// directive .
type StatementKind int

const (
	StmtInstruction StatementKind = iota
	StmtFill
	StmtBlkw
	StmtStringz
)

// Statement is one fully resolved line of assembly: an instruction with
// its operands already reduced to register numbers and range-checked
// offsets, or a data directive with its value(s) computed. Bit-packing
// the fields into a 16-bit word is the encoder package's job, not the
// parser's.
type Statement struct {
	Kind    StatementKind
	Label   string
	Address Word
	Pos     Position
	RawLine string

	// Instruction fields. DR/SR1/SR2/BaseR are -1 when the mnemonic
	// doesn't use that operand.
	Mnemonic        string
	N, Z, P         bool // BR condition mask
	DR, SR1, SR2    int
	BaseR           int
	ImmMode         bool // ADD/AND: true selects the imm5 field over SR2
	Imm             Word // imm5 (ADD/AND) or 8-bit TRAP vector
	Offset          int  // resolved PC-relative or base+offset displacement
	JSRRegisterMode bool // JSRR (bit 11 clear) vs JSR (bit 11 set)

	// Directive fields.
	FillValue   Word
	BlkwCount   int
	StringzText string
}

// Segment is one .ORIG..END block: an origin address plus the statements
// assembled into it .
type Segment struct {
	Origin     Word
	Statements []*Statement
}

// Program is a fully parsed, address-resolved assembly source, ready for
// the encoder to emit as one or more object images plus a source map.
type Program struct {
	Segments    []*Segment
	SymbolTable *SymbolTable
}

// rawLine is one source line's tokens, grouped during tokenizing and
// walked twice: pass 1 assigns addresses, pass 2 resolves operands.
type rawLine struct {
	label    string
	mnemonic string
	operands []Token
	pos      Position
	raw      string
	segment  int
	address  Word
}

var mnemonicSet = map[string]bool{
	"ADD": true, "AND": true, "NOT": true,
	"BR": true, "BRN": true, "BRZ": true, "BRP": true,
	"BRNZ": true, "BRNP": true, "BRZP": true, "BRNZP": true,
	"JMP": true, "RET": true, "JSR": true, "JSRR": true,
	"LD": true, "LDI": true, "LDR": true, "LEA": true,
	"ST": true, "STI": true, "STR": true,
	"RTI": true, "TRAP": true,
	"GETC": true, "OUT": true, "PUTS": true, "IN": true, "PUTSP": true, "HALT": true,
}

var trapVectors = map[string]Word{
	"GETC": 0x20, "OUT": 0x21, "PUTS": 0x22, "IN": 0x23, "PUTSP": 0x24, "HALT": 0x25,
}

var reservedNames = map[string]bool{
	"R0": true, "R1": true, "R2": true, "R3": true,
	"R4": true, "R5": true, "R6": true, "R7": true,
}

func isReservedName(name string) bool {
	upper := strings.ToUpper(name)
	return mnemonicSet[upper] || reservedNames[upper]
}

// Parser implements the two-pass LC-3 assembler .
type Parser struct {
	lines       []rawLine
	errors      *ErrorList
	symbolTable *SymbolTable
	sourceLines []string
}

// NewParser tokenizes input into lines, grouping label/mnemonic/operand
// tokens per physical line ahead of the two-pass walk.
func NewParser(input, filename string) *Parser {
	lexer := NewLexer(input, filename)
	p := &Parser{errors: &ErrorList{}, symbolTable: NewSymbolTable(), sourceLines: strings.Split(input, "\n")}

	var current []Token
	for {
		tok := lexer.NextToken()
		if tok.Type == TokenComment {
			continue
		}
		if tok.Type == TokenNewline || tok.Type == TokenEOF {
			if len(current) > 0 {
				p.lines = append(p.lines, p.tokensToLine(current))
			}
			current = nil
			if tok.Type == TokenEOF {
				break
			}
			continue
		}
		current = append(current, tok)
	}

	for _, err := range lexer.Errors().Errors {
		p.errors.AddError(err)
	}
	return p
}

// tokensToLine splits one line's tokens into an optional label, the
// mnemonic or directive name, and the remaining operand tokens.
func (p *Parser) tokensToLine(tokens []Token) rawLine {
	rl := rawLine{pos: tokens[0].Pos}
	if rl.pos.Line >= 1 && rl.pos.Line <= len(p.sourceLines) {
		rl.raw = strings.TrimRight(p.sourceLines[rl.pos.Line-1], "\r")
	}
	idx := 0

	if tokens[idx].Type == TokenIdentifier {
		upper := strings.ToUpper(tokens[idx].Literal)
		followedByColon := idx+1 < len(tokens) && tokens[idx+1].Type == TokenColon
		if followedByColon || (!mnemonicSet[upper] && !strings.HasPrefix(tokens[idx].Literal, ".")) {
			rl.label = tokens[idx].Literal
			idx++
			if idx < len(tokens) && tokens[idx].Type == TokenColon {
				idx++
			}
		}
	}

	if idx < len(tokens) {
		rl.mnemonic = strings.ToUpper(tokens[idx].Literal)
		idx++
	}

	for ; idx < len(tokens); idx++ {
		if tokens[idx].Type == TokenComma {
			continue
		}
		rl.operands = append(rl.operands, tokens[idx])
	}

	return rl
}

// Parse runs both assembly passes, returning the resolved Program or the
// accumulated ErrorList. Assembly is atomic: any error in either pass
// means no Program is returned.
func (p *Parser) Parse() (*Program, error) {
	program := &Program{SymbolTable: p.symbolTable}

	p.firstPass(program)
	if p.errors.HasErrors() {
		return nil, p.errors
	}

	p.secondPass(program)
	if p.errors.HasErrors() {
		return nil, p.errors
	}

	for _, undef := range p.symbolTable.GetUndefinedSymbols() {
		pos := undef.Pos
		if len(undef.References) > 0 {
			pos = undef.References[0]
		}
		p.errors.AddError(NewError(pos, ErrorUnknownLabel, fmt.Sprintf("undefined label %q", undef.Name)))
	}
	if p.errors.HasErrors() {
		return nil, p.errors
	}

	return program, nil
}

// Errors returns every error and warning accumulated across lexing and
// both assembly passes.
func (p *Parser) Errors() *ErrorList {
	return p.errors
}

// firstPass assigns every line its segment and location-counter address,
// binds labels to those addresses, and validates that each line's
// directive usage (an .ORIG preceding any content) is legal. Operand
// resolution happens in the second pass.
func (p *Parser) firstPass(program *Program) {
	var segment *Segment
	var lc Word
	haveOrigin := false

	for i := range p.lines {
		rl := &p.lines[i]

		switch rl.mnemonic {
		case ".ORIG":
			word, err := p.parseOrigOperand(rl)
			if err != nil {
				p.errors.AddError(err)
				continue
			}
			segment = &Segment{Origin: word}
			program.Segments = append(program.Segments, segment)
			lc = word
			haveOrigin = true
			rl.segment = len(program.Segments) - 1
			rl.address = word
			continue

		case ".END":
			segment = nil
			haveOrigin = false
			continue
		}

		if !haveOrigin {
			p.errors.AddError(NewError(rl.pos, ErrorMissingOrig, "instruction or directive appears before .ORIG"))
			continue
		}

		if rl.label != "" {
			if isReservedName(rl.label) {
				p.errors.AddError(NewError(rl.pos, ErrorReservedName,
					fmt.Sprintf("%q is a mnemonic or register name and cannot be used as a label", rl.label)))
			} else if err := p.symbolTable.Define(rl.label, lc, rl.pos); err != nil {
				p.errors.AddError(NewError(rl.pos, ErrorDuplicateLabel, err.Error()))
			}
		}

		rl.segment = len(program.Segments) - 1
		rl.address = lc

		size, err := p.statementSize(rl)
		if err != nil {
			p.errors.AddError(NewError(rl.pos, ErrorBadOperand, err.Error()))
			continue
		}
		lc += size
	}
}

func (p *Parser) parseOrigOperand(rl *rawLine) (Word, *Error) {
	if len(rl.operands) != 1 {
		return 0, NewError(rl.pos, ErrorBadOperand, ".ORIG requires exactly one address operand")
	}
	v, err := parseNumberToken(rl.operands[0])
	if err != nil {
		return 0, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	word, err := SafeInt64ToWord(v)
	if err != nil {
		return 0, NewError(rl.pos, ErrorImmediateOutOfRange, err.Error())
	}
	return word, nil
}

// statementSize returns the number of words rl occupies: an opcode or
// .FILL is one word, .BLKW n is n words, and .STRINGZ "s" is len(s)+1
// words (the trailing NUL).
func (p *Parser) statementSize(rl *rawLine) (Word, error) {
	switch rl.mnemonic {
	case ".FILL":
		if len(rl.operands) != 1 {
			return 0, fmt.Errorf(".FILL requires exactly one value operand")
		}
		return 1, nil
	case ".BLKW":
		if len(rl.operands) != 1 {
			return 0, fmt.Errorf(".BLKW requires exactly one count operand")
		}
		n, err := parseNumberToken(rl.operands[0])
		if err != nil {
			return 0, err
		}
		if n < 1 {
			return 0, fmt.Errorf(".BLKW count must be at least 1, got %d", n)
		}
		return Word(n), nil
	case ".STRINGZ":
		if len(rl.operands) != 1 {
			return 0, fmt.Errorf(".STRINGZ requires a single string operand")
		}
		return Word(len(ProcessEscapeSequences(rl.operands[0].Literal)) + 1), nil
	default:
		if !mnemonicSet[rl.mnemonic] {
			return 0, fmt.Errorf("unknown mnemonic or directive %q", rl.mnemonic)
		}
		return 1, nil
	}
}

// secondPass resolves operands (registers, immediates, and label
// references reduced to PC-relative or absolute offsets) for every line,
// producing the Statement records the encoder consumes.
func (p *Parser) secondPass(program *Program) {
	for i := range p.lines {
		rl := &p.lines[i]
		if rl.mnemonic == ".ORIG" || rl.mnemonic == ".END" {
			continue
		}
		if rl.segment < 0 || rl.segment >= len(program.Segments) {
			continue // address-assignment already failed this line in pass 1
		}

		stmt, err := p.resolveStatement(rl)
		if err != nil {
			p.errors.AddError(err)
			continue
		}
		program.Segments[rl.segment].Statements = append(program.Segments[rl.segment].Statements, stmt)
	}
}

func (p *Parser) resolveStatement(rl *rawLine) (*Statement, *Error) {
	stmt := &Statement{
		Label:   rl.label,
		Address: rl.address,
		Pos:     rl.pos,
		RawLine: rl.raw,
		DR:      -1, SR1: -1, SR2: -1, BaseR: -1,
	}

	switch rl.mnemonic {
	case ".FILL":
		stmt.Kind = StmtFill
		v, err := parseNumberOrLabel(p, rl, rl.operands[0])
		if err != nil {
			return nil, err
		}
		word, werr := SafeInt64ToWord(v)
		if werr != nil {
			return nil, NewError(rl.pos, ErrorImmediateOutOfRange, werr.Error())
		}
		stmt.FillValue = word
		return stmt, nil

	case ".BLKW":
		stmt.Kind = StmtBlkw
		n, err := parseNumberToken(rl.operands[0])
		if err != nil {
			return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
		}
		stmt.BlkwCount = int(n)
		return stmt, nil

	case ".STRINGZ":
		stmt.Kind = StmtStringz
		stmt.StringzText = ProcessEscapeSequences(rl.operands[0].Literal)
		return stmt, nil
	}

	stmt.Kind = StmtInstruction
	stmt.Mnemonic = rl.mnemonic
	if vector, ok := trapVectors[rl.mnemonic]; ok {
		stmt.Mnemonic = "TRAP"
		stmt.Imm = vector
		return stmt, nil
	}

	switch {
	case rl.mnemonic == "ADD" || rl.mnemonic == "AND":
		return p.resolveAddAnd(rl, stmt)
	case rl.mnemonic == "NOT":
		return p.resolveNot(rl, stmt)
	case strings.HasPrefix(rl.mnemonic, "BR"):
		return p.resolveBranch(rl, stmt)
	case rl.mnemonic == "JMP":
		return p.resolveJmp(rl, stmt)
	case rl.mnemonic == "RET":
		if len(rl.operands) != 0 {
			return nil, NewError(rl.pos, ErrorBadOperand, "RET takes no operands")
		}
		stmt.Mnemonic = "JMP"
		stmt.BaseR = 7
		return stmt, nil
	case rl.mnemonic == "JSR":
		return p.resolveJsr(rl, stmt)
	case rl.mnemonic == "JSRR":
		return p.resolveJsrr(rl, stmt)
	case rl.mnemonic == "LD" || rl.mnemonic == "LDI" || rl.mnemonic == "LEA":
		return p.resolveDrOffset9(rl, stmt)
	case rl.mnemonic == "LDR":
		return p.resolveDrBaseOffset6(rl, stmt)
	case rl.mnemonic == "ST" || rl.mnemonic == "STI":
		return p.resolveSrOffset9(rl, stmt)
	case rl.mnemonic == "STR":
		return p.resolveSrBaseOffset6(rl, stmt)
	case rl.mnemonic == "TRAP":
		return p.resolveTrap(rl, stmt)
	case rl.mnemonic == "RTI":
		if len(rl.operands) != 0 {
			return nil, NewError(rl.pos, ErrorBadOperand, "RTI takes no operands")
		}
		return stmt, nil
	}

	return nil, NewError(rl.pos, ErrorInvalidInstruction, fmt.Sprintf("unrecognized mnemonic %q", rl.mnemonic))
}

func (p *Parser) resolveAddAnd(rl *rawLine, stmt *Statement) (*Statement, *Error) {
	if len(rl.operands) != 3 {
		return nil, NewError(rl.pos, ErrorBadOperand, fmt.Sprintf("%s requires three operands (DR, SR1, SR2|imm5)", rl.mnemonic))
	}
	dr, err := requireRegister(rl.operands[0])
	if err != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	sr1, err := requireRegister(rl.operands[1])
	if err != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	stmt.DR, stmt.SR1 = dr, sr1

	third := rl.operands[2]
	if third.Type == TokenRegister {
		sr2, rerr := requireRegister(third)
		if rerr != nil {
			return nil, NewError(rl.pos, ErrorBadOperand, rerr.Error())
		}
		stmt.SR2 = sr2
		return stmt, nil
	}

	v, nerr := parseNumberToken(third)
	if nerr != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, nerr.Error())
	}
	if v < -16 || v > 15 {
		return nil, NewError(rl.pos, ErrorImmediateOutOfRange, fmt.Sprintf("immediate %d out of range [-16..15]", v))
	}
	stmt.ImmMode = true
	stmt.Imm = Word(uint16(int16(v)) & 0x1F)
	return stmt, nil
}

func (p *Parser) resolveNot(rl *rawLine, stmt *Statement) (*Statement, *Error) {
	if len(rl.operands) != 2 {
		return nil, NewError(rl.pos, ErrorBadOperand, "NOT requires two operands (DR, SR)")
	}
	dr, err := requireRegister(rl.operands[0])
	if err != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	sr, err := requireRegister(rl.operands[1])
	if err != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	stmt.DR, stmt.SR1 = dr, sr
	return stmt, nil
}

func (p *Parser) resolveBranch(rl *rawLine, stmt *Statement) (*Statement, *Error) {
	stmt.Mnemonic = "BR"
	stmt.N, stmt.Z, stmt.P = branchFlags(rl.mnemonic)
	if len(rl.operands) != 1 {
		return nil, NewError(rl.pos, ErrorBadOperand, fmt.Sprintf("%s requires exactly one target operand", rl.mnemonic))
	}
	offset, err := p.resolvePCRelative(rl, rl.operands[0], 9)
	if err != nil {
		return nil, err
	}
	stmt.Offset = offset
	return stmt, nil
}

func branchFlags(mnemonic string) (n, z, p bool) {
	if mnemonic == "BR" {
		return true, true, true
	}
	suffix := strings.TrimPrefix(mnemonic, "BR")
	return strings.Contains(suffix, "N"), strings.Contains(suffix, "Z"), strings.Contains(suffix, "P")
}

func (p *Parser) resolveJmp(rl *rawLine, stmt *Statement) (*Statement, *Error) {
	if len(rl.operands) != 1 {
		return nil, NewError(rl.pos, ErrorBadOperand, "JMP requires exactly one register operand")
	}
	baseR, err := requireRegister(rl.operands[0])
	if err != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	stmt.BaseR = baseR
	return stmt, nil
}

func (p *Parser) resolveJsr(rl *rawLine, stmt *Statement) (*Statement, *Error) {
	stmt.Mnemonic = "JSR"
	if len(rl.operands) != 1 {
		return nil, NewError(rl.pos, ErrorBadOperand, "JSR requires exactly one target operand")
	}
	offset, err := p.resolvePCRelative(rl, rl.operands[0], 11)
	if err != nil {
		return nil, err
	}
	stmt.Offset = offset
	return stmt, nil
}

func (p *Parser) resolveJsrr(rl *rawLine, stmt *Statement) (*Statement, *Error) {
	stmt.Mnemonic = "JSR"
	stmt.JSRRegisterMode = true
	if len(rl.operands) != 1 {
		return nil, NewError(rl.pos, ErrorBadOperand, "JSRR requires exactly one register operand")
	}
	baseR, err := requireRegister(rl.operands[0])
	if err != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	stmt.BaseR = baseR
	return stmt, nil
}

func (p *Parser) resolveDrOffset9(rl *rawLine, stmt *Statement) (*Statement, *Error) {
	if len(rl.operands) != 2 {
		return nil, NewError(rl.pos, ErrorBadOperand, fmt.Sprintf("%s requires two operands (DR, label)", rl.mnemonic))
	}
	dr, err := requireRegister(rl.operands[0])
	if err != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	stmt.DR = dr
	offset, perr := p.resolvePCRelative(rl, rl.operands[1], 9)
	if perr != nil {
		return nil, perr
	}
	stmt.Offset = offset
	return stmt, nil
}

func (p *Parser) resolveSrOffset9(rl *rawLine, stmt *Statement) (*Statement, *Error) {
	if len(rl.operands) != 2 {
		return nil, NewError(rl.pos, ErrorBadOperand, fmt.Sprintf("%s requires two operands (SR, label)", rl.mnemonic))
	}
	sr, err := requireRegister(rl.operands[0])
	if err != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	stmt.SR1 = sr
	offset, perr := p.resolvePCRelative(rl, rl.operands[1], 9)
	if perr != nil {
		return nil, perr
	}
	stmt.Offset = offset
	return stmt, nil
}

func (p *Parser) resolveDrBaseOffset6(rl *rawLine, stmt *Statement) (*Statement, *Error) {
	if len(rl.operands) != 3 {
		return nil, NewError(rl.pos, ErrorBadOperand, fmt.Sprintf("%s requires three operands (DR, BaseR, offset6)", rl.mnemonic))
	}
	dr, err := requireRegister(rl.operands[0])
	if err != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	baseR, err := requireRegister(rl.operands[1])
	if err != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	stmt.DR, stmt.BaseR = dr, baseR
	offset, nerr := parseNumberToken(rl.operands[2])
	if nerr != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, nerr.Error())
	}
	if offset < -32 || offset > 31 {
		return nil, NewError(rl.pos, ErrorOffsetOutOfRange, fmt.Sprintf("offset %d out of range [-32..31]", offset))
	}
	stmt.Offset = int(offset)
	return stmt, nil
}

func (p *Parser) resolveSrBaseOffset6(rl *rawLine, stmt *Statement) (*Statement, *Error) {
	if len(rl.operands) != 3 {
		return nil, NewError(rl.pos, ErrorBadOperand, fmt.Sprintf("%s requires three operands (SR, BaseR, offset6)", rl.mnemonic))
	}
	sr, err := requireRegister(rl.operands[0])
	if err != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	baseR, err := requireRegister(rl.operands[1])
	if err != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	stmt.SR1, stmt.BaseR = sr, baseR
	offset, nerr := parseNumberToken(rl.operands[2])
	if nerr != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, nerr.Error())
	}
	if offset < -32 || offset > 31 {
		return nil, NewError(rl.pos, ErrorOffsetOutOfRange, fmt.Sprintf("offset %d out of range [-32..31]", offset))
	}
	stmt.Offset = int(offset)
	return stmt, nil
}

func (p *Parser) resolveTrap(rl *rawLine, stmt *Statement) (*Statement, *Error) {
	if len(rl.operands) != 1 {
		return nil, NewError(rl.pos, ErrorBadOperand, "TRAP requires exactly one 8-bit vector operand")
	}
	v, err := parseNumberToken(rl.operands[0])
	if err != nil {
		return nil, NewError(rl.pos, ErrorBadOperand, err.Error())
	}
	if v < 0 || v > 0xFF {
		return nil, NewError(rl.pos, ErrorImmediateOutOfRange, fmt.Sprintf("TRAP vector %d out of range [0..255]", v))
	}
	stmt.Imm = Word(v)
	return stmt, nil
}

// resolvePCRelative resolves operand (a label or a direct address) to a
// PC-relative displacement from rl's own address:
// offset = target_addr - (instruction_addr + 1). It fails if the
// displacement doesn't fit in the instruction family's signed bit width.
func (p *Parser) resolvePCRelative(rl *rawLine, operand Token, bits int) (int, *Error) {
	target, err := p.resolveAddressOperand(rl, operand)
	if err != nil {
		return 0, err
	}
	if operand.Type == TokenIdentifier {
		if _, gerr := p.symbolTable.Get(operand.Literal); gerr != nil {
			return 0, nil // undefined label: reported once in Parse as ErrorUnknownLabel
		}
	}
	offset := int64(target) - (int64(rl.address) + 1)
	min, max := signedRange(bits)
	if offset < min || offset > max {
		return 0, NewError(rl.pos, ErrorOffsetOutOfRange,
			fmt.Sprintf("offset %d out of range [%d..%d]", offset, min, max))
	}
	return int(offset), nil
}

func (p *Parser) resolveAddressOperand(rl *rawLine, operand Token) (Word, *Error) {
	if operand.Type == TokenNumber {
		v, err := parseNumberToken(operand)
		if err != nil {
			return 0, NewError(rl.pos, ErrorBadOperand, err.Error())
		}
		word, werr := SafeInt64ToWord(v)
		if werr != nil {
			return 0, NewError(rl.pos, ErrorImmediateOutOfRange, werr.Error())
		}
		return word, nil
	}
	if operand.Type != TokenIdentifier {
		return 0, NewError(rl.pos, ErrorBadOperand, fmt.Sprintf("expected a label or address, got %q", operand.Literal))
	}
	p.symbolTable.Reference(operand.Literal, operand.Pos)
	value, err := p.symbolTable.Get(operand.Literal)
	if err != nil {
		return 0, nil // left unresolved; reported once in Parse after both passes complete
	}
	return value, nil
}

func signedRange(bits int) (int64, int64) {
	max := int64(1)<<uint(bits-1) - 1
	min := -(int64(1) << uint(bits-1))
	return min, max
}

func requireRegister(tok Token) (int, error) {
	if tok.Type != TokenRegister {
		return 0, fmt.Errorf("expected a register (R0-R7), got %q", tok.Literal)
	}
	return int(tok.Literal[1] - '0'), nil
}

func parseNumberToken(tok Token) (int64, error) {
	if tok.Type != TokenNumber {
		return 0, fmt.Errorf("expected a numeric literal, got %q", tok.Literal)
	}
	return parseNumber(tok.Literal)
}

// parseNumberOrLabel resolves a .FILL operand, which may be a numeric
// literal or a label (filled with that label's address).
func parseNumberOrLabel(p *Parser, rl *rawLine, tok Token) (int64, *Error) {
	if tok.Type == TokenNumber {
		v, err := parseNumber(tok.Literal)
		if err != nil {
			return 0, NewError(rl.pos, ErrorBadOperand, err.Error())
		}
		return v, nil
	}
	if tok.Type != TokenIdentifier {
		return 0, NewError(rl.pos, ErrorBadOperand, fmt.Sprintf(".FILL operand %q is neither a number nor a label", tok.Literal))
	}
	p.symbolTable.Reference(tok.Literal, tok.Pos)
	value, err := p.symbolTable.Get(tok.Literal)
	if err != nil {
		return 0, nil // reported once in Parse once both passes complete
	}
	return int64(value), nil
}

// parseNumber parses an x-hex, #-decimal, b-binary, or bare-decimal
// literal .
func parseNumber(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty numeric literal")
	}
	switch s[0] {
	case 'x', 'X':
		v, err := strconv.ParseInt(s[1:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid hex literal %q: %w", s, err)
		}
		return v, nil
	case 'b', 'B':
		v, err := strconv.ParseInt(s[1:], 2, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid binary literal %q: %w", s, err)
		}
		return v, nil
	case '#':
		return parseDecimal(s[1:])
	default:
		return parseDecimal(s)
	}
}

func parseDecimal(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal literal %q: %w", s, err)
	}
	return v, nil
}
