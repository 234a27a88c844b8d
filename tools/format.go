package tools

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/lc3-emulator/parser"
)

// FormatStyle defines formatting options.
type FormatStyle int

const (
	FormatDefault  FormatStyle = iota // Standard formatting
	FormatCompact                     // Minimal whitespace
	FormatExpanded                    // Extra whitespace for readability
)

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	Style             FormatStyle
	InstructionColumn int  // Column for mnemonics
	OperandColumn     int  // Column for operands
	CommentColumn     int  // Column for comments
	AlignOperands     bool // Align operands in columns
	AlignComments     bool // Align comments in columns
}

// DefaultFormatOptions returns default formatter options.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{
		Style:             FormatDefault,
		InstructionColumn: 8,
		OperandColumn:     16,
		CommentColumn:     40,
		AlignOperands:     true,
		AlignComments:     true,
	}
}

// CompactFormatOptions returns options for compact formatting.
func CompactFormatOptions() *FormatOptions {
	opts := DefaultFormatOptions()
	opts.Style = FormatCompact
	opts.InstructionColumn = 0
	opts.OperandColumn = 0
	opts.CommentColumn = 0
	opts.AlignOperands = false
	opts.AlignComments = false
	return opts
}

// ExpandedFormatOptions returns options for expanded formatting.
func ExpandedFormatOptions() *FormatOptions {
	opts := DefaultFormatOptions()
	opts.Style = FormatExpanded
	opts.InstructionColumn = 12
	opts.OperandColumn = 24
	opts.CommentColumn = 50
	return opts
}

// Formatter canonicalizes LC-3 assembly source: labels, mnemonics,
// operands, and directives are re-derived from the parser's resolved
// Statement model rather than from the raw token text, so formatting a
// file twice is idempotent regardless of the original layout.
type Formatter struct {
	options *FormatOptions
	output  strings.Builder
}

// NewFormatter creates a new formatter.
func NewFormatter(options *FormatOptions) *Formatter {
	if options == nil {
		options = DefaultFormatOptions()
	}
	return &Formatter{options: options}
}

// Format formats the given assembly source code.
func (f *Formatter) Format(input, filename string) (string, error) {
	p := parser.NewParser(input, filename)
	prog, err := p.Parse()
	if err != nil {
		return "", fmt.Errorf("parse error: %w", err)
	}
	if prog == nil {
		return "", fmt.Errorf("failed to parse program")
	}

	f.output.Reset()
	for i, seg := range prog.Segments {
		if i > 0 {
			f.output.WriteString("\n")
		}
		f.formatSegment(seg)
	}

	return f.output.String(), nil
}

func (f *Formatter) formatSegment(seg *parser.Segment) {
	f.output.WriteString(fmt.Sprintf(".ORIG x%04X\n", seg.Origin))
	for _, stmt := range seg.Statements {
		f.formatStatement(stmt)
	}
	f.output.WriteString(".END\n")
}

func (f *Formatter) formatStatement(stmt *parser.Statement) {
	line := strings.Builder{}

	if stmt.Label != "" {
		line.WriteString(stmt.Label)
		if f.options.Style != FormatCompact {
			f.padToColumn(&line, f.options.InstructionColumn)
		} else {
			line.WriteString(" ")
		}
	} else if f.options.Style != FormatCompact {
		f.padToColumn(&line, f.options.InstructionColumn)
	}

	mnemonic, operands := statementText(stmt)
	line.WriteString(mnemonic)

	if operands != "" {
		if f.options.Style == FormatCompact {
			line.WriteString(" ")
		} else if f.options.AlignOperands {
			f.padToColumn(&line, f.options.OperandColumn)
		} else {
			line.WriteString("\t")
		}
		line.WriteString(operands)
	}

	if comment := extractComment(stmt.RawLine); comment != "" {
		if f.options.Style == FormatCompact {
			line.WriteString(" ; ")
			line.WriteString(comment)
		} else if f.options.AlignComments {
			f.padToColumn(&line, f.options.CommentColumn)
			line.WriteString("; ")
			line.WriteString(comment)
		} else {
			line.WriteString("\t; ")
			line.WriteString(comment)
		}
	}

	f.output.WriteString(line.String())
	f.output.WriteString("\n")
}

// statementText renders a resolved Statement's mnemonic and canonical
// operand text. PC-relative targets (BR/LD/LDI/LEA/ST/STI/JSR) print as
// an absolute hex address, since the label name used in the original
// source isn't retained on a resolved Statement.
func statementText(stmt *parser.Statement) (mnemonic string, operands string) {
	switch stmt.Kind {
	case parser.StmtFill:
		return ".FILL", fmt.Sprintf("x%04X", stmt.FillValue)
	case parser.StmtBlkw:
		return ".BLKW", fmt.Sprintf("%d", stmt.BlkwCount)
	case parser.StmtStringz:
		return ".STRINGZ", fmt.Sprintf("%q", stmt.StringzText)
	}

	switch stmt.Mnemonic {
	case "ADD", "AND":
		if stmt.ImmMode {
			return stmt.Mnemonic, fmt.Sprintf("R%d, R%d, #%d", stmt.DR, stmt.SR1, signExtend5(stmt.Imm))
		}
		return stmt.Mnemonic, fmt.Sprintf("R%d, R%d, R%d", stmt.DR, stmt.SR1, stmt.SR2)
	case "NOT":
		return "NOT", fmt.Sprintf("R%d, R%d", stmt.DR, stmt.SR1)
	case "BR":
		return branchMnemonic(stmt.N, stmt.Z, stmt.P), fmt.Sprintf("x%04X", targetAddress(stmt))
	case "JMP":
		if stmt.BaseR == 7 {
			return "RET", ""
		}
		return "JMP", fmt.Sprintf("R%d", stmt.BaseR)
	case "JSR":
		if stmt.JSRRegisterMode {
			return "JSRR", fmt.Sprintf("R%d", stmt.BaseR)
		}
		return "JSR", fmt.Sprintf("x%04X", targetAddress(stmt))
	case "LD", "LDI", "LEA":
		return stmt.Mnemonic, fmt.Sprintf("R%d, x%04X", stmt.DR, targetAddress(stmt))
	case "LDR":
		return "LDR", fmt.Sprintf("R%d, R%d, #%d", stmt.DR, stmt.BaseR, stmt.Offset)
	case "ST", "STI":
		return stmt.Mnemonic, fmt.Sprintf("R%d, x%04X", stmt.SR1, targetAddress(stmt))
	case "STR":
		return "STR", fmt.Sprintf("R%d, R%d, #%d", stmt.SR1, stmt.BaseR, stmt.Offset)
	case "TRAP":
		if name, ok := trapMnemonic(stmt.Imm); ok {
			return name, ""
		}
		return "TRAP", fmt.Sprintf("x%02X", stmt.Imm)
	case "RTI":
		return "RTI", ""
	default:
		return stmt.Mnemonic, ""
	}
}

func signExtend5(imm5 parser.Word) int {
	v := int(imm5 & 0x1F)
	if v >= 16 {
		v -= 32
	}
	return v
}

func targetAddress(stmt *parser.Statement) parser.Word {
	return parser.Word(int(stmt.Address) + 1 + stmt.Offset)
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

func trapMnemonic(vector parser.Word) (string, bool) {
	switch vector {
	case 0x20:
		return "GETC", true
	case 0x21:
		return "OUT", true
	case 0x22:
		return "PUTS", true
	case 0x23:
		return "IN", true
	case 0x24:
		return "PUTSP", true
	case 0x25:
		return "HALT", true
	default:
		return "", false
	}
}

// extractComment returns the text after the first ';' not inside a
// quoted string, or "" if raw has no trailing comment.
func extractComment(raw string) string {
	inQuote := false
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '"':
			inQuote = !inQuote
		case ';':
			if !inQuote {
				return strings.TrimSpace(raw[i+1:])
			}
		}
	}
	return ""
}

// padToColumn pads the string builder to the specified column.
func (f *Formatter) padToColumn(sb *strings.Builder, column int) {
	current := sb.Len()
	switch {
	case current < column:
		sb.WriteString(strings.Repeat(" ", column-current))
	case current == column:
		// already at column
	default:
		sb.WriteString(" ")
	}
}

// FormatString formats a string with default options.
func FormatString(input, filename string) (string, error) {
	return NewFormatter(DefaultFormatOptions()).Format(input, filename)
}

// FormatStringWithStyle formats a string with the specified style.
func FormatStringWithStyle(input, filename string, style FormatStyle) (string, error) {
	var options *FormatOptions
	switch style {
	case FormatCompact:
		options = CompactFormatOptions()
	case FormatExpanded:
		options = ExpandedFormatOptions()
	default:
		options = DefaultFormatOptions()
	}
	return NewFormatter(options).Format(input, filename)
}
