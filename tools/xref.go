package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/lc3-emulator/parser"
)

// ReferenceType indicates how a symbol is used.
type ReferenceType int

const (
	RefDefinition ReferenceType = iota
	RefBranch
	RefSubroutineCall // JSR/JSRR
	RefLoad           // LD/LDI/LDR/LEA
	RefStore          // ST/STI/STR
)

func (r ReferenceType) String() string {
	switch r {
	case RefDefinition:
		return "definition"
	case RefBranch:
		return "branch"
	case RefSubroutineCall:
		return "call"
	case RefLoad:
		return "load"
	case RefStore:
		return "store"
	default:
		return "unknown"
	}
}

// Reference is a single use of a symbol.
type Reference struct {
	Type ReferenceType
	Line int
}

// Symbol is a label and everything known about how it's used.
type Symbol struct {
	Name       string
	Address    parser.Word
	Defined    bool
	DefLine    int
	References []*Reference
	IsFunction bool // referenced by at least one JSR/JSRR
}

// XRefGenerator builds cross-reference information for an assembly
// source file from the parser's resolved Statement/SymbolTable model.
type XRefGenerator struct {
	program *parser.Program
	symbols map[string]*Symbol
}

// NewXRefGenerator creates a new cross-reference generator.
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{symbols: make(map[string]*Symbol)}
}

// Generate builds cross-reference information from source code.
func (x *XRefGenerator) Generate(input, filename string) (map[string]*Symbol, error) {
	p := parser.NewParser(input, filename)
	prog, err := p.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if prog == nil {
		return nil, fmt.Errorf("failed to parse program")
	}
	x.program = prog

	x.collectDefinitions()
	x.collectReferences()

	return x.symbols, nil
}

func (x *XRefGenerator) collectDefinitions() {
	if x.program.SymbolTable == nil {
		return
	}
	for name, sym := range x.program.SymbolTable.GetAllSymbols() {
		x.symbols[name] = &Symbol{
			Name:    sym.Name,
			Address: sym.Value,
			Defined: sym.Defined,
			DefLine: sym.Pos.Line,
		}
	}
}

func (x *XRefGenerator) collectReferences() {
	for _, seg := range x.program.Segments {
		for _, stmt := range seg.Statements {
			x.recordStatementReferences(stmt)
		}
	}
}

func (x *XRefGenerator) recordStatementReferences(stmt *parser.Statement) {
	target, refType, ok := pcRelativeReference(stmt)
	if !ok {
		return
	}

	name := x.labelAt(target)
	if name == "" {
		return
	}
	sym, exists := x.symbols[name]
	if !exists {
		sym = &Symbol{Name: name}
		x.symbols[name] = sym
	}
	sym.References = append(sym.References, &Reference{Type: refType, Line: stmt.Pos.Line})
	if refType == RefSubroutineCall {
		sym.IsFunction = true
	}
}

// pcRelativeReference reports the absolute target address a statement
// refers to, if it has one, and how it's used.
func pcRelativeReference(stmt *parser.Statement) (target parser.Word, refType ReferenceType, ok bool) {
	if stmt.Kind != parser.StmtInstruction {
		return 0, 0, false
	}
	switch stmt.Mnemonic {
	case "BR":
		return targetAddress(stmt), RefBranch, true
	case "JSR":
		if stmt.JSRRegisterMode {
			return 0, 0, false
		}
		return targetAddress(stmt), RefSubroutineCall, true
	case "LD", "LDI", "LEA":
		return targetAddress(stmt), RefLoad, true
	case "ST", "STI":
		return targetAddress(stmt), RefStore, true
	default:
		return 0, 0, false
	}
}

// labelAt finds the symbol name bound to addr, if any.
func (x *XRefGenerator) labelAt(addr parser.Word) string {
	for name, sym := range x.symbols {
		if sym.Defined && sym.Address == addr {
			return name
		}
	}
	return ""
}

// GetSymbols returns all symbols found in the source.
func (x *XRefGenerator) GetSymbols() map[string]*Symbol {
	return x.symbols
}

// GetSymbol returns a specific symbol by name.
func (x *XRefGenerator) GetSymbol(name string) (*Symbol, bool) {
	sym, exists := x.symbols[name]
	return sym, exists
}

// GetFunctions returns every symbol referenced by at least one JSR.
func (x *XRefGenerator) GetFunctions() []*Symbol {
	return filterSortSymbols(x.symbols, func(s *Symbol) bool { return s.IsFunction })
}

// GetUndefinedSymbols returns referenced-but-undefined symbols.
func (x *XRefGenerator) GetUndefinedSymbols() []*Symbol {
	return filterSortSymbols(x.symbols, func(s *Symbol) bool { return !s.Defined && len(s.References) > 0 })
}

// GetUnusedSymbols returns defined-but-unreferenced symbols.
func (x *XRefGenerator) GetUnusedSymbols() []*Symbol {
	return filterSortSymbols(x.symbols, func(s *Symbol) bool { return s.Defined && len(s.References) == 0 })
}

func filterSortSymbols(symbols map[string]*Symbol, keep func(*Symbol) bool) []*Symbol {
	out := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		if keep(sym) {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// XRefReport renders cross-reference information as text.
type XRefReport struct {
	symbols []*Symbol
}

// NewXRefReport creates a new cross-reference report.
func NewXRefReport(symbols map[string]*Symbol) *XRefReport {
	sorted := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		sorted = append(sorted, sym)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &XRefReport{symbols: sorted}
}

// String generates a text report.
func (r *XRefReport) String() string {
	var sb strings.Builder
	sb.WriteString("Symbol Cross-Reference\n")
	sb.WriteString("======================\n\n")

	for _, sym := range r.symbols {
		sb.WriteString(fmt.Sprintf("%-30s", sym.Name))
		switch {
		case sym.IsFunction:
			sb.WriteString(" [subroutine]")
		case sym.Defined:
			sb.WriteString(fmt.Sprintf(" [label x%04X]", sym.Address))
		default:
			sb.WriteString(" [undefined]")
		}
		sb.WriteString("\n")

		if sym.Defined {
			sb.WriteString(fmt.Sprintf("  Defined:     line %d\n", sym.DefLine))
		} else {
			sb.WriteString("  Defined:     (undefined)\n")
		}

		if len(sym.References) == 0 {
			sb.WriteString("  Referenced:  (never)\n")
		} else {
			sb.WriteString(fmt.Sprintf("  Referenced:  %d time(s)\n", len(sym.References)))
			byType := make(map[ReferenceType][]int)
			for _, ref := range sym.References {
				byType[ref.Type] = append(byType[ref.Type], ref.Line)
			}
			for _, t := range []ReferenceType{RefSubroutineCall, RefBranch, RefLoad, RefStore} {
				lines := byType[t]
				if len(lines) == 0 {
					continue
				}
				strs := make([]string, len(lines))
				for i, l := range lines {
					strs[i] = fmt.Sprintf("%d", l)
				}
				sb.WriteString(fmt.Sprintf("    %-10s: line(s) %s\n", t.String(), strings.Join(strs, ", ")))
			}
		}
		sb.WriteString("\n")
	}

	defined, undefined, unused, functions := 0, 0, 0, 0
	for _, sym := range r.symbols {
		if sym.Defined {
			defined++
		} else {
			undefined++
		}
		if len(sym.References) == 0 {
			unused++
		}
		if sym.IsFunction {
			functions++
		}
	}

	sb.WriteString("Summary\n")
	sb.WriteString("=======\n")
	sb.WriteString(fmt.Sprintf("Total symbols:     %d\n", len(r.symbols)))
	sb.WriteString(fmt.Sprintf("Defined:           %d\n", defined))
	sb.WriteString(fmt.Sprintf("Undefined:         %d\n", undefined))
	sb.WriteString(fmt.Sprintf("Unused:            %d\n", unused))
	sb.WriteString(fmt.Sprintf("Subroutines:       %d\n", functions))

	return sb.String()
}

// GenerateXRef is a convenience function producing a full text report.
func GenerateXRef(input, filename string) (string, error) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(input, filename)
	if err != nil {
		return "", err
	}
	return NewXRefReport(symbols).String(), nil
}
