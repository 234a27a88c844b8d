package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/lc3-emulator/parser"
)

// LintLevel represents the severity of a lint issue.
type LintLevel int

const (
	LintError   LintLevel = iota // Syntax errors, undefined references
	LintWarning                  // Best practice violations, potential issues
	LintInfo                     // Suggestions, style recommendations
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is a single lint finding.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Column  int
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d:%d: %s: %s [%s]", i.Line, i.Column, i.Level, i.Message, i.Code)
}

// LintOptions controls linter behavior.
type LintOptions struct {
	Strict       bool // Treat warnings as errors
	CheckUnused  bool // Check for unused labels
	CheckReach   bool // Check for unreachable code after BR/HALT
	SuggestFixes bool // Suggest fixes for undefined labels
}

// DefaultLintOptions returns default linter options.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{
		Strict:       false,
		CheckUnused:  true,
		CheckReach:   true,
		SuggestFixes: true,
	}
}

// Linter analyzes LC-3 assembly for style and correctness issues beyond
// what the assembler itself rejects.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue
	program *parser.Program
	parser  *parser.Parser
}

// NewLinter creates a new linter.
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{options: options, issues: make([]*LintIssue, 0)}
}

// Lint analyzes the given assembly source code.
func (l *Linter) Lint(input, filename string) []*LintIssue {
	l.parser = parser.NewParser(input, filename)
	prog, err := l.parser.Parse()

	if err != nil {
		l.issues = append(l.issues, &LintIssue{
			Level: LintError, Line: 1, Column: 1,
			Message: fmt.Sprintf("parse error: %v", err),
			Code:    "PARSE_ERROR",
		})
	}

	if l.parser.Errors() != nil {
		for _, perr := range l.parser.Errors().Errors {
			l.issues = append(l.issues, &LintIssue{
				Level: LintError, Line: perr.Pos.Line, Column: perr.Pos.Column,
				Message: perr.Message,
				Code:    "PARSE_ERROR",
			})
		}
	}

	if prog == nil {
		return l.issues
	}
	l.program = prog

	l.checkUndefinedSymbols()
	if l.options.CheckUnused {
		l.checkUnusedLabels()
	}
	if l.options.CheckReach {
		l.checkUnreachableCode()
	}
	l.checkBlkwAndStringz()

	sort.Slice(l.issues, func(i, j int) bool {
		if l.issues[i].Line == l.issues[j].Line {
			return l.issues[i].Column < l.issues[j].Column
		}
		return l.issues[i].Line < l.issues[j].Line
	})

	return l.issues
}

// checkUndefinedSymbols reports every symbol referenced but never
// defined, using the parser's own reference bookkeeping.
func (l *Linter) checkUndefinedSymbols() {
	if l.program.SymbolTable == nil {
		return
	}
	for _, sym := range l.program.SymbolTable.GetUndefinedSymbols() {
		suggestion := l.findSimilarLabel(sym.Name)
		msg := fmt.Sprintf("undefined label %q", sym.Name)
		if suggestion != "" && l.options.SuggestFixes {
			msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		line, col := 0, 0
		if len(sym.References) > 0 {
			line, col = sym.References[0].Line, sym.References[0].Column
		}
		l.issues = append(l.issues, &LintIssue{
			Level: LintError, Line: line, Column: col,
			Message: msg, Code: "UNDEF_LABEL",
		})
	}
}

// checkUnusedLabels warns about defined but unreferenced labels, except
// the conventional entry-point name.
func (l *Linter) checkUnusedLabels() {
	if l.program.SymbolTable == nil {
		return
	}
	for _, sym := range l.program.SymbolTable.GetUnusedSymbols() {
		if isSpecialLabel(sym.Name) {
			continue
		}
		l.issues = append(l.issues, &LintIssue{
			Level: LintWarning, Line: sym.Pos.Line, Column: sym.Pos.Column,
			Message: fmt.Sprintf("label %q defined but never referenced", sym.Name),
			Code:    "UNUSED_LABEL",
		})
	}
}

// checkUnreachableCode flags a statement immediately following an
// unconditional BR or HALT that has no label of its own, since nothing
// can jump to it.
func (l *Linter) checkUnreachableCode() {
	for _, seg := range l.program.Segments {
		for i, stmt := range seg.Statements {
			if !isUnconditionalExit(stmt) {
				continue
			}
			if i+1 >= len(seg.Statements) {
				continue
			}
			next := seg.Statements[i+1]
			if next.Label == "" {
				l.issues = append(l.issues, &LintIssue{
					Level: LintWarning, Line: next.Pos.Line, Column: next.Pos.Column,
					Message: "unreachable code after unconditional control transfer",
					Code:    "UNREACHABLE_CODE",
				})
			}
		}
	}
}

func isUnconditionalExit(stmt *parser.Statement) bool {
	if stmt.Kind != parser.StmtInstruction {
		return false
	}
	if stmt.Mnemonic == "BR" && stmt.N && stmt.Z && stmt.P {
		return true
	}
	if stmt.Mnemonic == "JMP" {
		return true
	}
	if stmt.Mnemonic == "TRAP" && stmt.Imm == 0x25 { // HALT
		return true
	}
	return false
}

// checkBlkwAndStringz flags degenerate directive arguments.
func (l *Linter) checkBlkwAndStringz() {
	for _, seg := range l.program.Segments {
		for _, stmt := range seg.Statements {
			if stmt.Kind == parser.StmtBlkw && stmt.BlkwCount <= 0 {
				l.issues = append(l.issues, &LintIssue{
					Level: LintError, Line: stmt.Pos.Line, Column: stmt.Pos.Column,
					Message: ".BLKW requires a positive word count",
					Code:    "INVALID_DIRECTIVE",
				})
			}
		}
	}
}

func (l *Linter) findSimilarLabel(target string) string {
	if l.program.SymbolTable == nil {
		return ""
	}
	target = strings.ToLower(target)
	bestMatch, bestDistance := "", 999
	for name, sym := range l.program.SymbolTable.GetAllSymbols() {
		if !sym.Defined {
			continue
		}
		dist := levenshteinDistance(strings.ToLower(name), target)
		if dist < bestDistance && dist <= 3 {
			bestMatch, bestDistance = name, dist
		}
	}
	return bestMatch
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = minInt(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}
	return matrix[len(s1)][len(s2)]
}

// isSpecialLabel reports whether label is a conventional entry point
// name that's expected to go unreferenced by any BR/JSR in the file.
func isSpecialLabel(label string) bool {
	special := []string{"MAIN", "START", "_START"}
	for _, s := range special {
		if strings.EqualFold(label, s) {
			return true
		}
	}
	return false
}

func minInt(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
