package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Preprocessor expands `.include "file.asm"` directives before assembly,
// letting a program split an OS image and user program across files
// .
type Preprocessor struct {
	includeStack []string
	baseDir      string
	errors       *ErrorList
}

// NewPreprocessor creates a preprocessor resolving includes relative to
// baseDir.
func NewPreprocessor(baseDir string) *Preprocessor {
	if baseDir == "" {
		baseDir = "."
	}
	return &Preprocessor{baseDir: baseDir, errors: &ErrorList{}}
}

// ProcessFile reads filename and expands its includes.
func (p *Preprocessor) ProcessFile(filename string) (string, error) {
	absPath, err := filepath.Abs(filepath.Join(p.baseDir, filename))
	if err != nil {
		return "", err
	}
	for _, included := range p.includeStack {
		if included == absPath {
			return "", fmt.Errorf("circular include detected: %s", absPath)
		}
	}

	content, err := os.ReadFile(absPath) // #nosec G304 -- user-provided include file path
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	p.includeStack = append(p.includeStack, absPath)
	defer func() { p.includeStack = p.includeStack[:len(p.includeStack)-1] }()

	return p.ProcessContent(string(content), filename)
}

// ProcessContent expands `.include` lines in content, recursing into
// each included file.
func (p *Preprocessor) ProcessContent(content, filename string) (string, error) {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for lineNum, line := range lines {
		pos := Position{Filename: filename, Line: lineNum + 1, Column: 1}
		trimmed := strings.TrimSpace(line)

		if !strings.HasPrefix(trimmed, ".include") {
			result = append(result, line)
			continue
		}

		includeFile := parseIncludeDirective(trimmed)
		if includeFile == "" {
			p.errors.AddError(NewError(pos, ErrorSyntax, "invalid .include directive"))
			continue
		}

		includedContent, err := p.ProcessFile(includeFile)
		if err != nil {
			p.errors.AddError(NewError(pos, ErrorFileIO, fmt.Sprintf("failed to include %s: %v", includeFile, err)))
			continue
		}
		result = append(result, includedContent)
	}

	return strings.Join(result, "\n"), nil
}

// parseIncludeDirective extracts the filename from a `.include "file"` or
// `.include <file>` line.
func parseIncludeDirective(line string) string {
	line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ".include"))
	if len(line) >= 2 {
		if (line[0] == '"' && line[len(line)-1] == '"') ||
			(line[0] == '<' && line[len(line)-1] == '>') {
			return line[1 : len(line)-1]
		}
	}
	return ""
}

// Errors returns preprocessor-stage errors (malformed or circular includes).
func (p *Preprocessor) Errors() *ErrorList {
	return p.errors
}
