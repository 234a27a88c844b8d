package parser

import (
	"os"
	"path/filepath"
)

// ParseFileOptions configures file-level parsing.
type ParseFileOptions struct {
	// EnablePreprocessor enables `.include` expansion (default: true).
	EnablePreprocessor bool
}

// DefaultParseFileOptions returns the default file-parsing options.
func DefaultParseFileOptions() ParseFileOptions {
	return ParseFileOptions{EnablePreprocessor: true}
}

// ParseFile reads and assembles filePath through lexing, `.include`
// expansion, and two-pass parsing, returning the resulting Program.
func ParseFile(filePath string, opts ParseFileOptions) (*Program, *Parser, error) {
	content, err := os.ReadFile(filePath) // #nosec G304 -- user-provided assembly file path
	if err != nil {
		return nil, nil, err
	}

	filename := filepath.Base(filePath)
	source := string(content)

	if opts.EnablePreprocessor {
		pp := NewPreprocessor(filepath.Dir(filePath))
		processed, err := pp.ProcessContent(source, filename)
		if err != nil {
			return nil, nil, err
		}
		if pp.Errors().HasErrors() {
			return nil, nil, pp.Errors().Errors[0]
		}
		source = processed
	}

	p := NewParser(source, filename)
	program, err := p.Parse()
	if err != nil {
		return nil, p, err
	}
	return program, p, nil
}

// ParseFileSimple parses filePath with default options.
func ParseFileSimple(filePath string) (*Program, *Parser, error) {
	return ParseFile(filePath, DefaultParseFileOptions())
}
