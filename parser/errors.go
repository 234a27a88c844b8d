// Package parser implements the LC-3 assembler's lexer and two-pass parser.
package parser

import (
	"fmt"
	"strings"
)

// Position identifies a location in source.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Error is an assembly-time error with position information.
type Error struct {
	Pos     Position
	Message string
	Context string // source line the error occurred on
	Kind    ErrorKind
}

// ErrorKind categorizes an assembler error .
type ErrorKind int

const (
	ErrorSyntax ErrorKind = iota
	ErrorUnknownLabel
	ErrorDuplicateLabel
	ErrorInvalidDirective
	ErrorInvalidInstruction
	ErrorBadOperand
	ErrorOffsetOutOfRange
	ErrorImmediateOutOfRange
	ErrorMissingOrig
	ErrorReservedName
	ErrorCircularInclude
	ErrorFileIO
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorSyntax:
		return "syntax"
	case ErrorUnknownLabel:
		return "unknown label"
	case ErrorDuplicateLabel:
		return "duplicate label"
	case ErrorInvalidDirective:
		return "invalid directive"
	case ErrorInvalidInstruction:
		return "invalid instruction"
	case ErrorBadOperand:
		return "bad operand"
	case ErrorOffsetOutOfRange:
		return "offset out of range"
	case ErrorImmediateOutOfRange:
		return "immediate out of range"
	case ErrorMissingOrig:
		return "missing .ORIG"
	case ErrorReservedName:
		return "reserved name"
	case ErrorCircularInclude:
		return "circular include"
	case ErrorFileIO:
		return "file I/O"
	default:
		return "unknown"
	}
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s: %s\n", e.Pos, e.Kind, e.Message))
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("    %s\n", e.Context))
	}
	return sb.String()
}

// NewError creates an assembler error.
func NewError(pos Position, kind ErrorKind, message string) *Error {
	return &Error{Pos: pos, Message: message, Kind: kind}
}

// NewErrorWithContext creates an assembler error carrying the offending
// source line for display.
func NewErrorWithContext(pos Position, kind ErrorKind, message, context string) *Error {
	return &Error{Pos: pos, Message: message, Context: context, Kind: kind}
}

// Warning is a non-fatal assembly note (e.g. an unreferenced label).
type Warning struct {
	Pos     Position
	Message string
}

func (w *Warning) String() string {
	return fmt.Sprintf("%s: warning: %s", w.Pos, w.Message)
}

// ErrorList collects every error and warning produced by one assembly run.
// Assembly is atomic : a non-empty Errors list means no
// image is produced at all.
type ErrorList struct {
	Errors   []*Error
	Warnings []*Warning
}

func (el *ErrorList) AddError(err *Error) {
	el.Errors = append(el.Errors, err)
}

func (el *ErrorList) AddWarning(warn *Warning) {
	el.Warnings = append(el.Warnings, warn)
}

func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}
	var sb strings.Builder
	for _, err := range el.Errors {
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// PrintWarnings renders every collected warning, one per line.
func (el *ErrorList) PrintWarnings() string {
	if len(el.Warnings) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, warn := range el.Warnings {
		sb.WriteString(warn.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
