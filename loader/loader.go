// Package loader assembles one or more parsed programs into a VM's memory
// image, the step between the encoder's per-segment word arrays and a
// runnable machine.
package loader

import (
	"fmt"

	"github.com/lookbusy1344/lc3-emulator/encoder"
	"github.com/lookbusy1344/lc3-emulator/parser"
	"github.com/lookbusy1344/lc3-emulator/vm"
)

// SourceMap merges the per-segment source maps produced during encoding
// into one table, keyed by the address each word was written to.
type SourceMap = encoder.SourceMap

// LoadResult describes what LoadProgram wrote into memory.
type LoadResult struct {
	// Origins lists each segment's .ORIG address, in program order.
	Origins []vm.Word

	// EntryPoint is where PC was set: an explicit override if one was
	// requested, otherwise the first segment's origin.
	EntryPoint vm.Word

	// SourceMap maps an instruction/data word's address back to the
	// source line that produced it, for the debugger and disassembler.
	SourceMap SourceMap
}

// LoadProgram encodes every segment of program and writes the resulting
// images into machine's memory. entryOverride, if non-nil, becomes PC
// instead of the first segment's .ORIG address — the CLI's --entrypoint
// flag goes through this path. On error, machine's memory may already be
// partially written, but EntryPoint and PC are left untouched.
func LoadProgram(machine *vm.VM, program *parser.Program, entryOverride *vm.Word) (*LoadResult, error) {
	if len(program.Segments) == 0 {
		return nil, fmt.Errorf("program has no .ORIG segments to load")
	}

	enc := encoder.NewEncoder(program.SymbolTable)
	result := &LoadResult{
		SourceMap: make(SourceMap),
	}

	for _, seg := range program.Segments {
		img, err := enc.EncodeSegment(seg, result.SourceMap)
		if err != nil {
			return nil, fmt.Errorf("encoding segment at 0x%04X: %w", seg.Origin, err)
		}
		if err := machine.Memory.LoadImage(img.Origin, img.Words); err != nil {
			return nil, fmt.Errorf("loading segment at 0x%04X: %w", img.Origin, err)
		}
		result.Origins = append(result.Origins, img.Origin)
	}

	entry := result.Origins[0]
	if entryOverride != nil {
		entry = *entryOverride
	}
	result.EntryPoint = entry
	machine.CPU.PC = entry
	machine.EntryPoint = entry

	return result, nil
}
