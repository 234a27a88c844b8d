package vm

import (
	"fmt"
	"sort"
)

// SymbolResolver provides address-to-symbol lookup for trace and
// disassembly output. It maintains both forward (name->address) and
// reverse (address->name) mappings and can resolve an address to the
// nearest symbol at or before it, with offset.
type SymbolResolver struct {
	symbols         map[string]Word
	addressToSymbol map[Word]string
	sortedAddresses []Word
}

// NewSymbolResolver creates a resolver from a label table such as the one
// produced by the assembler's symbol table .
func NewSymbolResolver(symbols map[string]Word) *SymbolResolver {
	if symbols == nil {
		symbols = make(map[string]Word)
	}

	addressToSymbol := make(map[Word]string, len(symbols))
	for name, addr := range symbols {
		addressToSymbol[addr] = name
	}

	sortedAddresses := make([]Word, 0, len(addressToSymbol))
	for addr := range addressToSymbol {
		sortedAddresses = append(sortedAddresses, addr)
	}
	sort.Slice(sortedAddresses, func(i, j int) bool {
		return sortedAddresses[i] < sortedAddresses[j]
	})

	return &SymbolResolver{
		symbols:         symbols,
		addressToSymbol: addressToSymbol,
		sortedAddresses: sortedAddresses,
	}
}

// LookupAddress returns the exact symbol name for an address, or "" if
// none is defined there.
func (sr *SymbolResolver) LookupAddress(address Word) string {
	return sr.addressToSymbol[address]
}

// LookupSymbol returns the address bound to name, if any.
func (sr *SymbolResolver) LookupSymbol(name string) (Word, bool) {
	addr, ok := sr.symbols[name]
	return addr, ok
}

// ResolveAddress resolves address to the nearest symbol at or before it,
// with offset.
//
//   - 0x3000 with symbol "MAIN" at 0x3000 -> ("MAIN", 0, true)
//   - 0x3004 with symbol "MAIN" at 0x3000 -> ("MAIN", 4, true)
//   - 0x2FFC with no symbol before it -> ("", 0, false)
func (sr *SymbolResolver) ResolveAddress(address Word) (symbolName string, offset Word, found bool) {
	if name, ok := sr.addressToSymbol[address]; ok {
		return name, 0, true
	}
	if len(sr.sortedAddresses) == 0 {
		return "", 0, false
	}

	idx := sort.Search(len(sr.sortedAddresses), func(i int) bool {
		return sr.sortedAddresses[i] > address
	})
	if idx == 0 {
		return "", 0, false
	}

	nearestAddr := sr.sortedAddresses[idx-1]
	symbolName = sr.addressToSymbol[nearestAddr]
	offset = address - nearestAddr
	return symbolName, offset, true
}

// FormatAddress renders "symbol+offset (0xADDR)", falling back to a bare
// "0xADDR" when no symbol resolves.
func (sr *SymbolResolver) FormatAddress(address Word) string {
	symbolName, offset, found := sr.ResolveAddress(address)
	if !found {
		return fmt.Sprintf("0x%04X", address)
	}
	if offset == 0 {
		return fmt.Sprintf("%s (0x%04X)", symbolName, address)
	}
	return fmt.Sprintf("%s+%d (0x%04X)", symbolName, offset, address)
}

// FormatAddressCompact renders "symbol+offset", falling back to "0xADDR".
func (sr *SymbolResolver) FormatAddressCompact(address Word) string {
	symbolName, offset, found := sr.ResolveAddress(address)
	if !found {
		return fmt.Sprintf("0x%04X", address)
	}
	if offset == 0 {
		return symbolName
	}
	return fmt.Sprintf("%s+%d", symbolName, offset)
}

// HasSymbols reports whether any symbols are loaded.
func (sr *SymbolResolver) HasSymbols() bool {
	return len(sr.symbols) > 0
}

// GetSymbolCount returns the number of loaded symbols.
func (sr *SymbolResolver) GetSymbolCount() int {
	return len(sr.symbols)
}

// GetAllSymbols returns a copy of the name->address symbol map.
func (sr *SymbolResolver) GetAllSymbols() map[string]Word {
	result := make(map[string]Word, len(sr.symbols))
	for name, addr := range sr.symbols {
		result[name] = addr
	}
	return result
}
