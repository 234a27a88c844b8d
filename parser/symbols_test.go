package parser

import "testing"

func TestSymbolTableDefineAndGet(t *testing.T) {
	st := NewSymbolTable()
	pos := Position{Filename: "test.asm", Line: 1, Column: 1}

	if err := st.Define("LOOP", 0x3000, pos); err != nil {
		t.Fatalf("Define: %v", err)
	}

	v, err := st.Get("loop") // case-insensitive
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != 0x3000 {
		t.Errorf("got %#x, want 0x3000", v)
	}
}

func TestSymbolTableDuplicateLabel(t *testing.T) {
	st := NewSymbolTable()
	pos := Position{Filename: "test.asm", Line: 1, Column: 1}

	if err := st.Define("LOOP", 0x3000, pos); err != nil {
		t.Fatalf("first Define: %v", err)
	}
	if err := st.Define("LOOP", 0x3005, pos); err == nil {
		t.Error("expected a duplicate-label error on redefinition")
	}
}

func TestSymbolTableForwardReference(t *testing.T) {
	st := NewSymbolTable()
	refPos := Position{Filename: "test.asm", Line: 1, Column: 1}
	defPos := Position{Filename: "test.asm", Line: 5, Column: 1}

	st.Reference("DONE", refPos)
	if _, err := st.Get("DONE"); err == nil {
		t.Error("expected an error resolving a forward reference before it is defined")
	}

	if err := st.Define("DONE", 0x3010, defPos); err != nil {
		t.Fatalf("Define: %v", err)
	}

	v, err := st.Get("DONE")
	if err != nil {
		t.Fatalf("Get after Define: %v", err)
	}
	if v != 0x3010 {
		t.Errorf("got %#x, want 0x3010", v)
	}
}

func TestSymbolTableUndefinedAndUnused(t *testing.T) {
	st := NewSymbolTable()
	pos := Position{Filename: "test.asm", Line: 1, Column: 1}

	st.Reference("MISSING", pos)
	_ = st.Define("UNUSED", 0x3000, pos)

	undefined := st.GetUndefinedSymbols()
	if len(undefined) != 1 || undefined[0].Name != "MISSING" {
		t.Errorf("GetUndefinedSymbols = %v, want [MISSING]", undefined)
	}

	unused := st.GetUnusedSymbols()
	if len(unused) != 1 || unused[0].Name != "UNUSED" {
		t.Errorf("GetUnusedSymbols = %v, want [UNUSED]", unused)
	}
}
