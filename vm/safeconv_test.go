package vm

import (
	"math"
	"testing"
)

func TestSafeInt64ToWord(t *testing.T) {
	tests := []struct {
		input     int64
		expected  Word
		shouldErr bool
	}{
		{0, 0, false},
		{1, 1, false},
		{65535, 65535, false},
		{-1, 0xFFFF, false},
		{-32768, 0x8000, false},
		{65536, 0, true},
		{-32769, 0, true},
		{math.MaxInt64, 0, true},
	}

	for _, tt := range tests {
		result, err := SafeInt64ToWord(tt.input)
		if tt.shouldErr {
			if err == nil {
				t.Errorf("SafeInt64ToWord(%d) expected error but got none", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("SafeInt64ToWord(%d) unexpected error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("SafeInt64ToWord(%d) = 0x%04X, expected 0x%04X", tt.input, result, tt.expected)
		}
	}
}

func TestSafeIntToWord(t *testing.T) {
	if v, err := SafeIntToWord(42); err != nil || v != 42 {
		t.Errorf("SafeIntToWord(42) = %d, %v", v, err)
	}
	if _, err := SafeIntToWord(100000); err == nil {
		t.Errorf("SafeIntToWord(100000) expected error")
	}
}

func TestAsInt16(t *testing.T) {
	if AsInt16(0xFFFF) != -1 {
		t.Errorf("AsInt16(0xFFFF) = %d, expected -1", AsInt16(0xFFFF))
	}
	if AsInt16(0x0001) != 1 {
		t.Errorf("AsInt16(0x0001) = %d, expected 1", AsInt16(0x0001))
	}
}
