package parser

import (
	"fmt"
	"math"
)

// Word is a 16-bit LC-3 machine word. It is a type alias (not a distinct
// named type) so addresses and offsets computed here pass directly to
// github.com/lookbusy1344/lc3-emulator/vm and the encoder without
// conversion.
type Word = uint16

// SafeInt64ToWord narrows v into a 16-bit Word, accepting both the
// unsigned range [0, 65535] and the signed range [-32768, -1] (stored as
// its two's-complement bit pattern), and rejecting anything wider.
func SafeInt64ToWord(v int64) (Word, error) {
	if v >= 0 && v <= math.MaxUint16 {
		return Word(v), nil
	}
	if v >= math.MinInt16 && v < 0 {
		return Word(uint16(int16(v))), nil
	}
	return 0, fmt.Errorf("value %d does not fit in a 16-bit word", v)
}
