package encoder

import "fmt"

// EncodeError reports a statement the encoder could not reduce to a
// 16-bit word — a resolved-but-malformed operand set the parser should
// already have rejected, surfaced here as a last line of defense.
type EncodeError struct {
	Address uint16
	Message string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("0x%04X: %s", e.Address, e.Message)
}

func newEncodeError(addr uint16, format string, args ...interface{}) *EncodeError {
	return &EncodeError{Address: addr, Message: fmt.Sprintf(format, args...)}
}
