package vm

import "fmt"

// ErrorKind categorizes a VM runtime fault .
type ErrorKind int

const (
	IllegalInstruction ErrorKind = iota // reserved opcode 1101
	PrivilegeViolation                  // RTI executed in user mode
	InvalidAddress                      // only raised if a host imposes one
)

func (k ErrorKind) String() string {
	switch k {
	case IllegalInstruction:
		return "IllegalInstruction"
	case PrivilegeViolation:
		return "PrivilegeViolation"
	case InvalidAddress:
		return "InvalidAddress"
	default:
		return "UnknownError"
	}
}

// VMError is a runtime fault raised by Step/Execute. Runtime errors stop
// the current batch and are surfaced to the host; memory and registers
// remain inspectable .
type VMError struct {
	Kind    ErrorKind
	Address Word
	Message string
}

func (e *VMError) Error() string {
	return fmt.Sprintf("%s at 0x%04X: %s", e.Kind, e.Address, e.Message)
}
