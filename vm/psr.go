package vm

import "fmt"

// ExecuteRTI implements RTI: return from a trap/interrupt service routine.
// RTI is only legal in supervisor mode ; the pair of
// words on top of the active stack are popped as PC then PSR, and if the
// restored PSR drops back to user mode, R6 is swapped from the supervisor
// stack pointer back to the saved user stack pointer.
func ExecuteRTI(vm *VM, inst *Instruction) error {
	if !vm.CPU.PSR.Supervisor {
		return &VMError{Kind: PrivilegeViolation, Address: inst.Address, Message: "RTI executed in user mode"}
	}

	sp := vm.CPU.R[R6]
	pc, err := vm.Memory.ReadWord(sp)
	if err != nil {
		return fmt.Errorf("RTI: popping PC: %w", err)
	}
	savedPSR, err := vm.Memory.ReadWord(sp + 1)
	if err != nil {
		return fmt.Errorf("RTI: popping PSR: %w", err)
	}
	vm.CPU.R[R6] = sp + 2

	vm.CPU.PC = pc

	var restored PSR
	restored.FromWord(savedPSR)
	if !restored.Supervisor {
		// Returning to user mode: the stack we were using was the
		// supervisor stack; hand R6 back to the saved user stack pointer.
		vm.CPU.SavedSSP = vm.CPU.R[R6]
		vm.CPU.R[R6] = vm.CPU.SavedUSP
	}
	vm.CPU.PSR = restored

	return nil
}
