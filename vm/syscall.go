package vm

import "fmt"

// ExecuteTrap executes TRAP trapvect8. The reference LC-3 always does
// R7 <- PC; PC <- mem[ZEXT(trapvect8)], relying on an OS image to have
// populated the trap vector table. This implementation additionally
// supports running with no OS image at all : if the
// vector's table entry is still zero, control never actually jumps;
// instead one of the six built-in handlers below runs synchronously and
// PC simply advances to the next instruction. A populated vector table
// entry always wins, so an embedding host can install its own handlers by
// writing the vector table exactly as a real LC-3 OS would.
func ExecuteTrap(m *VM, inst *Instruction) error {
	vector := inst.Opcode & 0xFF

	handlerAddr, err := m.Memory.ReadWord(vector)
	if err != nil {
		return fmt.Errorf("TRAP x%02X: %w", vector, err)
	}

	if handlerAddr != 0 {
		m.CPU.R[R7] = m.CPU.PC
		m.CPU.PC = handlerAddr
		return nil
	}

	switch vector {
	case TrapGETC:
		return trapGetc(m)
	case TrapOUT:
		return trapOut(m)
	case TrapPUTS:
		return trapPuts(m)
	case TrapIN:
		return trapIn(m)
	case TrapPUTSP:
		return trapPutsp(m)
	case TrapHALT:
		return trapHalt(m)
	default:
		return &VMError{Kind: IllegalInstruction, Address: inst.Address,
			Message: fmt.Sprintf("TRAP x%02X has no vector table entry and no built-in handler", vector)}
	}
}

// nextInputByte pops the next queued input byte; with no bytes queued
// this returns 0, mirroring an LC-3 reading an idle keyboard. Blocking
// for more input, if desired, is the host's responsibility.
func nextInputByte(m *VM) byte {
	if len(m.Memory.InputQueue) == 0 {
		return 0
	}
	b := m.Memory.InputQueue[0]
	m.Memory.InputQueue = m.Memory.InputQueue[1:]
	return b
}

func emit(m *VM, b byte) {
	if m.Memory.OutputSink != nil {
		m.Memory.OutputSink(b)
	}
}

// trapGetc implements GETC (x20): read one character from the keyboard,
// unechoed, into R0. Condition codes are not affected.
func trapGetc(m *VM) error {
	m.CPU.R[R0] = Word(nextInputByte(m))
	return nil
}

// trapOut implements OUT (x21): write the character in R0[7:0] to the
// display.
func trapOut(m *VM) error {
	emit(m, byte(m.CPU.R[R0]))
	return nil
}

// trapPuts implements PUTS (x22): write the NUL-terminated string of
// one-character-per-word starting at the address in R0.
func trapPuts(m *VM) error {
	addr := m.CPU.R[R0]
	for {
		w, err := m.Memory.ReadWord(addr)
		if err != nil {
			return fmt.Errorf("PUTS: %w", err)
		}
		if w == 0 {
			break
		}
		emit(m, byte(w))
		addr++
	}
	return nil
}

// trapIn implements IN (x23): prompt, read and echo one character into
// R0, the user-facing counterpart to GETC.
func trapIn(m *VM) error {
	const prompt = "Input a character> "
	for i := 0; i < len(prompt); i++ {
		emit(m, prompt[i])
	}
	b := nextInputByte(m)
	emit(m, b)
	m.CPU.R[R0] = Word(b)
	return nil
}

// trapPutsp implements PUTSP (x24): write a NUL-terminated string packed
// two characters per word, low byte first then high byte.
func trapPutsp(m *VM) error {
	addr := m.CPU.R[R0]
	for {
		w, err := m.Memory.ReadWord(addr)
		if err != nil {
			return fmt.Errorf("PUTSP: %w", err)
		}
		lo := byte(w & ByteMask)
		hi := byte(w >> 8)
		if lo == 0 {
			break
		}
		emit(m, lo)
		if hi == 0 {
			break
		}
		emit(m, hi)
		addr++
	}
	return nil
}

// trapHalt implements HALT (x25): print a halt message, clear MCR's run
// bit, and record a zero exit code. The VM loop observes MCR cleared on
// its next halted-state check (executor.go, Step).
func trapHalt(m *VM) error {
	const msg = "\n\n--- halting the LC-3 ---\n\n"
	for i := 0; i < len(msg); i++ {
		emit(m, msg[i])
	}
	m.Memory.Halt()
	m.ExitCode = 0
	m.State = StateHalted
	return nil
}
