package vm

// ExecuteBranch executes BR: if any of the requested condition bits match
// the current N/Z/P, PC <- PC + sext(offset9). PC has already been
// incremented past this instruction by fetch. An encoding with all three
// nzp bits clear never branches; the assembler's bare `BR` sets all three
// and is unconditional.
func ExecuteBranch(m *VM, inst *Instruction) error {
	n := inst.Opcode&(1<<11) != 0
	z := inst.Opcode&(1<<10) != 0
	p := inst.Opcode&(1<<9) != 0

	taken := (n && m.CPU.PSR.N) || (z && m.CPU.PSR.Z) || (p && m.CPU.PSR.P)
	if taken {
		offset := SignExtend(inst.Opcode&0x1FF, Offset9Bits)
		m.CPU.PC += offset
		if m.Statistics != nil {
			m.Statistics.RecordBranchTaken()
		}
	}
	return nil
}

// ExecuteJmp executes JMP BaseR (RET is the assembler alias JMP R7).
func ExecuteJmp(m *VM, inst *Instruction) error {
	baseR := int((inst.Opcode >> SRShift) & RegisterMask)
	m.CPU.PC = m.CPU.R[baseR]
	return nil
}

// ExecuteJsr executes JSR (PC-relative, bit 11 set) and JSRR (register
// indirect, bit 11 clear). R7 is set to the return address before PC is
// updated, so JSRR R7 reads the original R7 as its target.
func ExecuteJsr(m *VM, inst *Instruction) error {
	returnAddr := m.CPU.PC

	if inst.Opcode&(1<<11) != 0 {
		offset := SignExtend(inst.Opcode&0x7FF, Offset11Bits)
		m.CPU.R[R7] = returnAddr
		m.CPU.PC = returnAddr + offset
	} else {
		baseR := int((inst.Opcode >> SRShift) & RegisterMask)
		target := m.CPU.R[baseR]
		m.CPU.R[R7] = returnAddr
		m.CPU.PC = target
	}
	return nil
}
