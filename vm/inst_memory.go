package vm

import "fmt"

// ExecuteLd executes LD: DR <- mem[PC + sext(offset9)]; sets condition
// codes .
func ExecuteLd(m *VM, inst *Instruction) error {
	dr := int((inst.Opcode >> DRShift) & RegisterMask)
	addr := m.CPU.PC + SignExtend(inst.Opcode&0x1FF, Offset9Bits)

	value, err := m.Memory.ReadWord(addr)
	if err != nil {
		return fmt.Errorf("LD: %w", err)
	}
	m.CPU.SetRegister(dr, value)
	return nil
}

// ExecuteLdi executes LDI: DR <- mem[mem[PC + sext(offset9)]]; sets
// condition codes.
func ExecuteLdi(m *VM, inst *Instruction) error {
	dr := int((inst.Opcode >> DRShift) & RegisterMask)
	ptrAddr := m.CPU.PC + SignExtend(inst.Opcode&0x1FF, Offset9Bits)

	indirect, err := m.Memory.ReadWord(ptrAddr)
	if err != nil {
		return fmt.Errorf("LDI: reading pointer: %w", err)
	}
	value, err := m.Memory.ReadWord(indirect)
	if err != nil {
		return fmt.Errorf("LDI: %w", err)
	}
	m.CPU.SetRegister(dr, value)
	return nil
}

// ExecuteLdr executes LDR: DR <- mem[BaseR + sext(offset6)]; sets
// condition codes.
func ExecuteLdr(m *VM, inst *Instruction) error {
	dr := int((inst.Opcode >> DRShift) & RegisterMask)
	baseR := int((inst.Opcode >> SRShift) & RegisterMask)
	addr := m.CPU.R[baseR] + SignExtend(inst.Opcode&0x3F, Offset6Bits)

	value, err := m.Memory.ReadWord(addr)
	if err != nil {
		return fmt.Errorf("LDR: %w", err)
	}
	m.CPU.SetRegister(dr, value)
	return nil
}

// ExecuteLea executes LEA: DR <- PC + sext(offset9). This implementation
// follows the original LC-3 and updates condition codes (the LC-3b
// variant does not); see DESIGN.md.
func ExecuteLea(m *VM, inst *Instruction) error {
	dr := int((inst.Opcode >> DRShift) & RegisterMask)
	addr := m.CPU.PC + SignExtend(inst.Opcode&0x1FF, Offset9Bits)
	m.CPU.SetRegister(dr, addr)
	return nil
}

// ExecuteSt executes ST: mem[PC + sext(offset9)] <- SR. Stores never touch
// condition codes .
func ExecuteSt(m *VM, inst *Instruction) error {
	sr := int((inst.Opcode >> DRShift) & RegisterMask)
	addr := m.CPU.PC + SignExtend(inst.Opcode&0x1FF, Offset9Bits)
	return m.Memory.WriteWord(addr, m.CPU.R[sr])
}

// ExecuteSti executes STI: mem[mem[PC + sext(offset9)]] <- SR.
func ExecuteSti(m *VM, inst *Instruction) error {
	sr := int((inst.Opcode >> DRShift) & RegisterMask)
	ptrAddr := m.CPU.PC + SignExtend(inst.Opcode&0x1FF, Offset9Bits)

	indirect, err := m.Memory.ReadWord(ptrAddr)
	if err != nil {
		return fmt.Errorf("STI: reading pointer: %w", err)
	}
	return m.Memory.WriteWord(indirect, m.CPU.R[sr])
}

// ExecuteStr executes STR: mem[BaseR + sext(offset6)] <- SR.
func ExecuteStr(m *VM, inst *Instruction) error {
	sr := int((inst.Opcode >> DRShift) & RegisterMask)
	baseR := int((inst.Opcode >> SRShift) & RegisterMask)
	addr := m.CPU.R[baseR] + SignExtend(inst.Opcode&0x3F, Offset6Bits)
	return m.Memory.WriteWord(addr, m.CPU.R[sr])
}
