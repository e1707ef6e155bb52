package msp430

// Execute runs a decoded Format II (single-operand) instruction (spec.md
// §4.6). Extension-word fetching, if the addressing mode needs one,
// happens inside ResolveSource/ResolveDestination exactly as it does for
// Format I.
func (i *SingleOperandInstruction) Execute(rf *RegisterFile, mem *MemoryMap) (int, error) {
	mode := classifyMode(i.ModeBits, i.Reg)

	switch i.hdr.Opcode {
	case opPUSH:
		return i.execPush(rf, mem, mode)
	case opCALL:
		return i.execCall(rf, mem, mode)
	case opRETI:
		return i.execReti(rf, mem)
	default:
		return i.execUnary(rf, mem, mode)
	}
}

// execUnary handles RRC, SWPB, RRA, SXT: read the operand, transform it in
// place, write it back, update flags per spec.md §4.6's rotate/extend
// table.
func (i *SingleOperandInstruction) execUnary(rf *RegisterFile, mem *MemoryMap, mode AddressingMode) (int, error) {
	operand, err := ResolveSource(rf, mem, i.Reg, i.ModeBits, i.hdr.IsByte)
	if err != nil {
		return 0, err
	}
	val, err := operand.Read(rf, mem, i.hdr.IsByte)
	if err != nil {
		return 0, err
	}

	sr := rf.Status()
	var result uint16

	switch i.hdr.Opcode {
	case opRRC:
		carryIn := uint16(0)
		if sr.Flag(flagC) {
			carryIn = msbMask(i.hdr.IsByte)
		}
		sr.SetFlag(flagC, val&1 != 0)
		result = (val >> 1) | carryIn
		sr.UpdateLogical(result, i.hdr.IsByte)
		sr.SetFlag(flagV, false)

	case opRRA:
		sign := val & msbMask(i.hdr.IsByte)
		sr.SetFlag(flagC, val&1 != 0)
		result = (val >> 1) | sign
		sr.UpdateLogical(result, i.hdr.IsByte)
		sr.SetFlag(flagV, false)

	case opSWPB:
		result = (val>>8)&0xFF | (val&0xFF)<<8

	case opSXT:
		if val&0x80 != 0 {
			result = val | 0xFF00
		} else {
			result = val &^ 0xFF00
		}
		sr.UpdateLogical(result, false)
		sr.SetFlag(flagC, result != 0)
		sr.SetFlag(flagV, false)
	}

	if err := operand.Write(rf, mem, i.hdr.IsByte, result); err != nil {
		return 0, err
	}
	return formatIICycles(mode), nil
}

func (i *SingleOperandInstruction) execPush(rf *RegisterFile, mem *MemoryMap, mode AddressingMode) (int, error) {
	operand, err := ResolveSource(rf, mem, i.Reg, i.ModeBits, false)
	if err != nil {
		return 0, err
	}
	val, err := operand.Read(rf, mem, false)
	if err != nil {
		return 0, err
	}
	if err := pushWord(rf, mem, val, StackPush); err != nil {
		return 0, err
	}
	return pushCycles(mode), nil
}

func (i *SingleOperandInstruction) execCall(rf *RegisterFile, mem *MemoryMap, mode AddressingMode) (int, error) {
	operand, err := ResolveSource(rf, mem, i.Reg, i.ModeBits, false)
	if err != nil {
		return 0, err
	}
	target, err := operand.Read(rf, mem, false)
	if err != nil {
		return 0, err
	}
	if err := pushWord(rf, mem, rf.GetPC(), StackCall); err != nil {
		return 0, err
	}
	rf.SetPC(target)
	return callCycles(mode), nil
}

func (i *SingleOperandInstruction) execReti(rf *RegisterFile, mem *MemoryMap) (int, error) {
	srWord, err := popWord(rf, mem, StackReti)
	if err != nil {
		return 0, err
	}
	pc, err := popWord(rf, mem, StackReti)
	if err != nil {
		return 0, err
	}
	rf.Status().SetWord(srWord)
	rf.SetPC(pc)
	return retiCycles, nil
}

// pushWord decrements SP by 2 and writes value at the new SP, checking
// that the post-decrement SP still lands inside RAM (spec.md §4.6, §7).
func pushWord(rf *RegisterFile, mem *MemoryMap, value uint16, op StackOp) error {
	sp := rf.GetSP() - 2
	if sp < RAMStart || sp > RAMEnd {
		return &StackBounds{SP: sp, Op: op}
	}
	rf.SetSP(sp)
	return mem.WriteWord(sp, value)
}

// popWord reads the word at SP and increments SP by 2, checking bounds on
// the pre-increment SP (the address actually read).
func popWord(rf *RegisterFile, mem *MemoryMap, op StackOp) (uint16, error) {
	sp := rf.GetSP()
	if sp < RAMStart || sp > RAMEnd {
		return 0, &StackBounds{SP: sp, Op: op}
	}
	val, err := mem.ReadWord(sp)
	if err != nil {
		return 0, err
	}
	rf.SetSP(sp + 2)
	return val, nil
}
