package msp430

// Execute runs a decoded Format I (two-operand) instruction (spec.md §4.6).
// The operand/flag machinery is shared by every Format I opcode, so all of
// them are implemented here rather than split one-opcode-per-file: the
// teacher's ops_*.go files split by semantic grouping (arith/logic/bcd),
// and that grouping is reproduced in name only (ops_arith.go, ops_logic.go)
// by which opcodes populate applyFormatI's switch, not by file boundary.
//
// Order of operations follows spec.md §4.6's instruction contract: resolve
// the source (fetching its extension word), then resolve the destination
// (fetching its own, so both are consumed from the instruction stream in
// field order), read the source, read the destination too for the
// ADD/AND/... class that needs both operands, compute, write unless the
// opcode discards its result (CMP/BIT), update flags, and return the
// cycle cost from timing.go.
func (i *TwoOperandInstruction) Execute(rf *RegisterFile, mem *MemoryMap) (int, error) {
	srcMode := classifyMode(i.SrcBits, i.SrcReg)
	dstMode := classifyMode(i.DstBits, i.DstReg)

	// POP and RET run as MOV @SP+,dst and get the same SP bounds check as
	// popWord applies to the other stack operations.
	if i.hdr.Opcode == opMOV && i.SrcReg == SP && srcMode == ModeIndirectAutoIncrement {
		if sp := rf.GetSP(); sp < RAMStart || sp > RAMEnd {
			op := StackPop
			if i.DstReg == PC && dstMode == ModeRegister {
				op = StackRet
			}
			return 0, &StackBounds{SP: sp, Op: op}
		}
	}

	srcOperand, err := ResolveSource(rf, mem, i.SrcReg, i.SrcBits, i.hdr.IsByte)
	if err != nil {
		return 0, err
	}
	dstOperand, err := ResolveDestination(rf, mem, i.DstReg, i.DstBits, i.hdr.IsByte)
	if err != nil {
		return 0, err
	}
	// A Symbolic source was resolved before the destination's extension
	// word was fetched; move its base past that word too, so it is the PC
	// after the whole instruction.
	if srcMode == ModeSymbolic && i.DstBits == 1 {
		srcOperand.addr += 2
	}

	srcVal, err := srcOperand.Read(rf, mem, i.hdr.IsByte)
	if err != nil {
		return 0, err
	}

	isMovClass := i.hdr.Opcode == opMOV || i.hdr.Opcode == opBIT || i.hdr.Opcode == opCMP
	cycles := formatICycles(srcMode, i.SrcReg, dstMode, i.DstReg, isMovClass)

	if i.hdr.Opcode == opMOV {
		if err := dstOperand.Write(rf, mem, i.hdr.IsByte, srcVal); err != nil {
			return 0, err
		}
		return cycles, nil
	}

	dstVal, err := dstOperand.Read(rf, mem, i.hdr.IsByte)
	if err != nil {
		return 0, err
	}

	result, writeback := applyFormatI(rf.Status(), i.hdr.Opcode, srcVal, dstVal, i.hdr.IsByte)
	if writeback {
		if err := dstOperand.Write(rf, mem, i.hdr.IsByte, result); err != nil {
			return 0, err
		}
	}
	return cycles, nil
}
