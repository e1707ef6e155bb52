package msp430

// Execute runs a decoded Format III (jump) instruction (spec.md §4.6). The
// target is PC (already advanced past the jump word itself) plus twice the
// signed offset, since the offset counts words, not bytes.
func (i *JumpInstruction) Execute(rf *RegisterFile, mem *MemoryMap) (int, error) {
	if i.conditionMet(rf.Status()) {
		target := int32(rf.GetPC()) + 2*int32(i.Offset)
		rf.SetPC(uint16(target))
	}
	return jumpCycles, nil
}

func (i *JumpInstruction) conditionMet(sr *StatusRegister) bool {
	switch i.Condition {
	case JumpEQ:
		return sr.Flag(flagZ)
	case JumpNE:
		return !sr.Flag(flagZ)
	case JumpC:
		return sr.Flag(flagC)
	case JumpNC:
		return !sr.Flag(flagC)
	case JumpN:
		return sr.Flag(flagN)
	case JumpGE:
		return sr.Flag(flagN) == sr.Flag(flagV)
	case JumpL:
		return sr.Flag(flagN) != sr.Flag(flagV)
	default: // JumpMP: unconditional
		return true
	}
}
