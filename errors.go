package msp430

import "fmt"

// AccessKind distinguishes the three memory permission classes checked by
// the memory map (spec.md §4.3).
type AccessKind uint8

const (
	AccessRead AccessKind = iota
	AccessWrite
	AccessExecute
)

func (k AccessKind) String() string {
	switch k {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessExecute:
		return "execute"
	default:
		return "unknown"
	}
}

// InvalidInstruction reports a 16-bit word the decoder could not classify,
// or an illegal addressing combination (spec.md §7).
type InvalidInstruction struct {
	Word uint16
	PC   uint16
}

func (e *InvalidInstruction) Error() string {
	return fmt.Sprintf("msp430: invalid instruction 0x%04X at PC=0x%04X", e.Word, e.PC)
}

// MemoryAccess reports an access that violated a region's permissions or
// fell outside every configured region (spec.md §7).
type MemoryAccess struct {
	Addr uint16
	Kind AccessKind
}

func (e *MemoryAccess) Error() string {
	return fmt.Sprintf("msp430: illegal %s access at 0x%04X", e.Kind, e.Addr)
}

// StackOp names the stack-moving operation that produced a StackBounds
// error.
type StackOp uint8

const (
	StackPush StackOp = iota
	StackPop
	StackCall
	StackRet
	StackReti
)

func (o StackOp) String() string {
	switch o {
	case StackPush:
		return "PUSH"
	case StackPop:
		return "POP"
	case StackCall:
		return "CALL"
	case StackRet:
		return "RET"
	case StackReti:
		return "RETI"
	default:
		return "unknown"
	}
}

// StackBounds reports a PUSH/POP/CALL/RET/RETI that moved SP outside RAM
// or wrapped the address space (spec.md §4.6, §7).
type StackBounds struct {
	SP uint16
	Op StackOp
}

func (e *StackBounds) Error() string {
	return fmt.Sprintf("msp430: %s moved SP out of bounds (SP=0x%04X)", e.Op, e.SP)
}

// InvalidTransition reports an illegal Engine state-machine request. It
// does not transition the engine to Error (spec.md §4.9, §7).
type InvalidTransition struct {
	From, To State
}

func (e *InvalidTransition) Error() string {
	return fmt.Sprintf("msp430: invalid state transition %s -> %s", e.From, e.To)
}

// InvalidArgument reports caller misuse that does not affect engine state:
// a non-positive instruction count or duration, a 20-bit write to R2, or
// a write to a constant-generator operand (spec.md §7). Register indexes
// are not range-checked.
type InvalidArgument struct {
	Detail string
}

func (e *InvalidArgument) Error() string {
	return "msp430: invalid argument: " + e.Detail
}
