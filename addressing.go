package msp430

// AddressingMode names one of the seven MSP430 addressing modes (spec.md
// §3). Register, Indexed, Indirect and IndirectAutoIncrement are the raw
// 2-bit selector values; Immediate, Absolute and Symbolic are the named
// special cases produced when the selector is combined with PC/SR/CG
// (spec.md §3, confirmed against the worked MOV #imm example in §8
// scenario 1, which decodes as source register R0 with selector 11 —
// i.e. IndirectAutoIncrement on PC — rather than the Indexed selector the
// prose paraphrase suggests; the worked example is treated as
// authoritative over the paraphrase, see DESIGN.md).
type AddressingMode uint8

const (
	ModeRegister AddressingMode = iota
	ModeIndexed
	ModeIndirect
	ModeIndirectAutoIncrement
	ModeImmediate
	ModeAbsolute
	ModeSymbolic
)

func (m AddressingMode) String() string {
	switch m {
	case ModeRegister:
		return "Rn"
	case ModeIndexed:
		return "x(Rn)"
	case ModeIndirect:
		return "@Rn"
	case ModeIndirectAutoIncrement:
		return "@Rn+"
	case ModeImmediate:
		return "#N"
	case ModeAbsolute:
		return "&addr"
	case ModeSymbolic:
		return "x(PC)"
	default:
		return "?"
	}
}

// classifyMode maps a raw 2-bit selector plus the register it applies to
// onto the named addressing mode. The classification is the same for a
// source or a destination field: Symbolic/Absolute are addressing-mode
// special cases of R0/R2, not source-only behavior (only the R2
// "constant +4/+8" and R3 "constant 0/1/2/-1" generator values, applied
// in ResolveSource below, are source-only).
func classifyMode(bits uint8, reg Register) AddressingMode {
	switch bits & 3 {
	case 0:
		return ModeRegister
	case 1:
		switch reg {
		case PC:
			return ModeSymbolic
		case SR:
			return ModeAbsolute
		default:
			return ModeIndexed
		}
	case 2:
		return ModeIndirect
	default: // 3
		if reg == PC {
			return ModeImmediate
		}
		return ModeIndirectAutoIncrement
	}
}

// ExtensionWords returns how many 16-bit extension words a (mode, reg)
// operand consumes (spec.md §4.5), accounting for the constant-generator
// cases that consume none even though their raw selector bits normally
// would (spec.md §4.2).
func ExtensionWords(bits uint8, reg Register, isSource bool) int {
	mode := classifyMode(bits, reg)
	if isSource && reg == CG {
		return 0 // R3 constant generator: never touches memory or PC
	}
	if isSource && reg == SR && (mode == ModeIndirect || mode == ModeIndirectAutoIncrement) {
		return 0 // R2 constant generator: +4 / +8, never touches memory
	}
	switch mode {
	case ModeIndexed, ModeAbsolute, ModeSymbolic, ModeImmediate:
		return 1
	default:
		return 0
	}
}

// operandKind distinguishes how an Operand's value is produced and
// whether it can be written back to.
type operandKind uint8

const (
	operandRegisterKind operandKind = iota
	operandMemoryKind
	operandConstantKind
)

// Operand is a resolved effective address: enough information to read (and,
// unless it is a constant, write) the operand's value. It corresponds to
// the teacher's ea struct in ea.go, generalized from four EA categories to
// the seven named MSP430 modes.
type Operand struct {
	kind     operandKind
	reg      Register
	addr     uint16
	constant uint16
}

// Read returns the operand's current value, masked to 8 bits for byte
// operations.
func (o Operand) Read(rf *RegisterFile, mem *MemoryMap, isByte bool) (uint16, error) {
	switch o.kind {
	case operandConstantKind:
		return maskWidth(o.constant, isByte), nil
	case operandRegisterKind:
		if isByte {
			return uint16(rf.ReadByte(o.reg)), nil
		}
		return rf.Read(o.reg), nil
	default: // operandMemoryKind
		if isByte {
			v, err := mem.ReadByte(o.addr)
			return uint16(v), err
		}
		return mem.ReadWord(o.addr)
	}
}

// Write stores value into the operand. Writing a constant-generator
// operand is a decoder/executor bug, not a runtime condition reachable
// from a valid instruction stream (constants only ever arise from
// ResolveSource), so it is reported as InvalidArgument rather than as an
// instruction or memory error.
func (o Operand) Write(rf *RegisterFile, mem *MemoryMap, isByte bool, value uint16) error {
	switch o.kind {
	case operandConstantKind:
		return &InvalidArgument{Detail: "cannot write to a constant-generator operand"}
	case operandRegisterKind:
		if isByte {
			rf.WriteByte(o.reg, uint8(value))
		} else {
			rf.Write(o.reg, value)
		}
		return nil
	default: // operandMemoryKind
		if isByte {
			return mem.WriteByte(o.addr, uint8(value))
		}
		return mem.WriteWord(o.addr, value)
	}
}

func maskWidth(v uint16, isByte bool) uint16 {
	if isByte {
		return v & 0xFF
	}
	return v
}

func autoIncrement(reg Register, isByte bool) uint16 {
	if reg == PC || reg == SP {
		return 2 // PC and SP always stay word-aligned
	}
	if isByte {
		return 1
	}
	return 2
}

// ResolveSource resolves and, where the mode requires it, performs the
// side effects (extension-word fetch advancing PC, auto-increment) of a
// source operand. Constant-generator overrides for R2 and R3 are applied
// here (spec.md §4.2): they are a property of reading a register as a
// source operand, not of the register file itself.
func ResolveSource(rf *RegisterFile, mem *MemoryMap, reg Register, bits uint8, isByte bool) (Operand, error) {
	mode := classifyMode(bits, reg)

	if reg == CG {
		switch mode {
		case ModeRegister:
			return Operand{kind: operandConstantKind, constant: 0}, nil
		case ModeIndexed:
			return Operand{kind: operandConstantKind, constant: 1}, nil
		case ModeIndirect:
			return Operand{kind: operandConstantKind, constant: 2}, nil
		default: // IndirectAutoIncrement selector -> constant -1
			return Operand{kind: operandConstantKind, constant: 0xFFFF}, nil
		}
	}

	if reg == SR {
		switch mode {
		case ModeRegister:
			return Operand{kind: operandRegisterKind, reg: SR}, nil
		case ModeAbsolute:
			ext, err := fetchExtensionWord(rf, mem)
			if err != nil {
				return Operand{}, err
			}
			return Operand{kind: operandMemoryKind, addr: ext}, nil
		case ModeIndirect:
			return Operand{kind: operandConstantKind, constant: 4}, nil
		default: // IndirectAutoIncrement selector -> constant +8
			return Operand{kind: operandConstantKind, constant: 8}, nil
		}
	}

	return resolveGeneral(rf, mem, reg, mode, isByte)
}

// ResolveDestination resolves a write-target operand. Destination fields
// are only ever Register or the Indexed-family modes (Symbolic/Absolute/
// Indexed): the 1-bit Ad selector has no encoding for Indirect,
// IndirectAutoIncrement or Immediate, so "Immediate destinations are
// illegal" (spec.md §4.5) holds structurally rather than needing a
// runtime check. R2/R3 are not constant-generated as destinations: the
// generator only intercepts reads (spec.md §4.2).
func ResolveDestination(rf *RegisterFile, mem *MemoryMap, reg Register, bits uint8, isByte bool) (Operand, error) {
	mode := classifyMode(bits, reg)
	switch mode {
	case ModeRegister:
		return Operand{kind: operandRegisterKind, reg: reg}, nil
	case ModeAbsolute:
		ext, err := fetchExtensionWord(rf, mem)
		if err != nil {
			return Operand{}, err
		}
		return Operand{kind: operandMemoryKind, addr: ext}, nil
	case ModeSymbolic:
		ext, err := fetchExtensionWord(rf, mem)
		if err != nil {
			return Operand{}, err
		}
		// See resolveGeneral's ModeSymbolic case: base is PC_after_instruction,
		// not the extension word's own address.
		return Operand{kind: operandMemoryKind, addr: rf.GetPC() + ext}, nil
	case ModeIndexed:
		ext, err := fetchExtensionWord(rf, mem)
		if err != nil {
			return Operand{}, err
		}
		return Operand{kind: operandMemoryKind, addr: rf.Read(reg) + ext}, nil
	default:
		return Operand{}, &InvalidInstruction{}
	}
}

// resolveGeneral resolves the four non-constant-generator addressing
// modes shared by every register, including PC (whose Indexed and
// IndirectAutoIncrement cases become Symbolic and Immediate).
func resolveGeneral(rf *RegisterFile, mem *MemoryMap, reg Register, mode AddressingMode, isByte bool) (Operand, error) {
	switch mode {
	case ModeRegister:
		return Operand{kind: operandRegisterKind, reg: reg}, nil

	case ModeSymbolic:
		ext, err := fetchExtensionWord(rf, mem)
		if err != nil {
			return Operand{}, err
		}
		// rf.GetPC() here is already past the extension word (fetchExtensionWord
		// advanced it), so this is PC_after_instruction + ext per spec.md §4.5's
		// literal wording, not real MSP430 silicon's PC-of-the-extension-word + ext
		// (which would read two bytes earlier). For a Format I source followed
		// by a destination extension word, TwoOperandInstruction.Execute adds
		// the remaining 2.
		return Operand{kind: operandMemoryKind, addr: rf.GetPC() + ext}, nil

	case ModeIndexed:
		ext, err := fetchExtensionWord(rf, mem)
		if err != nil {
			return Operand{}, err
		}
		return Operand{kind: operandMemoryKind, addr: rf.Read(reg) + ext}, nil

	case ModeIndirect:
		return Operand{kind: operandMemoryKind, addr: rf.Read(reg)}, nil

	case ModeImmediate:
		ext, err := fetchExtensionWord(rf, mem)
		if err != nil {
			return Operand{}, err
		}
		return Operand{kind: operandConstantKind, constant: ext}, nil

	default: // ModeIndirectAutoIncrement
		addr := rf.Read(reg)
		rf.Write(reg, addr+autoIncrement(reg, isByte))
		return Operand{kind: operandMemoryKind, addr: addr}, nil
	}
}

// fetchExtensionWord reads the word at PC and advances PC by 2, exactly
// as the teacher's fetchPC advances the 68000's program counter while
// consuming an instruction stream word.
func fetchExtensionWord(rf *RegisterFile, mem *MemoryMap) (uint16, error) {
	pc := rf.GetPC()
	word, err := mem.FetchExecutable(pc)
	if err != nil {
		return 0, err
	}
	rf.IncrementPC(2)
	return word, nil
}
