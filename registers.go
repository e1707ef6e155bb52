package msp430

// Register identifies one of the 16 logical MSP430 registers.
type Register uint8

// Architecturally overloaded registers (spec.md §3 "Register").
const (
	PC Register = 0 // Program counter
	SP Register = 1 // Stack pointer
	SR Register = 2 // Status register / constant generator 1 (CG1)
	CG Register = 3 // Constant generator 2 (CG2)
)

// RegisterFile holds the 16 logical MSP430 registers plus the status
// register they share with R2 (spec.md §4.2).
//
// General registers are stored as 32-bit words so that an implementation
// enabling the optional MSP430X 20-bit extension (see extended below) has
// somewhere to keep the extra bits; in 16-bit mode the top 16 bits are
// always kept clear by Write/WriteByte.
type RegisterFile struct {
	general  [16]uint32
	sr       StatusRegister
	extended bool // MSP430X 20-bit register storage, off by default
}

// NewRegisterFile returns a register file reset to its power-on state.
// Pass extended=true to enable 20-bit register storage (spec.md §4.2's
// optional MSP430X extension, §9 Open Question); the address space
// itself remains 16-bit regardless.
func NewRegisterFile(extended bool) *RegisterFile {
	rf := &RegisterFile{extended: extended}
	rf.Reset()
	return rf
}

// Status returns the register file's status-register view, aliasing R2.
func (rf *RegisterFile) Status() *StatusRegister { return &rf.sr }

func (rf *RegisterFile) regWidthMask() uint32 {
	if rf.extended {
		return 0xFFFFF
	}
	return 0xFFFF
}

// Read returns the stored value of reg, masked to 16 bits. R2 returns the
// live status-register word rather than a shadow copy (spec.md §4.2).
func (rf *RegisterFile) Read(reg Register) uint16 {
	if reg == SR {
		return rf.sr.Word()
	}
	return uint16(rf.general[reg])
}

// Read20 returns the stored 20-bit value of reg (MSP430X extension). R2 is
// not a valid argument: the status register is always 16 bits.
func (rf *RegisterFile) Read20(reg Register) (uint32, error) {
	if reg == SR {
		return 0, &InvalidArgument{Detail: "R2/SR has no 20-bit value"}
	}
	return rf.general[reg] & rf.regWidthMask(), nil
}

// Write stores value into reg, applying register-specific normalization:
// PC and SP clear bit 0 (word alignment), R2 updates the status register,
// other registers store the 16-bit value verbatim (spec.md §4.2).
func (rf *RegisterFile) Write(reg Register, value uint16) {
	switch reg {
	case PC, SP:
		rf.general[reg] = uint32(value &^ 1)
	case SR:
		rf.sr.SetWord(value)
	default:
		rf.general[reg] = uint32(value)
	}
}

// Write20 stores a 20-bit value into reg (MSP430X extension), masked to
// the register width (16 bits when the file is not extended). The 16-bit
// Write is the entry point that clears bits [19:16]. PC/SP remain
// word-aligned. R2 is rejected (spec.md §4.2 last paragraph).
func (rf *RegisterFile) Write20(reg Register, value uint32) error {
	if reg == SR {
		return &InvalidArgument{Detail: "20-bit write to R2/SR is rejected"}
	}
	value &= rf.regWidthMask()
	if reg == PC || reg == SP {
		value &^= 1
	}
	rf.general[reg] = value
	return nil
}

// ReadByte returns the low 8 bits of reg.
func (rf *RegisterFile) ReadByte(reg Register) uint8 {
	return uint8(rf.Read(reg) & 0xFF)
}

// WriteByte writes the low 8 bits of reg. Byte writes to a general register
// clear the rest of the register (bits [19:8] in extended mode) rather than
// preserving it, matching the architectural rule that a .B-suffixed
// register write zeroes the unused upper bits (spec.md §8 "Boundary
// behaviors"; see DESIGN.md for the resolution of this against §4.2's
// preserve-the-high-byte paraphrase). PC/SP clear to force word alignment.
func (rf *RegisterFile) WriteByte(reg Register, value uint8) {
	switch reg {
	case PC, SP:
		rf.general[reg] = uint32(value) &^ 1
	case SR:
		rf.sr.SetWord(uint16(value))
	default:
		rf.general[reg] = uint32(value)
	}
}

// GetPC returns the program counter.
func (rf *RegisterFile) GetPC() uint16 { return rf.Read(PC) }

// SetPC sets the program counter (forced even).
func (rf *RegisterFile) SetPC(v uint16) { rf.Write(PC, v) }

// IncrementPC advances the program counter by n bytes (2 for one word).
func (rf *RegisterFile) IncrementPC(n uint16) { rf.SetPC(rf.GetPC() + n) }

// GetSP returns the stack pointer.
func (rf *RegisterFile) GetSP() uint16 { return rf.Read(SP) }

// SetSP sets the stack pointer (forced even).
func (rf *RegisterFile) SetSP(v uint16) { rf.Write(SP, v) }

// Reset zeros all registers and the status register (spec.md §4.2).
func (rf *RegisterFile) Reset() {
	rf.general = [16]uint32{}
	rf.sr.Reset()
}

// Snapshot captures the full register file for introspection (spec.md §6).
type RegisterSnapshot struct {
	General [16]uint16
	SR      uint16
}

// Snapshot returns a copy of the current register values.
func (rf *RegisterFile) Snapshot() RegisterSnapshot {
	var snap RegisterSnapshot
	for i := Register(0); i < 16; i++ {
		snap.General[i] = rf.Read(i)
	}
	snap.SR = rf.sr.Word()
	return snap
}

// Restore writes a previously captured snapshot back into the register
// file, e.g. to rewind to a known state in tests.
func (rf *RegisterFile) Restore(snap RegisterSnapshot) {
	for i := Register(0); i < 16; i++ {
		if i == SR {
			continue
		}
		rf.Write(i, snap.General[i])
	}
	rf.sr.SetWord(snap.SR)
}
