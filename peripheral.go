package msp430

// RegisterAccess constrains how a peripheral register responds to CPU
// reads and writes (spec.md §4.10, §4.11).
type RegisterAccess uint8

const (
	AccessReadWrite RegisterAccess = iota
	AccessReadOnly
	AccessWriteOnly
)

// PeripheralRegister is one memory-mapped register inside a peripheral: a
// value plus the read/write masks spec.md §4.10 requires ("each register
// declares which bits are writable by software and which are
// hardware-only"). Unwritable bits are preserved across a CPU write
// instead of being silently cleared.
type PeripheralRegister struct {
	Addr      uint16
	value     uint16
	WriteMask uint16 // bits software may modify
	ReadMask  uint16 // bits visible to a CPU read; the rest read as zero
	Access    RegisterAccess
	OnWrite   func(old, new uint16)
}

// Read returns the register's read-masked current value (spec.md §4.11:
// "read accesses return the register's read-masked current value"), or a
// MemoryAccess error if the register is write-only.
func (r *PeripheralRegister) Read() (uint16, error) {
	if r.Access == AccessWriteOnly {
		return 0, &MemoryAccess{Addr: r.Addr, Kind: AccessRead}
	}
	return r.value & r.ReadMask, nil
}

// Write applies a CPU write, merging only the bits WriteMask allows and
// preserving the hardware-owned remainder, then invokes OnWrite (if set)
// with the before/after values so the owning peripheral can react.
func (r *PeripheralRegister) Write(v uint16) error {
	if r.Access == AccessReadOnly {
		return &MemoryAccess{Addr: r.Addr, Kind: AccessWrite}
	}
	old := r.value
	r.value = (old &^ r.WriteMask) | (v & r.WriteMask)
	if r.OnWrite != nil {
		r.OnWrite(old, r.value)
	}
	return nil
}

// Set overwrites the register's value directly, bypassing the write mask,
// for hardware-side updates (e.g. a counter incrementing, or a capture
// latch).
func (r *PeripheralRegister) Set(v uint16) { r.value = v }

// Get returns the raw current value without the write-only access check,
// for hardware-side reads.
func (r *PeripheralRegister) Get() uint16 { return r.value }

// RegisterBank is a small helper for composing a Peripheral out of a
// fixed set of PeripheralRegisters keyed by address, the same shape
// KTStephano-GVM's device register tables use for memory-mapped I/O.
type RegisterBank struct {
	regs map[uint16]*PeripheralRegister
}

// NewRegisterBank builds a bank from the given registers, keyed by their
// own Addr field.
func NewRegisterBank(regs ...*PeripheralRegister) *RegisterBank {
	b := &RegisterBank{regs: make(map[uint16]*PeripheralRegister, len(regs))}
	for _, r := range regs {
		b.regs[r.Addr] = r
	}
	return b
}

// Addresses implements Peripheral.
func (b *RegisterBank) Addresses() []uint16 {
	addrs := make([]uint16, 0, len(b.regs))
	for addr := range b.regs {
		addrs = append(addrs, addr)
	}
	return addrs
}

// ReadRegister implements Peripheral.
func (b *RegisterBank) ReadRegister(addr uint16) (uint16, error) {
	r, ok := b.regs[addr]
	if !ok {
		return 0, &MemoryAccess{Addr: addr, Kind: AccessRead}
	}
	return r.Read()
}

// WriteRegister implements Peripheral.
func (b *RegisterBank) WriteRegister(addr uint16, value uint16) error {
	r, ok := b.regs[addr]
	if !ok {
		return &MemoryAccess{Addr: addr, Kind: AccessWrite}
	}
	return r.Write(value)
}

// At returns the register at addr for peripheral-internal use, or nil.
func (b *RegisterBank) At(addr uint16) *PeripheralRegister { return b.regs[addr] }
