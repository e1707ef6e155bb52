package msp430

import "testing"

func TestRegisterFileWriteReadRoundTrip(t *testing.T) {
	rf := NewRegisterFile(false)
	rf.Write(Register(4), 0x1234)
	if got := rf.Read(Register(4)); got != 0x1234 {
		t.Errorf("Read(R4) = 0x%04X, want 0x1234", got)
	}
}

func TestPCAndSPAlwaysEven(t *testing.T) {
	rf := NewRegisterFile(false)
	rf.SetPC(0x8001)
	if got := rf.GetPC(); got != 0x8000 {
		t.Errorf("SetPC(0x8001) -> GetPC() = 0x%04X, want 0x8000", got)
	}
	rf.SetSP(0x2FFF)
	if got := rf.GetSP(); got != 0x2FFE {
		t.Errorf("SetSP(0x2FFF) -> GetSP() = 0x%04X, want 0x2FFE", got)
	}
}

func TestWriteRoundTripMasksLowBitForPCAndSP(t *testing.T) {
	rf := NewRegisterFile(false)
	rf.Write(PC, 0x8003)
	if got := rf.Read(PC); got != 0x8002 {
		t.Errorf("Write(PC, 0x8003) -> Read(PC) = 0x%04X, want 0x8002", got)
	}
	rf.Write(SP, 0x2FFF)
	if got := rf.Read(SP); got != 0x2FFE {
		t.Errorf("Write(SP, 0x2FFF) -> Read(SP) = 0x%04X, want 0x2FFE", got)
	}
}

func TestIncrementPC(t *testing.T) {
	rf := NewRegisterFile(false)
	rf.SetPC(0x8000)
	rf.IncrementPC(2)
	if got := rf.GetPC(); got != 0x8002 {
		t.Errorf("IncrementPC(2) -> PC = 0x%04X, want 0x8002", got)
	}
}

func TestByteHalfRegisterAccess(t *testing.T) {
	rf := NewRegisterFile(false)
	rf.Write(Register(5), 0xABCD)
	if got := rf.ReadByte(Register(5)); got != 0xCD {
		t.Errorf("ReadByte(R5) = 0x%02X, want 0xCD", got)
	}
}

func TestByteWriteClearsHighHalfOfGeneralRegister(t *testing.T) {
	rf := NewRegisterFile(false)
	rf.Write(Register(6), 0xABCD)
	rf.WriteByte(Register(6), 0xEF)
	if got := rf.Read(Register(6)); got != 0x00EF {
		t.Errorf("after byte write, Read(R6) = 0x%04X, want 0x00EF (high byte cleared)", got)
	}
}

func TestByteWriteToPCForcesWordAlignment(t *testing.T) {
	rf := NewRegisterFile(false)
	rf.WriteByte(PC, 0xFF)
	if got := rf.GetPC(); got != 0x00FE {
		t.Errorf("WriteByte(PC, 0xFF) -> PC = 0x%04X, want 0x00FE", got)
	}
}

func TestR2ReadWriteGoesThroughStatusRegister(t *testing.T) {
	rf := NewRegisterFile(false)
	rf.Write(SR, 0x0003) // C | Z
	if got := rf.Read(SR); got != 0x0003 {
		t.Errorf("Read(SR) = 0x%04X, want 0x0003", got)
	}
	if !rf.Status().Flag(flagC) || !rf.Status().Flag(flagZ) {
		t.Errorf("status register not updated coherently by Write(SR, ...)")
	}
	rf.Status().SetFlag(flagN, true)
	if got := rf.Read(SR); got&flagN == 0 {
		t.Errorf("Read(SR) does not reflect a direct StatusRegister mutation: 0x%04X", got)
	}
}

func TestRegisterFileReset(t *testing.T) {
	rf := NewRegisterFile(false)
	rf.Write(Register(7), 0x55AA)
	rf.Write(SR, 0x00FF)
	rf.Reset()
	if got := rf.Read(Register(7)); got != 0 {
		t.Errorf("Read(R7) after Reset = 0x%04X, want 0", got)
	}
	if got := rf.Read(SR); got != 0 {
		t.Errorf("Read(SR) after Reset = 0x%04X, want 0", got)
	}
}

func TestRegisterFileSnapshotRestore(t *testing.T) {
	rf := NewRegisterFile(false)
	rf.Write(Register(8), 0x4242)
	rf.Write(SR, 0x0001)
	snap := rf.Snapshot()

	rf.Write(Register(8), 0)
	rf.Write(SR, 0)
	rf.Restore(snap)

	if got := rf.Read(Register(8)); got != 0x4242 {
		t.Errorf("Read(R8) after Restore = 0x%04X, want 0x4242", got)
	}
	if got := rf.Read(SR); got != 0x0001 {
		t.Errorf("Read(SR) after Restore = 0x%04X, want 0x0001", got)
	}
}

func TestExtended20BitRegisters(t *testing.T) {
	rf := NewRegisterFile(true)
	if err := rf.Write20(Register(9), 0xABCDE); err != nil {
		t.Fatalf("Write20: %v", err)
	}
	got, err := rf.Read20(Register(9))
	if err != nil {
		t.Fatalf("Read20: %v", err)
	}
	if got != 0xABCDE {
		t.Errorf("Read20(R9) = 0x%05X, want 0xABCDE", got)
	}

	if _, err := rf.Read20(SR); err == nil {
		t.Errorf("Read20(SR) should be rejected")
	}
	if err := rf.Write20(SR, 1); err == nil {
		t.Errorf("Write20(SR, ...) should be rejected")
	}

	if err := rf.Write20(PC, 0xABCDF); err != nil {
		t.Fatalf("Write20(PC): %v", err)
	}
	if got, _ := rf.Read20(PC); got&1 != 0 {
		t.Errorf("Write20(PC, odd) left bit 0 set: 0x%05X", got)
	}
}
