package msp430

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// snapshotVersion guards the binary layout written by EngineSnapshot.Marshal, the
// same versioned-header convention the teacher's serialize.go uses for its
// CPU snapshots.
const snapshotVersion uint8 = 1

// EngineSnapshot is the introspectable, serializable state of an Engine
// (spec.md §6): registers, the full 64 KiB memory backing store,
// statistics, the breakpoint set and the engine state. It excludes
// peripheral state: peripheral registers (Timer_A's included) are held by
// the peripherals themselves, not by the memory backing store, so neither
// Snapshot nor Restore captures or restores them.
type EngineSnapshot struct {
	Registers   RegisterSnapshot
	Memory      [65536]byte
	Stats       Statistics
	Breakpoints []uint16
	State       State
}

// Snapshot captures the engine's full state.
func (e *Engine) Snapshot() EngineSnapshot {
	snap := EngineSnapshot{
		Registers:   e.RF.Snapshot(),
		Stats:       e.stats,
		Breakpoints: e.breakpoints.List(),
		State:       e.state,
	}
	snap.Memory = e.Mem.bytes
	return snap
}

// Restore replaces the engine's register, memory and breakpoint state
// with a previously captured snapshot. The resulting state is whatever
// the snapshot recorded, bypassing the normal transition table: Restore
// is a debugging/test facility, not a run-time state change.
func (e *Engine) Restore(snap EngineSnapshot) {
	e.RF.Restore(snap.Registers)
	e.Mem.bytes = snap.Memory
	e.stats = snap.Stats
	e.breakpoints.Clear()
	for _, addr := range snap.Breakpoints {
		e.breakpoints.Add(addr)
	}
	e.state = snap.State
}

// Marshal encodes the snapshot as a versioned binary blob: a one-byte
// version, the register file, the 64 KiB memory image, the statistics
// counters, and the breakpoint list, all little-endian.
func (s EngineSnapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(snapshotVersion)

	if err := binary.Write(&buf, binary.LittleEndian, s.Registers.General); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, s.Registers.SR); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, s.Memory); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, s.Stats); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(s.Breakpoints))); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, s.Breakpoints); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint8(s.State)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalEngineSnapshot decodes a blob written by Marshal.
func UnmarshalEngineSnapshot(data []byte) (EngineSnapshot, error) {
	var s EngineSnapshot
	buf := bytes.NewReader(data)

	version, err := buf.ReadByte()
	if err != nil {
		return s, err
	}
	if version != snapshotVersion {
		return s, fmt.Errorf("msp430: unsupported snapshot version %d", version)
	}

	if err := binary.Read(buf, binary.LittleEndian, &s.Registers.General); err != nil {
		return s, err
	}
	if err := binary.Read(buf, binary.LittleEndian, &s.Registers.SR); err != nil {
		return s, err
	}
	if err := binary.Read(buf, binary.LittleEndian, &s.Memory); err != nil {
		return s, err
	}
	if err := binary.Read(buf, binary.LittleEndian, &s.Stats); err != nil {
		return s, err
	}
	var n uint32
	if err := binary.Read(buf, binary.LittleEndian, &n); err != nil {
		return s, err
	}
	s.Breakpoints = make([]uint16, n)
	if err := binary.Read(buf, binary.LittleEndian, &s.Breakpoints); err != nil {
		return s, err
	}
	var state uint8
	if err := binary.Read(buf, binary.LittleEndian, &state); err != nil {
		return s, err
	}
	s.State = State(state)
	return s, nil
}
