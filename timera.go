package msp430

// TimerMode names one of Timer_A's four counting modes (spec.md §3 "Timer_A
// state").
type TimerMode uint8

const (
	TimerStop TimerMode = iota
	TimerUp
	TimerContinuous
	TimerUpDown
)

// TACTL control-register bit layout (spec.md §4.11; loosely modeled on the
// real MSP430 TACTL register, simplified to the fields the spec names).
const (
	tactlModeShift    = 4
	tactlModeMask     = 0x3 << tactlModeShift
	tactlDividerShift = 6
	tactlDividerMask  = 0x3 << tactlDividerShift
	tactlIE           = 1 << 1
	tactlIFG          = 1 << 0
)

// CCUnitMode selects whether a capture/compare unit is in Capture or
// Compare mode.
type CCUnitMode uint8

const (
	CCModeCompare CCUnitMode = iota
	CCModeCapture
)

// CaptureEdge selects which input transition a unit in Capture mode
// latches on.
type CaptureEdge uint8

const (
	CaptureEdgeNone CaptureEdge = iota
	CaptureEdgeRising
	CaptureEdgeFalling
	CaptureEdgeBoth
)

// CCUnit is one Timer_A capture/compare unit (spec.md §3 "an array of
// three capture/compare units").
type CCUnit struct {
	Value      uint16
	Mode       CCUnitMode
	OutputMode uint8 // 0..7, spec.md §4.11 output-mode state machine
	Output     bool
	IE         bool
	IFG        bool
	Edge       CaptureEdge
	CaptureIn  uint8 // capture-input selector (CCIS), meaning left to the caller
	SCCI       bool
	Overflow   bool

	ctl  *PeripheralRegister
	ccr  *PeripheralRegister
}

// TimerA implements Peripheral and simulates the Timer_A counter, mode
// state machine, and its three capture/compare units (spec.md §4.11),
// the exemplar peripheral integration contract named in spec.md §2.
type TimerA struct {
	*RegisterBank

	base    uint16
	counter uint16
	mode    TimerMode
	countUp bool // Up/Down direction: true while counting 0 -> CCR0
	divider uint16
	phase   uint16 // sub-tick accumulator for the divider

	ie  bool
	ifg bool

	units [3]*CCUnit

	tactl *PeripheralRegister
	tar   *PeripheralRegister
}

// Timer_A register offsets relative to base, spanning TACTL, TAR, and
// three (TACCTLn, TACCRn) pairs.
const (
	offTACTL  = 0x00
	offTAR    = 0x02
	offCCTL0  = 0x04
	offCCR0   = 0x06
	offCCTL1  = 0x08
	offCCR1   = 0x0A
	offCCTL2  = 0x0C
	offCCR2   = 0x0E
)

// NewTimerA builds a Timer_A peripheral occupying eight consecutive
// registers starting at base.
func NewTimerA(base uint16) *TimerA {
	t := &TimerA{base: base, divider: 1}

	t.tactl = &PeripheralRegister{Addr: base + offTACTL, WriteMask: 0xFFFF, ReadMask: 0xFFFF, Access: AccessReadWrite}
	t.tactl.OnWrite = t.onTACTLWrite
	t.tar = &PeripheralRegister{Addr: base + offTAR, WriteMask: 0xFFFF, ReadMask: 0xFFFF, Access: AccessReadWrite}
	t.tar.OnWrite = func(_, new uint16) { t.counter = new }

	regs := []*PeripheralRegister{t.tactl, t.tar}
	offsets := [3][2]uint16{{offCCTL0, offCCR0}, {offCCTL1, offCCR1}, {offCCTL2, offCCR2}}
	for i := range t.units {
		idx := i
		ctl := &PeripheralRegister{Addr: base + offsets[i][0], WriteMask: 0xFFFF, ReadMask: 0xFFFF, Access: AccessReadWrite}
		ccr := &PeripheralRegister{Addr: base + offsets[i][1], WriteMask: 0xFFFF, ReadMask: 0xFFFF, Access: AccessReadWrite}
		u := &CCUnit{ctl: ctl, ccr: ccr}
		ctl.OnWrite = func(_, new uint16) { t.onCCTLWrite(idx, new) }
		ccr.OnWrite = func(_, new uint16) { t.units[idx].Value = new }
		t.units[i] = u
		regs = append(regs, ctl, ccr)
	}
	t.RegisterBank = NewRegisterBank(regs...)
	return t
}

func (t *TimerA) onTACTLWrite(_, new uint16) {
	t.mode = TimerMode((new & tactlModeMask) >> tactlModeShift)
	div := (new & tactlDividerMask) >> tactlDividerShift
	t.divider = 1 << div
	t.ie = new&tactlIE != 0
	if new&tactlIFG == 0 {
		t.ifg = false
	}
}

func (t *TimerA) onCCTLWrite(idx int, new uint16) {
	u := t.units[idx]
	u.Mode = CCUnitMode((new >> 8) & 1)
	u.OutputMode = uint8((new >> 5) & 0x7)
	u.Edge = CaptureEdge((new >> 14) & 0x3)
	u.CaptureIn = uint8((new >> 12) & 0x3)
	u.IE = new&(1<<4) != 0
	if new&(1<<0) == 0 {
		u.IFG = false
	}
}

// ccr0 returns unit 0's compare value, the counter's top for Up and
// Up/Down modes.
func (t *TimerA) ccr0() uint16 { return t.units[0].Value }

// Tick advances the timer by cycles CPU clock ticks, applying the
// configured input divider and the mode-specific counting rule (spec.md
// §4.11).
func (t *TimerA) Tick(cycles int) {
	if t.mode == TimerStop {
		return
	}
	for c := 0; c < cycles; c++ {
		t.phase++
		if t.phase < t.divider {
			continue
		}
		t.phase = 0
		t.tickOnce()
	}
	t.tar.Set(t.counter)
}

func (t *TimerA) tickOnce() {
	switch t.mode {
	case TimerContinuous:
		t.counter++
		if t.counter == 0 {
			t.overflow()
		}
		t.evaluateCompareUnits()

	case TimerUp:
		top := t.ccr0()
		switch {
		case top == 0:
			// No distinguished top: behaves like Continuous, wrapping at
			// 0xFFFF on the tick the counter becomes 0.
			t.counter++
			if t.counter == 0 {
				t.overflow()
			}
		case t.counter == top:
			// The tick the counter reached CCR0 already raised EQU0 (see
			// below); this tick is the plain reset to 0, with no event of
			// its own (spec.md §4.11, §8 scenario 7: tick3 counter=3
			// raises EQU0, tick4 counter=0 raises nothing).
			t.counter = 0
		default:
			t.counter++
			if t.counter == top {
				t.overflow()
			}
		}
		t.evaluateCompareUnits()

	case TimerUpDown:
		top := t.ccr0()
		if t.countUp {
			t.counter++
			if t.counter >= top {
				t.counter = top
				t.countUp = false
				t.overflow() // endpoint reversal at CCR0 is the rollover event
			}
		} else {
			if t.counter == 0 {
				t.countUp = true
				t.counter++
			} else {
				t.counter--
			}
		}
		t.evaluateCompareUnits()
	}
}

// overflow raises the timer's own interrupt flag and, per spec.md §4.11,
// raises EQU0 for unit 0 and feeds it to every unit's output state
// machine (not just unit 0's).
func (t *TimerA) overflow() {
	t.ifg = true
	t.units[0].IFG = true
	for i := range t.units {
		t.applyOutputEvent(i, false, true)
	}
}

// evaluateCompareUnits fires EQUn for every Compare-mode unit whose value
// matches the counter (spec.md §4.11).
func (t *TimerA) evaluateCompareUnits() {
	for i, u := range t.units {
		if u.Mode != CCModeCompare {
			continue
		}
		if u.Value == t.counter {
			u.IFG = true
			u.SCCI = u.Output
			t.applyOutputEvent(i, true, false)
		}
	}
}

// applyOutputEvent runs the 8-mode output state machine (spec.md §4.11
// table) for unit i given which of EQUn/EQU0 just fired.
func (t *TimerA) applyOutputEvent(i int, equn, equ0 bool) {
	u := t.units[i]
	switch u.OutputMode {
	case 0: // OUT bit, no automatic transition
	case 1: // Set
		if equn {
			u.Output = true
		}
		if equ0 {
			u.Output = false
		}
	case 2: // Toggle/Reset
		if equn {
			u.Output = !u.Output
		}
		if equ0 {
			u.Output = false
		}
	case 3: // Set/Reset
		if equn {
			u.Output = true
		}
		if equ0 {
			u.Output = false
		}
	case 4: // Toggle
		if equn {
			u.Output = !u.Output
		}
	case 5: // Reset
		if equn {
			u.Output = false
		}
		if equ0 {
			u.Output = true
		}
	case 6: // Toggle/Set
		if equn {
			u.Output = !u.Output
		}
		if equ0 {
			u.Output = true
		}
	case 7: // Reset/Set
		if equn {
			u.Output = false
		}
		if equ0 {
			u.Output = true
		}
	}
}

// CaptureInput feeds an input-edge event into unit i's capture logic
// (spec.md §4.11 "Capture events"), to be called by whatever drives the
// timer's external capture inputs.
func (t *TimerA) CaptureInput(i int, rising bool) {
	u := t.units[i]
	if u.Mode != CCModeCapture {
		return
	}
	matches := (u.Edge == CaptureEdgeRising && rising) ||
		(u.Edge == CaptureEdgeFalling && !rising) ||
		(u.Edge == CaptureEdgeBoth)
	if !matches {
		return
	}
	if u.IFG {
		u.Overflow = true
	}
	u.Value = t.counter
	u.ccr.Set(t.counter)
	u.IFG = true
}

// Mode returns the timer's current counting mode, for introspection.
func (t *TimerA) Mode() TimerMode { return t.mode }

// Counter returns the current counter value.
func (t *TimerA) Counter() uint16 { return t.counter }

// Unit returns capture/compare unit i (0, 1 or 2).
func (t *TimerA) Unit(i int) *CCUnit { return t.units[i] }
