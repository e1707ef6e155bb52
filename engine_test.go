package msp430

import "testing"

// assembleScenario writes a short MOV/ADD/PUSH/POP program into FRAM and
// installs a reset vector pointing at its first word, the way a loader
// would stage a firmware image before handing control to the engine.
func assembleScenario(t *testing.T) *Engine {
	t.Helper()
	mem := NewMemoryMap()
	mem.LoadBytes(ResetVectorAddr, []byte{0x00, 0x80}) // little-endian 0x8000

	program := []uint16{
		0x4034, 0x7FFF, // MOV #0x7FFF, R4
		0x4035, 0x0001, // MOV #0x0001, R5
		0x5405, // ADD R4, R5
		0x1205, // PUSH R5
		0x4136, // POP R6 (MOV @SP+, R6)
	}
	addr := uint16(0x8000)
	for _, w := range program {
		mem.LoadBytes(addr, []byte{byte(w), byte(w >> 8)})
		addr += 2
	}

	rf := NewRegisterFile(false)
	e := NewEngine(rf, mem, nil)
	if err := e.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := e.RF.GetPC(); got != 0x8000 {
		t.Fatalf("PC after Reset = 0x%04X, want 0x8000", got)
	}
	e.RF.SetSP(0x2400) // reset leaves SP at 0; stage it inside RAM for PUSH/POP
	return e
}

func TestEngineRunsMovAndAddWithOverflowFlags(t *testing.T) {
	e := assembleScenario(t)

	if err := e.RunInstructions(3); err != nil {
		t.Fatalf("RunInstructions(3): %v", err)
	}
	if got := e.RF.Read(Register(4)); got != 0x7FFF {
		t.Errorf("R4 = 0x%04X, want 0x7FFF", got)
	}
	if got := e.RF.Read(Register(5)); got != 0x8000 {
		t.Errorf("R5 = 0x%04X, want 0x8000 (0x7FFF + 1)", got)
	}
	sr := e.RF.Status()
	if sr.Flag(flagZ) {
		t.Errorf("Z set, want clear")
	}
	if !sr.Flag(flagN) {
		t.Errorf("N clear, want set (result 0x8000 is negative)")
	}
	if sr.Flag(flagC) {
		t.Errorf("C set, want clear (no carry out of bit 15)")
	}
	if !sr.Flag(flagV) {
		t.Errorf("V clear, want set (positive + positive = negative)")
	}
	if e.State() != StateStopped {
		t.Errorf("State() = %v, want Stopped", e.State())
	}
}

func TestEnginePushPopRoundTrip(t *testing.T) {
	e := assembleScenario(t)

	if err := e.RunInstructions(5); err != nil {
		t.Fatalf("RunInstructions(5): %v", err)
	}
	if got := e.RF.Read(Register(6)); got != 0x8000 {
		t.Errorf("R6 after PUSH R5; POP R6 = 0x%04X, want 0x8000", got)
	}
	if got := e.RF.GetSP(); got != 0x2400 {
		t.Errorf("SP after balanced PUSH/POP = 0x%04X, want 0x2400", got)
	}
	if got := e.Stats().InstructionsExecuted; got != 5 {
		t.Errorf("InstructionsExecuted = %d, want 5", got)
	}
}

func TestEngineStatisticsDerivedAccessors(t *testing.T) {
	e := assembleScenario(t)
	if err := e.RunInstructions(5); err != nil {
		t.Fatalf("RunInstructions(5): %v", err)
	}

	stats := e.Stats()
	if stats.ElapsedActive <= 0 {
		t.Fatalf("ElapsedActive = %v, want a positive duration after executing instructions", stats.ElapsedActive)
	}
	if got := stats.CyclesPerInstruction(); got != float64(stats.CyclesExecuted)/float64(stats.InstructionsExecuted) {
		t.Errorf("CyclesPerInstruction() = %v, want %v", got, float64(stats.CyclesExecuted)/float64(stats.InstructionsExecuted))
	}
	if stats.InstructionsPerSecond() <= 0 {
		t.Errorf("InstructionsPerSecond() = %v, want > 0 once ElapsedActive has accumulated", stats.InstructionsPerSecond())
	}
	if stats.CyclesPerSecond() <= 0 {
		t.Errorf("CyclesPerSecond() = %v, want > 0 once ElapsedActive has accumulated", stats.CyclesPerSecond())
	}

	var zero Statistics
	if got := zero.InstructionsPerSecond(); got != 0 {
		t.Errorf("InstructionsPerSecond() on zero-value Statistics = %v, want 0", got)
	}
	if got := zero.CyclesPerInstruction(); got != 0 {
		t.Errorf("CyclesPerInstruction() on zero-value Statistics = %v, want 0", got)
	}
}

func TestEngineBreakpointStopsBeforeExecutingAndSuppressesInstructionEvent(t *testing.T) {
	e := assembleScenario(t)
	e.Breakpoints().Add(0x8008) // the ADD instruction's address

	var hitPC uint16
	hitCount := 0
	executedPCs := []uint16{}
	e.Events.OnBreakpointHit = func(pc uint16) { hitPC = pc; hitCount++ }
	e.Events.OnInstructionExecuted = func(pc uint16, word uint16, cycles int) {
		executedPCs = append(executedPCs, pc)
	}

	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if hitCount != 1 {
		t.Fatalf("OnBreakpointHit fired %d times, want 1", hitCount)
	}
	if hitPC != 0x8008 {
		t.Errorf("breakpoint hit PC = 0x%04X, want 0x8008", hitPC)
	}
	if len(executedPCs) != 2 {
		t.Fatalf("instructions executed before the breakpoint = %d, want 2", len(executedPCs))
	}
	for _, pc := range executedPCs {
		if pc == 0x8008 {
			t.Errorf("OnInstructionExecuted fired for the breakpoint PC 0x8008, it should not have executed")
		}
	}
	if e.RF.GetPC() != 0x8008 {
		t.Errorf("PC = 0x%04X, want 0x8008 (stopped before the breakpointed fetch)", e.RF.GetPC())
	}
	if e.State() != StateStopped {
		t.Errorf("State() = %v, want Stopped", e.State())
	}

	// Clearing the breakpoint and resuming should complete the remaining
	// instructions.
	e.Breakpoints().Remove(0x8008)
	if err := e.RunInstructions(3); err != nil {
		t.Fatalf("RunInstructions(3): %v", err)
	}
	if got := e.RF.Read(Register(6)); got != 0x8000 {
		t.Errorf("R6 after resuming = 0x%04X, want 0x8000", got)
	}
}

func TestEngineResetVectorReadFailureLeavesPCAtZero(t *testing.T) {
	mem := NewMemoryMap(Region{RAMStart, RAMEnd, PermRead | PermWrite | PermExecute, "ram"})
	rf := NewRegisterFile(false)
	e := NewEngine(rf, mem, nil)

	if err := e.Reset(); err != nil {
		t.Fatalf("Reset should not fail even when the vector read fails: %v", err)
	}
	if got := e.RF.GetPC(); got != 0 {
		t.Errorf("PC after failed vector read = 0x%04X, want 0", got)
	}
}

func TestEngineSingleStep(t *testing.T) {
	e := assembleScenario(t)

	cycles, err := e.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 2 { // Immediate -> Register
		t.Errorf("Step() cycles = %d, want 2", cycles)
	}
	if e.State() != StateSingleStep {
		t.Errorf("State() = %v, want SingleStep", e.State())
	}
	if got := e.RF.Read(Register(4)); got != 0x7FFF {
		t.Errorf("R4 after first Step = 0x%04X, want 0x7FFF", got)
	}
}

func TestEngineInvalidTransitionFromHaltedToRunning(t *testing.T) {
	e := assembleScenario(t)
	// Halted is only reachable from Running or SingleStep.
	if _, err := e.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if err := e.Halt(); err != nil {
		t.Fatalf("Halt: %v", err)
	}
	if e.State() != StateHalted {
		t.Fatalf("State() = %v, want Halted", e.State())
	}
	if err := e.transition(StateRunning); err == nil {
		t.Errorf("expected Halted -> Running to be rejected")
	}
}
