package msp430

import (
	"sync/atomic"
	"time"
)

// Statistics accumulates execution counters across the engine's lifetime
// (spec.md §4.10 "reset statistics", §6). ElapsedActive is the wall-clock
// time actually spent inside executeOne, accumulated the way the
// IntuitionEngine M68K core's perfStartTime/now.Sub MIPS counter measures
// throughput, rather than wall time since Reset (which would include
// idle time between Step calls).
type Statistics struct {
	InstructionsExecuted uint64
	CyclesExecuted       uint64
	ElapsedActive        time.Duration
}

// InstructionsPerSecond derives throughput from ElapsedActive (spec.md §6).
// Returns 0 before any active time has accumulated.
func (s Statistics) InstructionsPerSecond() float64 {
	secs := s.ElapsedActive.Seconds()
	if secs == 0 {
		return 0
	}
	return float64(s.InstructionsExecuted) / secs
}

// CyclesPerSecond derives simulated clock throughput from ElapsedActive
// (spec.md §6). Returns 0 before any active time has accumulated.
func (s Statistics) CyclesPerSecond() float64 {
	secs := s.ElapsedActive.Seconds()
	if secs == 0 {
		return 0
	}
	return float64(s.CyclesExecuted) / secs
}

// CyclesPerInstruction derives average instruction cost (spec.md §6).
// Returns 0 before any instruction has executed.
func (s Statistics) CyclesPerInstruction() float64 {
	if s.InstructionsExecuted == 0 {
		return 0
	}
	return float64(s.CyclesExecuted) / float64(s.InstructionsExecuted)
}

// EngineEvents holds the synchronous observer callbacks the engine emits
// (spec.md §4.10 "Events emitted (observer pattern, synchronous)"). Any
// callback left nil is simply not invoked.
type EngineEvents struct {
	OnStateChanged        func(previous, current State)
	OnBreakpointHit       func(pc uint16)
	OnInstructionExecuted func(pc uint16, word uint16, cycles int)
}

// Engine drives the fetch-decode-execute loop over a register file and
// memory map: the execution-control facade named in spec.md §2 (stepping,
// continuous run, breakpoints, statistics).
type Engine struct {
	RF     *RegisterFile
	Mem    *MemoryMap
	Log    Logger
	Events EngineEvents

	state       State
	breakpoints *Breakpoints
	stats       Statistics

	stopRequested atomic.Bool
}

// NewEngine builds an engine in state Reset over the given register file
// and memory map (spec.md §4.10 "Initialization"). A nil logger installs
// NopLogger.
func NewEngine(rf *RegisterFile, mem *MemoryMap, log Logger) *Engine {
	if log == nil {
		log = NopLogger{}
	}
	return &Engine{
		RF:          rf,
		Mem:         mem,
		Log:         log,
		state:       StateReset,
		breakpoints: NewBreakpoints(),
	}
}

// State returns the engine's current state.
func (e *Engine) State() State { return e.state }

// Stats returns a copy of the current statistics.
func (e *Engine) Stats() Statistics { return e.stats }

// Breakpoints returns the engine's breakpoint set.
func (e *Engine) Breakpoints() *Breakpoints { return e.breakpoints }

func (e *Engine) transition(to State) error {
	if !canTransition(e.state, to) {
		return &InvalidTransition{From: e.state, To: to}
	}
	previous := e.state
	e.state = to
	if e.Events.OnStateChanged != nil {
		e.Events.OnStateChanged(previous, to)
	}
	return nil
}

// Reset reinitializes the register file, clears statistics, loads PC from
// the reset vector, and clears RAM while preserving vectors and FRAM
// (spec.md §4.10 "reset()").
func (e *Engine) Reset() error {
	e.RF.Reset()
	e.stats = Statistics{}

	vector, err := e.Mem.ReadWord(ResetVectorAddr)
	if err != nil {
		e.Log.Warn("reset vector read failed, leaving PC at 0", F("error", err.Error()))
	} else {
		e.RF.SetPC(vector)
	}

	e.Mem.ClearRegion(RAMStart, RAMEnd)

	return e.transition(StateReset)
}

// Step executes exactly one instruction, transitioning to SingleStep
// first if the engine isn't already there (spec.md §4.10 "step()").
func (e *Engine) Step() (int, error) {
	if e.state != StateSingleStep {
		if err := e.transition(StateSingleStep); err != nil {
			return 0, err
		}
	}
	return e.executeOne()
}

// Run executes until a breakpoint is hit or the engine is stopped
// (spec.md §4.10 "run()").
func (e *Engine) Run() error {
	return e.run(func(Statistics) bool { return false })
}

// RunInstructions executes up to n instructions, or until a breakpoint or
// Stop (spec.md §4.10 "run(n_instructions)").
func (e *Engine) RunInstructions(n uint64) error {
	if n == 0 {
		return &InvalidArgument{Detail: "instruction count must be positive"}
	}
	start := e.stats.InstructionsExecuted
	return e.run(func(s Statistics) bool { return s.InstructionsExecuted-start >= n })
}

// RunDuration executes for approximately the given wall-clock duration, or
// until a breakpoint or Stop (spec.md §4.10 "run(duration)"). Wall-clock
// pacing is advisory only: spec.md's Non-goals exclude real-time
// host-clock pacing, so this simply bounds how long Run loops, not how
// many simulated cycles elapse per real second.
func (e *Engine) RunDuration(d time.Duration) error {
	if d <= 0 {
		return &InvalidArgument{Detail: "duration must be positive"}
	}
	deadline := time.Now().Add(d)
	return e.run(func(Statistics) bool { return time.Now().After(deadline) })
}

func (e *Engine) run(done func(Statistics) bool) error {
	if err := e.transition(StateRunning); err != nil {
		return err
	}
	e.stopRequested.Store(false)

	for {
		pc := e.RF.GetPC()
		if e.breakpoints.Has(pc) {
			if e.Events.OnBreakpointHit != nil {
				e.Events.OnBreakpointHit(pc)
			}
			return e.transition(StateStopped)
		}
		if e.stopRequested.Load() {
			return e.transition(StateStopped)
		}

		if _, err := e.executeOne(); err != nil {
			return err
		}

		if done(e.stats) {
			return e.transition(StateStopped)
		}
		if e.state != StateRunning {
			return nil
		}
	}
}

// Stop requests that an in-progress Run/RunInstructions/RunDuration loop
// halt at the next safe point. Safe to call from another goroutine.
func (e *Engine) Stop() {
	e.stopRequested.Store(true)
}

// Halt transitions the engine to Halted, e.g. on CPUOFF with no enabled
// wakeup source. Only legal from Running or SingleStep (spec.md §4.9).
func (e *Engine) Halt() error {
	return e.transition(StateHalted)
}

// executeOne fetches, decodes and executes a single instruction, updates
// statistics, advances peripherals, and emits InstructionExecuted. Any
// decode or execute failure transitions the engine to Error and is
// returned to the caller (spec.md §4.10 "Any exception from decoder or
// executor transitions to Error and re-raises to the caller").
func (e *Engine) executeOne() (int, error) {
	start := time.Now()
	pc := e.RF.GetPC()

	word, err := e.Mem.FetchExecutable(pc)
	if err != nil {
		e.transition(StateError)
		return 0, err
	}
	e.RF.IncrementPC(2)

	inst, err := Decode(word, pc)
	if err != nil {
		e.transition(StateError)
		return 0, err
	}

	cycles, err := inst.Execute(e.RF, e.Mem)
	if err != nil {
		e.transition(StateError)
		return 0, err
	}

	e.stats.InstructionsExecuted++
	e.stats.CyclesExecuted += uint64(cycles)
	e.stats.ElapsedActive += time.Since(start)
	e.Mem.Tick(cycles)

	if e.Events.OnInstructionExecuted != nil {
		e.Events.OnInstructionExecuted(pc, word, cycles)
	}

	return cycles, nil
}
