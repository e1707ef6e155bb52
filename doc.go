// Package msp430 implements an instruction-cycle accurate simulator core
// for a 16-bit RISC microcontroller of the MSP430/MSP430X family
// (FR2xx/FR4xx series).
//
// The core simulates the CPU's fetch-decode-execute loop together with
// its register file, status flags, a 64 KiB memory address space with
// region-based permission checking, a Timer_A peripheral with
// capture/compare units, and an execution-control facade (stepping,
// continuous run, breakpoints, statistics).
//
// The package is a single-threaded, cooperative simulator: there is no
// internal concurrency, and run() is a blocking loop the caller drives
// and can cancel from another goroutine only through Engine.Stop; Stop or
// Halt called from an event callback also ends it.
package msp430
