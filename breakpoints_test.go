package msp430

import (
	"reflect"
	"testing"
)

func TestBreakpointsAddReturnsTrueOnlyOnFirstInsertion(t *testing.T) {
	b := NewBreakpoints()
	if !b.Add(0x8000) {
		t.Errorf("first Add(0x8000) = false, want true")
	}
	if b.Add(0x8000) {
		t.Errorf("second Add(0x8000) = true, want false")
	}
}

func TestBreakpointsRemoveReturnsWhetherPresent(t *testing.T) {
	b := NewBreakpoints()
	if b.Remove(0x8000) {
		t.Errorf("Remove on empty set = true, want false")
	}
	b.Add(0x8000)
	if !b.Remove(0x8000) {
		t.Errorf("Remove(0x8000) = false, want true")
	}
	if b.Has(0x8000) {
		t.Errorf("Has(0x8000) after Remove = true, want false")
	}
}

func TestBreakpointsHas(t *testing.T) {
	b := NewBreakpoints()
	if b.Has(0x1234) {
		t.Errorf("Has on empty set = true, want false")
	}
	b.Add(0x1234)
	if !b.Has(0x1234) {
		t.Errorf("Has(0x1234) after Add = false, want true")
	}
}

func TestBreakpointsClear(t *testing.T) {
	b := NewBreakpoints()
	b.Add(1)
	b.Add(2)
	b.Clear()
	if b.Has(1) || b.Has(2) {
		t.Errorf("breakpoints still present after Clear")
	}
	if len(b.List()) != 0 {
		t.Errorf("List() after Clear = %v, want empty", b.List())
	}
}

func TestBreakpointsListAscending(t *testing.T) {
	b := NewBreakpoints()
	for _, addr := range []uint16{0x9000, 0x1000, 0x5000, 0x0100} {
		b.Add(addr)
	}
	want := []uint16{0x0100, 0x1000, 0x5000, 0x9000}
	if got := b.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}
