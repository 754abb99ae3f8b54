// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"log"
	"sort"

	"github.com/db47h/gatesim"
	"github.com/pkg/errors"
)

// Constant returns a stimulus that always reads s.
//
func Constant(s gatesim.Signal) gatesim.InputFunc {
	return func(int, uint64) gatesim.Signal { return s }
}

// Periodic returns a square wave stimulus, starting low, that toggles every
// half input ticks.
//
//	Function: out = (tick / half) % 2 == 1
//
func Periodic(half uint64) gatesim.InputFunc {
	if half == 0 {
		half = 1
	}
	return func(_ int, tick uint64) gatesim.Signal {
		return gatesim.Bool((tick/half)%2 != 0)
	}
}

// Clock returns a clock stimulus with the given period. The clock is low for
// the first pulse+1 ticks of each period, then high.
//
//	Function: out = tick % period > pulse
//
func Clock(period, pulse uint64) gatesim.InputFunc {
	if period == 0 {
		period = 1
	}
	return func(_ int, tick uint64) gatesim.Signal {
		return gatesim.Bool(tick%period > pulse)
	}
}

// Waveform returns a stimulus that reads Undefined for the first setup input
// ticks, then repeats samples forever.
//
func Waveform(setup uint64, samples ...gatesim.Signal) gatesim.InputFunc {
	s := append([]gatesim.Signal(nil), samples...)
	return func(_ int, tick uint64) gatesim.Signal {
		if tick < setup || len(s) == 0 {
			return gatesim.Undefined
		}
		return s[(tick-setup)%uint64(len(s))]
	}
}

// Print returns a probe that logs every sample to l.
//
func Print(l *log.Logger, name string) gatesim.OutputFunc {
	return func(slot int, tick uint64, s gatesim.Signal) {
		l.Printf("%s (#%d) @%d: %v", name, slot, tick, s)
	}
}

// Assert returns a probe checking every sample against a repeating waveform,
// starting at tick setup. Mismatches are reported by calling report, which may
// be called concurrently by probes sharing it.
//
func Assert(setup uint64, samples []gatesim.Signal, report func(error)) gatesim.OutputFunc {
	s := append([]gatesim.Signal(nil), samples...)
	return func(slot int, tick uint64, got gatesim.Signal) {
		if tick < setup || len(s) == 0 {
			return
		}
		if exp := s[(tick-setup)%uint64(len(s))]; got != exp {
			report(errors.Errorf("probe #%d @%d: got %v, expected %v", slot, tick, got, exp))
		}
	}
}

// Edge is a change of the expected value of a DeltaAssert probe.
//
type Edge struct {
	Tick  uint64
	Value gatesim.Signal
}

// DeltaAssert returns a probe checking every sample against a repeating
// waveform described by its edges.
//
// At tick t >= setup, the expected value is that of the last edge at or before
// (t-phase) % period, or Undefined if there is no such edge. Mismatches are
// reported by calling report.
//
func DeltaAssert(edges []Edge, period, setup, phase uint64, report func(error)) gatesim.OutputFunc {
	if period == 0 {
		period = 1
	}
	es := append([]Edge(nil), edges...)
	sort.SliceStable(es, func(i, j int) bool { return es[i].Tick < es[j].Tick })
	phase %= period
	return func(slot int, tick uint64, got gatesim.Signal) {
		if tick < setup {
			return
		}
		pos := (tick%period + period - phase) % period
		exp := gatesim.Undefined
		if i := sort.Search(len(es), func(i int) bool { return es[i].Tick > pos }); i > 0 {
			exp = es[i-1].Value
		}
		if got != exp {
			report(errors.Errorf("probe #%d @%d: got %v, expected %v", slot, tick, got, exp))
		}
	}
}
