// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim_test

import (
	"fmt"
	"testing"

	gs "github.com/db47h/gatesim"
	"github.com/pkg/errors"
)

type edge struct {
	tick uint64
	s    gs.Signal
}

// probe records the edges of the signal it watches. Each probe must watch a
// single output slot.
type probe struct {
	edges []edge
}

func (p *probe) out(_ int, tick uint64, s gs.Signal) {
	if n := len(p.edges); n == 0 || p.edges[n-1].s != s {
		p.edges = append(p.edges, edge{tick, s})
	}
}

func checkEdges(t *testing.T, name string, got, exp []edge) {
	t.Helper()
	if len(got) != len(exp) {
		t.Errorf("%s: got %d edges, expected %d\ngot: %v\nexp: %v", name, len(got), len(exp), got, exp)
		return
	}
	for i := range got {
		if got[i] != exp[i] {
			t.Errorf("%s: edge %d = %v, expected %v", name, i, got[i], exp[i])
		}
	}
}

// square returns an input toggling every half logical ticks, starting False.
func square(half uint64) gs.InputFunc {
	return func(_ int, tick uint64) gs.Signal {
		return gs.Bool((tick/half)%2 != 0)
	}
}

// NOR latch with S and R driven by square waves of different periods.
// S and R are both high for the whole second half of every R period, during
// which the latch oscillates, producing uncontrolled values on both outputs.
func norLatch(t *testing.T, workers int, q, qn *probe) *gs.Circuit {
	t.Helper()
	const tpi = 8

	b := gs.NewBuilder()
	s, r := b.Alloc(), b.Alloc()
	qs, qns := b.Alloc(), b.Alloc()
	o1, o2 := b.Alloc(), b.Alloc()
	for _, err := range []error{
		b.MkInput(s, square(2)),
		b.MkInput(r, square(4)),
		b.MkNor(qs, r, qns),
		b.MkNor(qns, s, qs),
		b.MkOutput(o1, qs, q.out),
		b.MkOutput(o2, qns, qn.out),
	} {
		if err != nil {
			trace(t, err)
			t.Fatal(err)
		}
	}
	c, err := gs.NewCircuit(workers, tpi, b.Desc())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

var (
	latchQ = []edge{
		{0, U}, {19, UT}, {34, UF}, {51, F},
		{66, UT}, {67, UF}, {68, UT}, {69, UF}, {70, UT}, {71, UF}, {72, UT}, {73, UF},
		{74, UT}, {75, UF}, {76, UT}, {77, UF}, {78, UT}, {79, UF}, {80, UT}, {81, UF},
		{82, UT}, {98, UF}, {115, F},
		{130, UT}, {131, UF}, {132, UT}, {133, UF}, {134, UT}, {135, UF}, {136, UT}, {137, UF},
		{138, UT}, {139, UF}, {140, UT}, {141, UF}, {142, UT}, {143, UF}, {144, UT}, {145, UF},
		{146, UT}, {162, UF}, {179, F},
		{194, UT}, {195, UF}, {196, UT}, {197, UF}, {198, UT}, {199, UF}, {200, UT}, {201, UF},
		{202, UT}, {203, UF}, {204, UT}, {205, UF}, {206, UT}, {207, UF}, {208, UT}, {209, UF},
		{210, UT}, {226, UF}, {243, F},
	}
	latchQn = []edge{
		{0, U}, {18, UF}, {35, UT}, {50, UF}, {58, F},
		{66, UT}, {67, UF}, {68, UT}, {69, UF}, {70, UT}, {71, UF}, {72, UT}, {73, UF},
		{74, UT}, {75, UF}, {76, UT}, {77, UF}, {78, UT}, {79, UF}, {80, UT}, {81, UF},
		{99, UT}, {114, UF}, {122, F},
		{130, UT}, {131, UF}, {132, UT}, {133, UF}, {134, UT}, {135, UF}, {136, UT}, {137, UF},
		{138, UT}, {139, UF}, {140, UT}, {141, UF}, {142, UT}, {143, UF}, {144, UT}, {145, UF},
		{163, UT}, {178, UF}, {186, F},
		{194, UT}, {195, UF}, {196, UT}, {197, UF}, {198, UT}, {199, UF}, {200, UT}, {201, UF},
		{202, UT}, {203, UF}, {204, UT}, {205, UF}, {206, UT}, {207, UF}, {208, UT}, {209, UF},
		{227, UT}, {242, UF}, {250, F},
	}
)

func TestCircuit_latch(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 6, 0} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			var q, qn probe
			c := norLatch(t, workers, &q, &qn)
			defer c.Dispose()
			c.Run(257)
			if c.Ticks() != 257 {
				t.Errorf("Ticks() = %d, expected 257", c.Ticks())
			}
			checkEdges(t, "Q", q.edges, latchQ)
			checkEdges(t, "!Q", qn.edges, latchQn)
		})
	}
}

func TestCircuit_input_sampling(t *testing.T) {
	const tpi = 3
	var calls []uint64
	b := gs.NewBuilder()
	in := b.Alloc()
	if err := b.MkInput(in, func(_ int, tick uint64) gs.Signal {
		calls = append(calls, tick)
		return gs.Bool(tick%2 != 0)
	}); err != nil {
		t.Fatal(err)
	}
	c, err := gs.NewCircuit(1, tpi, b.Desc())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	// sampled values: False from Undefined is clean, then every leading edge
	// from a clean value is uncontrolled. UncontrolledTrue to False is clean.
	values := []gs.Signal{F, UT, F, UT, F}
	var prev gs.Signal
	for k := uint64(0); k < 5*tpi; k++ {
		c.Tick()
		if exp := int(k/tpi) + 1; len(calls) != exp {
			t.Fatalf("raw tick %d: %d input calls, expected %d", k, len(calls), exp)
		}
		if last := calls[len(calls)-1]; last != k/tpi {
			t.Fatalf("raw tick %d: input called with tick %d, expected %d", k, last, k/tpi)
		}
		s := c.Get(in)
		if exp := values[k/tpi]; s != exp {
			t.Errorf("raw tick %d: input = %v, expected %v", k, s, exp)
		}
		if k%tpi != 0 && s != prev {
			t.Errorf("raw tick %d: input changed between samples: %v -> %v", k, prev, s)
		}
		prev = s
	}
}

func TestCircuit_output_every_tick(t *testing.T) {
	var ticks []uint64
	var slots []int
	b := gs.NewBuilder()
	in, out := b.Alloc(), b.Alloc()
	b.MkInput(in, func(int, uint64) gs.Signal { return gs.True })
	b.MkOutput(out, in, func(slot int, tick uint64, s gs.Signal) {
		slots = append(slots, slot)
		ticks = append(ticks, tick)
	})
	c, err := gs.NewCircuit(0, 5, b.Desc())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()
	c.Run(12)
	if len(ticks) != 12 {
		t.Fatalf("output called %d times, expected 12", len(ticks))
	}
	for i := range ticks {
		if ticks[i] != uint64(i) || slots[i] != int(out) {
			t.Errorf("call %d: slot %d, tick %d", i, slots[i], ticks[i])
		}
	}
}

func TestCircuit_errors(t *testing.T) {
	in := gs.Input(gs.HighZ)
	td := []struct {
		name string
		tpi  uint
		desc []gs.Operation
		err  error
	}{
		{"empty", 1, nil, gs.ErrEmptyCircuit},
		{"zero_tpi", 0, []gs.Operation{in}, gs.ErrZeroTPI},
		{"operand", 1, []gs.Operation{in, gs.And(0, 2)}, gs.ErrBadOperand},
		{"negative_operand", 1, []gs.Operation{in, gs.Not(-1)}, gs.ErrBadOperand},
		{"output_source", 1, []gs.Operation{gs.Output(1, func(int, uint64, gs.Signal) {})}, gs.ErrBadOperand},
		{"ok", 1, []gs.Operation{in, gs.Not(0)}, nil},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			c, err := gs.NewCircuit(0, d.tpi, d.desc)
			if errors.Cause(err) != d.err {
				t.Errorf("got error %v, expected %v", err, d.err)
			}
			if c != nil {
				c.Dispose()
			}
		})
	}
}

func TestCircuit_handler_panic(t *testing.T) {
	b := gs.NewBuilder()
	for i := 0; i < 16; i++ {
		b.Alloc()
	}
	b.MkInput(3, func(_ int, tick uint64) gs.Signal {
		if tick == 2 {
			panic("boom")
		}
		return gs.False
	})
	c, err := gs.NewCircuit(4, 1, b.Desc())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	c.Run(2)
	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("recovered %v, expected boom", r)
			}
		}()
		c.Tick()
		t.Error("Tick did not panic")
	}()
	if c.Ticks() != 2 {
		t.Errorf("Ticks() = %d after panic, expected 2", c.Ticks())
	}
}

func TestCircuit_Tick_disposed(t *testing.T) {
	calls := 0
	b := gs.NewBuilder()
	in, n, out := b.Alloc(), b.Alloc(), b.Alloc()
	b.MkInput(in, func(_ int, tick uint64) gs.Signal { return gs.Bool(tick%2 != 0) })
	b.MkNot(n, in)
	b.MkOutput(out, n, func(int, uint64, gs.Signal) { calls++ })
	c, err := gs.NewCircuit(0, 1, b.Desc())
	if err != nil {
		t.Fatal(err)
	}
	c.Run(5)
	_, before := c.Inspect()
	c.Dispose()
	c.Dispose()

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Tick did not panic on disposed circuit")
			}
		}()
		c.Tick()
	}()
	if c.Ticks() != 5 {
		t.Errorf("Ticks() = %d, expected 5", c.Ticks())
	}
	if calls != 5 {
		t.Errorf("output called %d times, expected 5", calls)
	}
	_, after := c.Inspect()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("slot %d = %v, expected %v", i, after[i], before[i])
		}
	}
}

func TestCircuit_Inspect(t *testing.T) {
	b := gs.NewBuilder()
	a, n := b.Alloc(), b.Alloc()
	b.MkInput(a, func(int, uint64) gs.Signal { return gs.False })
	b.MkNot(n, a)
	c, err := gs.NewCircuit(0, 1, b.Desc())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	desc, s := c.Inspect()
	if len(desc) != 2 || desc[1].Op != gs.OpNot || s[0] != U || s[1] != U {
		t.Fatalf("initial state: %v %v", desc, s)
	}
	c.Tick()
	c.Tick()
	_, s = c.Inspect()
	if s[0] != F || s[1] != T {
		t.Errorf("got %v, expected [False True]", s)
	}
	// snapshots are copies
	s[1] = HZ
	if c.Get(n) != T {
		t.Error("Inspect returned a shared buffer")
	}
}
