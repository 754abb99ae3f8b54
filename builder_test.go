// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim_test

import (
	"testing"

	gs "github.com/db47h/gatesim"
	"github.com/pkg/errors"
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

func TestBuilder_errors(t *testing.T) {
	b := gs.NewBuilder()
	a, o := b.Alloc(), b.Alloc()
	if a != 0 || o != 1 {
		t.Fatalf("allocated %v, %v, expected #0, #1", a, o)
	}
	if err := b.MkNot(o, a); err != nil {
		trace(t, err)
		t.Fatal(err)
	}

	td := []struct {
		name string
		err  error
		fn   func() error
	}{
		{"duplicate", gs.ErrDuplicateAssignment, func() error { return b.MkNot(o, a) }},
		{"duplicate_kind", gs.ErrDuplicateAssignment, func() error { return b.MkAnd(o, a, a) }},
		{"unallocated", gs.ErrUnallocated, func() error { return b.MkNot(2, a) }},
		{"negative", gs.ErrUnallocated, func() error { return b.MkNot(-1, a) }},
		{"operand", gs.ErrUnallocated, func() error { return b.MkOr(a, o, 7) }},
		{"output_source", gs.ErrUnallocated, func() error {
			return b.MkOutput(a, 12, func(int, uint64, gs.Signal) {})
		}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			err := d.fn()
			if errors.Cause(err) != d.err {
				t.Errorf("got error %v, expected %v", err, d.err)
			}
		})
	}

	// failed assignments must leave the builder untouched
	if op, ok := b.Op(o); !ok || op.Op != gs.OpNot || op.A != a {
		t.Errorf("slot %v = %v, expected NOT(%v)", o, op, a)
	}
	if _, ok := b.Op(a); ok {
		t.Errorf("slot %v should be unassigned", a)
	}
	if err := b.MkInput(a, nil); err == nil {
		t.Error("expected error for nil input function")
	}
}

func TestBuilder_Desc(t *testing.T) {
	const n = 8
	for m := 0; m <= n; m++ {
		b := gs.NewBuilder()
		ids := make([]gs.SignalID, n)
		for i := range ids {
			ids[i] = b.Alloc()
		}
		// assign the first m slots, NOT gates reading the next slot.
		for i := 0; i < m; i++ {
			if err := b.MkNot(ids[i], ids[(i+1)%n]); err != nil {
				t.Fatal(err)
			}
		}
		if got := len(b.Unassigned()); got != n-m {
			t.Errorf("m = %d: %d unassigned slots, expected %d", m, got, n-m)
		}
		desc := b.Desc()
		if len(desc) != n {
			t.Fatalf("m = %d: len(desc) = %d, expected %d", m, len(desc), n)
		}
		for i, op := range desc {
			if i < m {
				if op.Op != gs.OpNot {
					t.Errorf("m = %d: desc[%d] = %v, expected NOT", m, i, op)
				}
				continue
			}
			if op.Op != gs.OpInput || op.In(i, 0) != gs.HighImpedance {
				t.Errorf("m = %d: desc[%d] = %v, expected high impedance input", m, i, op)
			}
		}

		c, err := gs.NewCircuit(0, 3, desc)
		if err != nil {
			t.Fatal(err)
		}
		for tick := 0; tick < 20; tick++ {
			c.Tick()
			_, s := c.Inspect()
			for i := m; i < n; i++ {
				if s[i] != gs.HighImpedance {
					t.Fatalf("m = %d, tick %d: slot %d = %v, expected High Impedance", m, tick, i, s[i])
				}
			}
		}
		c.Dispose()
	}
}

func TestBuilder_consumed(t *testing.T) {
	b := gs.NewBuilder()
	a := b.Alloc()
	if err := b.MkInput(a, gs.HighZ); err != nil {
		t.Fatal(err)
	}
	if desc := b.Desc(); len(desc) != 1 {
		t.Fatalf("len(desc) = %d, expected 1", len(desc))
	}
	if err := b.MkNot(a, a); errors.Cause(err) != gs.ErrBuilderConsumed {
		t.Errorf("got error %v, expected %v", err, gs.ErrBuilderConsumed)
	}
	for name, f := range map[string]func(){
		"Alloc": func() { b.Alloc() },
		"Desc":  func() { b.Desc() },
	} {
		func() {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("%s did not panic on consumed builder", name)
				}
			}()
			f()
		}()
	}
}
