// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist_test

import (
	"strings"
	"testing"

	nl "github.com/db47h/gatesim/netlist"
	"github.com/pkg/errors"
)

func collect(it *nl.LayoutIter, max int) []string {
	var paths []string
	for len(paths) < max && it.Next() {
		paths = append(paths, it.Path().String())
	}
	return paths
}

func TestNetlist_Layout(t *testing.T) {
	n := nl.New()
	lf := leaf(n, "leaf", 2)
	top, m := n.NewModule("top")
	m.AddCell(nl.Stimulus(nil))
	m.AddCell(nl.Instance("l0", lf))
	m.AddInput("in")
	m.AddCell(nl.Instance("l1", lf))
	m.AddCell(nl.NotGate)

	it := n.Layout(top)
	got := collect(it, 100)
	if err := it.Err(); err != nil {
		t.Fatal(err)
	}
	exp := []string{"0", "1/0", "1/1", "3/0", "3/1", "4"}
	if strings.Join(got, " ") != strings.Join(exp, " ") {
		t.Errorf("got %v, expected %v", got, exp)
	}
	if cnt, _, _ := n.CountPrimitives(top); int(cnt) != len(got) {
		t.Errorf("%d paths for %d primitives", len(got), cnt)
	}
	if it.Next() || it.Path() != nil {
		t.Error("Next() returned true after the last path")
	}
}

func TestNetlist_Layout_paths_are_copies(t *testing.T) {
	n := nl.New()
	lf := leaf(n, "leaf", 3)
	top, m := n.NewModule("top")
	m.AddCell(nl.Instance("l", lf))
	var paths []nl.Path
	for it := n.Layout(top); it.Next(); {
		paths = append(paths, it.Path())
	}
	for i, p := range paths {
		if len(p) != 2 || p[0] != 0 || int(p[1]) != i {
			t.Errorf("path %d: %v", i, p)
		}
	}
}

func TestNetlist_Layout_cycles(t *testing.T) {
	n := nl.New()
	x, mx := n.NewModule("X")
	y, my := n.NewModule("Y")
	z, mz := n.NewModule("Z")
	mx.AddCell(nl.NotGate)
	mx.AddCell(nl.Instance("y", y))
	my.AddCell(nl.NotGate)
	my.AddCell(nl.Instance("z", z))
	mz.AddCell(nl.NotGate)
	mz.AddCell(nl.Instance("x", x))

	// link first, then the gate
	self, m := n.NewModule("self")
	m.AddCell(nl.Instance("self", self))
	m.AddCell(nl.NotGate)

	td := []struct {
		name string
		root nl.ModuleHandle
		link string
		prim string
	}{
		{"XYZ", x, "1", "0"},
		{"self", self, "0", "1"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			const count = 50
			it := n.Layout(d.root)
			got := collect(it, count)
			if err := it.Err(); err != nil {
				t.Fatal(err)
			}
			if len(got) != count {
				t.Fatalf("got %d paths, expected %d", len(got), count)
			}
			// one path per depth
			for i, p := range got {
				exp := strings.Repeat(d.link+"/", i) + d.prim
				if p != exp {
					t.Fatalf("path %d: got %s, expected %s", i, p, exp)
				}
			}
		})
	}
}

func TestNetlist_Layout_dead_cycle(t *testing.T) {
	n := nl.New()
	dead, m := n.NewModule("dead")
	m.AddInput("in")
	m.AddCell(nl.Instance("dead", dead))

	top, m := n.NewModule("top")
	m.AddCell(nl.NotGate)
	m.AddCell(nl.Instance("d", dead))
	m.AddCell(nl.AndGate)

	it := n.Layout(top)
	got := collect(it, 10)
	if err := it.Err(); err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, " ") != "0 2" {
		t.Errorf("got %v, expected [0 2]", got)
	}

	it = n.Layout(dead)
	if it.Next() {
		t.Errorf("got path %v in a module without primitives", it.Path())
	}
}

func TestNetlist_Layout_errors(t *testing.T) {
	n := nl.New()
	it := n.Layout(3)
	if it.Next() {
		t.Error("Next() returned true")
	}
	if errors.Cause(it.Err()) != nl.ErrModuleNotFound {
		t.Errorf("got error %v, expected %v", it.Err(), nl.ErrModuleNotFound)
	}
}
