// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable stimuli, probes and modules for
// gatesim netlists.
//
// Stimuli are gatesim.InputFunc values and probes are gatesim.OutputFunc
// values. Both are turned into cells with netlist.Stimulus and netlist.Probe.
//
// Stock modules are added to a netlist on demand through a Library:
//
//	n := netlist.New()
//	lib := hwlib.New(n)
//	xor, err := lib.NandXor()
//
package hwlib

import (
	"github.com/db47h/gatesim/netlist"
	"github.com/pkg/errors"
)

// common port names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pOut = "out"
	pS   = "s"
	pR   = "r"
	pQ   = "q"
	pQn  = "qn"
)

// Library adds stock modules to a netlist. Each module is added at most once.
//
type Library struct {
	nl   *netlist.Netlist
	mods map[string]netlist.ModuleHandle
}

// New returns a new Library adding modules to n.
//
func New(n *netlist.Netlist) *Library {
	return &Library{nl: n, mods: make(map[string]netlist.ModuleHandle)}
}

// Netlist returns the netlist modules are added to.
//
func (l *Library) Netlist() *netlist.Netlist { return l.nl }

// module returns the module named name, calling build to create it on first
// use.
func (l *Library) module(name string, build func(w *wiring)) (netlist.ModuleHandle, error) {
	if h, ok := l.mods[name]; ok {
		return h, nil
	}
	h, m := l.nl.NewModule(name)
	w := &wiring{m: m}
	build(w)
	if w.err != nil {
		return h, errors.Wrapf(w.err, "module %s", name)
	}
	l.mods[name] = h
	return h, nil
}

// wiring wraps a module being built and keeps the first connection error.
type wiring struct {
	m   *netlist.Module
	err error
}

func (w *wiring) connect(from, to netlist.Address) {
	if w.err == nil {
		w.err = w.m.Connect(from, to)
	}
}

// gate adds a gate cell with its inputs connected to the given addresses.
func (w *wiring) gate(g netlist.Primitive, in ...netlist.Address) netlist.CellHandle {
	c := w.m.AddCell(g)
	for i, a := range in {
		w.connect(a, c.Port(netlist.PortHandle(i+1)))
	}
	return c
}

// instance adds an instance of module h with its inputs connected to the
// given addresses, in port order.
func (w *wiring) instance(name string, h netlist.ModuleHandle, in ...netlist.Address) netlist.CellHandle {
	c := w.m.AddCell(netlist.Instance(name, h))
	for i, a := range in {
		w.connect(a, c.Port(netlist.PortHandle(i)))
	}
	return c
}
