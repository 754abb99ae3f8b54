// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/gatesim"
	"github.com/db47h/gatesim/netlist"
	"github.com/pkg/errors"
)

// Gate returns a module wrapping a single gate primitive.
//
//	Inputs: a, b (in for OpNot)
//	Outputs: out
//
func (l *Library) Gate(op gatesim.Opcode) (netlist.ModuleHandle, error) {
	if !op.Gate() {
		return -1, errors.Wrapf(netlist.ErrInvalidPrimitive, "opcode %v", op)
	}
	return l.module(op.String(), func(w *wiring) {
		var g netlist.CellHandle
		if op == gatesim.OpNot {
			g = w.gate(netlist.Gate(op), w.m.AddInput(pIn))
		} else {
			g = w.gate(netlist.Gate(op), w.m.AddInput(pA), w.m.AddInput(pB))
		}
		w.m.AddOutput(pOut, g.Out())
	})
}

// NandNot returns a NOT gate built from a NAND gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
//
func (l *Library) NandNot() (netlist.ModuleHandle, error) {
	return l.module("NandNot", func(w *wiring) {
		in := w.m.AddInput(pIn)
		n := w.gate(netlist.NandGate, in, in)
		w.m.AddOutput(pOut, n.Out())
	})
}

// NandAnd returns an AND gate built from NAND gates.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b
//
func (l *Library) NandAnd() (netlist.ModuleHandle, error) {
	not, err := l.NandNot()
	if err != nil {
		return not, err
	}
	return l.module("NandAnd", func(w *wiring) {
		a, b := w.m.AddInput(pA), w.m.AddInput(pB)
		n := w.gate(netlist.NandGate, a, b)
		out := w.instance("not", not, n.Out())
		w.m.AddOutput(pOut, out.Port(1))
	})
}

// NandOr returns an OR gate built from NAND gates.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a || b
//
func (l *Library) NandOr() (netlist.ModuleHandle, error) {
	not, err := l.NandNot()
	if err != nil {
		return not, err
	}
	return l.module("NandOr", func(w *wiring) {
		a, b := w.m.AddInput(pA), w.m.AddInput(pB)
		na := w.instance("notA", not, a)
		nb := w.instance("notB", not, b)
		out := w.gate(netlist.NandGate, na.Port(1), nb.Port(1))
		w.m.AddOutput(pOut, out.Out())
	})
}

// NandXor returns a XOR gate built from four NAND gates.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && !b || !a && b
//
func (l *Library) NandXor() (netlist.ModuleHandle, error) {
	return l.module("NandXor", func(w *wiring) {
		a, b := w.m.AddInput(pA), w.m.AddInput(pB)
		nab := w.gate(netlist.NandGate, a, b)
		w0 := w.gate(netlist.NandGate, a, nab.Out())
		w1 := w.gate(netlist.NandGate, b, nab.Out())
		out := w.gate(netlist.NandGate, w0.Out(), w1.Out())
		w.m.AddOutput(pOut, out.Out())
	})
}

// NorLatch returns an unclocked SR latch built from two cross-coupled NOR
// gates.
//
//	Inputs: s, r
//	Outputs: q, qn
//	Function: s sets q, r resets q. qn = !q while s and r are not both set.
//
// Asserting s and r together is a race: q and qn turn uncontrolled until the
// race clears.
//
func (l *Library) NorLatch() (netlist.ModuleHandle, error) {
	return l.module("NorLatch", func(w *wiring) {
		s, r := w.m.AddInput(pS), w.m.AddInput(pR)
		q := w.m.AddCell(netlist.NorGate)
		qn := w.m.AddCell(netlist.NorGate)
		w.connect(r, q.Port(1))
		w.connect(qn.Out(), q.Port(2))
		w.connect(s, qn.Port(1))
		w.connect(q.Out(), qn.Port(2))
		w.m.AddOutput(pQ, q.Out())
		w.m.AddOutput(pQn, qn.Out())
	})
}

// NandLatch returns an unclocked SR latch built from two cross-coupled NAND
// gates. Its inputs are active low.
//
//	Inputs: s, r
//	Outputs: q, qn
//	Function: !s sets q, !r resets q.
//
func (l *Library) NandLatch() (netlist.ModuleHandle, error) {
	return l.module("NandLatch", func(w *wiring) {
		s, r := w.m.AddInput(pS), w.m.AddInput(pR)
		q := w.m.AddCell(netlist.NandGate)
		qn := w.m.AddCell(netlist.NandGate)
		w.connect(s, q.Port(1))
		w.connect(qn.Out(), q.Port(2))
		w.connect(r, qn.Port(1))
		w.connect(q.Out(), qn.Port(2))
		w.m.AddOutput(pQ, q.Out())
		w.m.AddOutput(pQn, qn.Out())
	})
}
