// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"github.com/db47h/gatesim"
	"github.com/pkg/errors"
)

// A Cell is one of ModuleLink, Primitive or InputProxy.
//
type Cell interface {
	cell()
}

// ModuleLink is an instance of a module.
//
// Its interface is the port list of the linked module.
//
type ModuleLink struct {
	Name   string
	Module ModuleHandle
}

// Primitive is a cell lowered to a single gatesim operation.
//
// Primitive interfaces list the output first, followed by the inputs:
//
//	Not:                      out, a
//	And, Nand, Or, Nor, etc.: out, a, b
//	Input (stimulus):         out
//	Output (probe):           state, watch
//
// In is only used by stimuli and Out only by probes.
//
type Primitive struct {
	Op  gatesim.Opcode
	In  gatesim.InputFunc
	Out gatesim.OutputFunc
}

// InputProxy stands for an input port of the module containing it. Cells
// reading the port connect to the proxy output. Proxies are created by
// Module.AddInput.
//
type InputProxy struct {
	Port PortHandle
}

func (ModuleLink) cell() {}
func (Primitive) cell()  {}
func (InputProxy) cell() {}

// Instance returns a cell instantiating module h.
//
func Instance(name string, h ModuleHandle) ModuleLink {
	return ModuleLink{Name: name, Module: h}
}

// Gate returns a logic gate primitive.
//
func Gate(op gatesim.Opcode) Primitive { return Primitive{Op: op} }

// Stimulus returns an input primitive sampling fn.
//
func Stimulus(fn gatesim.InputFunc) Primitive { return Primitive{Op: gatesim.OpInput, In: fn} }

// Probe returns an output primitive calling fn with the value of the signal
// wired to its "watch" port.
//
func Probe(fn gatesim.OutputFunc) Primitive { return Primitive{Op: gatesim.OpOutput, Out: fn} }

// Convenience gate cells.
var (
	NotGate  = Gate(gatesim.OpNot)
	AndGate  = Gate(gatesim.OpAnd)
	NandGate = Gate(gatesim.OpNand)
	OrGate   = Gate(gatesim.OpOr)
	NorGate  = Gate(gatesim.OpNor)
	XorGate  = Gate(gatesim.OpXor)
	XnorGate = Gate(gatesim.OpXnor)
)

var (
	unaryPorts    = []Port{{Name: "out", Dir: Out}, {Name: "a", Dir: In}}
	binaryPorts   = []Port{{Name: "out", Dir: Out}, {Name: "a", Dir: In}, {Name: "b", Dir: In}}
	stimulusPorts = []Port{{Name: "out", Dir: Out}}
	probePorts    = []Port{{Name: "state", Dir: Out}, {Name: "watch", Dir: In}}
	proxyPorts    = []Port{{Name: "out", Dir: Out}}
)

func (p Primitive) ports() ([]Port, error) {
	switch p.Op {
	case gatesim.OpInput:
		return stimulusPorts, nil
	case gatesim.OpOutput:
		return probePorts, nil
	case gatesim.OpNot:
		return unaryPorts, nil
	}
	if !p.Op.Gate() {
		return nil, errors.Wrapf(ErrInvalidPrimitive, "opcode %v", p.Op)
	}
	return binaryPorts, nil
}
