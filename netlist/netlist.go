// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netlist provides a hierarchical description of circuits and lowers
// it into flat gatesim circuits.
//
// A Netlist is a set of modules. A module is made of cells (primitive gates,
// instances of other modules, and proxies for its own input ports) connected
// by wires. Cells, ports and modules are referenced by small integer handles:
// a CellHandle is only meaningful within its module, and an Address, made of a
// cell handle and the index of a port in that cell's interface, locates a port
// within a module.
//
// Wires go from a Source address (an output port of a cell) to a Drain address
// (an input port of a cell). An input port has at most one driver; an output
// port may drive any number of inputs.
//
package netlist

import (
	"strconv"

	"github.com/pkg/errors"
)

// Errors returned by Netlist and Module methods. Use errors.Cause to test for
// them.
//
var (
	ErrModuleNotFound   = errors.New("module does not exist")
	ErrNoSuchCell       = errors.New("cell does not exist")
	ErrMultipleDrivers  = errors.New("input already driven")
	ErrInvalidPrimitive = errors.New("invalid primitive")
)

// A ModuleHandle identifies a module in a Netlist.
//
type ModuleHandle int

// A CellHandle identifies a cell within a module.
//
type CellHandle int

// A PortHandle is the index of a port in an interface.
//
type PortHandle int

// Address locates the port of a cell within a module.
//
type Address struct {
	Cell CellHandle
	Port PortHandle
}

func (a Address) String() string {
	return strconv.Itoa(int(a.Cell)) + "." + strconv.Itoa(int(a.Port))
}

// Port returns the address of port p of cell c.
//
func (c CellHandle) Port(p PortHandle) Address { return Address{c, p} }

// Out returns the address of port 0 of cell c, which is the output of all
// primitives.
//
func (c CellHandle) Out() Address { return Address{c, 0} }

// Source is the address of the port driving a wire.
//
type Source Address

// Drain is the address of the port driven by a wire.
//
type Drain Address

// Dir is the direction of a port.
//
type Dir uint8

// Port directions.
//
const (
	In Dir = iota
	Out
)

func (d Dir) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

// A Port describes one entry of an interface.
//
// For module ports, Local is the address within the module that the port is
// bound to: the InputProxy cell output for input ports, and the output of the
// driving cell for output ports. Local is ignored in primitive interfaces.
//
type Port struct {
	Name  string
	Dir   Dir
	Local Address
}

// Module is a reusable circuit definition.
//
type Module struct {
	Name  string
	Ports []Port
	Wires map[Drain]Source
	Cells []Cell
}

func newModule(name string) *Module {
	return &Module{Name: name, Wires: make(map[Drain]Source)}
}

// AddCell adds a cell to the module and returns its handle.
//
func (m *Module) AddCell(c Cell) CellHandle {
	m.Cells = append(m.Cells, c)
	return CellHandle(len(m.Cells) - 1)
}

// AddInput adds an input port to the module. It returns the address that
// cells within the module should connect to in order to read the port.
//
func (m *Module) AddInput(name string) Address {
	p := PortHandle(len(m.Ports))
	local := m.AddCell(InputProxy{Port: p}).Out()
	m.Ports = append(m.Ports, Port{Name: name, Dir: In, Local: local})
	return local
}

// AddOutput adds an output port to the module, driven by the cell output at
// address from.
//
func (m *Module) AddOutput(name string, from Address) PortHandle {
	m.Ports = append(m.Ports, Port{Name: name, Dir: Out, Local: from})
	return PortHandle(len(m.Ports) - 1)
}

// Connect adds a wire from the output port at address from to the input port at
// address to.
//
func (m *Module) Connect(from, to Address) error {
	for _, a := range [...]Address{from, to} {
		if a.Cell < 0 || int(a.Cell) >= len(m.Cells) {
			return errors.Wrapf(ErrNoSuchCell, "module %s: connect %v to %v", m.Name, from, to)
		}
	}
	if src, ok := m.Wires[Drain(to)]; ok {
		return errors.Wrapf(ErrMultipleDrivers, "module %s: connect %v to %v, already driven by %v", m.Name, from, to, Address(src))
	}
	m.Wires[Drain(to)] = Source(from)
	return nil
}

// Driver returns the address driving the input port at address a.
//
func (m *Module) Driver(a Address) (Address, bool) {
	src, ok := m.Wires[Drain(a)]
	return Address(src), ok
}

// Netlist is a set of modules.
//
type Netlist struct {
	modules []*Module
}

// New returns a new empty Netlist.
//
func New() *Netlist {
	return &Netlist{}
}

// NewModule adds a new empty module to the netlist.
//
func (nl *Netlist) NewModule(name string) (ModuleHandle, *Module) {
	m := newModule(name)
	nl.modules = append(nl.modules, m)
	return ModuleHandle(len(nl.modules) - 1), m
}

// Module returns the module with handle h.
//
func (nl *Netlist) Module(h ModuleHandle) (*Module, error) {
	if h < 0 || int(h) >= len(nl.modules) {
		return nil, errors.Wrapf(ErrModuleNotFound, "module handle %d", h)
	}
	return nl.modules[h], nil
}

// Len returns the number of modules in the netlist.
//
func (nl *Netlist) Len() int { return len(nl.modules) }

// Interface returns the interface of cell c: the ordered list of its ports.
// Port handles in addresses referencing c are indices in this list.
//
// The returned slice is a copy and may be modified freely.
//
func (nl *Netlist) Interface(c Cell) ([]Port, error) {
	ps, err := nl.iface(c)
	if err != nil {
		return nil, err
	}
	return append([]Port(nil), ps...), nil
}

// iface is Interface without the copy. The result must not be modified.
func (nl *Netlist) iface(c Cell) ([]Port, error) {
	switch c := c.(type) {
	case Primitive:
		return c.ports()
	case ModuleLink:
		m, err := nl.Module(c.Module)
		if err != nil {
			return nil, errors.Wrapf(err, "instance %s", c.Name)
		}
		return m.Ports, nil
	case InputProxy:
		return proxyPorts, nil
	}
	return nil, errors.New("nil cell")
}
