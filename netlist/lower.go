// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"github.com/db47h/gatesim"
	"github.com/pkg/errors"
)

// Errors returned while lowering a netlist.
//
var (
	ErrEmptyModule           = errors.New("empty module")
	ErrPortNotAllocated      = errors.New("port not allocated")
	ErrChildPortNotAllocated = errors.New("child port not allocated")
	ErrRecursiveInstance     = errors.New("recursive module instance")
	ErrPortConflict          = errors.New("ports bound to the same address")
)

// Lower builds an instance of module top into b. It returns the slots
// allocated for the ports of top, in port order.
//
// Inputs that are not connected to anything each get their own slot, which
// reads HighImpedance once b is turned into a circuit description. So do the
// input ports of top.
//
func (nl *Netlist) Lower(b *gatesim.Builder, top ModuleHandle) ([]gatesim.SignalID, error) {
	m, err := nl.Module(top)
	if err != nil {
		return nil, err
	}
	ports := make([]gatesim.SignalID, len(m.Ports))
	for i := range ports {
		ports[i] = b.Alloc()
	}
	l := &lowering{nl: nl, b: b, active: make(map[ModuleHandle]bool)}
	if err = l.lower(top, m, ports); err != nil {
		return nil, err
	}
	return ports, nil
}

// Circuit lowers module top into a new runnable circuit. See
// gatesim.NewCircuit for the meaning of workers and ticksPerInput.
//
func (nl *Netlist) Circuit(top ModuleHandle, workers int, ticksPerInput uint) (*gatesim.Circuit, error) {
	b := gatesim.NewBuilder()
	if _, err := nl.Lower(b, top); err != nil {
		return nil, err
	}
	return gatesim.NewCircuit(workers, ticksPerInput, b.Desc())
}

type lowering struct {
	nl     *Netlist
	b      *gatesim.Builder
	active map[ModuleHandle]bool // modules being lowered
}

// lower builds an instance of module m. ports are the slots allocated by the
// caller for the ports of m.
func (l *lowering) lower(h ModuleHandle, m *Module, ports []gatesim.SignalID) error {
	if len(m.Cells) == 0 {
		return errors.Wrapf(ErrEmptyModule, "module %s", m.Name)
	}
	if l.active[h] {
		return errors.Wrapf(ErrRecursiveInstance, "module %s", m.Name)
	}
	l.active[h] = true
	defer delete(l.active, h)

	if len(ports) < len(m.Ports) {
		return errors.Wrapf(ErrPortNotAllocated, "module %s: %d ports, %d allocated", m.Name, len(m.Ports), len(ports))
	}

	// maps local addresses to slots. Seeded with the slots allocated by the
	// caller for our ports.
	ns := make(map[Address]gatesim.SignalID, len(m.Cells)+len(m.Ports))
	for i, p := range m.Ports {
		if _, ok := ns[p.Local]; ok {
			return errors.Wrapf(ErrPortConflict, "module %s: port %s at %v", m.Name, p.Name, p.Local)
		}
		ns[p.Local] = ports[i]
	}
	resolve := func(a Address) gatesim.SignalID {
		id, ok := ns[a]
		if !ok {
			id = l.b.Alloc()
			ns[a] = id
		}
		return id
	}

	for i, c := range m.Cells {
		if _, ok := c.(InputProxy); ok {
			// slot provided by our caller
			continue
		}
		ch := CellHandle(i)
		iface, err := l.nl.iface(c)
		if err != nil {
			return errors.Wrapf(err, "module %s, cell %d", m.Name, ch)
		}
		mapping := make([]gatesim.SignalID, len(iface))
		for j, p := range iface {
			a := ch.Port(PortHandle(j))
			if p.Dir == Out {
				mapping[j] = resolve(a)
				continue
			}
			if src, ok := m.Wires[Drain(a)]; ok {
				mapping[j] = resolve(Address(src))
			} else {
				// unconnected inputs never share a slot
				mapping[j] = l.b.Alloc()
			}
		}

		switch c := c.(type) {
		case Primitive:
			if err = l.emit(c, mapping); err != nil {
				return errors.Wrapf(err, "module %s, cell %d", m.Name, ch)
			}
		case ModuleLink:
			sub, err := l.nl.Module(c.Module)
			if err != nil {
				return errors.Wrapf(err, "module %s, instance %s", m.Name, c.Name)
			}
			if err = l.lower(c.Module, sub, mapping); err != nil {
				return errors.Wrapf(err, "module %s, instance %s", m.Name, c.Name)
			}
		}
	}
	return nil
}

// emit assigns the operation for primitive p. Port slots are taken by position
// in the primitive interface: output first, then operands.
func (l *lowering) emit(p Primitive, mapping []gatesim.SignalID) error {
	arg := func(i int) (gatesim.SignalID, error) {
		if i >= len(mapping) {
			return 0, errors.Wrapf(ErrChildPortNotAllocated, "%v port %d", p.Op, i)
		}
		return mapping[i], nil
	}
	loc, err := arg(0)
	if err != nil {
		return err
	}
	if p.Op == gatesim.OpInput {
		return l.b.MkInput(loc, p.In)
	}
	a, err := arg(1)
	if err != nil {
		return err
	}
	switch p.Op {
	case gatesim.OpOutput:
		return l.b.MkOutput(loc, a, p.Out)
	case gatesim.OpNot:
		return l.b.MkNot(loc, a)
	}
	if !p.Op.Gate() {
		return errors.Wrapf(ErrInvalidPrimitive, "opcode %v", p.Op)
	}
	b, err := arg(2)
	if err != nil {
		return err
	}
	return l.b.Assign(loc, gatesim.Binary(p.Op, a, b))
}
