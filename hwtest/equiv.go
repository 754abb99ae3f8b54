// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"github.com/db47h/gatesim"
	"github.com/db47h/gatesim/netlist"
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

// Errors returned by Equivalent.
//
var (
	ErrFeedbackLoop     = errors.New("feedback loop")
	ErrNotCombinational = errors.New("module is not purely combinational")
)

// cnf translates flat circuits into clauses for a SAT solver, with the usual
// Tseitin encoding: one variable per gate output.
type cnf struct {
	g    *gini.Gini
	next z.Var
}

func (c *cnf) lit() z.Lit {
	c.next++
	return c.next.Pos()
}

func (c *cnf) clause(ms ...z.Lit) {
	for _, m := range ms {
		c.g.Add(m)
	}
	c.g.Add(0)
}

func (c *cnf) and(a, b z.Lit) z.Lit {
	g := c.lit()
	c.clause(g.Not(), a)
	c.clause(g.Not(), b)
	c.clause(g, a.Not(), b.Not())
	return g
}

func (c *cnf) or(a, b z.Lit) z.Lit {
	g := c.lit()
	c.clause(g, a.Not())
	c.clause(g, b.Not())
	c.clause(g.Not(), a, b)
	return g
}

func (c *cnf) xor(a, b z.Lit) z.Lit {
	g := c.lit()
	c.clause(g.Not(), a, b)
	c.clause(g.Not(), a.Not(), b.Not())
	c.clause(g, a.Not(), b)
	c.clause(g, a, b.Not())
	return g
}

// flat is a module lowered into a builder, along with the solver literals
// computed so far for its slots.
type flat struct {
	b     *gatesim.Builder
	lits  map[gatesim.SignalID]z.Lit
	state map[gatesim.SignalID]bool // true while a slot is being translated
}

// lower lowers module h and binds its input ports to the given literals.
func (c *cnf) lower(n *netlist.Netlist, h netlist.ModuleHandle, ins []z.Lit) (*flat, []gatesim.SignalID, error) {
	f := &flat{
		b:     gatesim.NewBuilder(),
		lits:  make(map[gatesim.SignalID]z.Lit),
		state: make(map[gatesim.SignalID]bool),
	}
	ports, err := n.Lower(f.b, h)
	if err != nil {
		return nil, nil, err
	}
	m, _ := n.Module(h)
	k := 0
	for i, p := range m.Ports {
		if p.Dir == netlist.In {
			f.lits[ports[i]] = ins[k]
			k++
		}
	}
	return f, ports, nil
}

// translate returns the literal for slot id.
func (c *cnf) translate(f *flat, id gatesim.SignalID) (z.Lit, error) {
	if m, ok := f.lits[id]; ok {
		return m, nil
	}
	if f.state[id] {
		return 0, errors.Wrapf(ErrFeedbackLoop, "slot %v", id)
	}
	op, ok := f.b.Op(id)
	if !ok {
		return 0, errors.Wrapf(ErrNotCombinational, "slot %v: unconnected input", id)
	}
	f.state[id] = true
	defer delete(f.state, id)

	var ms [2]z.Lit
	for i, a := range op.Operands() {
		m, err := c.translate(f, a)
		if err != nil {
			return 0, err
		}
		ms[i] = m
	}
	var m z.Lit
	switch op.Op {
	case gatesim.OpInput:
		return 0, errors.Wrapf(ErrNotCombinational, "slot %v: stimulus", id)
	case gatesim.OpOutput:
		m = ms[0]
	case gatesim.OpNot:
		m = ms[0].Not()
	case gatesim.OpAnd:
		m = c.and(ms[0], ms[1])
	case gatesim.OpNand:
		m = c.and(ms[0], ms[1]).Not()
	case gatesim.OpOr:
		m = c.or(ms[0], ms[1])
	case gatesim.OpNor:
		m = c.or(ms[0], ms[1]).Not()
	case gatesim.OpXor:
		m = c.xor(ms[0], ms[1])
	case gatesim.OpXnor:
		m = c.xor(ms[0], ms[1]).Not()
	default:
		return 0, errors.Errorf("slot %v: invalid opcode %v", id, op.Op)
	}
	f.lits[id] = m
	return m, nil
}

// Equivalent checks whether modules m1 and m2 compute the same boolean
// functions. Both modules must have the same ports and be purely
// combinational: no feedback loops, no stimuli and no unconnected inputs.
// Probes are ignored.
//
// If the modules are not equivalent, Equivalent returns a counterexample: one
// value per input port, in port order.
//
func Equivalent(n *netlist.Netlist, m1, m2 netlist.ModuleHandle) (ok bool, counterexample []bool, err error) {
	mod, mod2, err := interfaces(n, m1, m2)
	if err != nil {
		return false, nil, err
	}
	c := &cnf{g: gini.New()}
	var ins []z.Lit
	for _, p := range mod.Ports {
		if p.Dir == netlist.In {
			ins = append(ins, c.lit())
		}
	}
	f1, ports1, err := c.lower(n, m1, ins)
	if err != nil {
		return false, nil, errors.Wrapf(err, "module %s", mod.Name)
	}
	f2, ports2, err := c.lower(n, m2, ins)
	if err != nil {
		return false, nil, errors.Wrapf(err, "module %s", mod2.Name)
	}

	// miter: at least one pair of outputs differs
	var diffs []z.Lit
	for i, p := range mod.Ports {
		if p.Dir != netlist.Out {
			continue
		}
		o1, err := c.translate(f1, ports1[i])
		if err != nil {
			return false, nil, errors.Wrapf(err, "output %s of module %s", p.Name, mod.Name)
		}
		o2, err := c.translate(f2, ports2[i])
		if err != nil {
			return false, nil, errors.Wrapf(err, "output %s of module %s", p.Name, mod2.Name)
		}
		diffs = append(diffs, c.xor(o1, o2))
	}
	if len(diffs) == 0 {
		return true, nil, nil
	}
	c.clause(diffs...)

	if c.g.Solve() != 1 {
		return true, nil, nil
	}
	counterexample = make([]bool, len(ins))
	for i, m := range ins {
		counterexample[i] = c.g.Value(m)
	}
	return false, counterexample, nil
}
