// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"math/bits"

	"github.com/pkg/errors"
)

// ErrCountOverflow is returned by CountPrimitives when the primitive count does
// not fit in an uint64.
//
var ErrCountOverflow = errors.New("primitive count overflow")

type summary struct {
	prims uint64                  // primitive cells
	refs  map[ModuleHandle]uint64 // instance count per module
}

// summarize returns the summaries of all the modules reachable from root.
func (nl *Netlist) summarize(root ModuleHandle) (map[ModuleHandle]*summary, error) {
	sums := make(map[ModuleHandle]*summary)
	stack := []ModuleHandle{root}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if sums[h] != nil {
			continue
		}
		m, err := nl.Module(h)
		if err != nil {
			return nil, err
		}
		s := &summary{refs: make(map[ModuleHandle]uint64)}
		for _, c := range m.Cells {
			switch c := c.(type) {
			case Primitive:
				s.prims++
			case ModuleLink:
				s.refs[c.Module]++
				stack = append(stack, c.Module)
			}
		}
		sums[h] = s
	}
	return sums, nil
}

// CountPrimitives returns the number of primitive cells in a fully expanded
// instance of module root. If the module hierarchy below root contains
// cycles, the expansion is infinite and definite is false.
//
func (nl *Netlist) CountPrimitives(root ModuleHandle) (n uint64, definite bool, err error) {
	sums, err := nl.summarize(root)
	if err != nil {
		return 0, false, err
	}
	for {
		if len(sums[root].refs) == 0 {
			return sums[root].prims, true, nil
		}
		// find a terminal module: one with no pending sub-module references.
		var (
			th ModuleHandle
			ts *summary
		)
		for h, s := range sums {
			if h != root && len(s.refs) == 0 {
				th, ts = h, s
				break
			}
		}
		if ts == nil {
			return 0, false, nil
		}
		// fold it into its users
		for _, s := range sums {
			k, ok := s.refs[th]
			if !ok {
				continue
			}
			hi, p := bits.Mul64(k, ts.prims)
			sum, carry := bits.Add64(s.prims, p, 0)
			if hi != 0 || carry != 0 {
				return 0, false, ErrCountOverflow
			}
			s.prims = sum
			delete(s.refs, th)
		}
		delete(sums, th)
	}
}
