// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netlist

import (
	"strconv"
	"strings"
)

// A Path locates a primitive in the expanded hierarchy of a module: all
// elements but the last are ModuleLink cells, each in the module linked by the
// previous one, and the last one is the primitive cell.
//
type Path []CellHandle

func (p Path) String() string {
	var b strings.Builder
	for i, c := range p {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(strconv.Itoa(int(c)))
	}
	return b.String()
}

type cursor struct {
	m    *Module
	next int
}

// LayoutIter iterates over the paths to all primitives of a module hierarchy.
//
// A typical loop looks like:
//
//	it := nl.Layout(top)
//	for it.Next() {
//		p := it.Path()
//		// ...
//	}
//	if err := it.Err(); err != nil {
//		// ...
//	}
//
// If the hierarchy contains cycles, the number of paths is infinite and Next
// never returns false. Paths are then produced by increasing length so that
// any prefix of the sequence is reachable in finite time.
//
type LayoutIter struct {
	nl    *Netlist
	root  *Module
	stack []cursor
	path  Path // module links leading to the top of stack
	cur   Path
	err   error
	done  bool

	cyclic bool
	live   map[ModuleHandle]bool // modules that contain primitives, directly or not
	passes int                   // for cyclic hierarchies, pass n yields paths of length n
}

// Layout returns an iterator over the paths to all primitive cells in module
// root and its sub-modules. Input proxies are skipped.
//
// For hierarchies without cycles, paths are produced in depth first order,
// following the order of cells within modules.
//
func (nl *Netlist) Layout(root ModuleHandle) *LayoutIter {
	it := &LayoutIter{nl: nl}
	sums, err := nl.summarize(root)
	if err != nil {
		it.err = err
		return it
	}
	it.root, _ = nl.Module(root)
	it.live = liveModules(sums)
	it.cyclic = hasCycle(sums, it.live, root)
	if !it.live[root] {
		it.done = true
	}
	return it
}

// liveModules returns the set of modules that contain primitives, directly or
// through their sub-modules.
func liveModules(sums map[ModuleHandle]*summary) map[ModuleHandle]bool {
	live := make(map[ModuleHandle]bool, len(sums))
	for changed := true; changed; {
		changed = false
		for h, s := range sums {
			if live[h] {
				continue
			}
			ok := s.prims > 0
			for r := range s.refs {
				ok = ok || live[r]
			}
			if ok {
				live[h] = true
				changed = true
			}
		}
	}
	return live
}

// hasCycle returns true if a cycle can be reached from root by following links
// between live modules.
func hasCycle(sums map[ModuleHandle]*summary, live map[ModuleHandle]bool, root ModuleHandle) bool {
	const (
		unseen = iota
		active
		finished
	)
	state := make(map[ModuleHandle]int, len(sums))
	var visit func(h ModuleHandle) bool
	visit = func(h ModuleHandle) bool {
		state[h] = active
		for r := range sums[h].refs {
			if !live[r] {
				continue
			}
			switch state[r] {
			case active:
				return true
			case unseen:
				if visit(r) {
					return true
				}
			}
		}
		state[h] = finished
		return false
	}
	return live[root] && visit(root)
}

// Next advances the iterator to the next path. It returns false when there are
// no more paths or an error occurred.
//
func (it *LayoutIter) Next() bool {
	for !it.done && it.err == nil {
		if len(it.stack) == 0 {
			if it.passes > 0 && !it.cyclic {
				it.done = true
				break
			}
			it.passes++
			it.stack = append(it.stack, cursor{m: it.root})
			it.path = it.path[:0]
			continue
		}
		top := &it.stack[len(it.stack)-1]
		if top.next >= len(top.m.Cells) {
			it.stack = it.stack[:len(it.stack)-1]
			if len(it.path) > 0 {
				it.path = it.path[:len(it.path)-1]
			}
			continue
		}
		ch := CellHandle(top.next)
		top.next++
		switch c := top.m.Cells[ch].(type) {
		case Primitive:
			if it.cyclic && len(it.stack) != it.passes {
				continue
			}
			it.cur = make(Path, len(it.path)+1)
			copy(it.cur, it.path)
			it.cur[len(it.path)] = ch
			return true
		case ModuleLink:
			if !it.live[c.Module] || it.cyclic && len(it.stack) >= it.passes {
				continue
			}
			m, err := it.nl.Module(c.Module)
			if err != nil {
				it.err = err
				break
			}
			it.path = append(it.path, ch)
			it.stack = append(it.stack, cursor{m: m})
		}
	}
	it.cur = nil
	return false
}

// Path returns the current path. The returned slice is not modified by later
// calls to Next.
//
func (it *LayoutIter) Path() Path { return it.cur }

// Err returns the error, if any, that was encountered during iteration.
//
func (it *LayoutIter) Err() error { return it.err }
