/*
Package gatesim provides a tick-synchronous gate-level digital logic simulator.

A circuit is a flat array of operations (inputs, outputs and logic gates)
addressed by integer slots. Every tick, each slot computes its next value from
the current values of the slots it reads; all slots are updated in parallel
into a second buffer which then becomes the current one.

Wires carry one of six signal values: False, True, UncontrolledFalse,
UncontrolledTrue, HighImpedance and Undefined. Unconnected wires read
HighImpedance, and inputs inject uncontrolled values on their leading edges so
that feedback loops with no stabilizing path, like an unclocked latch set and
reset at the same time, visibly report uncontrolled outputs instead of
silently settling to an arbitrary value.

Flat circuits are assembled with a Builder:

	b := gatesim.NewBuilder()
	a, o := b.Alloc(), b.Alloc()
	b.MkInput(a, func(_ int, tick uint64) gatesim.Signal { return gatesim.Bool(tick&1 != 0) })
	b.MkNot(o, a)
	c, err := gatesim.NewCircuit(0, 4, b.Desc())

Hierarchical designs are described with the netlist package which lowers them
into a Builder.

*/
package gatesim
