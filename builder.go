// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import "github.com/pkg/errors"

// Errors returned by the Builder methods. Use errors.Cause to test for them.
//
var (
	ErrDuplicateAssignment = errors.New("location already assigned")
	ErrUnallocated         = errors.New("location not allocated")
	ErrBuilderConsumed     = errors.New("builder already consumed by Desc")
)

// A Builder assembles the flat description of a circuit.
//
// Slots are first allocated with Alloc, then each slot is assigned exactly one
// Operation. Operations may reference any allocated slot, whether already
// assigned or not, which makes feedback loops easy to build.
//
// The zero value is an empty builder ready to use.
//
type Builder struct {
	desc     []Operation
	assigned []bool
	done     bool
}

// NewBuilder returns a new empty Builder.
//
func NewBuilder() *Builder {
	return &Builder{}
}

// Alloc allocates a new slot and returns its ID. IDs are allocated densely,
// starting from 0.
//
// Alloc panics if called after Desc.
//
func (b *Builder) Alloc() SignalID {
	if b.done {
		panic("gatesim: Alloc called on consumed Builder")
	}
	id := SignalID(len(b.desc))
	b.desc = append(b.desc, Operation{})
	b.assigned = append(b.assigned, false)
	return id
}

// Len returns the number of allocated slots.
//
func (b *Builder) Len() int { return len(b.desc) }

// Op returns the operation assigned to slot loc. ok is false if loc is not
// allocated or has not been assigned yet.
//
func (b *Builder) Op(loc SignalID) (op Operation, ok bool) {
	if !b.allocated(loc) || !b.assigned[loc] {
		return Operation{}, false
	}
	return b.desc[loc], true
}

func (b *Builder) allocated(id SignalID) bool {
	return id >= 0 && int(id) < len(b.desc)
}

// Assign assigns op to the slot loc.
//
// It returns ErrUnallocated if loc or any of the operands of op has not been
// allocated, and ErrDuplicateAssignment if loc has already been assigned.
// After Desc has been called, it always returns ErrBuilderConsumed.
//
func (b *Builder) Assign(loc SignalID, op Operation) error {
	if b.done {
		return errors.Wrapf(ErrBuilderConsumed, "assign %v to %v", op, loc)
	}
	if !b.allocated(loc) {
		return errors.Wrapf(ErrUnallocated, "assign %v to %v", op, loc)
	}
	if b.assigned[loc] {
		return errors.Wrapf(ErrDuplicateAssignment, "assign %v to %v", op, loc)
	}
	for _, id := range op.Operands() {
		if !b.allocated(id) {
			return errors.Wrapf(ErrUnallocated, "operand %v of %v at %v", id, op, loc)
		}
	}
	switch {
	case op.Op == OpInput && op.In == nil:
		return errors.Errorf("assign %v to %v: nil input function", op, loc)
	case op.Op == OpOutput && op.Out == nil:
		return errors.Errorf("assign %v to %v: nil output function", op, loc)
	case op.Op >= opCount:
		return errors.Errorf("assign to %v: invalid opcode %v", loc, op.Op)
	}
	b.desc[loc] = op
	b.assigned[loc] = true
	return nil
}

// MkInput assigns an input operation sampling fn to loc.
//
func (b *Builder) MkInput(loc SignalID, fn InputFunc) error { return b.Assign(loc, Input(fn)) }

// MkOutput assigns an output operation watching src to loc.
//
func (b *Builder) MkOutput(loc, src SignalID, fn OutputFunc) error {
	return b.Assign(loc, Output(src, fn))
}

// MkNot assigns a NOT gate to loc.
//
func (b *Builder) MkNot(loc, a SignalID) error { return b.Assign(loc, Not(a)) }

// MkAnd assigns an AND gate to loc.
//
func (b *Builder) MkAnd(loc, a, c SignalID) error { return b.Assign(loc, And(a, c)) }

// MkNand assigns a NAND gate to loc.
//
func (b *Builder) MkNand(loc, a, c SignalID) error { return b.Assign(loc, Nand(a, c)) }

// MkOr assigns an OR gate to loc.
//
func (b *Builder) MkOr(loc, a, c SignalID) error { return b.Assign(loc, Or(a, c)) }

// MkNor assigns a NOR gate to loc.
//
func (b *Builder) MkNor(loc, a, c SignalID) error { return b.Assign(loc, Nor(a, c)) }

// MkXor assigns a XOR gate to loc.
//
func (b *Builder) MkXor(loc, a, c SignalID) error { return b.Assign(loc, Xor(a, c)) }

// MkXnor assigns a XNOR gate to loc.
//
func (b *Builder) MkXnor(loc, a, c SignalID) error { return b.Assign(loc, Xnor(a, c)) }

// Desc returns the flat circuit description. Slots that have been allocated
// but never assigned become inputs permanently reading HighImpedance.
//
// The Builder is consumed by Desc: further calls to Alloc or Desc panic and
// Assign fails.
//
func (b *Builder) Desc() []Operation {
	if b.done {
		panic("gatesim: Desc called on consumed Builder")
	}
	desc := b.desc
	for i, ok := range b.assigned {
		if !ok {
			desc[i] = Input(HighZ)
		}
	}
	b.desc, b.assigned = nil, nil
	b.done = true
	return desc
}

// Unassigned returns the allocated slots that have no operation assigned yet.
//
func (b *Builder) Unassigned() []SignalID {
	var ids []SignalID
	for i, ok := range b.assigned {
		if !ok {
			ids = append(ids, SignalID(i))
		}
	}
	return ids
}
