// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"fmt"
	"strconv"
)

// SignalID is the address of a slot in a flat circuit. It indexes both the
// operation driving the slot and the signal currently stored in it.
//
type SignalID int

func (id SignalID) String() string { return "#" + strconv.Itoa(int(id)) }

// An InputFunc samples the outside world for the input at the given slot.
// tick is the logical input tick, that is the raw simulation tick divided by
// the circuit's ticks per input.
//
// InputFuncs are called concurrently for distinct slots and must be pure
// functions of their arguments.
//
type InputFunc func(slot int, tick uint64) Signal

// An OutputFunc receives the value of the signal observed by the output at the
// given slot. tick is the raw simulation tick. OutputFuncs are called on every
// tick, concurrently for distinct slots.
//
// An OutputFunc may block, but doing so blocks the whole simulation: a tick
// completes only when all slots have been updated.
//
type OutputFunc func(slot int, tick uint64, s Signal)

// HighZ is the InputFunc used for slots that nothing drives.
//
func HighZ(int, uint64) Signal { return HighImpedance }

// Opcode identifies the kind of an Operation.
//
type Opcode uint8

// Opcodes.
//
const (
	OpInput Opcode = iota
	OpOutput
	OpNot
	OpAnd
	OpNand
	OpOr
	OpNor
	OpXor
	OpXnor

	opCount
)

var opNames = [...]string{
	OpInput:  "INPUT",
	OpOutput: "OUTPUT",
	OpNot:    "NOT",
	OpAnd:    "AND",
	OpNand:   "NAND",
	OpOr:     "OR",
	OpNor:    "NOR",
	OpXor:    "XOR",
	OpXnor:   "XNOR",
}

func (op Opcode) String() string {
	if op >= opCount {
		return "Opcode(" + strconv.Itoa(int(op)) + ")"
	}
	return opNames[op]
}

// Arity returns the number of SignalID operands of op.
//
func (op Opcode) Arity() int {
	switch op {
	case OpInput:
		return 0
	case OpOutput, OpNot:
		return 1
	}
	return 2
}

// Gate returns true if op is a logic gate, i.e. neither an input nor an output.
//
func (op Opcode) Gate() bool { return op >= OpNot && op < opCount }

// Operation is one instruction of a flat circuit: the function computing the
// next value of a slot. The Op field selects which of the other fields are
// used:
//
//	OpInput:  In
//	OpOutput: A (source), Out
//	OpNot:    A
//	others:   A, B
//
// Operations should be created with the constructor functions (Input, Output,
// Not, And, etc.).
//
type Operation struct {
	Op  Opcode
	A   SignalID
	B   SignalID
	In  InputFunc
	Out OutputFunc
}

// Input returns an input operation sampling fn.
//
func Input(fn InputFunc) Operation { return Operation{Op: OpInput, In: fn} }

// Output returns an output operation watching src.
//
func Output(src SignalID, fn OutputFunc) Operation {
	return Operation{Op: OpOutput, A: src, Out: fn}
}

// Not returns a NOT gate.
//
func Not(a SignalID) Operation { return Operation{Op: OpNot, A: a} }

// And returns an AND gate.
//
func And(a, b SignalID) Operation { return Operation{Op: OpAnd, A: a, B: b} }

// Nand returns a NAND gate.
//
func Nand(a, b SignalID) Operation { return Operation{Op: OpNand, A: a, B: b} }

// Or returns an OR gate.
//
func Or(a, b SignalID) Operation { return Operation{Op: OpOr, A: a, B: b} }

// Nor returns a NOR gate.
//
func Nor(a, b SignalID) Operation { return Operation{Op: OpNor, A: a, B: b} }

// Xor returns a XOR gate.
//
func Xor(a, b SignalID) Operation { return Operation{Op: OpXor, A: a, B: b} }

// Xnor returns a XNOR gate.
//
func Xnor(a, b SignalID) Operation { return Operation{Op: OpXnor, A: a, B: b} }

// Binary returns a two input gate of the given type. It panics if op is not a
// two input gate.
//
func Binary(op Opcode, a, b SignalID) Operation {
	if !op.Gate() || op == OpNot {
		panic("not a binary gate: " + op.String())
	}
	return Operation{Op: op, A: a, B: b}
}

// Operands returns the slots read by o.
//
func (o Operation) Operands() []SignalID {
	switch o.Op.Arity() {
	case 0:
		return nil
	case 1:
		return []SignalID{o.A}
	}
	return []SignalID{o.A, o.B}
}

func (o Operation) String() string {
	switch o.Op.Arity() {
	case 0:
		return o.Op.String()
	case 1:
		return fmt.Sprintf("%v(%v)", o.Op, o.A)
	}
	return fmt.Sprintf("%v(%v, %v)", o.Op, o.A, o.B)
}

// eval computes the next value of a gate.
func (o *Operation) eval(s []Signal) Signal {
	switch o.Op {
	case OpNot:
		return notTable[s[o.A]]
	case OpAnd:
		return andTable[s[o.A]][s[o.B]]
	case OpNand:
		return notTable[andTable[s[o.A]][s[o.B]]]
	case OpOr:
		return orTable[s[o.A]][s[o.B]]
	case OpNor:
		return notTable[orTable[s[o.A]][s[o.B]]]
	case OpXor:
		return xorTable[s[o.A]][s[o.B]]
	case OpXnor:
		return notTable[xorTable[s[o.A]][s[o.B]]]
	}
	panic("eval: not a gate: " + o.Op.String())
}
