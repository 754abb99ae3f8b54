// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import "strconv"

// Signal is the state of a wire in a circuit.
//
// Besides plain False and True, a wire can be UncontrolledFalse or
// UncontrolledTrue when its value stems from a race in a feedback loop,
// HighImpedance when nothing drives it, and Undefined before anything has been
// computed for it.
//
// The numeric order of the constants gives a total ordering of signals. It has
// no meaning beyond making comparisons deterministic.
//
type Signal uint8

// Signal values.
//
const (
	False Signal = iota
	True
	UncontrolledFalse
	UncontrolledTrue
	HighImpedance
	Undefined

	signalCount
)

var signalNames = [...]string{
	False:             "False",
	True:              "True",
	UncontrolledFalse: "Uncontrolled False",
	UncontrolledTrue:  "Uncontrolled True",
	HighImpedance:     "High Impedance",
	Undefined:         "Undefined",
}

// Signals returns all signal values in order.
//
func Signals() []Signal {
	return []Signal{False, True, UncontrolledFalse, UncontrolledTrue, HighImpedance, Undefined}
}

func (s Signal) String() string {
	if s >= signalCount {
		return "Signal(" + strconv.Itoa(int(s)) + ")"
	}
	return signalNames[s]
}

// Bool converts a boolean to False or True.
//
func Bool(b bool) Signal {
	if b {
		return True
	}
	return False
}

// IsTrue returns true if s is True or UncontrolledTrue.
//
func (s Signal) IsTrue() bool { return s == True || s == UncontrolledTrue }

// IsFalse returns true if s is False or UncontrolledFalse.
//
func (s Signal) IsFalse() bool { return s == False || s == UncontrolledFalse }

// Uncontrolled returns true if s is one of the uncontrolled states.
//
func (s Signal) Uncontrolled() bool { return s == UncontrolledFalse || s == UncontrolledTrue }

// Definite returns true if s is a boolean value, controlled or not.
//
func (s Signal) Definite() bool { return s <= UncontrolledTrue }

// short names for the truth tables below.
const (
	f_ = False
	t_ = True
	uf = UncontrolledFalse
	ut = UncontrolledTrue
	hz = HighImpedance
	un = Undefined
)

var notTable = [signalCount]Signal{t_, f_, ut, uf, hz, un}

// Rows are indexed by the left operand, columns by the right operand.
// All three tables are symmetric.
var (
	andTable = [signalCount][signalCount]Signal{
		//   F   T   UF  UT  HZ  U
		f_: {f_, f_, uf, f_, f_, f_},
		t_: {f_, t_, uf, ut, hz, un},
		uf: {uf, uf, uf, uf, uf, uf},
		ut: {f_, ut, uf, ut, hz, un},
		hz: {f_, hz, uf, hz, hz, hz},
		un: {f_, un, uf, un, hz, un},
	}
	orTable = [signalCount][signalCount]Signal{
		//   F   T   UF  UT  HZ  U
		f_: {f_, t_, uf, ut, hz, un},
		t_: {t_, t_, t_, ut, t_, t_},
		uf: {uf, t_, uf, ut, hz, un},
		ut: {ut, ut, ut, ut, ut, ut},
		hz: {hz, t_, hz, ut, hz, hz},
		un: {un, t_, un, ut, hz, un},
	}
	xorTable = [signalCount][signalCount]Signal{
		//   F   T   UF  UT  HZ  U
		f_: {f_, t_, uf, ut, hz, un},
		t_: {t_, f_, ut, uf, hz, un},
		uf: {uf, ut, uf, ut, hz, un},
		ut: {ut, uf, ut, uf, hz, un},
		hz: {hz, hz, hz, hz, hz, hz},
		un: {un, un, un, un, hz, un},
	}
)

// Not returns the complement of s. HighImpedance and Undefined are left
// unchanged.
//
func (s Signal) Not() Signal { return notTable[s] }

// And returns s AND o.
//
// False absorbs everything except UncontrolledFalse, which absorbs everything
// including False.
//
func (s Signal) And(o Signal) Signal { return andTable[s][o] }

// Or returns s OR o.
//
// True absorbs everything except UncontrolledTrue, which absorbs everything
// including True.
//
func (s Signal) Or(o Signal) Signal { return orTable[s][o] }

// Xor returns s XOR o. HighImpedance dominates Undefined, which dominates
// every boolean value.
//
func (s Signal) Xor(o Signal) Signal { return xorTable[s][o] }

// Nand returns NOT (s AND o).
//
func (s Signal) Nand(o Signal) Signal { return notTable[andTable[s][o]] }

// Nor returns NOT (s OR o).
//
func (s Signal) Nor(o Signal) Signal { return notTable[orTable[s][o]] }

// Xnor returns NOT (s XOR o).
//
func (s Signal) Xnor(o Signal) Signal { return notTable[xorTable[s][o]] }
