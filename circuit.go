// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// Errors returned by NewCircuit.
//
var (
	ErrEmptyCircuit = errors.New("empty circuit description")
	ErrZeroTPI      = errors.New("ticks per input must be at least 1")
	ErrBadOperand   = errors.New("operand out of range")
)

// Circuit is a runnable flat circuit simulation.
//
// Each tick, every slot computes its next value from the current value of the
// slots it reads. All slots are updated in parallel into a second buffer, then
// both buffers are swapped.
//
type Circuit struct {
	desc []Operation
	s0   []Signal // current signal states
	s1   []Signal // next signal states
	tpi  uint64   // ticks per input
	tick uint64

	wc       []chan struct{}
	wg       sync.WaitGroup
	panics   []interface{} // panic values recovered by each worker during the last tick
	disposed bool
}

// NewCircuit returns a new circuit simulating the given flat description.
//
// workers is the number of goroutines used to update the state of the Circuit
// each tick of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// ticksPerInput is the number of ticks between two successive samplings of
// Input operations. It should be greater than the propagation delay of the
// circuit (a gate takes one tick to update its output), otherwise inputs may
// change before the previous ones have propagated through the circuit.
//
// All signals start as Undefined. Callers must make sure to call Dispose() once
// the circuit is no longer needed in order to release allocated resources.
//
func NewCircuit(workers int, ticksPerInput uint, desc []Operation) (*Circuit, error) {
	if len(desc) == 0 {
		return nil, ErrEmptyCircuit
	}
	if ticksPerInput == 0 {
		return nil, ErrZeroTPI
	}
	if err := validate(desc); err != nil {
		return nil, err
	}

	c := &Circuit{
		desc: desc,
		s0:   make([]Signal, len(desc)),
		s1:   make([]Signal, len(desc)),
		tpi:  uint64(ticksPerInput),
	}
	for i := range c.s0 {
		c.s0[i] = Undefined
		c.s1[i] = Undefined
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers > len(desc) {
		workers = len(desc)
	}
	size := len(desc) / workers
	if size*workers < len(desc) {
		size++
	}
	for lo := 0; lo < len(desc); lo += size {
		hi := lo + size
		if hi > len(desc) {
			hi = len(desc)
		}
		wc := make(chan struct{}, 1)
		c.wc = append(c.wc, wc)
		go worker(c, len(c.wc)-1, lo, hi, wc)
	}
	c.panics = make([]interface{}, len(c.wc))

	return c, nil
}

func validate(desc []Operation) error {
	for i := range desc {
		op := &desc[i]
		switch {
		case op.Op >= opCount:
			return errors.Errorf("slot %d: invalid opcode %v", i, op.Op)
		case op.Op == OpInput && op.In == nil:
			return errors.Errorf("slot %d: nil input function", i)
		case op.Op == OpOutput && op.Out == nil:
			return errors.Errorf("slot %d: nil output function", i)
		}
		for _, id := range op.Operands() {
			if id < 0 || int(id) >= len(desc) {
				return errors.Wrapf(ErrBadOperand, "slot %d: %v reads %v", i, op.Op, id)
			}
		}
	}
	return nil
}

func worker(c *Circuit, n, lo, hi int, wc <-chan struct{}) {
	for range wc {
		c.run(n, lo, hi)
	}
	c.wg.Done()
}

// run updates slots [lo, hi) and recovers panics from user supplied handlers
// so that Tick can re-raise them in the caller's goroutine.
func (c *Circuit) run(n, lo, hi int) {
	defer func() {
		if r := recover(); r != nil {
			c.panics[n] = r
		}
		c.wg.Done()
	}()
	c.update(lo, hi)
}

func (c *Circuit) update(lo, hi int) {
	cur, next := c.s0, c.s1
	tick := c.tick
	sample := tick%c.tpi == 0
	itick := tick / c.tpi
	for i := lo; i < hi; i++ {
		op := &c.desc[i]
		switch op.Op {
		case OpInput:
			if !sample {
				next[i] = cur[i]
				continue
			}
			s := op.In(i, itick)
			// edges are injected as uncontrolled values
			switch {
			case s == True && cur[i] == False:
				s = UncontrolledTrue
			case s == False && cur[i] == True:
				s = UncontrolledFalse
			}
			next[i] = s
		case OpOutput:
			s := cur[op.A]
			next[i] = s
			op.Out(i, tick, s)
		default:
			next[i] = op.eval(cur)
		}
	}
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines. Calling Dispose more than once is a no-op.
//
func (c *Circuit) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
}

// Tick advances the simulation by one tick.
//
// Tick returns once all slots have been updated. If an input or output
// function panics, the panic is propagated to the caller of Tick and the
// simulation state is left unchanged.
//
// Tick panics if the circuit has been disposed.
//
func (c *Circuit) Tick() {
	if c.disposed {
		panic("gatesim: Tick called on disposed Circuit")
	}
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}
	c.wg.Wait()

	for _, p := range c.panics {
		if p != nil {
			for i := range c.panics {
				c.panics[i] = nil
			}
			panic(p)
		}
	}

	c.s0, c.s1 = c.s1, c.s0
	c.tick++
}

// Run runs the simulation for n ticks.
//
func (c *Circuit) Run(n uint64) {
	for ; n > 0; n-- {
		c.Tick()
	}
}

// Ticks returns the value of the tick counter.
//
func (c *Circuit) Ticks() uint64 { return c.tick }

// TPI returns the ticksPerInput value.
//
func (c *Circuit) TPI() uint { return uint(c.tpi) }

// Size returns the slot count in the circuit.
//
func (c *Circuit) Size() int { return len(c.desc) }

// Workers returns the number of worker goroutines.
//
func (c *Circuit) Workers() int { return len(c.wc) }

// Get returns the current state of slot id.
//
func (c *Circuit) Get(id SignalID) Signal { return c.s0[id] }

// Inspect returns a snapshot of the circuit description and of the current
// state of all signals.
//
// Inspect must not be called concurrently with Tick. Use Output operations to
// monitor signals while the simulation runs.
//
func (c *Circuit) Inspect() ([]Operation, []Signal) {
	desc := make([]Operation, len(c.desc))
	copy(desc, c.desc)
	s := make([]Signal, len(c.s0))
	copy(s, c.s0)
	return desc, s
}
