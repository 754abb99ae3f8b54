// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/gatesim"
	"github.com/db47h/gatesim/netlist"
	"github.com/pkg/errors"
)

// ErrInterfaceMismatch is returned when comparing modules with different
// port lists.
//
var ErrInterfaceMismatch = errors.New("module interfaces differ")

// interfaces returns the modules m1 and m2 after checking that they have the
// same ports.
func interfaces(n *netlist.Netlist, m1, m2 netlist.ModuleHandle) (*netlist.Module, *netlist.Module, error) {
	mod1, err := n.Module(m1)
	if err != nil {
		return nil, nil, err
	}
	mod2, err := n.Module(m2)
	if err != nil {
		return nil, nil, err
	}
	if len(mod1.Ports) != len(mod2.Ports) {
		return nil, nil, errors.Wrapf(ErrInterfaceMismatch, "%s has %d ports, %s has %d", mod1.Name, len(mod1.Ports), mod2.Name, len(mod2.Ports))
	}
	for i, p := range mod1.Ports {
		if q := mod2.Ports[i]; p.Name != q.Name || p.Dir != q.Dir {
			return nil, nil, errors.Wrapf(ErrInterfaceMismatch, "port %d: %s %s != %s %s", i, p.Dir, p.Name, q.Dir, q.Name)
		}
	}
	return mod1, mod2, nil
}

// CompareModules simulates modules m1 and m2 side by side and checks that
// their outputs match when fed the same inputs. Both modules must have the
// same ports. The netlist is left unchanged.
//
// Inputs are all false, then all true, then random for up to 4096 input
// ticks. Outputs are compared at the end of each input tick: tpi must be large
// enough for the modules to settle.
//
func CompareModules(t *testing.T, n *netlist.Netlist, m1, m2 netlist.ModuleHandle, tpi uint) {
	t.Helper()

	mod1, _, err := interfaces(n, m1, m2)
	if err != nil {
		t.Fatal(err)
	}

	var (
		inputs  []bool
		inNames []string
		outputs [][2]gatesim.Signal
		outIdx  []int
	)
	b := gatesim.NewBuilder()
	ports1, err := n.Lower(b, m1)
	if err != nil {
		t.Fatal(err)
	}
	ports2, err := n.Lower(b, m2)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range mod1.Ports {
		if p.Dir == netlist.In {
			k := len(inputs)
			inputs = append(inputs, false)
			inNames = append(inNames, p.Name)
			in := func(int, uint64) gatesim.Signal { return gatesim.Bool(inputs[k]) }
			if err = b.MkInput(ports1[i], in); err == nil {
				err = b.MkInput(ports2[i], in)
			}
		} else {
			k := len(outputs)
			outputs = append(outputs, [2]gatesim.Signal{})
			outIdx = append(outIdx, i)
			err = b.MkOutput(b.Alloc(), ports1[i], func(_ int, _ uint64, s gatesim.Signal) { outputs[k][0] = s })
			if err == nil {
				err = b.MkOutput(b.Alloc(), ports2[i], func(_ int, _ uint64, s gatesim.Signal) { outputs[k][1] = s })
			}
		}
		if err != nil {
			t.Fatal(err)
		}
	}

	c, err := gatesim.NewCircuit(0, tpi, b.Desc())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	errString := func(o int) string {
		var b strings.Builder
		for i, n := range inNames {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", n, inputs[i])
		}
		return fmt.Sprintf("\nInputs %s => %s: %v != %v", b.String(), mod1.Ports[outIdx[o]].Name, outputs[o][0], outputs[o][1])
	}

	check := func() {
		c.Run(uint64(tpi))
		for o, out := range outputs {
			if out[0].Definite() != out[1].Definite() || out[0].IsTrue() != out[1].IsTrue() {
				t.Fatal(errString(o))
			}
		}
	}

	iter := len(inputs)
	if iter > 12 {
		iter = 12
	}
	iter = 1 << uint(iter)

	start := time.Now()
	rnd := rand.New(rand.NewSource(start.UnixNano()))

	// try all 0
	check()

	// try all 1
	for i := range inputs {
		inputs[i] = true
	}
	check()

	for i := 0; i < iter; i++ {
		for in := range inputs {
			inputs[in] = rnd.Int63()&(1<<62) != 0
		}
		check()
	}

	elapsed := time.Since(start)
	t.Logf("%d slots. %d ticks in %v => %.2f ticks/s", c.Size(), c.Ticks(), elapsed, float64(c.Ticks())/elapsed.Seconds())
}
