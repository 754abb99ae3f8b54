// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim_test

import (
	"fmt"

	"github.com/db47h/gatesim"
)

func ExampleBuilder() {
	b := gatesim.NewBuilder()
	in, not, out := b.Alloc(), b.Alloc(), b.Alloc()

	// in toggles every input tick
	if err := b.MkInput(in, func(_ int, tick uint64) gatesim.Signal { return gatesim.Bool(tick&1 != 0) }); err != nil {
		panic(err)
	}
	if err := b.MkNot(not, in); err != nil {
		panic(err)
	}
	if err := b.MkOutput(out, not, func(_ int, tick uint64, s gatesim.Signal) {
		fmt.Printf("%d: %v\n", tick, s)
	}); err != nil {
		panic(err)
	}

	c, err := gatesim.NewCircuit(1, 2, b.Desc())
	if err != nil {
		panic(err)
	}
	defer c.Dispose()
	c.Run(6)

	// Output:
	// 0: Undefined
	// 1: Undefined
	// 2: True
	// 3: True
	// 4: Uncontrolled False
	// 5: Uncontrolled False
}
