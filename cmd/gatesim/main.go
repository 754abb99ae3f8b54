// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command gatesim simulates an unclocked NOR latch whose set and reset inputs
// toggle with different periods, and reports the edges seen on its inputs and
// outputs.
//
// Usage:
//
//	gatesim [-tpi n] [-ticks n] [-workers n] [-plot file] [-v]
//
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/db47h/gatesim/hwlib"
	"github.com/db47h/gatesim/netlist"
	"github.com/db47h/gatesim/trace"
	"gonum.org/v1/plot/vg"
)

func main() {
	var (
		tpi      = flag.Uint("tpi", 8, "circuit ticks per input tick")
		ticks    = flag.Uint64("ticks", 257, "number of circuit ticks to run")
		workers  = flag.Int("workers", 0, "number of worker goroutines (0 = GOMAXPROCS)")
		plotFile = flag.String("plot", "", "write a waveform plot to `file` (png, svg, pdf)")
		verbose  = flag.Bool("v", false, "log every edge and the circuit layout")
	)
	flag.Parse()

	l := log.New(os.Stderr, "gatesim: ", 0)

	n := netlist.New()
	latch, err := hwlib.New(n).NorLatch()
	if err != nil {
		l.Fatal(err)
	}

	rec := trace.NewRecorder()
	top, m := n.NewModule("main")
	s := m.AddCell(netlist.Stimulus(hwlib.Periodic(2)))
	r := m.AddCell(netlist.Stimulus(hwlib.Periodic(4)))
	c := m.AddCell(netlist.Instance("latch", latch))
	wires := [][2]netlist.Address{
		{s.Out(), c.Port(0)},
		{r.Out(), c.Port(1)},
	}
	for _, p := range []struct {
		name string
		from netlist.Address
	}{
		{"s", s.Out()},
		{"r", r.Out()},
		{"q", c.Port(2)},
		{"qn", c.Port(3)},
	} {
		pc := m.AddCell(netlist.Probe(rec.Probe(p.name)))
		wires = append(wires, [2]netlist.Address{p.from, pc.Port(1)})
	}
	for _, w := range wires {
		if err = m.Connect(w[0], w[1]); err != nil {
			l.Fatal(err)
		}
	}

	if *verbose {
		cnt, _, err := n.CountPrimitives(top)
		if err != nil {
			l.Fatal(err)
		}
		l.Printf("%d primitives", cnt)
		for it := n.Layout(top); it.Next(); {
			l.Printf("  %v", it.Path())
		}
	}

	circuit, err := n.Circuit(top, *workers, *tpi)
	if err != nil {
		l.Fatalf("%+v", err)
	}
	defer circuit.Dispose()

	start := time.Now()
	circuit.Run(*ticks)
	elapsed := time.Since(start)
	l.Printf("%d slots, %d workers. %d ticks in %v", circuit.Size(), circuit.Workers(), circuit.Ticks(), elapsed)

	for _, name := range rec.Names() {
		edges, err := rec.Edges(name)
		if err != nil {
			l.Fatal(err)
		}
		l.Printf("%s: %d edges", name, len(edges))
		if *verbose {
			for _, e := range edges {
				l.Printf("  @%d: %v", e.Tick, e.Value)
			}
		}
	}

	if *plotFile != "" {
		if err = rec.WritePlot(*plotFile, "NOR latch", 10*vg.Inch, 4*vg.Inch); err != nil {
			l.Fatal(err)
		}
	}
}
