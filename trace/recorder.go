// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package trace records the waveforms seen by circuit probes.
//
// A Recorder hands out gatesim.OutputFunc probes, one per named channel, and
// keeps for each channel the list of ticks at which its value changed. Probes
// may run concurrently on different circuit workers.
//
package trace

import (
	"sort"
	"sync"

	"github.com/db47h/gatesim"
	"github.com/pkg/errors"
)

// ErrNoChannel is returned when looking up a channel that was never created.
//
var ErrNoChannel = errors.New("no such channel")

// Edge is a change in the value of a channel.
//
type Edge struct {
	Tick  uint64
	Value gatesim.Signal
}

type channel struct {
	name  string
	edges []Edge
	last  uint64 // last tick seen
	seen  bool
}

// Recorder records the edges of a set of named channels.
//
type Recorder struct {
	mu    sync.Mutex
	chans []*channel
	index map[string]int
}

// NewRecorder returns a new empty Recorder.
//
func NewRecorder() *Recorder {
	return &Recorder{index: make(map[string]int)}
}

// Probe returns a probe recording its samples into channel name. The channel
// is created on first use. Samples must be fed in increasing tick order,
// which is always the case for circuit output handlers.
//
func (r *Recorder) Probe(name string) gatesim.OutputFunc {
	r.mu.Lock()
	i, ok := r.index[name]
	if !ok {
		i = len(r.chans)
		r.chans = append(r.chans, &channel{name: name})
		r.index[name] = i
	}
	ch := r.chans[i]
	r.mu.Unlock()

	return func(_ int, tick uint64, s gatesim.Signal) {
		r.mu.Lock()
		if n := len(ch.edges); n == 0 || ch.edges[n-1].Value != s {
			ch.edges = append(ch.edges, Edge{tick, s})
		}
		ch.last, ch.seen = tick, true
		r.mu.Unlock()
	}
}

// Names returns the names of all channels in creation order.
//
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.chans))
	for i, ch := range r.chans {
		names[i] = ch.name
	}
	return names
}

func (r *Recorder) channel(name string) (*channel, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, errors.Wrap(ErrNoChannel, name)
	}
	return r.chans[i], nil
}

// Edges returns a copy of the edges recorded for channel name.
//
func (r *Recorder) Edges(name string) ([]Edge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, err := r.channel(name)
	if err != nil {
		return nil, err
	}
	return append([]Edge(nil), ch.edges...), nil
}

// At returns the value of channel name at the given tick. It returns
// Undefined for ticks that were not recorded.
//
func (r *Recorder) At(name string, tick uint64) (gatesim.Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, err := r.channel(name)
	if err != nil {
		return gatesim.Undefined, err
	}
	if !ch.seen || tick > ch.last {
		return gatesim.Undefined, nil
	}
	i := sort.Search(len(ch.edges), func(i int) bool { return ch.edges[i].Tick > tick })
	if i == 0 {
		return gatesim.Undefined, nil
	}
	return ch.edges[i-1].Value, nil
}

// Reset discards all recorded edges. Channels and their probes stay valid.
//
func (r *Recorder) Reset() {
	r.mu.Lock()
	for _, ch := range r.chans {
		ch.edges = ch.edges[:0]
		ch.last, ch.seen = 0, false
	}
	r.mu.Unlock()
}
