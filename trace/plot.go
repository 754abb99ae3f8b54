// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trace

import (
	"io"

	"github.com/db47h/gatesim"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// height of each signal value within a channel lane
var levels = [...]float64{
	gatesim.False:             0,
	gatesim.UncontrolledFalse: 0.2,
	gatesim.HighImpedance:     0.4,
	gatesim.Undefined:         0.4,
	gatesim.UncontrolledTrue:  0.6,
	gatesim.True:              0.8,
}

func level(s gatesim.Signal) float64 {
	if int(s) < len(levels) {
		return levels[s]
	}
	return levels[gatesim.Undefined]
}

// Plot renders all channels as stepped lines, one lane per channel, the first
// channel at the top.
//
func (r *Recorder) Plot(title string) (*plot.Plot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "tick"
	var ticks plot.ConstantTicks
	for i, ch := range r.chans {
		if len(ch.edges) == 0 {
			continue
		}
		base := float64(len(r.chans) - 1 - i)
		xys := make(plotter.XYs, 0, len(ch.edges)+1)
		for _, e := range ch.edges {
			xys = append(xys, plotter.XY{X: float64(e.Tick), Y: base + level(e.Value)})
		}
		xys = append(xys, plotter.XY{X: float64(ch.last), Y: xys[len(xys)-1].Y})
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, errors.Wrapf(err, "channel %s", ch.name)
		}
		l.StepStyle = plotter.PostStep
		l.Color = plotutil.Color(i)
		p.Add(l)
		ticks = append(ticks, plot.Tick{Value: base + levels[gatesim.Undefined], Label: ch.name})
	}
	p.Y.Tick.Marker = ticks
	return p, nil
}

// WritePlot renders all channels to file. The image format is taken from the
// file name extension (png, svg, pdf, ...).
//
func (r *Recorder) WritePlot(file, title string, width, height vg.Length) error {
	p, err := r.Plot(title)
	if err != nil {
		return err
	}
	return errors.Wrap(p.Save(width, height, file), "save plot")
}

// Render renders all channels to w in the given image format.
//
func (r *Recorder) Render(w io.Writer, title, format string, width, height vg.Length) error {
	p, err := r.Plot(title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return errors.Wrap(err, "render plot")
	}
	_, err = wt.WriteTo(w)
	return errors.Wrap(err, "write plot")
}
