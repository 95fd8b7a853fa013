/*
Copyright © 2026 the sgrid authors.
This file is part of sgrid.

sgrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

sgrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with sgrid.  If not, see <http://www.gnu.org/licenses/>.
*/

package sgrid

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"
)

// CellGrid builds grids whose cells are centred on the samples. Grid nodes
// sit half way between neighbouring samples and on layer boundaries, and
// the curtain is given a thickness of Width by offsetting two walls of
// nodes to either side of the line.
type CellGrid struct {
	Policy NullPolicy
	Width  float64
	Log    logrus.FieldLogger
}

// NewCellGrid returns a cell-aligned grid constructor for curtains of the
// given width.
func NewCellGrid(policy NullPolicy, width float64, log logrus.FieldLogger) *CellGrid {
	return &CellGrid{Policy: policy, Width: width, Log: log}
}

// Alignment implements GridConstructor.
func (c *CellGrid) Alignment() Alignment { return Cells }

var vertical = r3.Vec{Z: 1}

// node returns the value of f at node si of a line with ns samples. Inner
// nodes lie midway between samples si-1 and si; the two end nodes are
// extrapolated half a segment beyond the end samples.
func node(f func(si int) float64, si, ns int) float64 {
	switch si {
	case 0:
		return f(0) - (f(1)-f(0))/2
	case ns:
		return f(ns-1) + (f(ns-1)-f(ns-2))/2
	default:
		return (f(si-1) + f(si)) / 2
	}
}

// tangent returns the direction of the line at node si.
func (c *CellGrid) tangent(l *Line, si int) r3.Vec {
	ns := l.NSamples()
	a, b := si-1, si
	switch si {
	case 0:
		a, b = 0, 1
	case ns:
		a, b = ns-2, ns-1
	}
	p, q := l.Samples[a], l.Samples[b]
	return r3.Vec{X: q.X - p.X, Y: q.Y - p.Y}
}

// offset returns the horizontal displacement of wall wi at node si.
func (c *CellGrid) offset(l *Line, si, wi int) r3.Vec {
	v := c.tangent(l, si)
	if r3.Norm(v) == 0 {
		return r3.Vec{}
	}
	angle := math.Pi / 2
	if wi == 1 {
		angle = -angle
	}
	return r3.Scale(c.Width/2, r3.Unit(r3.Rotate(v, angle, vertical)))
}

// Construct implements GridConstructor.
func (c *CellGrid) Construct(name string, l *Line) (*Grid, error) {
	if err := l.checkDepths(); err != nil {
		return nil, err
	}
	ns, nl := l.NSamples(), l.NLayers()
	if ns < 2 {
		return nil, fmt.Errorf("sgrid: line %d: cell alignment needs at least 2 samples, have %d", l.Number, ns)
	}
	if nl == 0 {
		return nil, fmt.Errorf("sgrid: line %d has no layers", l.Number)
	}
	x := func(si int) float64 { return l.Samples[si].X }
	y := func(si int) float64 { return l.Samples[si].Y }
	e := func(si int) float64 { return l.Samples[si].E }

	g := &Grid{
		Name:      name,
		Alignment: Cells,
		N:         [3]int{ns + 1, nl + 1, 2},
		Records:   make([]Record, 0, (ns+1)*(nl+1)*2),
		NoData:    c.Policy.OutputNull,
	}
	for wi := 0; wi < 2; wi++ {
		for li := 0; li <= nl; li++ {
			z := func(si int) float64 { return l.boundary(si, li) }
			for si := 0; si <= ns; si++ {
				off := c.offset(l, si, wi)
				zc, ec := node(z, si, ns), node(e, si, ns)
				r := Record{
					X:     node(x, si, ns) + off.X,
					Y:     node(y, si, ns) + off.Y,
					Z:     zc,
					Value: c.Policy.OutputNull,
					I:     si,
					J:     li,
					K:     wi,
				}
				if wi == 0 && li < nl && si < ns {
					r.Value = c.Policy.Mask(l.Conductivity.At(si, li), zc, ec, false)
				}
				g.Records = append(g.Records, r)
			}
		}
	}
	if c.Log != nil {
		c.Log.WithFields(logrus.Fields{
			"grid":  name,
			"nodes": len(g.Records),
			"nulls": g.NullCount(),
			"width": c.Width,
		}).Debug("constructed cell-aligned grid")
	}
	return g, nil
}
