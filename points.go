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

	"github.com/sirupsen/logrus"
)

// PointGrid builds grids with one node per sample and layer, placed at the
// vertical middle of the layer.
type PointGrid struct {
	Policy NullPolicy
	Log    logrus.FieldLogger
}

// NewPointGrid returns a point-aligned grid constructor.
func NewPointGrid(policy NullPolicy, log logrus.FieldLogger) *PointGrid {
	return &PointGrid{Policy: policy, Log: log}
}

// Alignment implements GridConstructor.
func (p *PointGrid) Alignment() Alignment { return Points }

// Construct implements GridConstructor.
func (p *PointGrid) Construct(name string, l *Line) (*Grid, error) {
	if err := l.checkDepths(); err != nil {
		return nil, err
	}
	ns, nl := l.NSamples(), l.NLayers()
	if ns == 0 || nl == 0 {
		return nil, fmt.Errorf("sgrid: line %d: cannot grid %d samples with %d layers", l.Number, ns, nl)
	}
	g := &Grid{
		Name:      name,
		Alignment: Points,
		N:         [3]int{ns, nl, 1},
		Records:   make([]Record, 0, ns*nl),
		NoData:    p.Policy.OutputNull,
	}
	for li := 0; li < nl; li++ {
		for si, s := range l.Samples {
			z := (l.boundary(si, li) + l.boundary(si, li+1)) / 2
			g.Records = append(g.Records, Record{
				X:     s.X,
				Y:     s.Y,
				Z:     z,
				Value: p.Policy.Mask(l.Conductivity.At(si, li), z, s.E, true),
				I:     si,
				J:     li,
			})
		}
	}
	if p.Log != nil {
		p.Log.WithFields(logrus.Fields{
			"grid":  name,
			"nodes": len(g.Records),
			"nulls": g.NullCount(),
		}).Debug("constructed point-aligned grid")
	}
	return g, nil
}
