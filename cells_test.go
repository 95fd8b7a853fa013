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
	"testing"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/mat"
)

func cellGrid(t *testing.T, l *Line, width float64) *Grid {
	if err := l.Apply(BuildDepths(false, 0)); err != nil {
		t.Fatal(err)
	}
	var c GridConstructor = NewCellGrid(DefaultNullPolicy(), width, discardLogger())
	if c.Alignment() != Cells {
		t.Errorf("alignment: %v", c.Alignment())
	}
	g, err := c.Construct("line1001", l)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestCellGridShape(t *testing.T) {
	g := cellGrid(t, testLine(), 4)
	if g.N != [3]int{4, 3, 2} {
		t.Errorf("axis sizes: have %v, want [4 3 2]", g.N)
	}
	if len(g.Records) != 24 || g.Len() != 24 {
		t.Fatalf("have %d records for %d nodes, want 24", len(g.Records), g.Len())
	}
	i := 0
	for wi := 0; wi < 2; wi++ {
		for li := 0; li <= 2; li++ {
			for si := 0; si <= 3; si++ {
				r := g.Records[i]
				if r.I != si || r.J != li || r.K != wi {
					t.Errorf("record %d: have indices (%d,%d,%d), want (%d,%d,%d)",
						i, r.I, r.J, r.K, si, li, wi)
				}
				hasData := wi == 0 && li < 2 && si < 3
				if hasData && r.Value != 0.05 {
					t.Errorf("record %d: have %g, want 0.05", i, r.Value)
				} else if !hasData && r.Value != -999 {
					t.Errorf("record %d: have %g, want no data", i, r.Value)
				}
				i++
			}
		}
	}
	if n := g.NullCount(); n != 18 {
		t.Errorf("null count: have %d, want 18", n)
	}
}

func TestCellGridGeometry(t *testing.T) {
	g := cellGrid(t, testLine(), 4)
	const tolerance = 1e-9

	// Nodes sit half way between samples and half a segment beyond the
	// end samples; wall 0 lies to the left of the direction of travel.
	wantX := []float64{-5, 5, 15, 25}
	wantZ := [][]float64{
		{105, 95, 85, 75},
		{95, 85, 75, 65},
		{85, 75, 65, 55},
	}
	for _, r := range g.Records {
		wantY := 2.
		if r.K == 1 {
			wantY = -2
		}
		if different(r.X, wantX[r.I], tolerance) || different(r.Y, wantY, tolerance) ||
			different(r.Z, wantZ[r.J][r.I], tolerance) {
			t.Errorf("node (%d,%d,%d): have (%g, %g, %g), want (%g, %g, %g)",
				r.I, r.J, r.K, r.X, r.Y, r.Z, wantX[r.I], wantY, wantZ[r.J][r.I])
		}
	}
}

func TestCellGridDiagonalOffset(t *testing.T) {
	l := testLine()
	l.Samples[1].X, l.Samples[1].Y = 10, 10
	l.Samples[2].X, l.Samples[2].Y = 20, 20
	g := cellGrid(t, l, 2)

	// The walls are offset perpendicular to the line by half the width.
	for _, r := range g.Records[:4] {
		c := g.Records[len(g.Records)/2+r.I]
		mid := geom.Point{X: (r.X + c.X) / 2, Y: (r.Y + c.Y) / 2}
		if different(mid.X, mid.Y, 1e-9) {
			t.Errorf("node %d: walls not centred on the line: %+v", r.I, mid)
		}
		sep := geom.LineString{{X: r.X, Y: r.Y}, {X: c.X, Y: c.Y}}.Length()
		if different(sep, 2, 1e-9) {
			t.Errorf("node %d: wall separation %g, want 2", r.I, sep)
		}
	}
}

func TestCellGridNonPositiveIsNull(t *testing.T) {
	l := testLine()
	l.Conductivity.Set(0, 0, -1)
	l.Conductivity.Set(1, 0, 0)
	g := cellGrid(t, l, 4)
	for i := 0; i < 2; i++ {
		if g.Records[i].Value != -999 {
			t.Errorf("record %d: have %g, want no data", i, g.Records[i].Value)
		}
	}
}

func TestCellGridDepthCutoff(t *testing.T) {
	l := testLine()
	if err := l.Apply(BuildDepths(false, 0)); err != nil {
		t.Fatal(err)
	}
	p := DefaultNullPolicy()
	p.BelowDepth = 12
	g, err := NewCellGrid(p, 4, nil).Construct("x", l)
	if err != nil {
		t.Fatal(err)
	}
	// Node elevations and boundaries are interpolated alike, so layer 0
	// nodes sit on the surface and layer 1 nodes 10 m below it.
	for _, r := range g.Records {
		if r.K == 0 && r.J < 2 && r.I < 3 && r.Value != 0.05 {
			t.Errorf("node (%d,%d,%d): have %g, want 0.05", r.I, r.J, r.K, r.Value)
		}
	}
	p.BelowDepth = 5
	g, err = NewCellGrid(p, 4, nil).Construct("x", l)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range g.Records {
		want := 0.05
		if r.K != 0 || r.J != 0 || r.I >= 3 {
			want = -999
		}
		if r.Value != want {
			t.Errorf("node (%d,%d,%d): have %g, want %g", r.I, r.J, r.K, r.Value, want)
		}
	}
}

func TestCellGridTooFewSamples(t *testing.T) {
	l := &Line{
		Samples:      []Sample{{E: 100}},
		Conductivity: mat.NewDense(1, 2, []float64{0.1, 0.1}),
		Thickness:    ConstantThickness{10},
	}
	if err := l.Apply(BuildDepths(false, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCellGrid(DefaultNullPolicy(), 4, nil).Construct("x", l); err == nil {
		t.Error("expected an error for a single-sample line")
	}
}
