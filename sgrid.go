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

// Package sgrid converts airborne electromagnetic line data, where every
// sample carries a layered conductivity profile, into GOCAD SGrid
// structured grids that 3D viewers can display as vertical curtains.
package sgrid

import (
	"fmt"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Version gives the version number.
const Version = "1.0.0"

// Sample is one positioned measurement along a Line.
type Sample struct {
	Index int     // position along the line after subsampling
	X     float64 // easting
	Y     float64 // northing
	E     float64 // ground elevation
}

// Line holds all of the samples of a single survey line together with
// their layered conductivity and depth information.
type Line struct {
	// Number is the survey line number.
	Number int

	Samples []Sample

	// Conductivity holds one row per sample and one column per layer [S/m].
	Conductivity *mat.Dense

	// Z holds one row per sample and nlayers+1 columns of layer boundary
	// elevations, ordered top to bottom. It is nil until BuildDepths runs.
	Z *mat.Dense

	// Thickness is the layer thickness model shared by every sample.
	Thickness ThicknessModel
}

// LineManipulator is a function that operates on a Line.
type LineManipulator func(l *Line) error

// Apply runs funcs on l in order, stopping at the first error.
func (l *Line) Apply(funcs ...LineManipulator) error {
	for _, f := range funcs {
		if err := f(l); err != nil {
			return err
		}
	}
	return nil
}

// NSamples returns the number of samples in l.
func (l *Line) NSamples() int { return len(l.Samples) }

// NLayers returns the number of conductivity layers in l.
func (l *Line) NLayers() int {
	if l.Conductivity == nil {
		return 0
	}
	_, c := l.Conductivity.Dims()
	return c
}

// Path returns the horizontal trace of l.
func (l *Line) Path() geom.LineString {
	p := make(geom.LineString, len(l.Samples))
	for i, s := range l.Samples {
		p[i] = geom.Point{X: s.X, Y: s.Y}
	}
	return p
}

// ElevationRange returns the lowest and highest sample elevations.
func (l *Line) ElevationRange() (min, max float64) {
	e := make([]float64, len(l.Samples))
	for i, s := range l.Samples {
		e[i] = s.E
	}
	if len(e) == 0 {
		return 0, 0
	}
	return floats.Min(e), floats.Max(e)
}

// boundary returns the elevation of boundary li at sample si.
func (l *Line) boundary(si, li int) float64 { return l.Z.At(si, li) }

func (l *Line) checkDepths() error {
	if l.Z == nil {
		return fmt.Errorf("sgrid: line %d has no layer boundaries; BuildDepths must run first", l.Number)
	}
	return nil
}
