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

import "fmt"

// Alignment specifies whether property values belong to grid points or
// to grid cells.
type Alignment int

const (
	// Points aligns values with the sample/layer points themselves.
	Points Alignment = iota
	// Cells aligns values with cell centers.
	Cells
)

func (a Alignment) String() string {
	switch a {
	case Points:
		return "POINTS"
	case Cells:
		return "CELLS"
	default:
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
}

// Record is one node of a structured grid.
type Record struct {
	X, Y, Z float64
	Value   float64 // conductivity [S/m] or the no-data value
	I, J, K int     // grid indices
}

// Grid is a structured grid ready to be written.
type Grid struct {
	Name      string
	Alignment Alignment

	// N holds the number of nodes along each axis.
	N [3]int

	// Records are ordered with I varying fastest and K slowest.
	Records []Record

	// NoData is the value marking records without data.
	NoData float64
}

// Len returns the number of nodes in g.
func (g *Grid) Len() int { return g.N[0] * g.N[1] * g.N[2] }

// NullCount returns the number of records holding the no-data value.
func (g *Grid) NullCount() int {
	n := 0
	for _, r := range g.Records {
		if r.Value == g.NoData {
			n++
		}
	}
	return n
}

// GridConstructor builds a structured grid from a Line.
type GridConstructor interface {
	// Alignment returns the property alignment of the grids produced.
	Alignment() Alignment

	// Construct builds a grid called name from l. The layer boundaries
	// of l must already have been calculated.
	Construct(name string, l *Line) (*Grid, error)
}

// GridName returns the base name of the grid for a survey line.
func GridName(prefix string, line int, suffix string) string {
	return fmt.Sprintf("%s%d%s", prefix, line, suffix)
}
