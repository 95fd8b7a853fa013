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

	"gonum.org/v1/gonum/mat"
)

// ThicknessModel gives the thickness of each layer of each sample.
type ThicknessModel interface {
	// Thickness returns the thickness [m] stored at index ti for
	// sample si.
	Thickness(si, ti int) float64

	// Len returns the number of thickness values available per sample.
	Len() int
}

// ConstantThickness is a set of layer thicknesses shared by every sample.
type ConstantThickness []float64

// NewConstantThickness checks t against the number of layers. A single
// value is broadcast to nlayers-1 entries; otherwise at least nlayers-1
// values are required.
func NewConstantThickness(t []float64, nlayers int) (ConstantThickness, error) {
	switch {
	case len(t) == 0:
		return nil, fmt.Errorf("sgrid: thickness not set")
	case len(t) == 1:
		n := nlayers - 1
		if n < 1 {
			n = 1
		}
		o := make(ConstantThickness, n)
		for i := range o {
			o[i] = t[0]
		}
		return o, nil
	case len(t) < nlayers-1:
		return nil, fmt.Errorf("sgrid: thickness not set correctly: have %d values, need %d or 1",
			len(t), nlayers-1)
	}
	return ConstantThickness(t), nil
}

// Thickness implements ThicknessModel.
func (c ConstantThickness) Thickness(_, ti int) float64 { return c[ti] }

// Len implements ThicknessModel.
func (c ConstantThickness) Len() int { return len(c) }

// ColumnThickness holds thicknesses read from the input data, one row per
// sample.
type ColumnThickness struct {
	*mat.Dense
}

// Thickness implements ThicknessModel.
func (c ColumnThickness) Thickness(si, ti int) float64 { return c.At(si, ti) }

// Len implements ThicknessModel.
func (c ColumnThickness) Len() int {
	_, n := c.Dims()
	return n
}
