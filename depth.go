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

// thicknessIndex returns the thickness entry used for layer li. The
// bottom layer has no thickness of its own and reuses the one above it.
func thicknessIndex(li, nlayers int) int {
	if li == nlayers-1 && li > 0 {
		return li - 1
	}
	return li
}

// BuildDepths returns a function that fills in the layer boundary
// elevations of a Line from its thickness model. Boundary 0 is the sample
// elevation and each following boundary lies one layer thickness below the
// previous one. If clamp is true, no boundary is allowed to lie more than
// depthExtent below the sample elevation.
func BuildDepths(clamp bool, depthExtent float64) LineManipulator {
	return func(l *Line) error {
		if l.Thickness == nil {
			return fmt.Errorf("sgrid: line %d has no thickness model", l.Number)
		}
		ns, nl := l.NSamples(), l.NLayers()
		if nl == 0 {
			return fmt.Errorf("sgrid: line %d has no layers", l.Number)
		}
		if need := thicknessIndex(nl-1, nl) + 1; l.Thickness.Len() < need {
			return fmt.Errorf("sgrid: line %d: thickness model has %d values but %d layers need %d",
				l.Number, l.Thickness.Len(), nl, need)
		}
		z := mat.NewDense(ns, nl+1, nil)
		for si, s := range l.Samples {
			z.Set(si, 0, s.E)
			floor := s.E - depthExtent
			for li := 0; li < nl; li++ {
				t := l.Thickness.Thickness(si, thicknessIndex(li, nl))
				zb := z.At(si, li) - t
				if clamp && zb < floor {
					zb = floor
				}
				z.Set(si, li+1, zb)
			}
		}
		l.Z = z
		return nil
	}
}
