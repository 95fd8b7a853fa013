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

import "math"

// PositiveFloor replaces non-positive conductivities in point-aligned
// grids [S/m].
const PositiveFloor = 1e-6

// NullPolicy decides which conductivity values are written as no-data.
type NullPolicy struct {
	// InputNull marks missing values in the input data.
	InputNull float64

	// OutputNull is written wherever there is no valid value.
	OutputNull float64

	// BelowElevation nulls values whose elevation is below this level.
	BelowElevation float64

	// BelowDepth nulls values deeper than this below the ground surface.
	BelowDepth float64
}

// DefaultNullPolicy returns the policy used when nothing is configured:
// input null -9999, output null -999 and no elevation or depth cutoff.
func DefaultNullPolicy() NullPolicy {
	return NullPolicy{
		InputNull:      -9999,
		OutputNull:     -999,
		BelowElevation: -math.MaxFloat64,
		BelowDepth:     math.MaxFloat64,
	}
}

// Mask returns the value to write for conductivity raw located at
// elevation z beneath a ground surface at elevation e. Non-positive values
// become OutputNull, or PositiveFloor when floor is true.
func (p NullPolicy) Mask(raw, z, e float64, floor bool) float64 {
	var v float64
	switch {
	case raw == p.InputNull:
		return p.OutputNull
	case raw <= 0:
		if !floor {
			return p.OutputNull
		}
		v = PositiveFloor
	default:
		v = raw
	}
	if z < p.BelowElevation {
		return p.OutputNull
	}
	if e-z > p.BelowDepth {
		return p.OutputNull
	}
	return v
}
