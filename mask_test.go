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

import "testing"

func TestMask(t *testing.T) {
	p := DefaultNullPolicy()
	cutoff := p
	cutoff.BelowElevation = 0
	cutoff.BelowDepth = 50

	tests := []struct {
		name   string
		policy NullPolicy
		raw    float64
		z, e   float64
		floor  bool
		want   float64
	}{
		{name: "valid", policy: p, raw: 0.1, z: 50, e: 100, want: 0.1},
		{name: "valid floor mode", policy: p, raw: 0.1, z: 50, e: 100, floor: true, want: 0.1},
		{name: "input null", policy: p, raw: -9999, z: 50, e: 100, want: -999},
		{name: "input null floor mode", policy: p, raw: -9999, z: 50, e: 100, floor: true, want: -999},
		{name: "zero", policy: p, raw: 0, z: 50, e: 100, want: -999},
		{name: "negative", policy: p, raw: -1, z: 50, e: 100, want: -999},
		{name: "zero floor mode", policy: p, raw: 0, z: 50, e: 100, floor: true, want: PositiveFloor},
		{name: "negative floor mode", policy: p, raw: -1, z: 50, e: 100, floor: true, want: PositiveFloor},
		{name: "below elevation", policy: cutoff, raw: 0.1, z: -1, e: 10, want: -999},
		{name: "at elevation", policy: cutoff, raw: 0.1, z: 0, e: 10, want: 0.1},
		{name: "below depth", policy: cutoff, raw: 0.1, z: 49, e: 100, want: -999},
		{name: "at depth", policy: cutoff, raw: 0.1, z: 50, e: 100, want: 0.1},
		{name: "floor below depth", policy: cutoff, raw: -1, z: 10, e: 100, floor: true, want: -999},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			have := test.policy.Mask(test.raw, test.z, test.e, test.floor)
			if have != test.want {
				t.Errorf("have %g, want %g", have, test.want)
			}
		})
	}
}
