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
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewConstantThickness(t *testing.T) {
	tests := []struct {
		name    string
		in      []float64
		nlayers int
		want    ConstantThickness
		wantErr bool
	}{
		{name: "broadcast", in: []float64{10}, nlayers: 4, want: ConstantThickness{10, 10, 10}},
		{name: "one layer", in: []float64{10}, nlayers: 1, want: ConstantThickness{10}},
		{name: "exact", in: []float64{1, 2, 3}, nlayers: 4, want: ConstantThickness{1, 2, 3}},
		{name: "one per layer", in: []float64{1, 2, 3, 4}, nlayers: 4, want: ConstantThickness{1, 2, 3, 4}},
		{name: "empty", in: nil, nlayers: 4, wantErr: true},
		{name: "too few", in: []float64{1, 2}, nlayers: 4, wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			have, err := NewConstantThickness(test.in, test.nlayers)
			if (err != nil) != test.wantErr {
				t.Fatalf("error: %v, wantErr %v", err, test.wantErr)
			}
			if !reflect.DeepEqual(have, test.want) {
				t.Errorf("have %v, want %v", have, test.want)
			}
		})
	}
}

func TestBuildDepths(t *testing.T) {
	l := testLine()
	if err := l.Apply(BuildDepths(false, 0)); err != nil {
		t.Fatal(err)
	}
	want := mat.NewDense(3, 3, []float64{
		100, 90, 80,
		90, 80, 70,
		80, 70, 60,
	})
	if !mat.Equal(l.Z, want) {
		t.Errorf("have\n%v\nwant\n%v", mat.Formatted(l.Z), mat.Formatted(want))
	}
	for si, s := range l.Samples {
		if _, c := l.Z.Dims(); c != l.NLayers()+1 {
			t.Errorf("sample %d has %d boundaries", si, c)
		}
		if l.Z.At(si, 0) != s.E {
			t.Errorf("sample %d: top boundary %g != elevation %g", si, l.Z.At(si, 0), s.E)
		}
	}
}

func TestBuildDepthsLastLayerReusesThickness(t *testing.T) {
	l := &Line{
		Samples:      []Sample{{E: 50}},
		Conductivity: mat.NewDense(1, 3, nil),
		Thickness:    ConstantThickness{5, 7, 99},
	}
	if err := l.Apply(BuildDepths(false, 0)); err != nil {
		t.Fatal(err)
	}
	want := []float64{50, 45, 38, 31}
	if have := mat.Row(nil, 0, l.Z); !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
}

func TestBuildDepthsColumnThickness(t *testing.T) {
	l := &Line{
		Samples:      []Sample{{E: 10}, {E: 20}},
		Conductivity: mat.NewDense(2, 3, nil),
		Thickness: ColumnThickness{mat.NewDense(2, 2, []float64{
			1, 2,
			3, 4,
		})},
	}
	if err := l.Apply(BuildDepths(false, 0)); err != nil {
		t.Fatal(err)
	}
	want := mat.NewDense(2, 4, []float64{
		10, 9, 7, 5,
		20, 17, 13, 9,
	})
	if !mat.Equal(l.Z, want) {
		t.Errorf("have\n%v\nwant\n%v", mat.Formatted(l.Z), mat.Formatted(want))
	}
}

func TestBuildDepthsClamp(t *testing.T) {
	l := &Line{
		Samples:      []Sample{{E: 100}},
		Conductivity: mat.NewDense(1, 2, nil),
		Thickness:    ConstantThickness{10},
	}
	if err := l.Apply(BuildDepths(true, 15)); err != nil {
		t.Fatal(err)
	}
	want := []float64{100, 90, 85}
	if have := mat.Row(nil, 0, l.Z); !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}

	// Disabled clamping leaves the boundary at e-20.
	if err := l.Apply(BuildDepths(false, 15)); err != nil {
		t.Fatal(err)
	}
	if have := l.Z.At(0, 2); have != 80 {
		t.Errorf("unclamped bottom: have %g, want 80", have)
	}
}

func TestBuildDepthsErrors(t *testing.T) {
	l := testLine()
	l.Thickness = nil
	if err := l.Apply(BuildDepths(false, 0)); err == nil {
		t.Error("expected an error for a missing thickness model")
	}
	l = testLine()
	l.Thickness = ColumnThickness{mat.NewDense(3, 1, nil)}
	l.Conductivity = mat.NewDense(3, 4, nil)
	if err := l.Apply(BuildDepths(false, 0)); err == nil {
		t.Error("expected an error for too few thickness columns")
	}
}
