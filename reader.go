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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ColumnRange is an inclusive range of zero-based column indices.
type ColumnRange struct {
	First, Last int
}

// Len returns the number of columns in r.
func (r ColumnRange) Len() int { return r.Last - r.First + 1 }

// InputConfig describes how to read a line data file.
type InputConfig struct {
	// Zero-based column indices.
	Line, Easting, Northing, Elevation int

	// Conductivity holds one column per layer. If Resistivity is true the
	// columns hold resistivity instead.
	Conductivity ColumnRange
	Resistivity  bool

	// Scaling converts the input conductivity units to S/m.
	Scaling float64

	// InputNull marks missing conductivity values. They are passed
	// through unscaled.
	InputNull float64

	// Subsample keeps every Subsample-th row. Values < 1 keep every row.
	Subsample int

	// ThicknessColumns, if not nil, gives per-sample layer thicknesses.
	// Otherwise ConstantThickness is used for every sample.
	ThicknessColumns  *ColumnRange
	ConstantThickness ConstantThickness
}

// NLayers returns the number of layers described by c.
func (c *InputConfig) NLayers() int { return c.Conductivity.Len() }

func (c *InputConfig) maxColumn() int {
	m := c.Conductivity.Last
	for _, v := range []int{c.Line, c.Easting, c.Northing, c.Elevation} {
		if v > m {
			m = v
		}
	}
	if c.ThicknessColumns != nil && c.ThicknessColumns.Last > m {
		m = c.ThicknessColumns.Last
	}
	return m
}

// Check returns an error if c cannot describe a valid input file.
func (c *InputConfig) Check() error {
	for name, v := range map[string]int{"line": c.Line, "easting": c.Easting,
		"northing": c.Northing, "elevation": c.Elevation} {
		if v < 0 {
			return fmt.Errorf("sgrid: invalid %s column index %d", name, v+1)
		}
	}
	if c.Conductivity.First < 0 || c.Conductivity.Len() < 1 {
		return fmt.Errorf("sgrid: invalid conductivity column range %d-%d",
			c.Conductivity.First+1, c.Conductivity.Last+1)
	}
	if c.Scaling == 0 {
		return fmt.Errorf("sgrid: conductivity scaling must not be zero")
	}
	nl := c.NLayers()
	if c.ThicknessColumns != nil {
		need := thicknessIndex(nl-1, nl) + 1
		if c.ThicknessColumns.First < 0 || c.ThicknessColumns.Len() < need {
			return fmt.Errorf("sgrid: thickness column range %d-%d gives %d values but %d layers need %d",
				c.ThicknessColumns.First+1, c.ThicknessColumns.Last+1, c.ThicknessColumns.Len(), nl, need)
		}
		return nil
	}
	if _, err := NewConstantThickness(c.ConstantThickness, nl); err != nil {
		return err
	}
	return nil
}

// ReadLine reads a whitespace-delimited line data file, one sample per row.
func ReadLine(r io.Reader, c *InputConfig) (*Line, error) {
	if err := c.Check(); err != nil {
		return nil, err
	}
	subsample := c.Subsample
	if subsample < 1 {
		subsample = 1
	}
	ncols := c.maxColumn() + 1

	var rows [][]float64
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	row, k := 0, 0
	for scanner.Scan() {
		row++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		keep := k%subsample == 0
		k++
		if !keep {
			continue
		}
		if len(fields) < ncols {
			return nil, fmt.Errorf("sgrid: row %d has %d columns but at least %d are required",
				row, len(fields), ncols)
		}
		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("sgrid: row %d column %d: %v", row, i+1, err)
			}
			vals[i] = v
		}
		rows = append(rows, vals)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sgrid: reading line data: %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sgrid: line data contains no samples")
	}

	nl := c.NLayers()
	l := &Line{
		Number:       int(rows[0][c.Line]),
		Samples:      make([]Sample, len(rows)),
		Conductivity: mat.NewDense(len(rows), nl, nil),
	}
	var thick *mat.Dense
	if c.ThicknessColumns != nil {
		thick = mat.NewDense(len(rows), c.ThicknessColumns.Len(), nil)
		l.Thickness = ColumnThickness{Dense: thick}
	} else {
		t, _ := NewConstantThickness(c.ConstantThickness, nl)
		l.Thickness = t
	}
	for si, vals := range rows {
		l.Samples[si] = Sample{
			Index: si,
			X:     vals[c.Easting],
			Y:     vals[c.Northing],
			E:     vals[c.Elevation],
		}
		for li := 0; li < nl; li++ {
			l.Conductivity.Set(si, li, c.conductivity(vals[c.Conductivity.First+li]))
		}
		if thick != nil {
			for ti := 0; ti < c.ThicknessColumns.Len(); ti++ {
				thick.Set(si, ti, vals[c.ThicknessColumns.First+ti])
			}
		}
	}
	return l, nil
}

// conductivity converts a raw input value to S/m.
func (c *InputConfig) conductivity(raw float64) float64 {
	if raw == c.InputNull {
		return raw
	}
	if c.Resistivity {
		return c.Scaling / raw
	}
	return c.Scaling * raw
}
