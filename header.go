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
	"io"
	"strconv"
)

// PropertyName and PropertyUnit describe the single property written to
// every grid.
const (
	PropertyName = "Conductivity"
	PropertyUnit = "S/m"
)

// displayFlags are the viewer settings written to every header.
var displayFlags = []string{
	"cage:false",
	"volume:true",
	"*volume*grid:false",
	"*volume*transparency_allowed:false",
	"*volume*points:false",
	"shaded_painted:false",
	"precise_painted:true",
	"*psections*grid:false",
	"*psections*solid:true",
	"dead_cells_faces:false",
}

// dataFiles holds the names, relative to the header, of the files
// holding a grid's data. Either ASCII or both Points and Property are set.
type dataFiles struct {
	ASCII    string
	Points   string
	Property string
}

func (d dataFiles) binary() bool { return d.Points != "" }

// writeHeader writes the GOCAD SGrid header for g.
func writeHeader(w io.Writer, g *Grid, files dataFiles) error {
	lines := []string{
		"GOCAD SGrid 1",
		"HEADER {",
		"name:" + g.Name,
		"painted:true",
		"*painted*variable:" + PropertyName,
	}
	if g.Alignment == Points {
		lines = append(lines, "ascii:on", "double_precision_binary:off")
	}
	lines = append(lines, displayFlags...)
	lines = append(lines, "}",
		"",
		fmt.Sprintf("AXIS_N %d %d %d", g.N[0], g.N[1], g.N[2]),
		"PROP_ALIGNMENT "+g.Alignment.String(),
	)
	if files.binary() {
		lines = append(lines, "POINTS_FILE "+files.Points)
	} else {
		lines = append(lines, "ASCII_DATA_FILE "+files.ASCII)
	}
	lines = append(lines, "",
		"PROPERTY 1 "+PropertyName,
		"PROP_UNIT 1 "+PropertyUnit,
		"PROP_NO_DATA_VALUE 1 "+strconv.FormatFloat(g.NoData, 'g', -1, 64),
	)
	if files.binary() {
		lines = append(lines,
			"PROP_FILE 1 "+files.Property,
			"PROP_ESIZE 1 4",
			"PROP_ETYPE 1 IEEE",
			"PROP_ALIGNMENT 1 POINTS",
			"PROP_FORMAT 1 RAW",
			"PROP_OFFSET 1 0",
		)
	}
	lines = append(lines, "", "END")
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
