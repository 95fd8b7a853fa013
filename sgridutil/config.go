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

package sgridutil

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/ctessum/unit"
	"github.com/gaaem/sgrid"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// Config holds the settings for one conversion run.
type Config struct {
	// Files are the line data files to convert, in processing order.
	Files []string

	Input  sgrid.InputConfig
	Policy sgrid.NullPolicy

	OutDir, Prefix, Suffix string
	Binary                 bool

	CellAlignment bool
	CellWidth     float64

	// DepthExtent, if > 0, limits layer boundaries to DepthExtent
	// below each sample.
	DepthExtent float64

	// Manifest is nil unless layer descriptors and a dataset list
	// should be written.
	Manifest *ManifestConfig

	Workers         int
	ContinueOnError bool
}

// conductivityDims are the dimensions of S/m.
var conductivityDims = unit.Dimensions{
	unit.MassDim:    -1,
	unit.LengthDim:  -3,
	unit.TimeDim:    3,
	unit.CurrentDim: 2,
}

var (
	siemens = unit.Dimensions{unit.MassDim: -1, unit.LengthDim: -2, unit.TimeDim: 3, unit.CurrentDim: 2}

	// unitSymbols are the base units a conductivity unit can be built from.
	unitSymbols = map[string]*unit.Unit{
		"S": unit.New(1, siemens),
		"m": unit.New(1, unit.Dimensions{unit.LengthDim: 1}),
		"s": unit.New(1, unit.Dimensions{unit.TimeDim: 1}),
	}

	siPrefixes = map[string]float64{
		"k": 1e3,
		"c": 1e-2,
		"m": 1e-3,
		"u": 1e-6,
		"µ": 1e-6,
	}
)

// parseUnit parses a unit symbol with an optional SI prefix, such as
// "S", "mS" or "cm".
func parseUnit(sym string) (*unit.Unit, error) {
	if u, ok := unitSymbols[sym]; ok {
		return u.Clone(), nil
	}
	for p, f := range siPrefixes {
		if !strings.HasPrefix(sym, p) {
			continue
		}
		if u, ok := unitSymbols[strings.TrimPrefix(sym, p)]; ok {
			return unit.New(f*u.Value(), u.Dimensions()), nil
		}
	}
	return nil, fmt.Errorf("unknown unit %q", sym)
}

// unitScaling returns the factor converting values in the named units,
// given as "<unit>/<unit>" (for example "mS/m" or "uS/cm"), to S/m.
func unitScaling(name string) (float64, error) {
	name = os.ExpandEnv(strings.TrimSpace(name))
	parts := strings.Split(name, "/")
	if len(parts) != 2 {
		return 0, fmt.Errorf("sgridutil: invalid conductivity units %q; should be of the form S/m or mS/m", name)
	}
	num, err := parseUnit(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("sgridutil: conductivity units %q: %v", name, err)
	}
	den, err := parseUnit(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("sgridutil: conductivity units %q: %v", name, err)
	}
	u := unit.Div(num, den)
	if err := u.Check(conductivityDims); err != nil {
		return 0, fmt.Errorf("sgridutil: conductivity units %q: %v", name, err)
	}
	return u.Value(), nil
}

// columnSpec matches a lower-cased "column N" or "column N-M".
var columnSpec = regexp.MustCompile(`^column\s*(\d+)(?:\s*-\s*(\d+))?$`)

// parseColumns parses a one-based column specification of the form
// "Column N" or "Column N-M". A bare integer is treated as "Column N".
func parseColumns(v interface{}) (sgrid.ColumnRange, error) {
	var first, last int
	switch s := v.(type) {
	case string:
		s = strings.ToLower(strings.TrimSpace(os.ExpandEnv(s)))
		if !strings.HasPrefix(s, "column") {
			i, err := cast.ToIntE(s)
			if err != nil {
				return sgrid.ColumnRange{}, fmt.Errorf("invalid column specification %q", v)
			}
			first, last = i, i
			break
		}
		m := columnSpec.FindStringSubmatch(s)
		if m == nil {
			return sgrid.ColumnRange{}, fmt.Errorf("invalid column specification %q", v)
		}
		var err error
		if first, err = strconv.Atoi(m[1]); err != nil {
			return sgrid.ColumnRange{}, fmt.Errorf("invalid column specification %q: %v", v, err)
		}
		last = first
		if m[2] != "" {
			if last, err = strconv.Atoi(m[2]); err != nil {
				return sgrid.ColumnRange{}, fmt.Errorf("invalid column specification %q: %v", v, err)
			}
		}
	default:
		i, err := cast.ToIntE(v)
		if err != nil {
			return sgrid.ColumnRange{}, fmt.Errorf("invalid column specification %v: %v", v, err)
		}
		first, last = i, i
	}
	if first < 1 || last < first {
		return sgrid.ColumnRange{}, fmt.Errorf("invalid column range %d-%d", first, last)
	}
	return sgrid.ColumnRange{First: first - 1, Last: last - 1}, nil
}

// parseColumn parses a single column specification and returns its
// zero-based index.
func parseColumn(cfg *viper.Viper, key string) (int, error) {
	v := cfg.Get(key)
	if !isSet(v) {
		return 0, fmt.Errorf("sgridutil: %s is not specified", key)
	}
	r, err := parseColumns(v)
	if err != nil {
		return 0, fmt.Errorf("sgridutil: %s: %v", key, err)
	}
	if r.Len() != 1 {
		return 0, fmt.Errorf("sgridutil: %s must specify a single column", key)
	}
	return r.First, nil
}

func isSet(v interface{}) bool {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return v != nil
}

// parseThickness interprets the thickness setting, which is either a
// column specification or one or more constant thicknesses given as a
// number, a list, or a string of numbers separated by spaces or commas.
func parseThickness(v interface{}, nlayers int) (*sgrid.ColumnRange, sgrid.ConstantThickness, error) {
	var vals []interface{}
	switch t := v.(type) {
	case nil:
	case string:
		s := strings.TrimSpace(os.ExpandEnv(t))
		if strings.HasPrefix(strings.ToLower(s), "column") {
			r, err := parseColumns(s)
			if err != nil {
				return nil, nil, err
			}
			return &r, nil, nil
		}
		for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
			vals = append(vals, f)
		}
	case []interface{}:
		vals = t
	case []float64:
		for _, f := range t {
			vals = append(vals, f)
		}
	case []string:
		for _, f := range t {
			vals = append(vals, f)
		}
	default:
		vals = []interface{}{t}
	}
	if len(vals) == 0 {
		return nil, nil, fmt.Errorf("thickness is not specified")
	}
	thick := make([]float64, len(vals))
	for i, val := range vals {
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid thickness %v: %v", val, err)
		}
		if f < 0 || math.IsNaN(f) {
			return nil, nil, fmt.Errorf("thickness %g should be >= 0", f)
		}
		thick[i] = f
	}
	c, err := sgrid.NewConstantThickness(thick, nlayers)
	if err != nil {
		return nil, nil, err
	}
	return nil, c, nil
}

// expandFiles returns the files matching pattern, which may contain
// environment variables and "**" wildcards. A pattern without wildcards
// must name an existing file.
func expandFiles(pattern string) ([]string, error) {
	pattern = os.ExpandEnv(strings.TrimSpace(pattern))
	if pattern == "" {
		return nil, fmt.Errorf("sgridutil: Input.DataFiles is not specified")
	}
	files, err := doublestar.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("sgridutil: expanding Input.DataFiles %q: %v", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("sgridutil: no files match Input.DataFiles %q", pattern)
	}
	sort.Strings(files)
	return files, nil
}

// ParseConfig resolves the conversion settings held in cfg. All
// configuration errors are reported here, before any output is written.
func ParseConfig(cfg *viper.Viper) (*Config, error) {
	c := &Config{
		OutDir:          os.ExpandEnv(cfg.GetString("SGrid.OutDir")),
		Prefix:          os.ExpandEnv(cfg.GetString("SGrid.Prefix")),
		Suffix:          os.ExpandEnv(cfg.GetString("SGrid.Suffix")),
		Binary:          cfg.GetBool("SGrid.Binary"),
		CellAlignment:   cfg.GetBool("SGrid.UseCellAlignment"),
		CellWidth:       cfg.GetFloat64("SGrid.CellWidth"),
		DepthExtent:     cfg.GetFloat64("SGrid.DepthExtent"),
		Workers:         cfg.GetInt("Workers"),
		ContinueOnError: cfg.GetBool("ContinueOnError"),
		Policy: sgrid.NullPolicy{
			InputNull:      cfg.GetFloat64("Input.NullInputConductivity"),
			OutputNull:     cfg.GetFloat64("SGrid.NullOutputProperty"),
			BelowElevation: cfg.GetFloat64("SGrid.NullBelowElevation"),
			BelowDepth:     cfg.GetFloat64("SGrid.NullBelowDepth"),
		},
	}
	if c.OutDir == "" {
		c.OutDir = "."
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.CellAlignment && !(c.CellWidth > 0) {
		return nil, fmt.Errorf("sgridutil: SGrid.CellWidth=%g but should be > 0 when SGrid.UseCellAlignment is true", c.CellWidth)
	}
	if c.DepthExtent < 0 {
		return nil, fmt.Errorf("sgridutil: SGrid.DepthExtent=%g but should be >= 0", c.DepthExtent)
	}

	in := &c.Input
	in.InputNull = c.Policy.InputNull
	in.Subsample = cfg.GetInt("Input.Subsample")
	if in.Subsample < 1 {
		return nil, fmt.Errorf("sgridutil: Input.Subsample=%d but should be >= 1", in.Subsample)
	}
	var err error
	for _, col := range []struct {
		key string
		dst *int
	}{
		{"Input.Line", &in.Line},
		{"Input.Easting", &in.Easting},
		{"Input.Northing", &in.Northing},
		{"Input.Elevation", &in.Elevation},
	} {
		if *col.dst, err = parseColumn(cfg, col.key); err != nil {
			return nil, err
		}
	}

	cond, res := cfg.Get("Input.Conductivity"), cfg.Get("Input.Resistivity")
	switch {
	case isSet(cond) && isSet(res):
		return nil, fmt.Errorf("sgridutil: only one of Input.Conductivity and Input.Resistivity may be set")
	case isSet(cond):
		if in.Conductivity, err = parseColumns(cond); err != nil {
			return nil, fmt.Errorf("sgridutil: Input.Conductivity: %v", err)
		}
	case isSet(res):
		in.Resistivity = true
		if in.Conductivity, err = parseColumns(res); err != nil {
			return nil, fmt.Errorf("sgridutil: Input.Resistivity: %v", err)
		}
	default:
		return nil, fmt.Errorf("sgridutil: one of Input.Conductivity or Input.Resistivity must be set")
	}

	if in.Scaling, err = unitScaling(cfg.GetString("Input.InputConductivityUnits")); err != nil {
		return nil, err
	}
	if in.ThicknessColumns, in.ConstantThickness, err = parseThickness(cfg.Get("Input.Thickness"), in.NLayers()); err != nil {
		return nil, fmt.Errorf("sgridutil: Input.Thickness: %v", err)
	}
	if err := in.Check(); err != nil {
		return nil, err
	}

	if name := os.ExpandEnv(cfg.GetString("XML.DatasetName")); name != "" {
		c.Manifest = &ManifestConfig{
			DatasetName:      name,
			CoordinateSystem: os.ExpandEnv(cfg.GetString("XML.CoordinateSystem")),
			DataCachePrefix:  os.ExpandEnv(cfg.GetString("XML.DataCachePrefix")),
		}
	}

	if c.Files, err = expandFiles(cfg.GetString("Input.DataFiles")); err != nil {
		return nil, err
	}
	return c, nil
}
