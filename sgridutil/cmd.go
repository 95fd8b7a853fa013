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

// Package sgridutil contains the command-line interface for sgrid.
package sgridutil

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gaaem/sgrid"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	convertFlags := []*pflag.FlagSet{convertCmd.Flags(), configCmd.Flags()}

	// Options are the configuration options available to sgrid.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "loglevel",
			usage: `
              loglevel sets the logging level. Valid options are
              debug, info, warn, and error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Input.DataFiles",
			usage: `
              Input.DataFiles specifies the line data files to convert.
              It can contain wildcards, including '**' to match any number
              of directories. Each file holds one survey line.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   convertFlags,
		},
		{
			name: "Input.Subsample",
			usage: `
              Input.Subsample keeps every n-th row of the input data.`,
			defaultVal: 1,
			flagsets:   convertFlags,
		},
		{
			name: "Input.Line",
			usage: `
              Input.Line gives the column holding the line number,
              in the form "Column N". Columns are numbered from 1.`,
			defaultVal: "",
			flagsets:   convertFlags,
		},
		{
			name: "Input.Easting",
			usage: `
              Input.Easting gives the column holding the sample easting.`,
			defaultVal: "",
			flagsets:   convertFlags,
		},
		{
			name: "Input.Northing",
			usage: `
              Input.Northing gives the column holding the sample northing.`,
			defaultVal: "",
			flagsets:   convertFlags,
		},
		{
			name: "Input.Elevation",
			usage: `
              Input.Elevation gives the column holding the ground elevation.`,
			defaultVal: "",
			flagsets:   convertFlags,
		},
		{
			name: "Input.Conductivity",
			usage: `
              Input.Conductivity gives the columns holding the layer
              conductivities, in the form "Column N-M". The number of
              layers is M-N+1. Set either this or Input.Resistivity.`,
			defaultVal: "",
			flagsets:   convertFlags,
		},
		{
			name: "Input.Resistivity",
			usage: `
              Input.Resistivity gives the columns holding the layer
              resistivities, in the form "Column N-M".`,
			defaultVal: "",
			flagsets:   convertFlags,
		},
		{
			name: "Input.InputConductivityUnits",
			usage: `
              Input.InputConductivityUnits gives the units of the input
              conductivity. Valid options are S/m and mS/m.`,
			defaultVal: "S/m",
			flagsets:   convertFlags,
		},
		{
			name: "Input.NullInputConductivity",
			usage: `
              Input.NullInputConductivity is the value marking missing
              input conductivity.`,
			defaultVal: -9999.0,
			flagsets:   convertFlags,
		},
		{
			name: "Input.Thickness",
			usage: `
              Input.Thickness gives the layer thicknesses in meters, either
              as columns in the form "Column N-M" or as one or more numbers.
              A single number is used for every layer. The last layer
              reuses the thickness of the layer above it.`,
			defaultVal: "",
			flagsets:   convertFlags,
		},
		{
			name: "SGrid.Binary",
			usage: `
              SGrid.Binary specifies whether point-aligned grids are written
              as raw big-endian binary files instead of ascii text.`,
			defaultVal: true,
			flagsets:   convertFlags,
		},
		{
			name: "SGrid.OutDir",
			usage: `
              SGrid.OutDir is the directory the grids are written to.
              It is created if it does not exist.`,
			shorthand:  "o",
			defaultVal: ".",
			flagsets:   convertFlags,
		},
		{
			name: "SGrid.Prefix",
			usage: `
              SGrid.Prefix is prepended to the line number to name each grid.`,
			defaultVal: "",
			flagsets:   convertFlags,
		},
		{
			name: "SGrid.Suffix",
			usage: `
              SGrid.Suffix is appended to the line number to name each grid.`,
			defaultVal: "",
			flagsets:   convertFlags,
		},
		{
			name: "SGrid.NullBelowElevation",
			usage: `
              SGrid.NullBelowElevation removes values below this elevation.`,
			defaultVal: -math.MaxFloat64,
			flagsets:   convertFlags,
		},
		{
			name: "SGrid.NullBelowDepth",
			usage: `
              SGrid.NullBelowDepth removes values more than this distance
              below the ground.`,
			defaultVal: math.MaxFloat64,
			flagsets:   convertFlags,
		},
		{
			name: "SGrid.NullOutputProperty",
			usage: `
              SGrid.NullOutputProperty is the value written for missing data.`,
			defaultVal: -999.0,
			flagsets:   convertFlags,
		},
		{
			name: "SGrid.UseCellAlignment",
			usage: `
              SGrid.UseCellAlignment writes values at cell centers, with
              cells of width SGrid.CellWidth straddling the line, instead
              of at the sample points.`,
			defaultVal: false,
			flagsets:   convertFlags,
		},
		{
			name: "SGrid.CellWidth",
			usage: `
              SGrid.CellWidth is the width [m] of cell-aligned grids
              perpendicular to the line.`,
			defaultVal: 0.0,
			flagsets:   convertFlags,
		},
		{
			name: "SGrid.DepthExtent",
			usage: `
              SGrid.DepthExtent, if greater than zero, limits layer
              boundaries to this distance below the ground.`,
			defaultVal: 0.0,
			flagsets:   convertFlags,
		},
		{
			name: "XML.DatasetName",
			usage: `
              XML.DatasetName names the dataset list. If it is set, a layer
              descriptor is written for each grid along with a dataset
              list referencing them.`,
			defaultVal: "",
			flagsets:   convertFlags,
		},
		{
			name: "XML.CoordinateSystem",
			usage: `
              XML.CoordinateSystem is written to each layer descriptor.`,
			defaultVal: "",
			flagsets:   convertFlags,
		},
		{
			name: "XML.DataCachePrefix",
			usage: `
              XML.DataCachePrefix is the cache location written to each
              layer descriptor.`,
			defaultVal: "",
			flagsets:   convertFlags,
		},
		{
			name: "Workers",
			usage: `
              Workers is the number of files converted at the same time.`,
			defaultVal: 1,
			flagsets:   convertFlags,
		},
		{
			name: "ContinueOnError",
			usage: `
              ContinueOnError specifies whether to carry on with the
              remaining files when one fails.`,
			defaultVal: false,
			flagsets:   convertFlags,
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SGRID")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(convertCmd)
	Root.AddCommand(configCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("sgridutil: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// newLogger returns a logger writing to w at the configured level.
func newLogger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return nil, fmt.Errorf("sgridutil: %v", err)
	}
	log := logrus.New()
	log.Out = w
	log.Level = level
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp: true,
	}
	return log, nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "sgrid",
	Short: "Convert airborne EM line data to GOCAD SGrids.",
	Long: `sgrid converts airborne electromagnetic line data, where each sample
carries a layered conductivity profile, into GOCAD SGrid files for 3D viewers.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SGRID_var' where 'var' is the
name of the variable to be set, with '.' replaced by '_'. Many configuration
variables are additionally allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of sgrid.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("sgrid v%s\n", sgrid.Version)
	},
	DisableAutoGenTag: true,
}

// convertCmd converts line data files to SGrids.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert line data files",
	Long: `convert reads each line data file matched by Input.DataFiles, computes
the layer boundaries, builds a point- or cell-aligned grid, and writes it to
SGrid.OutDir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(cmd.OutOrStderr())
		if err != nil {
			return err
		}
		c, err := ParseConfig(Cfg)
		if err != nil {
			return err
		}
		wd, _ := os.Getwd()
		log.WithFields(logrus.Fields{
			"version": sgrid.Version,
			"dir":     wd,
			"files":   len(c.Files),
		}).Info("starting conversion")
		_, err = Convert(context.Background(), c, log)
		return err
	},
	DisableAutoGenTag: true,
}

// configCmd prints the effective configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration",
	Long: `config prints the configuration that convert would use, combining
the configuration file, command-line arguments, and environment variables,
in TOML format. The output can be used as a configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeConfig(cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

// writeConfig writes the current value of every option except "config"
// to w as TOML. Dotted option names become tables.
func writeConfig(w io.Writer) error {
	settings := make(map[string]interface{})
	for _, option := range options {
		if option.name == "config" {
			continue
		}
		m := settings
		parts := strings.Split(option.name, ".")
		for _, p := range parts[:len(parts)-1] {
			sub, ok := m[p].(map[string]interface{})
			if !ok {
				sub = make(map[string]interface{})
				m[p] = sub
			}
			m = sub
		}
		var v interface{}
		switch option.defaultVal.(type) {
		case bool:
			v = Cfg.GetBool(option.name)
		case int:
			v = Cfg.GetInt(option.name)
		case float64:
			v = Cfg.GetFloat64(option.name)
		default:
			v = Cfg.Get(option.name)
		}
		m[parts[len(parts)-1]] = v
	}
	if err := toml.NewEncoder(w).Encode(settings); err != nil {
		return fmt.Errorf("sgridutil: writing configuration: %v", err)
	}
	return nil
}
