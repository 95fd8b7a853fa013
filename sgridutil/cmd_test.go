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
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/gaaem/sgrid"
)

func TestVersion(t *testing.T) {
	var b bytes.Buffer
	Root.SetOutput(&b)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "sgrid v" + sgrid.Version + "\n"; b.String() != want {
		t.Errorf("have %q, want %q", b.String(), want)
	}
}

func TestConfigCmd(t *testing.T) {
	Cfg.Set("SGrid.Prefix", "L")
	defer Cfg.Set("SGrid.Prefix", "")
	var b bytes.Buffer
	Root.SetOutput(&b)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"config"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	var have map[string]interface{}
	if _, err := toml.Decode(b.String(), &have); err != nil {
		t.Fatalf("%v\n%s", err, b.String())
	}
	if _, ok := have["config"]; ok {
		t.Error("the configuration file location should not be written")
	}
	if have["loglevel"] != "info" || have["Workers"] != int64(1) {
		t.Errorf("top-level settings: %v", have)
	}
	sg, ok := have["SGrid"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing SGrid table:\n%s", b.String())
	}
	if sg["Prefix"] != "L" || sg["NullOutputProperty"] != -999.0 {
		t.Errorf("SGrid table: %v", sg)
	}
	in, ok := have["Input"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing Input table:\n%s", b.String())
	}
	if in["Subsample"] != int64(1) || in["InputConductivityUnits"] != "S/m" {
		t.Errorf("Input table: %v", in)
	}
}

func TestConvertCmd(t *testing.T) {
	dataDir, outDir := t.TempDir(), t.TempDir()
	writeFiles(t, dataDir, map[string]string{"a.txt": lineA})
	cfgFile := filepath.Join(t.TempDir(), "sgrid.toml")
	cfgText := fmt.Sprintf(`Workers = 2

[Input]
DataFiles = %q
Line = "Column 1"
Easting = "Column 3"
Northing = "Column 4"
Elevation = "Column 5"
Conductivity = "Column 6-7"
InputConductivityUnits = "mS/m"
Thickness = [10]

[SGrid]
OutDir = %q
Binary = false
`, filepath.Join(dataDir, "*.txt"), outDir)
	if err := ioutil.WriteFile(cfgFile, []byte(cfgText), 0644); err != nil {
		t.Fatal(err)
	}
	Cfg.Set("config", cfgFile)
	defer Cfg.Set("config", "")
	Cfg.Set("SGrid.Prefix", "line")
	defer Cfg.Set("SGrid.Prefix", "")

	var b bytes.Buffer
	Root.SetOutput(&b)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"convert"})
	if err := Root.Execute(); err != nil {
		t.Fatalf("%v\n%s", err, b.String())
	}
	for _, name := range []string{"line1001.sg", "line1001.sg.data"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Error(err)
		}
	}
	if !bytes.Contains(b.Bytes(), []byte("Processing file")) {
		t.Errorf("log output:\n%s", b.String())
	}
}
