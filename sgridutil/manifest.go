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
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gaaem/sgrid"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>` + "\n"

// ManifestConfig holds the settings for the XML descriptors written
// alongside the grids.
type ManifestConfig struct {
	DatasetName      string
	CoordinateSystem string

	// DataCachePrefix is prepended to each header name to give the
	// location a viewer caches the grid under.
	DataCachePrefix string
}

// LayerDescriptor describes one grid to a viewer.
type LayerDescriptor struct {
	XMLName          xml.Name `xml:"Layer"`
	LayerType        string   `xml:"layerType,attr"`
	Version          string   `xml:"version,attr"`
	DisplayName      string   `xml:"DisplayName"`
	URL              string   `xml:"URL"`
	DataFormat       string   `xml:"DataFormat"`
	DataCacheName    string   `xml:"DataCacheName"`
	CoordinateSystem string   `xml:"CoordinateSystem"`
}

// DatasetList groups the layer descriptors of a run.
type DatasetList struct {
	XMLName xml.Name `xml:"DatasetList"`
	Dataset struct {
		Name   string         `xml:"name,attr"`
		Layers []DatasetLayer `xml:"Layer"`
	} `xml:"Dataset"`
}

// DatasetLayer references one layer descriptor file.
type DatasetLayer struct {
	Name string `xml:"name,attr"`
	URL  string `xml:"url,attr"`
}

// NewLayerDescriptor returns the descriptor for the grid written as a.
func (m *ManifestConfig) NewLayerDescriptor(a *sgrid.Artifact) *LayerDescriptor {
	prefix := m.DataCachePrefix
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &LayerDescriptor{
		LayerType:        "VolumeLayer",
		Version:          "1",
		DisplayName:      a.Name,
		URL:              a.HeaderName(),
		DataFormat:       "GOCAD SGrid",
		DataCacheName:    prefix + a.HeaderName(),
		CoordinateSystem: m.CoordinateSystem,
	}
}

// descriptorName returns the file name of the layer descriptor for the
// grid named name.
func descriptorName(name string) string { return name + ".xml" }

// WriteLayer writes the layer descriptor for a into dir and returns
// its path.
func (m *ManifestConfig) WriteLayer(dir string, a *sgrid.Artifact) (string, error) {
	path := filepath.Join(dir, descriptorName(a.Name))
	if err := writeXML(path, m.NewLayerDescriptor(a)); err != nil {
		return "", err
	}
	return path, nil
}

// WriteDataset writes the dataset list referencing the layer
// descriptors of results into dir and returns its path.
func (m *ManifestConfig) WriteDataset(dir string, results []*Result) (string, error) {
	var d DatasetList
	d.Dataset.Name = m.DatasetName
	for _, r := range results {
		d.Dataset.Layers = append(d.Dataset.Layers, DatasetLayer{
			Name: r.Artifact.Name,
			URL:  descriptorName(r.Artifact.Name),
		})
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("sgridutil: %v", err)
	}
	path := filepath.Join(dir, m.DatasetName+".xml")
	if err := writeXML(path, &d); err != nil {
		return "", err
	}
	return path, nil
}

func writeXML(path string, v interface{}) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sgridutil: %v", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("sgridutil: closing %s: %v", path, cerr)
		}
	}()
	if err := encodeXML(f, v); err != nil {
		return fmt.Errorf("sgridutil: writing %s: %v", path, err)
	}
	return nil
}

func encodeXML(w io.Writer, v interface{}) error {
	if _, err := io.WriteString(w, xmlDeclaration); err != nil {
		return err
	}
	e := xml.NewEncoder(w)
	e.Indent("", "\t")
	if err := e.Encode(v); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
