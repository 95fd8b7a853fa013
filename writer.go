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
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/bits"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// File name endings of the files making up a grid.
const (
	HeaderExt      = ".sg"
	ASCIIDataExt   = ".sg.data"
	PointsSuffix   = "_points@@"
	PropertySuffix = "_" + PropertyName + "@@"
)

const asciiPreamble = "*\n*   X   Y   Z  Conductivity  I   J   K\n*\n"

// isBigEndianHost reports whether the machine stores the most
// significant byte first.
func isBigEndianHost() bool {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	return b[1] == 1
}

// Writer saves grids to a directory.
type Writer struct {
	// Dir is the output directory.
	Dir string

	// Binary requests raw big-endian point and property files instead of
	// an ascii data file. Only point-aligned grids can be written this way.
	Binary bool

	Log logrus.FieldLogger

	bigEndianHost bool
}

// NewWriter returns a Writer saving grids in dir.
func NewWriter(dir string, raw bool, log logrus.FieldLogger) *Writer {
	return &Writer{
		Dir:           dir,
		Binary:        raw,
		Log:           log,
		bigEndianHost: isBigEndianHost(),
	}
}

// Artifact lists the files written for one grid.
type Artifact struct {
	Name string

	// Paths of the files written. Data is empty for binary grids; Points
	// and Property are empty for ascii grids.
	Header, Data, Points, Property string
}

// HeaderName returns the header file name relative to the output
// directory.
func (a *Artifact) HeaderName() string { return filepath.Base(a.Header) }

// Write saves g. The data files are written before the header.
func (w *Writer) Write(g *Grid) (*Artifact, error) {
	a := &Artifact{
		Name:   g.Name,
		Header: filepath.Join(w.Dir, g.Name+HeaderExt),
	}
	var files dataFiles
	raw := w.Binary
	if raw && g.Alignment != Points {
		if w.Log != nil {
			w.Log.WithField("grid", g.Name).Warn("cell-aligned grids can only be written as ascii")
		}
		raw = false
	}
	if raw {
		files.Points = g.Name + PointsSuffix
		files.Property = g.Name + PropertySuffix
		a.Points = filepath.Join(w.Dir, files.Points)
		a.Property = filepath.Join(w.Dir, files.Property)
		if err := w.writeBinary(g, a.Points, a.Property); err != nil {
			return nil, err
		}
	} else {
		files.ASCII = g.Name + ASCIIDataExt
		a.Data = filepath.Join(w.Dir, files.ASCII)
		if err := create(a.Data, func(f io.Writer) error { return writeASCII(f, g) }); err != nil {
			return nil, err
		}
	}
	if err := create(a.Header, func(f io.Writer) error { return writeHeader(f, g, files) }); err != nil {
		return nil, err
	}
	return a, nil
}

// create creates the file at path, passes a buffered writer to fn, and
// closes the file whether or not fn succeeds.
func create(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sgrid: %v", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("sgrid: closing %s: %v", path, cerr)
		}
	}()
	b := bufio.NewWriter(f)
	if err := fn(b); err != nil {
		return fmt.Errorf("sgrid: writing %s: %v", path, err)
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("sgrid: writing %s: %v", path, err)
	}
	return nil
}

func writeASCII(w io.Writer, g *Grid) error {
	if _, err := io.WriteString(w, asciiPreamble); err != nil {
		return err
	}
	for _, r := range g.Records {
		if _, err := fmt.Fprintf(w, "%8.1f %9.1f %7.1f %10.6f %4d %4d %4d\n",
			r.X, r.Y, r.Z, r.Value, r.I, r.J, r.K); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeBinary(g *Grid, pointsPath, propPath string) error {
	return create(pointsPath, func(pf io.Writer) error {
		return create(propPath, func(vf io.Writer) error {
			points := &rawEncoder{w: pf, swap: !w.bigEndianHost}
			props := &rawEncoder{w: vf, swap: !w.bigEndianHost}
			for _, r := range g.Records {
				if err := points.write(r.X, r.Y, r.Z); err != nil {
					return err
				}
				if err := props.write(r.Value); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// rawEncoder writes 4-byte IEEE floats in big-endian order.
type rawEncoder struct {
	w    io.Writer
	swap bool
	buf  [4]byte
}

func (e *rawEncoder) write(vals ...float64) error {
	for _, v := range vals {
		u := math.Float32bits(float32(v))
		if e.swap {
			u = bits.ReverseBytes32(u)
		}
		binary.NativeEndian.PutUint32(e.buf[:], u)
		if _, err := e.w.Write(e.buf[:]); err != nil {
			return err
		}
	}
	return nil
}

// ReadRaw reads a stream of big-endian 4-byte IEEE floats, such as a
// binary points or property file.
func ReadRaw(r io.Reader) ([]float32, error) {
	swap := !isBigEndianHost()
	br := bufio.NewReader(r)
	var (
		out []float32
		buf [4]byte
	)
	for {
		if _, err := io.ReadFull(br, buf[:]); err == io.EOF {
			return out, nil
		} else if err != nil {
			return out, fmt.Errorf("sgrid: reading raw floats: %v", err)
		}
		u := binary.NativeEndian.Uint32(buf[:])
		if swap {
			u = bits.ReverseBytes32(u)
		}
		out = append(out, math.Float32frombits(u))
	}
}
