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
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ctessum/geom"
	"github.com/gaaem/sgrid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Result describes one converted line data file.
type Result struct {
	File     string
	Line     int
	Artifact *sgrid.Artifact

	// Bounds is the horizontal extent of the line.
	Bounds *geom.Bounds

	// Descriptor is the path of the layer descriptor, if one was written.
	Descriptor string
}

// constructor returns the grid constructor selected by c.
func (c *Config) constructor(log logrus.FieldLogger) sgrid.GridConstructor {
	if c.CellAlignment {
		return sgrid.NewCellGrid(c.Policy, c.CellWidth, log)
	}
	return sgrid.NewPointGrid(c.Policy, log)
}

// gridNames records the input file each grid name was claimed for, so
// that no two files write to the same output paths.
type gridNames struct {
	mu    sync.Mutex
	files map[string]string
}

// claim reserves name for file. It fails if another file already holds
// name.
func (n *gridNames) claim(name, file string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.files == nil {
		n.files = make(map[string]string)
	}
	if prev, ok := n.files[name]; ok && prev != file {
		return fmt.Errorf("grid %s is already written for %s", name, prev)
	}
	n.files[name] = file
	return nil
}

// Convert converts every file in c.Files to an SGrid in c.OutDir and,
// if c.Manifest is set, writes the XML descriptors. Results are returned
// in the order of c.Files. With c.ContinueOnError, files that fail are
// logged and skipped and an error counting them is returned along with
// the results of the files that succeeded. A file whose line produces a
// grid name already claimed by another file fails without writing.
func Convert(ctx context.Context, c *Config, log logrus.FieldLogger) ([]*Result, error) {
	start := time.Now()
	if err := os.MkdirAll(c.OutDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("sgridutil: creating output directory: %v", err)
	}
	constructor := c.constructor(log)
	w := sgrid.NewWriter(c.OutDir, c.Binary, log)
	claimed := new(gridNames)

	results := make([]*Result, len(c.Files))
	var (
		mu     sync.Mutex
		failed int
	)
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range c.Files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			flog := log.WithField("file", f)
			flog.Infof("Processing file %s %3d of %3d", f, i+1, len(c.Files))
			r, err := convertFile(c, constructor, w, claimed, f, flog)
			if err != nil {
				if !c.ContinueOnError {
					return fmt.Errorf("sgridutil: %s: %v", f, err)
				}
				flog.WithError(err).Error("conversion failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*Result
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	if c.Manifest != nil && len(out) > 0 {
		path, err := c.Manifest.WriteDataset(c.OutDir, out)
		if err != nil {
			return out, err
		}
		log.WithField("path", path).Info("wrote dataset list")
	}
	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("done")
	if failed > 0 {
		return out, fmt.Errorf("sgridutil: %d of %d files failed", failed, len(c.Files))
	}
	return out, nil
}

// convertFile reads, builds and writes the grid for one file.
func convertFile(c *Config, constructor sgrid.GridConstructor, w *sgrid.Writer, claimed *gridNames, file string, log logrus.FieldLogger) (*Result, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	l, err := sgrid.ReadLine(f, &c.Input)
	f.Close()
	if err != nil {
		return nil, err
	}
	if err := l.Apply(sgrid.BuildDepths(c.DepthExtent > 0, c.DepthExtent)); err != nil {
		return nil, err
	}

	path := l.Path()
	lo, hi := l.ElevationRange()
	log.WithFields(logrus.Fields{
		"line":    l.Number,
		"samples": l.NSamples(),
		"layers":  l.NLayers(),
		"length":  fmt.Sprintf("%.1f", path.Length()),
		"minElev": lo,
		"maxElev": hi,
	}).Info("read line")

	name := sgrid.GridName(c.Prefix, l.Number, c.Suffix)
	if err := claimed.claim(name, file); err != nil {
		return nil, err
	}
	g, err := constructor.Construct(name, l)
	if err != nil {
		return nil, err
	}
	a, err := w.Write(g)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"grid":      g.Name,
		"alignment": g.Alignment,
		"records":   g.Len(),
		"null":      g.NullCount(),
	}).Info("wrote grid")

	r := &Result{
		File:     file,
		Line:     l.Number,
		Artifact: a,
		Bounds:   path.Bounds(),
	}
	if c.Manifest != nil {
		if r.Descriptor, err = c.Manifest.WriteLayer(c.OutDir, a); err != nil {
			return nil, err
		}
	}
	return r, nil
}
