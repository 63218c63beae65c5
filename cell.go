// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package r3voronoi

import (
	"fmt"

	"github.com/2dChan/r3voronoi/voro"
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r3"
)

// Box is an axis-aligned bounding box.
type Box struct {
	X, Y, Z r1.Interval
}

// Min returns the lower corner of the box.
func (b Box) Min() r3.Vector {
	return r3.Vector{X: b.X.Lo, Y: b.Y.Lo, Z: b.Z.Lo}
}

// Max returns the upper corner of the box.
func (b Box) Max() r3.Vector {
	return r3.Vector{X: b.X.Hi, Y: b.Y.Hi, Z: b.Z.Hi}
}

// ContainsPoint reports whether p lies in the closed box.
func (b Box) ContainsPoint(p r3.Vector) bool {
	return b.X.Contains(p.X) && b.Y.Contains(p.Y) && b.Z.Contains(p.Z)
}

// boundingBox folds flat x, y, z triplets into their bounding box.
// The slice must hold at least one triplet.
func boundingBox(coords []float64) Box {
	b := Box{
		X: r1.IntervalFromPoint(coords[0]),
		Y: r1.IntervalFromPoint(coords[1]),
		Z: r1.IntervalFromPoint(coords[2]),
	}
	for i := 3; i+2 < len(coords); i += 3 {
		b.X = b.X.AddPoint(coords[i])
		b.Y = b.Y.AddPoint(coords[i+1])
		b.Z = b.Z.AddPoint(coords[i+2])
	}
	return b
}

// Cell is the computed Voronoi cell of one selected site.
type Cell struct {
	// Index of the site in the full site set.
	SiteIndex int
	Site      r3.Vector
	Volume    float64
	BBox      Box
	// NOTE: In the order faces are returned by the engine; negative ids are
	// box sides (voro.FaceXMin..voro.FaceZMax) or walls (voro.WallID).
	Neighbors []int
	// Flat x, y, z triplets. Empty unless vertices were requested.
	Vertices []float64
}

// NumNeighbors returns the number of faces of the cell.
func (c *Cell) NumNeighbors() int {
	return len(c.Neighbors)
}

// NumVertices returns the number of vertices of the cell, or 0 if vertices
// were not requested.
func (c *Cell) NumVertices() int {
	return len(c.Vertices) / 3
}

// computeCells computes the cell of every site tagged in order. Cells are
// returned indexed by their position in rng.
func computeCells(con *voro.Container, order *voro.Order, rng Range, withVertices bool) ([]Cell, error) {
	if order.Len() != rng.Len() {
		return nil, fmt.Errorf("%w: %d tagged sites for a range of %d", ErrInternal, order.Len(), rng.Len())
	}

	cells := make([]Cell, rng.Len())
	seen := make([]bool, rng.Len())
	for _, slot := range order.Slots() {
		id, p := con.Site(slot)
		idx := id - rng.Start
		if idx < 0 || idx >= len(cells) || seen[idx] {
			return nil, fmt.Errorf("%w: unexpected tagged site %d", ErrInternal, id)
		}
		seen[idx] = true

		vc, err := con.ComputeCell(slot)
		if err != nil {
			return nil, fmt.Errorf("%w: site %d: %w", ErrDegenerateCell, id, err)
		}

		verts := vc.Vertices(p)
		if len(verts) == 0 {
			return nil, fmt.Errorf("%w: site %d has no vertices", ErrDegenerateCell, id)
		}

		c := &cells[idx]
		c.SiteIndex = id
		c.Site = p
		c.Neighbors = vc.Neighbors()
		c.Volume = vc.Volume()
		c.BBox = boundingBox(verts)
		if withVertices {
			c.Vertices = verts
		}
	}
	return cells, nil
}
