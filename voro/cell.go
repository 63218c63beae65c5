// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package voro

import (
	"math"
	"slices"

	"github.com/golang/geo/r3"
)

// Face ids of the container box, in the order xmin, xmax, ymin, ymax, zmin, zmax.
const (
	FaceXMin = -1 - iota
	FaceXMax
	FaceYMin
	FaceYMax
	FaceZMin
	FaceZMax
)

type face struct {
	id int
	// NOTE: Sort in CCW per face(look from outside of the cell)
	verts []int
}

// Cell is a convex polyhedron stored relative to the site it belongs to.
// Every face carries the id of the site, wall or box side that generated it.
type Cell struct {
	verts []r3.Vector
	faces []face
	tol   float64
}

// newBoxCell returns the box [lo, hi] as a cell. The box must contain the
// origin, which is the site position.
func newBoxCell(lo, hi r3.Vector, tol float64) *Cell {
	c := &Cell{
		verts: make([]r3.Vector, 8),
		tol:   tol,
	}
	for i := range 8 {
		v := lo
		if i&1 != 0 {
			v.X = hi.X
		}
		if i&2 != 0 {
			v.Y = hi.Y
		}
		if i&4 != 0 {
			v.Z = hi.Z
		}
		c.verts[i] = v
	}
	c.faces = []face{
		{FaceXMin, []int{0, 4, 6, 2}},
		{FaceXMax, []int{1, 3, 7, 5}},
		{FaceYMin, []int{0, 1, 5, 4}},
		{FaceYMax, []int{2, 6, 7, 3}},
		{FaceZMin, []int{0, 2, 3, 1}},
		{FaceZMax, []int{4, 5, 7, 6}},
	}
	return c
}

// NumVertices returns the number of distinct vertices of the cell.
func (c *Cell) NumVertices() int {
	return len(c.verts)
}

// NumFaces returns the number of faces of the cell.
func (c *Cell) NumFaces() int {
	return len(c.faces)
}

// Neighbors returns one id per face: the global id of the site across the
// face, or a negative id for box sides and walls.
func (c *Cell) Neighbors() []int {
	ids := make([]int, len(c.faces))
	for i, f := range c.faces {
		ids[i] = f.id
	}
	return ids
}

// Vertices returns the vertex coordinates as flat x, y, z triplets, shifted
// by the site position.
func (c *Cell) Vertices(site r3.Vector) []float64 {
	out := make([]float64, 0, 3*len(c.verts))
	for _, v := range c.verts {
		out = append(out, v.X+site.X, v.Y+site.Y, v.Z+site.Z)
	}
	return out
}

// Volume returns the volume of the cell.
func (c *Cell) Volume() float64 {
	var vol float64
	for _, f := range c.faces {
		p0 := c.verts[f.verts[0]]
		for i := 1; i+1 < len(f.verts); i++ {
			vol += p0.Dot(c.verts[f.verts[i]].Cross(c.verts[f.verts[i+1]]))
		}
	}
	return vol / 6
}

// MaxRadiusSq returns the squared distance from the site to the furthest vertex.
func (c *Cell) MaxRadiusSq() float64 {
	var r float64
	for _, v := range c.verts {
		r = math.Max(r, v.Norm2())
	}
	return r
}

// Cut clips the cell by the half-space {x : x·n <= off}. The face created by
// the cut gets the given id. It returns false if nothing of the cell is left.
func (c *Cell) Cut(n r3.Vector, off float64, id int) bool {
	norm := n.Norm()
	if norm == 0 {
		return off >= 0
	}

	dist := make([]float64, len(c.verts))
	var in, out bool
	for i, v := range c.verts {
		d := (v.Dot(n) - off) / norm
		dist[i] = d
		switch {
		case d > c.tol:
			out = true
		case d < -c.tol:
			in = true
		}
	}
	if !out {
		return true
	}
	if !in {
		c.verts, c.faces = nil, nil
		return false
	}

	verts := c.verts
	onPlane := make(map[int]bool)
	crossing := make(map[[2]int]int)
	intersect := func(a, b int) int {
		key := [2]int{min(a, b), max(a, b)}
		if k, ok := crossing[key]; ok {
			return k
		}
		t := dist[a] / (dist[a] - dist[b])
		p := verts[a].Add(verts[b].Sub(verts[a]).Mul(t))
		verts = append(verts, p)
		k := len(verts) - 1
		crossing[key] = k
		onPlane[k] = true
		return k
	}
	isOn := func(v int) bool {
		return v >= len(dist) || math.Abs(dist[v]) <= c.tol
	}

	faces := c.faces[:0]
	for _, f := range c.faces {
		fv := make([]int, 0, len(f.verts)+1)
		num := len(f.verts)
		for i, a := range f.verts {
			b := f.verts[(i+1)%num]
			da, db := dist[a], dist[b]
			if da <= c.tol {
				fv = append(fv, a)
				if da >= -c.tol {
					onPlane[a] = true
				}
			}
			if (da < -c.tol && db > c.tol) || (da > c.tol && db < -c.tol) {
				fv = append(fv, intersect(a, b))
			}
		}
		if len(fv) < 3 || !slices.ContainsFunc(fv, func(v int) bool { return !isOn(v) }) {
			continue
		}
		faces = append(faces, face{id: f.id, verts: fv})
	}

	used := make(map[int]bool)
	for _, f := range faces {
		for _, v := range f.verts {
			used[v] = true
		}
	}
	ring := make([]int, 0, len(onPlane))
	for v := range onPlane {
		if used[v] {
			ring = append(ring, v)
		}
	}
	if len(ring) >= 3 {
		sortAroundAxis(ring, verts, n)
		faces = append(faces, face{id: id, verts: ring})
	}

	c.compact(verts, faces)
	return len(c.verts) > 0
}

// compact drops vertices no face refers to and renumbers the rest in order
// of first appearance.
func (c *Cell) compact(verts []r3.Vector, faces []face) {
	remap := make([]int, len(verts))
	for i := range remap {
		remap[i] = -1
	}
	kept := make([]r3.Vector, 0, len(verts))
	for _, f := range faces {
		for j, v := range f.verts {
			if remap[v] < 0 {
				remap[v] = len(kept)
				kept = append(kept, verts[v])
			}
			f.verts[j] = remap[v]
		}
	}
	c.verts = kept
	c.faces = faces
}

// sortAroundAxis orders coplanar vertex indices counter-clockwise around
// their centroid when looking against the axis.
func sortAroundAxis(idx []int, verts []r3.Vector, axis r3.Vector) {
	axis = axis.Normalize()
	u := axis.Ortho()
	w := axis.Cross(u)

	var center r3.Vector
	for _, i := range idx {
		center = center.Add(verts[i])
	}
	center = center.Mul(1 / float64(len(idx)))

	angle := make(map[int]float64, len(idx))
	for _, i := range idx {
		d := verts[i].Sub(center)
		angle[i] = math.Atan2(d.Dot(w), d.Dot(u))
	}
	slices.SortFunc(idx, func(a, b int) int {
		switch {
		case angle[a] < angle[b]:
			return -1
		case angle[a] > angle[b]:
			return 1
		}
		return a - b
	})
}
