// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package voro computes 3D Voronoi cells of sites held in a block-partitioned
// container, clipping each cell by the bisecting planes of nearby sites.

package voro

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r3"
)

const (
	defaultRelTol = 1e-10
)

var (
	ErrInvalidGrid      = errors.New("voro: invalid container grid")
	ErrOutsideContainer = errors.New("voro: site outside the container")
	ErrCoincidentSites  = errors.New("voro: coincident sites")
	ErrOutsideWalls     = errors.New("voro: site outside the container walls")
	ErrEmptyCell        = errors.New("voro: cell clipped to nothing")
)

// Order records the slots of tagged sites in insertion order.
type Order struct {
	slots []int
}

// Len returns the number of tagged sites.
func (o *Order) Len() int {
	return len(o.slots)
}

// Slots returns the container slots of the tagged sites.
func (o *Order) Slots() []int {
	return o.slots
}

// Container holds sites in an axis-aligned, non-periodic box split into
// nx*ny*nz blocks.
type Container struct {
	lo, hi     r3.Vector
	nx, ny, nz int
	edge       r3.Vector
	blocks     [][]int
	ids        []int
	pos        []r3.Vector
	walls      []Wall
	tol        float64
}

// NewContainer returns an empty container for the box [lo, hi] split into
// nx*ny*nz blocks.
func NewContainer(lo, hi r3.Vector, nx, ny, nz int) (*Container, error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, fmt.Errorf("%w: %dx%dx%d blocks", ErrInvalidGrid, nx, ny, nz)
	}
	size := hi.Sub(lo)
	if !(size.X > 0 && size.Y > 0 && size.Z > 0) {
		return nil, fmt.Errorf("%w: empty box %v %v", ErrInvalidGrid, lo, hi)
	}
	return &Container{
		lo:     lo,
		hi:     hi,
		nx:     nx,
		ny:     ny,
		nz:     nz,
		edge:   r3.Vector{X: size.X / float64(nx), Y: size.Y / float64(ny), Z: size.Z / float64(nz)},
		blocks: make([][]int, nx*ny*nz),
		tol:    defaultRelTol * size.Norm(),
	}, nil
}

// Grid returns the number of blocks along each axis.
func (con *Container) Grid() (nx, ny, nz int) {
	return con.nx, con.ny, con.nz
}

// NumSites returns the number of sites put in the container.
func (con *Container) NumSites() int {
	return len(con.ids)
}

// Site returns the id and position of the site stored in the slot.
func (con *Container) Site(slot int) (int, r3.Vector) {
	return con.ids[slot], con.pos[slot]
}

// Put stores a site with the given id. If o is not nil the site is tagged in
// it for later computation.
func (con *Container) Put(id int, p r3.Vector, o *Order) error {
	if p.X < con.lo.X || p.X > con.hi.X ||
		p.Y < con.lo.Y || p.Y > con.hi.Y ||
		p.Z < con.lo.Z || p.Z > con.hi.Z {
		return fmt.Errorf("%w: site %d at %v", ErrOutsideContainer, id, p)
	}
	slot := len(con.ids)
	con.ids = append(con.ids, id)
	con.pos = append(con.pos, p)
	i, j, k := con.blockOf(p)
	b := con.blockIndex(i, j, k)
	con.blocks[b] = append(con.blocks[b], slot)
	if o != nil {
		o.slots = append(o.slots, slot)
	}
	return nil
}

// AddWall registers a wall that clips every cell computed afterwards.
// The wall must stay valid for as long as the container is used.
func (con *Container) AddWall(w Wall) {
	con.walls = append(con.walls, w)
}

// PointInsideWalls reports whether p is on the inner side of every wall.
func (con *Container) PointInsideWalls(p r3.Vector) bool {
	for _, w := range con.walls {
		if !w.PointInside(p) {
			return false
		}
	}
	return true
}

// ComputeCell computes the Voronoi cell of the site stored in the slot.
func (con *Container) ComputeCell(slot int) (*Cell, error) {
	if slot < 0 || slot >= len(con.ids) {
		return nil, fmt.Errorf("voro: slot %d out of range [0 %d)", slot, len(con.ids))
	}
	id, p := con.ids[slot], con.pos[slot]
	if !con.PointInsideWalls(p) {
		return nil, fmt.Errorf("%w: site %d at %v", ErrOutsideWalls, id, p)
	}

	c := newBoxCell(con.lo.Sub(p), con.hi.Sub(p), con.tol)
	for _, w := range con.walls {
		if !w.CutCell(c, p) {
			return nil, fmt.Errorf("%w: site %d, wall %d", ErrEmptyCell, id, w.ID())
		}
	}

	bi, bj, bk := con.blockOf(p)
	minEdge := math.Min(con.edge.X, math.Min(con.edge.Y, con.edge.Z))
	maxRing := max(con.nx, con.ny, con.nz)
	coincident := con.tol * con.tol

	var cand []int
	for ring := 0; ring <= maxRing; ring++ {
		if ring > 1 {
			gap := float64(ring-1) * minEdge
			if gap*gap > 4*c.MaxRadiusSq() {
				break
			}
		}
		cand = con.ringSlots(cand[:0], bi, bj, bk, ring)
		slices.SortFunc(cand, func(a, b int) int {
			da, db := con.pos[a].Sub(p).Norm2(), con.pos[b].Sub(p).Norm2()
			switch {
			case da < db:
				return -1
			case da > db:
				return 1
			}
			return a - b
		})
		for _, q := range cand {
			if q == slot {
				continue
			}
			d := con.pos[q].Sub(p)
			rsq := d.Norm2()
			if rsq <= coincident {
				return nil, fmt.Errorf("%w: sites %d and %d", ErrCoincidentSites, id, con.ids[q])
			}
			if rsq > 4*c.MaxRadiusSq() {
				continue
			}
			if !c.Cut(d, rsq/2, con.ids[q]) {
				return nil, fmt.Errorf("%w: site %d", ErrEmptyCell, id)
			}
		}
	}
	if c.NumVertices() == 0 {
		return nil, fmt.Errorf("%w: site %d", ErrEmptyCell, id)
	}
	return c, nil
}

// ringSlots appends the slots of every block at Chebyshev distance ring from
// block (bi, bj, bk).
func (con *Container) ringSlots(dst []int, bi, bj, bk, ring int) []int {
	for k := max(bk-ring, 0); k <= min(bk+ring, con.nz-1); k++ {
		for j := max(bj-ring, 0); j <= min(bj+ring, con.ny-1); j++ {
			for i := max(bi-ring, 0); i <= min(bi+ring, con.nx-1); i++ {
				if max(abs(i-bi), abs(j-bj), abs(k-bk)) != ring {
					continue
				}
				dst = append(dst, con.blocks[con.blockIndex(i, j, k)]...)
			}
		}
	}
	return dst
}

func (con *Container) blockOf(p r3.Vector) (int, int, int) {
	return blockCoord(p.X-con.lo.X, con.edge.X, con.nx),
		blockCoord(p.Y-con.lo.Y, con.edge.Y, con.ny),
		blockCoord(p.Z-con.lo.Z, con.edge.Z, con.nz)
}

func (con *Container) blockIndex(i, j, k int) int {
	return i + con.nx*(j+con.ny*k)
}

func blockCoord(x, edge float64, n int) int {
	return min(max(int(x/edge), 0), n-1)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
