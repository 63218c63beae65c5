// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package r3voronoi

import (
	"fmt"
	"math"
)

// GridResolution is the number of container blocks along each axis.
type GridResolution struct {
	NX, NY, NZ int
}

func (g GridResolution) String() string {
	return fmt.Sprintf("%d,%d,%d", g.NX, g.NY, g.NZ)
}

// NewGridResolution sizes the container grid so that a block holds
// particleBlock sites on average. Blocks are spread over the axes in
// proportion to the domain extent along each of them, so elongated domains
// get the same occupancy as cubic ones. Every axis gets at least one block.
func NewGridResolution(nsites int, d Domain, particleBlock float64) GridResolution {
	// Total number of blocks we want and the edge of a cube holding them.
	nblocks := float64(nsites) / particleBlock
	blockEdge := math.Cbrt(nblocks)

	// Average edge length of the domain.
	size := d.Size()
	volEdge := math.Cbrt(size.X * size.Y * size.Z)
	if !(volEdge > 0) || math.IsInf(volEdge, 0) || !(blockEdge > 0) {
		return GridResolution{NX: 1, NY: 1, NZ: 1}
	}

	return GridResolution{
		NX: blocksAlong(size.X, volEdge, blockEdge),
		NY: blocksAlong(size.Y, volEdge, blockEdge),
		NZ: blocksAlong(size.Z, volEdge, blockEdge),
	}
}

// blocksAlong truncates and adds one, which both rounds and guarantees at
// least one block.
func blocksAlong(extent, volEdge, blockEdge float64) int {
	n := extent / volEdge * blockEdge
	if !(n > 0) {
		return 1
	}
	if n >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n) + 1
}
