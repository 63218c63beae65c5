// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package r3voronoi

import (
	"log"
	"math"

	"gonum.org/v1/gonum/floats"
)

// NeighborPad fills the unused slots of a packed neighbor row. It differs
// from every site index and from the box and wall face ids.
const NeighborPad = -10

// Packed holds the cells of a Result in fixed-stride, row-major buffers.
// Row i describes cell i. Rows shorter than the stride are padded with
// NeighborPad or NaN; the Counts slices give the unpadded row lengths.
type Packed struct {
	NumCells int

	// NumCells x MaxNeighbors.
	Neighbors      []int
	MaxNeighbors   int
	NeighborCounts []int

	Volumes []float64
	// NumCells x 3.
	BBoxMin []float64
	BBoxMax []float64

	// NumCells x MaxVertexCoords, nil and 0 unless vertices were requested.
	// Counts are in coordinates, i.e. three per vertex.
	Vertices        []float64
	MaxVertexCoords int
	VertexCounts    []int
}

// Pack converts the cells into fixed-stride buffers. The buffers are newly
// allocated and owned by the caller.
func (r *Result) Pack() *Packed {
	n := len(r.Cells)
	p := &Packed{
		NumCells:       n,
		MaxNeighbors:   r.MaxNeighbors(),
		NeighborCounts: make([]int, n),
		Volumes:        make([]float64, n),
		BBoxMin:        make([]float64, 3*n),
		BBoxMax:        make([]float64, 3*n),
	}

	p.Neighbors = make([]int, n*p.MaxNeighbors)
	for i, c := range r.Cells {
		row := p.Neighbors[i*p.MaxNeighbors : (i+1)*p.MaxNeighbors]
		k := copy(row, c.Neighbors)
		for j := k; j < len(row); j++ {
			row[j] = NeighborPad
		}
		p.NeighborCounts[i] = k

		p.Volumes[i] = c.Volume
		lo, hi := c.BBox.Min(), c.BBox.Max()
		copy(p.BBoxMin[3*i:], []float64{lo.X, lo.Y, lo.Z})
		copy(p.BBoxMax[3*i:], []float64{hi.X, hi.Y, hi.Z})
	}

	if !r.Vertices {
		return p
	}
	p.MaxVertexCoords = r.MaxVertexCoords()
	p.VertexCounts = make([]int, n)
	p.Vertices = make([]float64, n*p.MaxVertexCoords)
	for i, c := range r.Cells {
		row := p.Vertices[i*p.MaxVertexCoords : (i+1)*p.MaxVertexCoords]
		k := copy(row, c.Vertices)
		for j := k; j < len(row); j++ {
			row[j] = math.NaN()
		}
		p.VertexCounts[i] = k
	}
	return p
}

// MaxNeighbors returns the largest number of neighbors of any cell.
func (r *Result) MaxNeighbors() int {
	var m int
	for _, c := range r.Cells {
		m = max(m, len(c.Neighbors))
	}
	return m
}

// MaxVertexCoords returns the largest number of vertex coordinates of any
// cell, or 0 if vertices were not requested.
func (r *Result) MaxVertexCoords() int {
	var m int
	for _, c := range r.Cells {
		m = max(m, len(c.Vertices))
	}
	return m
}

// NeighborRow returns the unpadded neighbors of cell i.
func (p *Packed) NeighborRow(i int) []int {
	start := i * p.MaxNeighbors
	return p.Neighbors[start : start+p.NeighborCounts[i]]
}

// VertexRow returns the unpadded vertex coordinates of cell i.
func (p *Packed) VertexRow(i int) []float64 {
	if p.VertexCounts == nil {
		return nil
	}
	start := i * p.MaxVertexCoords
	return p.Vertices[start : start+p.VertexCounts[i]]
}

// TotalVolume returns the summed volume of the cells.
func (r *Result) TotalVolume() float64 {
	vols := make([]float64, len(r.Cells))
	for i, c := range r.Cells {
		vols[i] = c.Volume
	}
	return floats.Sum(vols)
}

func logSummary(logger *log.Logger, r *Result) {
	logger.Printf("Max number of neighbours is: %d", r.MaxNeighbors())
	if r.Vertices {
		logger.Printf("Max number of vertices coordinates is: %d", r.MaxVertexCoords())
	}
	logger.Printf("Total volume of the computed cells: %g", r.TotalVolume())
}
