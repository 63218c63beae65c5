// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package utils provides utility functions for generating sites and checking
// cell geometry for 3D Voronoi computations.

package utils

import (
	"errors"
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
)

const (
	hullEps = 1e-12
)

// GenerateRandomPoints generates random points uniformly distributed in the
// box [lo, hi]. The seed parameter ensures reproducibility.
func GenerateRandomPoints(cnt int, lo, hi r3.Vector, seed int64) []r3.Vector {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	size := hi.Sub(lo)
	points := make([]r3.Vector, cnt)

	for i := range cnt {
		points[i] = r3.Vector{
			X: lo.X + random.Float64()*size.X,
			Y: lo.Y + random.Float64()*size.Y,
			Z: lo.Z + random.Float64()*size.Z,
		}
	}

	return points
}

// FlattenPoints returns the points as flat x, y, z triplets.
func FlattenPoints(points []r3.Vector) []float64 {
	flat := make([]float64, 0, 3*len(points))
	for _, p := range points {
		flat = append(flat, p.X, p.Y, p.Z)
	}
	return flat
}

// UnflattenPoints is the inverse of FlattenPoints. NaN triplets are skipped,
// so padded rows of vertex coordinates can be passed as they are.
func UnflattenPoints(flat []float64) ([]r3.Vector, error) {
	if len(flat)%3 != 0 {
		return nil, errors.New("utils: number of coordinates is not a multiple of 3")
	}
	points := make([]r3.Vector, 0, len(flat)/3)
	for i := 0; i < len(flat); i += 3 {
		if math.IsNaN(flat[i]) {
			continue
		}
		points = append(points, r3.Vector{X: flat[i], Y: flat[i+1], Z: flat[i+2]})
	}
	return points, nil
}

// HullVolume returns the volume of the convex hull of the points given as
// flat x, y, z triplets.
func HullVolume(flat []float64) (float64, error) {
	points, err := UnflattenPoints(flat)
	if err != nil {
		return 0, err
	}
	if len(points) < 4 {
		return 0, errors.New("utils: insufficient points for a convex hull (minimum 4 required)")
	}

	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(points, true, true, hullEps)
	if len(ch.Indices) == 0 || len(ch.Indices)%3 != 0 {
		return 0, errors.New("utils: degenerate convex hull")
	}

	// The hull is closed, so the signed volume does not depend on the
	// reference point; use the first point to keep magnitudes small.
	ref := points[0]
	var vol float64
	for i := 0; i < len(ch.Indices); i += 3 {
		a := points[ch.Indices[i]].Sub(ref)
		b := points[ch.Indices[i+1]].Sub(ref)
		c := points[ch.Indices[i+2]].Sub(ref)
		vol += a.Dot(b.Cross(c))
	}
	return math.Abs(vol) / 6, nil
}
