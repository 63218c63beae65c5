// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package voro

import (
	"math"

	"github.com/golang/geo/r3"
)

// WallID is the default face id of cells clipped by a wall.
const WallID = -99

// minWallDist2 is the squared distance below which a site is treated as
// lying on the wall axis or center, where no tangent plane is defined.
const minWallDist2 = 1e-5

// Wall is a surface bounding the cells of a Container.
type Wall interface {
	// PointInside reports whether p is on the inner side of the wall.
	PointInside(p r3.Vector) bool
	// CutCell clips the cell of the site at p. It returns false if the
	// cell was clipped to nothing.
	CutCell(c *Cell, p r3.Vector) bool
	// ID returns the face id given to faces created by the wall.
	ID() int
}

// Sphere is a spherical wall. Cells are clipped by the plane tangent to the
// sphere at the point closest to their site.
type Sphere struct {
	Center r3.Vector
	Radius float64
	FaceID int
}

func (s *Sphere) PointInside(p r3.Vector) bool {
	return p.Sub(s.Center).Norm2() <= s.Radius*s.Radius
}

func (s *Sphere) CutCell(c *Cell, p r3.Vector) bool {
	d := p.Sub(s.Center)
	dq := d.Norm2()
	if dq <= minWallDist2 {
		return true
	}
	return c.Cut(d, math.Sqrt(dq)*s.Radius-dq, s.FaceID)
}

func (s *Sphere) ID() int {
	return s.FaceID
}

// Cylinder is an infinite cylindrical wall around the line through Point
// with direction Axis.
type Cylinder struct {
	Point  r3.Vector
	Axis   r3.Vector
	Radius float64
	FaceID int
}

// radial returns the component of p - Point perpendicular to the axis.
func (cy *Cylinder) radial(p r3.Vector) r3.Vector {
	d := p.Sub(cy.Point)
	return d.Sub(cy.Axis.Mul(d.Dot(cy.Axis) / cy.Axis.Norm2()))
}

func (cy *Cylinder) PointInside(p r3.Vector) bool {
	return cy.radial(p).Norm2() <= cy.Radius*cy.Radius
}

func (cy *Cylinder) CutCell(c *Cell, p r3.Vector) bool {
	d := cy.radial(p)
	dq := d.Norm2()
	if dq <= minWallDist2 {
		return true
	}
	return c.Cut(d, math.Sqrt(dq)*cy.Radius-dq, cy.FaceID)
}

func (cy *Cylinder) ID() int {
	return cy.FaceID
}
