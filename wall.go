// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package r3voronoi

import (
	"fmt"

	"github.com/2dChan/r3voronoi/voro"
	"github.com/golang/geo/r3"
)

// Wall names accepted by NewWall.
const (
	WallNone     = "none"
	WallSphere   = "sphere"
	WallCylinder = "cylinder"
)

// NewWall builds the wall named by name from its flat argument list:
//
//	"sphere":   center x, y, z, radius
//	"cylinder": axis point x, y, z, axis direction x, y, z, radius
//
// The radius must be strictly positive. An empty name or "none" returns a
// nil wall and no error. Any other name is rejected.
func NewWall(name string, args []float64) (voro.Wall, error) {
	switch name {
	case "", WallNone:
		return nil, nil
	case WallSphere:
		if len(args) != 4 {
			return nil, fmt.Errorf("%w: invalid number of arguments for a 'sphere' wall, exactly 4 are needed, got %d",
				ErrInvalidArgument, len(args))
		}
		if !(args[3] > 0) {
			return nil, fmt.Errorf("%w: the radius of a 'sphere' wall must be strictly positive, got %v",
				ErrInvalidArgument, args[3])
		}
		return &voro.Sphere{
			Center: r3.Vector{X: args[0], Y: args[1], Z: args[2]},
			Radius: args[3],
			FaceID: voro.WallID,
		}, nil
	case WallCylinder:
		if len(args) != 7 {
			return nil, fmt.Errorf("%w: invalid number of arguments for a 'cylinder' wall, exactly 7 are needed, got %d",
				ErrInvalidArgument, len(args))
		}
		if !(args[6] > 0) {
			return nil, fmt.Errorf("%w: the radius of a 'cylinder' wall must be strictly positive, got %v",
				ErrInvalidArgument, args[6])
		}
		axis := r3.Vector{X: args[3], Y: args[4], Z: args[5]}
		if !(axis.Norm2() > 0) {
			return nil, fmt.Errorf("%w: the axis of a 'cylinder' wall must not be zero", ErrInvalidArgument)
		}
		return &voro.Cylinder{
			Point:  r3.Vector{X: args[0], Y: args[1], Z: args[2]},
			Axis:   axis,
			Radius: args[6],
			FaceID: voro.WallID,
		}, nil
	}
	return nil, fmt.Errorf("%w: unsupported wall type %q", ErrInvalidArgument, name)
}
