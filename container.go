// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package r3voronoi

import (
	"fmt"
	"log"

	"github.com/2dChan/r3voronoi/voro"
	"github.com/golang/geo/r3"
)

// buildContainer puts every site in a new container and tags the ones in rng.
// The wall, if any, is owned by the returned container.
func buildContainer(sites []r3.Vector, d Domain, rng Range, grid GridResolution,
	wallName string, wallArgs []float64, logger *log.Logger) (*voro.Container, *voro.Order, error) {
	con, err := voro.NewContainer(d.Min, d.Max, grid.NX, grid.NY, grid.NZ)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	order := new(voro.Order)
	for i, p := range sites {
		var o *voro.Order
		if rng.Contains(i) {
			o = order
		}
		if err := con.Put(i, p, o); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	logger.Printf("Wall type: %q", wallName)
	logger.Printf("Wall number of args: %d", len(wallArgs))
	logger.Printf("Wall params: %v", wallArgs)
	w, err := NewWall(wallName, wallArgs)
	if err != nil {
		return nil, nil, err
	}
	if w != nil {
		con.AddWall(w)
	}

	return con, order, nil
}
