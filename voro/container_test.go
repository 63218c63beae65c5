// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package voro

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/2dChan/r3voronoi/utils"
	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

var (
	unitLo = r3.Vector{}
	unitHi = r3.Vector{X: 1, Y: 1, Z: 1}
)

// Container

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name       string
		lo, hi     r3.Vector
		nx, ny, nz int
		wantErr    bool
	}{
		{"unit", unitLo, unitHi, 2, 2, 2, false},
		{"single block", unitLo, unitHi, 1, 1, 1, false},
		{"zero blocks", unitLo, unitHi, 0, 1, 1, true},
		{"flat box", unitLo, r3.Vector{X: 1, Y: 1}, 1, 1, 1, true},
		{"inverted box", unitHi, unitLo, 1, 1, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewContainer(tt.lo, tt.hi, tt.nx, tt.ny, tt.nz)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewContainer(...) error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("NewContainer(...) error = %v, want ErrInvalidGrid", err)
			}
		})
	}
}

func TestContainer_Put(t *testing.T) {
	con := mustNewContainer(t, 2, 2, 2)
	var o Order

	tests := []struct {
		name    string
		p       r3.Vector
		tagged  bool
		wantErr bool
	}{
		{"inside", r3.Vector{X: 0.2, Y: 0.3, Z: 0.4}, true, false},
		{"lower corner", unitLo, false, false},
		{"upper corner", unitHi, true, false},
		{"outside", r3.Vector{X: 1.5, Y: 0.5, Z: 0.5}, true, true},
		{"below", r3.Vector{X: 0.5, Y: 0.5, Z: -1e-9}, false, true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var po *Order
			if tt.tagged {
				po = &o
			}
			err := con.Put(i, tt.p, po)
			if (err != nil) != tt.wantErr {
				t.Errorf("con.Put(%d, %v) error = %v, wantErr %v", i, tt.p, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrOutsideContainer) {
				t.Errorf("con.Put(%d, %v) error = %v, want ErrOutsideContainer", i, tt.p, err)
			}
		})
	}

	if got, want := con.NumSites(), 3; got != want {
		t.Errorf("con.NumSites() = %v, want %v", got, want)
	}
	if diff := cmp.Diff([]int{0, 2}, o.Slots()); diff != "" {
		t.Errorf("o.Slots() mismatch (-want +got):\n%s", diff)
	}
	id, p := con.Site(2)
	if id != 2 || p != unitHi {
		t.Errorf("con.Site(2) = %v, %v, want %v, %v", id, p, 2, unitHi)
	}
}

func TestContainer_ComputeCell_Corners(t *testing.T) {
	con := mustNewContainer(t, 2, 2, 2)
	var o Order
	for i := range 8 {
		p := r3.Vector{X: float64(i & 1), Y: float64(i >> 1 & 1), Z: float64(i >> 2 & 1)}
		if err := con.Put(i, p, &o); err != nil {
			t.Fatalf("con.Put(%d, %v) error = %v, want nil", i, p, err)
		}
	}

	for _, slot := range o.Slots() {
		c, err := con.ComputeCell(slot)
		if err != nil {
			t.Fatalf("con.ComputeCell(%d) error = %v, want nil", slot, err)
		}
		if got := c.Volume(); math.Abs(got-0.125) > 1e-12 {
			t.Errorf("cell %d Volume() = %v, want 0.125", slot, got)
		}
		if got := c.NumVertices(); got != 8 {
			t.Errorf("cell %d NumVertices() = %v, want 8", slot, got)
		}

		var want []int
		for axis := range 3 {
			want = append(want, slot^(1<<axis))
		}
		slices.Sort(want)
		got := slices.DeleteFunc(c.Neighbors(), func(id int) bool { return id < 0 })
		slices.Sort(got)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("cell %d site neighbors mismatch (-want +got):\n%s", slot, diff)
		}
	}
}

func TestContainer_ComputeCell_Partition(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		nx, ny, nz int
	}{
		{"single block", 50, 1, 1, 1},
		{"fine grid", 200, 4, 4, 4},
		{"anisotropic grid", 300, 7, 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			con := mustNewContainer(t, tt.nx, tt.ny, tt.nz)
			var o Order
			for i, p := range utils.GenerateRandomPoints(tt.n, unitLo, unitHi, 1) {
				if err := con.Put(i, p, &o); err != nil {
					t.Fatalf("con.Put(%d, %v) error = %v, want nil", i, p, err)
				}
			}

			vols := make([]float64, 0, tt.n)
			for _, slot := range o.Slots() {
				c, err := con.ComputeCell(slot)
				if err != nil {
					t.Fatalf("con.ComputeCell(%d) error = %v, want nil", slot, err)
				}
				vols = append(vols, c.Volume())

				_, site := con.Site(slot)
				want, err := utils.HullVolume(c.Vertices(site))
				if err != nil {
					t.Fatalf("utils.HullVolume(cell %d) error = %v, want nil", slot, err)
				}
				if !scalar.EqualWithinAbs(c.Volume(), want, 1e-9) {
					t.Errorf("cell %d Volume() = %v, want hull volume %v", slot, c.Volume(), want)
				}
			}
			if got := floats.Sum(vols); !scalar.EqualWithinAbs(got, 1, 1e-9) {
				t.Errorf("sum of cell volumes = %v, want 1", got)
			}
		})
	}
}

func TestContainer_ComputeCell_SymmetricNeighbors(t *testing.T) {
	con := mustNewContainer(t, 3, 3, 3)
	var o Order
	for i, p := range utils.GenerateRandomPoints(100, unitLo, unitHi, 7) {
		if err := con.Put(i, p, &o); err != nil {
			t.Fatalf("con.Put(%d, %v) error = %v, want nil", i, p, err)
		}
	}

	neighbors := make(map[int][]int)
	for _, slot := range o.Slots() {
		c, err := con.ComputeCell(slot)
		if err != nil {
			t.Fatalf("con.ComputeCell(%d) error = %v, want nil", slot, err)
		}
		id, _ := con.Site(slot)
		neighbors[id] = c.Neighbors()
	}
	for id, ns := range neighbors {
		for _, n := range ns {
			if n < 0 {
				continue
			}
			if !slices.Contains(neighbors[n], id) {
				t.Errorf("site %d lists %d as neighbor, but not vice versa", id, n)
			}
		}
	}
}

func TestContainer_ComputeCell_Errors(t *testing.T) {
	t.Run("coincident", func(t *testing.T) {
		con := mustNewContainer(t, 1, 1, 1)
		p := r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}
		mustPut(t, con, 0, p, nil)
		mustPut(t, con, 1, p, nil)
		if _, err := con.ComputeCell(0); !errors.Is(err, ErrCoincidentSites) {
			t.Errorf("con.ComputeCell(0) error = %v, want ErrCoincidentSites", err)
		}
	})

	t.Run("outside wall", func(t *testing.T) {
		con := mustNewContainer(t, 1, 1, 1)
		mustPut(t, con, 0, r3.Vector{X: 0.05, Y: 0.05, Z: 0.05}, nil)
		con.AddWall(&Sphere{Center: r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, Radius: 0.3, FaceID: WallID})
		if _, err := con.ComputeCell(0); !errors.Is(err, ErrOutsideWalls) {
			t.Errorf("con.ComputeCell(0) error = %v, want ErrOutsideWalls", err)
		}
	})

	t.Run("slot out of range", func(t *testing.T) {
		con := mustNewContainer(t, 1, 1, 1)
		for _, slot := range []int{-1, 0} {
			if _, err := con.ComputeCell(slot); err == nil {
				t.Errorf("con.ComputeCell(%d) error = nil, want non-nil", slot)
			}
		}
	})
}

// Walls

func TestContainer_ComputeCell_Walls(t *testing.T) {
	site := r3.Vector{X: 0.6, Y: 0.5, Z: 0.5}
	tests := []struct {
		name    string
		wall    Wall
		wantVol float64
	}{
		{
			"sphere",
			&Sphere{Center: r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, Radius: 0.3, FaceID: WallID},
			0.8,
		},
		{
			"cylinder",
			&Cylinder{Point: r3.Vector{X: 0.5, Y: 0.5}, Axis: r3.Vector{Z: 2}, Radius: 0.3, FaceID: WallID},
			0.8,
		},
		{
			"sphere centered on site",
			&Sphere{Center: site, Radius: 0.3, FaceID: WallID},
			1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			con := mustNewContainer(t, 1, 1, 1)
			mustPut(t, con, 0, site, nil)
			con.AddWall(tt.wall)

			c, err := con.ComputeCell(0)
			if err != nil {
				t.Fatalf("con.ComputeCell(0) error = %v, want nil", err)
			}
			if got := c.Volume(); math.Abs(got-tt.wantVol) > 1e-12 {
				t.Errorf("c.Volume() = %v, want %v", got, tt.wantVol)
			}
			if tt.wantVol < 1 && !slices.Contains(c.Neighbors(), WallID) {
				t.Errorf("c.Neighbors() = %v, want to contain %v", c.Neighbors(), WallID)
			}
		})
	}
}

func TestWall_PointInside(t *testing.T) {
	s := &Sphere{Center: r3.Vector{}, Radius: 1, FaceID: WallID}
	cy := &Cylinder{Point: r3.Vector{}, Axis: r3.Vector{X: 1}, Radius: 1, FaceID: WallID}

	tests := []struct {
		name string
		wall Wall
		p    r3.Vector
		want bool
	}{
		{"sphere center", s, r3.Vector{}, true},
		{"sphere surface", s, r3.Vector{Y: 1}, true},
		{"sphere outside", s, r3.Vector{X: 0.8, Y: 0.8}, false},
		{"cylinder far along axis", cy, r3.Vector{X: 100, Y: 0.5}, true},
		{"cylinder outside", cy, r3.Vector{Y: 0.8, Z: 0.8}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.wall.PointInside(tt.p); got != tt.want {
				t.Errorf("PointInside(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

// Benchmarks

func BenchmarkContainer_ComputeCell(b *testing.B) {
	sizes := []int{1e+2, 1e+3, 1e+4}
	for _, n := range sizes {
		b.Run(fmt.Sprintf("N%d", n), func(b *testing.B) {
			edge := int(math.Cbrt(float64(n)/5)) + 1
			con, err := NewContainer(unitLo, unitHi, edge, edge, edge)
			if err != nil {
				b.Fatalf("NewContainer(...) error = %v, want nil", err)
			}
			for i, p := range utils.GenerateRandomPoints(n, unitLo, unitHi, 0) {
				if err := con.Put(i, p, nil); err != nil {
					b.Fatalf("con.Put(%d, %v) error = %v, want nil", i, p, err)
				}
			}

			b.ReportAllocs()
			b.ResetTimer()
			slot := 0
			for b.Loop() {
				if _, err := con.ComputeCell(slot); err != nil {
					b.Fatalf("con.ComputeCell(%d) error = %v, want nil", slot, err)
				}
				slot = (slot + 1) % n
			}
		})
	}
}

// Helpers

func mustNewContainer(t *testing.T, nx, ny, nz int) *Container {
	t.Helper()
	con, err := NewContainer(unitLo, unitHi, nx, ny, nz)
	if err != nil {
		t.Fatalf("NewContainer(...) error = %v, want nil", err)
	}
	return con
}

func mustPut(t *testing.T, con *Container, id int, p r3.Vector, o *Order) {
	t.Helper()
	if err := con.Put(id, p, o); err != nil {
		t.Fatalf("con.Put(%d, %v) error = %v, want nil", id, p, err)
	}
}
