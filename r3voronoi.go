// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package r3voronoi computes the Voronoi cells of a contiguous range of sites
// taken from a larger 3D site set. Every site shapes the cells, but only the
// selected range is computed, so a host can split a large set into ranges and
// compute them independently.

package r3voronoi

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/golang/geo/r3"
)

const (
	// Average number of sites per container block, determined experimentally.
	defaultParticleBlock = 5.
)

var (
	ErrInvalidArgument = errors.New("r3voronoi: invalid argument")
	ErrDegenerateCell  = errors.New("r3voronoi: degenerate cell")
	ErrInternal        = errors.New("r3voronoi: internal fault")
)

// Domain is an axis-aligned box.
type Domain struct {
	Min, Max r3.Vector
}

// NewDomain returns the box [xmin, xmax] x [ymin, ymax] x [zmin, zmax].
func NewDomain(xmin, xmax, ymin, ymax, zmin, zmax float64) Domain {
	return Domain{
		Min: r3.Vector{X: xmin, Y: ymin, Z: zmin},
		Max: r3.Vector{X: xmax, Y: ymax, Z: zmax},
	}
}

// Size returns the extent of the domain along each axis.
func (d Domain) Size() r3.Vector {
	return d.Max.Sub(d.Min)
}

// Volume returns the volume of the domain.
func (d Domain) Volume() float64 {
	s := d.Size()
	return s.X * s.Y * s.Z
}

func (d Domain) validate() error {
	s := d.Size()
	if !(s.X > 0 && s.Y > 0 && s.Z > 0) || math.IsInf(d.Volume(), 0) {
		return fmt.Errorf("%w: domain [%v, %v] must have max > min on every axis", ErrInvalidArgument, d.Min, d.Max)
	}
	return nil
}

func (d Domain) String() string {
	return fmt.Sprintf("[%g,%g] [%g,%g] [%g,%g]", d.Min.X, d.Max.X, d.Min.Y, d.Max.Y, d.Min.Z, d.Max.Z)
}

// Range is the half-open interval [Start, End) of site indices whose cells
// are computed.
type Range struct {
	Start, End int
}

// Len returns the number of cells in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether the site index i is in the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

func (r Range) validate(nsites int) error {
	if r.Start < 0 || r.Start >= r.End || r.End > nsites {
		return fmt.Errorf("%w: range [%d, %d) must satisfy 0 <= start < end <= %d", ErrInvalidArgument, r.Start, r.End, nsites)
	}
	return nil
}

// Options configure a computation.
type Options struct {
	Vertices      bool
	Wall          string
	WallArgs      []float64
	Logger        *log.Logger
	ParticleBlock float64
}

type Option func(*Options) error

// WithVertices requests the vertex coordinates of every cell.
func WithVertices() Option {
	return func(o *Options) error {
		o.Vertices = true
		return nil
	}
}

// WithWall bounds the cells by a wall. See NewWall for the accepted names
// and arguments.
func WithWall(name string, args ...float64) Option {
	return func(o *Options) error {
		o.Wall = name
		o.WallArgs = args
		return nil
	}
}

// WithLogger enables diagnostic output to l.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) error {
		if l == nil {
			return fmt.Errorf("%w: WithLogger: nil logger", ErrInvalidArgument)
		}
		o.Logger = l
		return nil
	}
}

// WithParticleBlock sets the average number of sites per container block.
func WithParticleBlock(n float64) Option {
	return func(o *Options) error {
		if !(n > 0) || math.IsInf(n, 0) {
			return fmt.Errorf("%w: WithParticleBlock: %v must be positive", ErrInvalidArgument, n)
		}
		o.ParticleBlock = n
		return nil
	}
}

// Result holds one cell per selected site, in range order.
type Result struct {
	Range    Range
	Vertices bool
	Cells    []Cell
}

// NumCells returns the number of computed cells.
func (r *Result) NumCells() int {
	return len(r.Cells)
}

// SitesFromCoords converts flat x, y, z triplets to sites.
func SitesFromCoords(coords []float64) ([]r3.Vector, error) {
	if len(coords)%3 != 0 {
		return nil, fmt.Errorf("%w: %d coordinates is not a multiple of 3", ErrInvalidArgument, len(coords))
	}
	sites := make([]r3.Vector, len(coords)/3)
	for i := range sites {
		sites[i] = r3.Vector{X: coords[3*i], Y: coords[3*i+1], Z: coords[3*i+2]}
	}
	return sites, nil
}

// Compute computes the cells of the sites in rng. All sites are placed in
// the container so the cells at the edges of the range are exact.
//
// On error no result is returned. Compute keeps no reference to the returned
// result, which is owned by the caller.
func Compute(sites []r3.Vector, d Domain, rng Range, setters ...Option) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	opts := Options{
		ParticleBlock: defaultParticleBlock,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if err := d.validate(); err != nil {
		return nil, err
	}
	if err := rng.validate(len(sites)); err != nil {
		return nil, err
	}
	for i, p := range sites {
		if !isFinite(p) {
			return nil, fmt.Errorf("%w: site %d at %v is not finite", ErrInvalidArgument, i, p)
		}
	}

	grid := NewGridResolution(len(sites), d, opts.ParticleBlock)
	logger.Printf("Total number of sites: %d", len(sites))
	logger.Printf("Number of cells to be computed: %d", rng.Len())
	logger.Printf("Range: [%d,%d)", rng.Start, rng.End)
	logger.Printf("Domain: %v", d)
	logger.Printf("Initialising with the following block grid: %v", grid)
	logger.Printf("Vertices: %t", opts.Vertices)

	con, order, err := buildContainer(sites, d, rng, grid, opts.Wall, opts.WallArgs, logger)
	if err != nil {
		return nil, err
	}

	cells, err := computeCells(con, order, rng, opts.Vertices)
	if err != nil {
		return nil, err
	}

	res = &Result{
		Range:    rng,
		Vertices: opts.Vertices,
		Cells:    cells,
	}
	logSummary(logger, res)
	return res, nil
}

func isFinite(p r3.Vector) bool {
	for _, x := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
