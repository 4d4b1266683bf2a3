package sim

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Cell is a rectangular region of the arena that receives a share of the
// population during initialization
type Cell struct {
	Index       int
	Row, Column int
	Origin      r2.Vec
	Width       float64
	Height      float64
	Quota       int
	Particles   []Particle
}

// Grid is the lattice of cells covering the arena
type Grid struct {
	Columns, Rows int
	CellWidth     float64
	CellHeight    float64
	Cells         []Cell
}

// Partition splits the arena into rows x columns cells in row-major order.
// Every cell gets n/(rows*columns) particles and the first n%(rows*columns)
// cells get one more, so the quotas always sum to n.
func Partition(width, height float64, columns, rows, n int) (*Grid, error) {
	if columns <= 0 || rows <= 0 {
		return nil, configErrorf("grid", "needs positive columns and rows, got %dx%d", columns, rows)
	}
	if n < 0 {
		return nil, configErrorf("count", "must not be negative, got %d", n)
	}

	g := &Grid{
		Columns:    columns,
		Rows:       rows,
		CellWidth:  width / float64(columns),
		CellHeight: height / float64(rows),
	}
	if !(g.CellWidth > 0) || !(g.CellHeight > 0) {
		return nil, configErrorf("grid", "cell extent %gx%g is not positive", g.CellWidth, g.CellHeight)
	}

	count := rows * columns
	base, remainder := n/count, n%count
	g.Cells = make([]Cell, count)
	for i := range g.Cells {
		row, col := i/columns, i%columns
		quota := base
		if i < remainder {
			quota++
		}
		g.Cells[i] = Cell{
			Index:  i,
			Row:    row,
			Column: col,
			Origin: r2.Vec{X: float64(col) * g.CellWidth, Y: float64(row) * g.CellHeight},
			Width:  g.CellWidth,
			Height: g.CellHeight,
			Quota:  quota,
		}
	}
	return g, nil
}

// Total returns the sum of all cell quotas
func (g *Grid) Total() int {
	total := 0
	for i := range g.Cells {
		total += g.Cells[i].Quota
	}
	return total
}

// Flatten concatenates every cell's particles in cell-then-local-index order
// and releases the per-cell storage
func (g *Grid) Flatten() []Particle {
	placed := 0
	for i := range g.Cells {
		placed += len(g.Cells[i].Particles)
	}
	out := make([]Particle, 0, placed)
	for i := range g.Cells {
		out = append(out, g.Cells[i].Particles...)
		g.Cells[i].Particles = nil
	}
	return out
}
