package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is a single simulated point charge
type Particle struct {
	Position     r2.Vec
	Previous     r2.Vec // Position one tick ago (Verlet mode)
	Velocity     r2.Vec // Explicit velocity (Euler mode)
	Acceleration r2.Vec // Recomputed every tick
	Momentum     r2.Vec // Derived, Mass * velocity
	Mass         float64
	Charge       float64
}

// Store owns every particle of a run in cell-then-local-index order
type Store struct {
	Width, Height float64
	Radius        float64
	Particles     []Particle
}

// NewStore wraps an existing particle slice; the store takes ownership of it
func NewStore(width, height, radius float64, particles []Particle) *Store {
	return &Store{Width: width, Height: height, Radius: radius, Particles: particles}
}

// Len returns the population size
func (s *Store) Len() int { return len(s.Particles) }

// Each visits every particle by value, so callers cannot mutate the store
func (s *Store) Each(fn func(i int, p Particle)) {
	for i := range s.Particles {
		fn(i, s.Particles[i])
	}
}

// Positions visits every (position, radius) pair for rendering
func (s *Store) Positions(fn func(pos r2.Vec, radius float64)) {
	for i := range s.Particles {
		fn(s.Particles[i].Position, s.Radius)
	}
}

// Contains reports whether p lies inside [0, Width] x [0, Height]
func (s *Store) Contains(p r2.Vec) bool {
	return p.X >= 0 && p.X <= s.Width && p.Y >= 0 && p.Y <= s.Height
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

func distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}
