package sim

import (
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
)

// ForceEvaluator computes Coulomb accelerations by exhaustive pairwise sums
type ForceEvaluator struct {
	K       float64 // Coulomb constant
	Epsilon float64 // Added to every distance
	Workers int     // Parallel chunks, <= 1 runs inline
}

// NewForceEvaluator returns an evaluator configured from cfg
func NewForceEvaluator(cfg *Config) *ForceEvaluator {
	return &ForceEvaluator{K: cfg.CoulombK, Epsilon: cfg.Epsilon, Workers: cfg.Workers}
}

// Accelerations refreshes Acceleration for every particle from the positions
// as they are on entry. Only Acceleration is written, each slot by exactly one
// worker, so the pass is safe to split across goroutines.
func (f *ForceEvaluator) Accelerations(particles []Particle) error {
	n := len(particles)
	workers := f.Workers
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		f.accelerateRange(particles, 0, n)
		return checkAccelerations(particles)
	}

	var g errgroup.Group
	chunk := (n + workers - 1) / workers
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			f.accelerateRange(particles, start, end)
			return nil
		})
	}
	// Barrier: no phase may read accelerations before every chunk is done
	if err := g.Wait(); err != nil {
		return err
	}
	return checkAccelerations(particles)
}

func (f *ForceEvaluator) accelerateRange(particles []Particle, start, end int) {
	for i := start; i < end; i++ {
		pi := &particles[i]
		var force r2.Vec
		for j := range particles {
			if i == j {
				continue
			}
			force = r2.Add(force, f.pairForce(pi.Position, pi.Charge, particles[j].Position, particles[j].Charge))
		}
		pi.Acceleration = r2.Scale(1/pi.Mass, force)
	}
}

// pairForce is the force that a charge qj at pj exerts on a charge qi at pi.
// Like charges push pi away from pj.
func (f *ForceEvaluator) pairForce(pi r2.Vec, qi float64, pj r2.Vec, qj float64) r2.Vec {
	d := r2.Sub(pi, pj)
	r := math.Hypot(d.X, d.Y) + f.Epsilon
	magnitude := f.K * qi * qj / (r * r)
	return r2.Scale(magnitude/r, d)
}

// FieldAt returns the force on a unit positive charge at point, i.e. the
// electric field of all particles there
func (f *ForceEvaluator) FieldAt(particles []Particle, point r2.Vec) r2.Vec {
	var field r2.Vec
	for j := range particles {
		field = r2.Add(field, f.pairForce(point, 1, particles[j].Position, particles[j].Charge))
	}
	return field
}

func checkAccelerations(particles []Particle) error {
	for i := range particles {
		if !finite(particles[i].Acceleration) {
			return &NumericInstabilityError{Particle: i, Quantity: "acceleration", Value: particles[i].Acceleration}
		}
	}
	return nil
}
