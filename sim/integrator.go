package sim

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Integrator advances a store by one tick of length dt
type Integrator interface {
	Step(s *Store, dt float64) error
}

// NewIntegrator returns the integrator matching cfg.Mode
func NewIntegrator(cfg *Config) Integrator {
	if cfg.Mode == ModeVerlet {
		return &VerletIntegrator{Forces: NewForceEvaluator(cfg), Boundary: cfg.Boundary}
	}
	return EulerIntegrator{}
}

// EulerIntegrator moves particles along explicit velocities and bounces them
// off the walls by flipping velocity components. No forces act.
type EulerIntegrator struct{}

// Step reflects then advances every particle
func (EulerIntegrator) Step(s *Store, dt float64) error {
	for i := range s.Particles {
		p := &s.Particles[i]
		ReflectVelocity(p, s.Width, s.Height, s.Radius)
		p.Position = r2.Add(p.Position, r2.Scale(dt, p.Velocity))
		p.Momentum = r2.Scale(p.Mass, p.Velocity)
		if !finite(p.Position) {
			return &NumericInstabilityError{Particle: i, Quantity: "position", Value: p.Position}
		}
	}
	return nil
}

// ReflectVelocity negates each velocity component whose axis position is
// outside [radius, extent-radius] while still heading outward. The position
// is not clamped. Returns true if any component flipped.
func ReflectVelocity(p *Particle, width, height, radius float64) bool {
	rx := reflectAxis(p.Position.X, &p.Velocity.X, radius, width-radius)
	ry := reflectAxis(p.Position.Y, &p.Velocity.Y, radius, height-radius)
	return rx || ry
}

func reflectAxis(x float64, v *float64, lo, hi float64) bool {
	if (x < lo && *v < 0) || (x > hi && *v > 0) {
		*v = -*v
		return true
	}
	return false
}

// VerletIntegrator advances particles with the Stormer-Verlet update under
// Coulomb forces
type VerletIntegrator struct {
	Forces   *ForceEvaluator
	Boundary BoundaryPolicy
}

// Step evaluates forces once for the whole population, then moves every
// particle with x' = 2x - x_prev + a*dt^2 and folds it back into the arena
func (v *VerletIntegrator) Step(s *Store, dt float64) error {
	if err := v.Forces.Accelerations(s.Particles); err != nil {
		return err
	}

	dt2 := dt * dt
	for i := range s.Particles {
		p := &s.Particles[i]
		next := r2.Add(r2.Sub(r2.Scale(2, p.Position), p.Previous), r2.Scale(dt2, p.Acceleration))
		if !finite(next) {
			return &NumericInstabilityError{Particle: i, Quantity: "position", Value: next}
		}
		p.Previous, p.Position = p.Position, next
		v.Boundary.Apply(p, s.Width, s.Height)
		UpdateMomentum(p, dt)
	}
	return nil
}

// Apply folds a particle that left [0, width] x [0, height] back inside by
// mirroring its position about the crossed wall. Previous is rebased so the
// displacement is reversed (BoundaryReflect) or kept (BoundaryPreserve).
// Returns true if either axis was folded.
func (b BoundaryPolicy) Apply(p *Particle, width, height float64) bool {
	fx := b.foldAxis(&p.Position.X, &p.Previous.X, width)
	fy := b.foldAxis(&p.Position.Y, &p.Previous.Y, height)
	return fx || fy
}

func (b BoundaryPolicy) foldAxis(pos, prev *float64, extent float64) bool {
	x := *pos
	var mirrored float64
	// An overshoot wider than the arena is pinned to the crossed wall
	switch {
	case x < 0:
		mirrored = -x
		if mirrored > extent {
			mirrored = 0
		}
	case x > extent:
		mirrored = 2*extent - x
		if mirrored < 0 {
			mirrored = extent
		}
	default:
		return false
	}

	displacement := x - *prev
	if b == BoundaryPreserve {
		*prev = mirrored - displacement
	} else {
		*prev = mirrored + displacement
	}
	*pos = mirrored
	return true
}
