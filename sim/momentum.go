package sim

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Diagnostics summarises one tick
type Diagnostics struct {
	Tick          int
	Dt            float64
	Momentum      r2.Vec  // Sum of every particle's momentum
	KineticEnergy float64 // Sum of 0.5 * m * |v|^2
}

// ImplicitVelocity derives velocity from the last two positions
func ImplicitVelocity(p *Particle, dt float64) r2.Vec {
	return r2.Scale(1/dt, r2.Sub(p.Position, p.Previous))
}

// UpdateMomentum refreshes Velocity and Momentum from the displacement over dt
func UpdateMomentum(p *Particle, dt float64) {
	p.Velocity = ImplicitVelocity(p, dt)
	p.Momentum = r2.Scale(p.Mass, p.Velocity)
}

// TotalMomentum sums the momentum of every particle
func TotalMomentum(particles []Particle) r2.Vec {
	var total r2.Vec
	for i := range particles {
		total = r2.Add(total, particles[i].Momentum)
	}
	return total
}

// KineticEnergy sums 0.5 * m * |v|^2 over every particle
func KineticEnergy(particles []Particle) float64 {
	e := 0.0
	for i := range particles {
		e += 0.5 * particles[i].Mass * r2.Norm2(particles[i].Velocity)
	}
	return e
}
