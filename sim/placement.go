package sim

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"gonum.org/v1/gonum/spatial/r2"
)

// Perlin noise parameters for the noise velocity field
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
	noiseScale   = 4.0   // Noise periods across the arena
	noiseOffset  = 101.7 // Separates the x and y samples
)

// Placer rejection-samples non-overlapping positions, one cell at a time
type Placer struct {
	Radius      float64
	MaxAttempts int // Per particle
	rng         *rand.Rand
}

// NewPlacer returns a placer drawing from rng
func NewPlacer(radius float64, maxAttempts int, rng *rand.Rand) *Placer {
	return &Placer{Radius: radius, MaxAttempts: maxAttempts, rng: rng}
}

// MinSeparation is the smallest accepted distance between two particles of
// the same cell
func (p *Placer) MinSeparation() float64 {
	return 2*p.Radius + 1
}

// Place fills every cell of g up to its quota
func (p *Placer) Place(g *Grid) error {
	for i := range g.Cells {
		if err := p.PlaceCell(&g.Cells[i]); err != nil {
			return err
		}
	}
	return nil
}

// PlaceCell fills c with c.Quota particles, each at least MinSeparation away
// from the ones already placed in c. Neighbouring cells are not consulted.
func (p *Placer) PlaceCell(c *Cell) error {
	spanX := c.Width - 2*p.Radius
	spanY := c.Height - 2*p.Radius
	if c.Quota > 0 && (spanX < 0 || spanY < 0) {
		return configErrorf("grid", "cell %d of %gx%g cannot hold a particle of radius %g",
			c.Index, c.Width, c.Height, p.Radius)
	}

	minSep := p.MinSeparation()
	c.Particles = make([]Particle, 0, min(c.Quota, packingBound(spanX, spanY, minSep)))
	attempts := 0
	for len(c.Particles) < c.Quota {
		placed := false
		for try := 0; try < p.MaxAttempts; try++ {
			attempts++
			candidate := r2.Vec{
				X: c.Origin.X + p.Radius + p.rng.Float64()*spanX,
				Y: c.Origin.Y + p.Radius + p.rng.Float64()*spanY,
			}
			if p.clear(c.Particles, candidate, minSep) {
				c.Particles = append(c.Particles, Particle{Position: candidate, Previous: candidate})
				placed = true
				break
			}
		}
		if !placed {
			return &PlacementInfeasibleError{
				Cell:     c.Index,
				Quota:    c.Quota,
				Placed:   len(c.Particles),
				Attempts: attempts,
			}
		}
	}
	return nil
}

// packingBound is an upper bound on how many points at least minSep apart fit
// in a spanX x spanY rectangle
func packingBound(spanX, spanY, minSep float64) int {
	n := (math.Floor(spanX/minSep) + 1) * (math.Floor(spanY/minSep) + 1)
	if !(n < MaxCount) {
		return MaxCount
	}
	return int(n)
}

func (p *Placer) clear(placed []Particle, candidate r2.Vec, minSep float64) bool {
	for i := range placed {
		if distance(placed[i].Position, candidate) < minSep {
			return false
		}
	}
	return true
}

// velocitySource draws an initial velocity for a particle at pos
type velocitySource func(pos r2.Vec) r2.Vec

func newVelocitySource(cfg *Config, rng *rand.Rand) velocitySource {
	half := cfg.MaxSpeed / 2
	switch cfg.Velocity {
	case VelocityUniform:
		return func(r2.Vec) r2.Vec {
			return r2.Vec{X: (rng.Float64()*2 - 1) * half, Y: (rng.Float64()*2 - 1) * half}
		}
	case VelocityPerlin:
		noise := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, cfg.Seed)
		return func(pos r2.Vec) r2.Vec {
			u := pos.X / cfg.Width * noiseScale
			v := pos.Y / cfg.Height * noiseScale
			return r2.Vec{
				X: clampUnit(noise.Noise2D(u, v)*2) * half,
				Y: clampUnit(noise.Noise2D(u+noiseOffset, v+noiseOffset)*2) * half,
			}
		}
	}
	return func(r2.Vec) r2.Vec { return cfg.InitialVelocity }
}

func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

// assignKinematics sets mass, charge and initial motion for freshly placed
// particles. Charges follow the flat creation index.
func assignKinematics(cfg *Config, particles []Particle, rng *rand.Rand) {
	velocity := newVelocitySource(cfg, rng)
	for i := range particles {
		p := &particles[i]
		sampled := p.Position
		v := velocity(sampled)

		p.Mass = cfg.Mass
		p.Charge = cfg.chargeFor(i)
		p.Velocity = v
		p.Momentum = r2.Scale(p.Mass, v)
		p.Acceleration = r2.Vec{}
		p.Previous = sampled
		if cfg.Mode == ModeVerlet {
			p.Position = r2.Add(sampled, r2.Scale(cfg.TickDuration, v))
		}
	}
}
