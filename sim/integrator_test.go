package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestEulerReflectionNegatesOnce(t *testing.T) {
	s := NewStore(100, 100, 2, []Particle{
		{Position: r2.Vec{X: 1, Y: 50}, Velocity: r2.Vec{X: -3, Y: 7}, Mass: 1},
	})
	var euler EulerIntegrator

	require.NoError(t, euler.Step(s, 0.1))
	p := s.Particles[0]
	assert.Equal(t, 3.0, p.Velocity.X, "x component negated exactly")
	assert.Equal(t, 7.0, p.Velocity.Y, "y component untouched")
	assert.InDelta(t, 1.3, p.Position.X, 1e-12)

	// Still inside the wall band but already heading back in
	require.NoError(t, euler.Step(s, 0.1))
	assert.Equal(t, 3.0, s.Particles[0].Velocity.X)
}

func TestEulerReflectionCorner(t *testing.T) {
	s := NewStore(100, 100, 2, []Particle{
		{Position: r2.Vec{X: 99, Y: 99}, Velocity: r2.Vec{X: 5, Y: 4}, Mass: 2},
	})
	require.NoError(t, EulerIntegrator{}.Step(s, 0.1))

	p := s.Particles[0]
	assert.Equal(t, r2.Vec{X: -5, Y: -4}, p.Velocity)
	assert.Equal(t, r2.Vec{X: -10, Y: -8}, p.Momentum)
}

func TestEulerReflectionCrossingTick(t *testing.T) {
	// Approaching the right wall at 10 units per tick
	s := NewStore(100, 100, 2, []Particle{
		{Position: r2.Vec{X: 80, Y: 50}, Velocity: r2.Vec{X: 100}, Mass: 1},
	})
	flips := 0
	prev := s.Particles[0].Velocity.X
	for i := 0; i < 6; i++ {
		crossed := s.Particles[0].Position.X > 98
		require.NoError(t, EulerIntegrator{}.Step(s, 0.1))
		v := s.Particles[0].Velocity.X
		if v != prev {
			flips++
			assert.True(t, crossed, "flip only on the tick after crossing")
			assert.Equal(t, -prev, v)
		}
		prev = v
	}
	assert.Equal(t, 1, flips)
}

func TestEulerContainment(t *testing.T) {
	cfg := Defaults(ModeEuler)
	cfg.Count = 400
	// A tick never moves a particle further than its radius
	cfg.MaxSpeed = 1.9 * cfg.Radius / cfg.TickDuration
	sim, err := New(cfg)
	require.NoError(t, err)

	for tick := 0; tick < 2000; tick++ {
		_, err := sim.Tick(cfg.TickDuration)
		require.NoError(t, err)
		sim.Store().Each(func(i int, p Particle) {
			require.True(t, sim.Store().Contains(p.Position), "tick %d particle %d at %v", tick, i, p.Position)
		})
	}
}

func TestVerletContainment(t *testing.T) {
	cfg := Defaults(ModeVerlet)
	cfg.Count = 60
	cfg.Columns, cfg.Rows = 3, 2
	cfg.Timestep = TimestepFixed
	cfg.Velocity = VelocityUniform
	cfg.MaxSpeed = 4000

	for _, boundary := range []BoundaryPolicy{BoundaryReflect, BoundaryPreserve} {
		cfg.Boundary = boundary
		sim, err := New(cfg)
		require.NoError(t, err)
		for tick := 0; tick < 300; tick++ {
			_, err := sim.Tick(0)
			require.NoError(t, err)
			sim.Store().Each(func(i int, p Particle) {
				require.True(t, sim.Store().Contains(p.Position), "%s tick %d particle %d at %v", boundary, tick, i, p.Position)
			})
		}
	}
}

func TestVerletIsolatedParticleStaysPut(t *testing.T) {
	center := r2.Vec{X: 960, Y: 540}
	s := NewStore(1920, 1080, 2, []Particle{{Position: center, Previous: center, Mass: 1, Charge: 1}})
	v := &VerletIntegrator{Forces: &ForceEvaluator{K: DefaultCoulombK, Epsilon: DefaultEpsilon}}

	for i := 0; i < 1000; i++ {
		require.NoError(t, v.Step(s, 0.016))
	}
	p := s.Particles[0]
	assert.InDelta(t, center.X, p.Position.X, 1e-9)
	assert.InDelta(t, center.Y, p.Position.Y, 1e-9)
	assert.Equal(t, r2.Vec{}, p.Momentum)
}

func TestVerletOppositeChargesApproach(t *testing.T) {
	s := NewStore(1920, 1080, 2, pair(1, -1))
	v := &VerletIntegrator{Forces: &ForceEvaluator{K: DefaultCoulombK, Epsilon: DefaultEpsilon}}

	last := distance(s.Particles[0].Position, s.Particles[1].Position)
	for tick := 1; tick <= 10; tick++ {
		require.NoError(t, v.Step(s, 0.016))
		d := distance(s.Particles[0].Position, s.Particles[1].Position)
		assert.Less(t, d, last, "tick %d", tick)
		last = d

		assert.Equal(t, 500.0, s.Particles[0].Position.Y)
		assert.Equal(t, 500.0, s.Particles[1].Position.Y)
		assert.Greater(t, s.Particles[0].Velocity.X, 0.0)
		assert.Less(t, s.Particles[1].Velocity.X, 0.0)
	}
}

func TestVerletUpdateFormula(t *testing.T) {
	s := NewStore(1000, 1000, 2, []Particle{
		{Position: r2.Vec{X: 500, Y: 500}, Previous: r2.Vec{X: 498, Y: 501}, Mass: 2},
	})
	v := &VerletIntegrator{Forces: &ForceEvaluator{K: DefaultCoulombK, Epsilon: DefaultEpsilon}}
	require.NoError(t, v.Step(s, 0.5))

	p := s.Particles[0]
	assert.Equal(t, r2.Vec{X: 502, Y: 499}, p.Position)
	assert.Equal(t, r2.Vec{X: 500, Y: 500}, p.Previous)
	assert.Equal(t, r2.Vec{X: 4, Y: -2}, p.Velocity)
	assert.Equal(t, r2.Vec{X: 8, Y: -4}, p.Momentum)
}

func TestBoundaryPolicies(t *testing.T) {
	cases := []struct {
		name     string
		policy   BoundaryPolicy
		pos      r2.Vec
		prev     r2.Vec
		wantPos  r2.Vec
		wantPrev r2.Vec
	}{
		{"reflect right wall", BoundaryReflect, r2.Vec{X: 1925, Y: 500}, r2.Vec{X: 1920, Y: 500},
			r2.Vec{X: 1915, Y: 500}, r2.Vec{X: 1920, Y: 500}},
		{"preserve right wall", BoundaryPreserve, r2.Vec{X: 1925, Y: 500}, r2.Vec{X: 1920, Y: 500},
			r2.Vec{X: 1915, Y: 500}, r2.Vec{X: 1910, Y: 500}},
		{"reflect floor", BoundaryReflect, r2.Vec{X: 10, Y: -3}, r2.Vec{X: 10, Y: 2},
			r2.Vec{X: 10, Y: 3}, r2.Vec{X: 10, Y: -2}},
		{"preserve floor", BoundaryPreserve, r2.Vec{X: 10, Y: -3}, r2.Vec{X: 10, Y: 2},
			r2.Vec{X: 10, Y: 3}, r2.Vec{X: 10, Y: 8}},
		{"reflect ceiling", BoundaryReflect, r2.Vec{X: 10, Y: 1082}, r2.Vec{X: 10, Y: 1079},
			r2.Vec{X: 10, Y: 1078}, r2.Vec{X: 10, Y: 1081}},
		{"pinned overshoot", BoundaryReflect, r2.Vec{X: -5000, Y: 500}, r2.Vec{X: 10, Y: 500},
			r2.Vec{X: 0, Y: 500}, r2.Vec{X: -5010, Y: 500}},
	}
	for _, tc := range cases {
		p := Particle{Position: tc.pos, Previous: tc.prev}
		assert.True(t, tc.policy.Apply(&p, 1920, 1080), tc.name)
		assert.Equal(t, tc.wantPos, p.Position, tc.name)
		assert.Equal(t, tc.wantPrev, p.Previous, tc.name)
	}

	inside := Particle{Position: r2.Vec{X: 5, Y: 5}, Previous: r2.Vec{X: 4, Y: 4}}
	assert.False(t, BoundaryReflect.Apply(&inside, 1920, 1080))
	assert.Equal(t, r2.Vec{X: 4, Y: 4}, inside.Previous)
}

func TestNewIntegratorByMode(t *testing.T) {
	euler := Defaults(ModeEuler)
	assert.IsType(t, EulerIntegrator{}, NewIntegrator(&euler))

	verlet := Defaults(ModeVerlet)
	assert.Equal(t, BoundaryReflect, verlet.Boundary)
	verlet.Boundary = BoundaryPreserve
	integ, ok := NewIntegrator(&verlet).(*VerletIntegrator)
	require.True(t, ok)
	assert.Equal(t, BoundaryPreserve, integ.Boundary)
	assert.Equal(t, DefaultCoulombK, integ.Forces.K)
}
