package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Simulation owns the particle store and drives it one tick at a time
type Simulation struct {
	cfg        Config
	store      *Store
	integrator Integrator
	forces     *ForceEvaluator
	ticks      int
	last       Diagnostics
	halted     error
}

// Initialize validates cfg, partitions the arena, places every particle and
// assigns its kinematic state
func Initialize(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid, err := Partition(cfg.Width, cfg.Height, cfg.Columns, cfg.Rows, cfg.Count)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	placer := NewPlacer(cfg.Radius, cfg.MaxAttempts, rng)
	if err := placer.Place(grid); err != nil {
		return nil, err
	}

	store := NewStore(cfg.Width, cfg.Height, cfg.Radius, grid.Flatten())
	assignKinematics(&cfg, store.Particles, rng)
	if cfg.Mode == ModeVerlet {
		// The initial offset may carry a particle across a wall
		for i := range store.Particles {
			cfg.Boundary.Apply(&store.Particles[i], cfg.Width, cfg.Height)
		}
	}
	return store, nil
}

// New initializes a simulation from cfg
func New(cfg Config) (*Simulation, error) {
	store, err := Initialize(cfg)
	if err != nil {
		return nil, err
	}
	return newWithStore(cfg, store), nil
}

// NewWithStore drives an already populated store; cfg supplies mode, timestep
// and force parameters
func NewWithStore(cfg Config, store *Store) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newWithStore(cfg, store), nil
}

func newWithStore(cfg Config, store *Store) *Simulation {
	s := &Simulation{
		cfg:        cfg,
		store:      store,
		integrator: NewIntegrator(&cfg),
		forces:     NewForceEvaluator(&cfg),
	}
	s.last = Diagnostics{
		Momentum:      TotalMomentum(store.Particles),
		KineticEnergy: KineticEnergy(store.Particles),
	}
	return s
}

// Reset re-runs initialization with a new seed
func (s *Simulation) Reset(seed int64) error {
	cfg := s.cfg
	cfg.Seed = seed
	fresh, err := New(cfg)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

// Store gives read access to the particles
func (s *Simulation) Store() *Store { return s.store }

// Config returns the configuration the simulation runs with
func (s *Simulation) Config() Config { return s.cfg }

// Ticks returns the number of completed ticks
func (s *Simulation) Ticks() int { return s.ticks }

// Last returns the diagnostics of the most recent tick
func (s *Simulation) Last() Diagnostics { return s.last }

// FieldAt samples the Coulomb field of the whole population at point
func (s *Simulation) FieldAt(point r2.Vec) r2.Vec {
	return s.forces.FieldAt(s.store.Particles, point)
}

// Timestep resolves the dt a tick integrates with. Elapsed time is only used
// under TimestepElapsed and only when it is a positive finite value.
func (s *Simulation) Timestep(elapsed float64) float64 {
	if s.cfg.Timestep == TimestepElapsed && elapsed > 0 && !math.IsInf(elapsed, 0) {
		return elapsed
	}
	return s.cfg.TickDuration
}

// Tick advances every particle by one step. A failed tick halts the
// simulation; later calls return ErrHalted.
func (s *Simulation) Tick(elapsed float64) (Diagnostics, error) {
	if s.halted != nil {
		return s.last, fmt.Errorf("%w: %w", ErrHalted, s.halted)
	}

	dt := s.Timestep(elapsed)
	if err := s.integrator.Step(s.store, dt); err != nil {
		var instability *NumericInstabilityError
		if errors.As(err, &instability) {
			instability.Tick = s.ticks + 1
		}
		s.halted = err
		return s.last, err
	}

	s.ticks++
	s.last = Diagnostics{
		Tick:          s.ticks,
		Dt:            dt,
		Momentum:      TotalMomentum(s.store.Particles),
		KineticEnergy: KineticEnergy(s.store.Particles),
	}
	return s.last, nil
}
