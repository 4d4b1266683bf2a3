package sim

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Default simulation constants
const (
	DefaultCount        = 2000
	DefaultWidth        = 1920.0
	DefaultHeight       = 1080.0
	DefaultColumns      = 8
	DefaultRows         = 4
	DefaultRadius       = 2.0
	DefaultMaxSpeed     = 500.0
	DefaultTickDuration = 0.016
	DefaultCoulombK     = 1000.0
	DefaultEpsilon      = 1e-8
	DefaultMaxAttempts  = 10000

	// MaxCount bounds particle and cell counts so per-cell storage stays
	// addressable
	MaxCount = math.MaxInt32
)

// Mode selects the integration scheme
type Mode int

const (
	ModeEuler  Mode = iota // Free flight with velocity reflection
	ModeVerlet             // Position Verlet driven by Coulomb forces
)

// ChargeAssignment decides each particle's charge sign at creation
type ChargeAssignment int

const (
	ChargeAlternating ChargeAssignment = iota // Even index positive, odd negative
	ChargePositive
	ChargeNegative
	ChargeNeutral
)

// VelocityField decides initial velocities
type VelocityField int

const (
	VelocityUniform VelocityField = iota // Components uniform in [-MaxSpeed/2, MaxSpeed/2]
	VelocityPerlin                       // Components from 2D noise at the particle position
	VelocityZero                         // Config.InitialVelocity for every particle
)

// TimestepPolicy decides which dt a tick integrates with
type TimestepPolicy int

const (
	TimestepFixed   TimestepPolicy = iota // Always Config.TickDuration
	TimestepElapsed                       // Caller supplied elapsed time
)

// BoundaryPolicy is the Verlet wall treatment. Both policies mirror the
// position about the crossed wall; they differ in the previous position.
// With d the unfolded position minus the previous one, BoundaryPreserve sets
// previous = mirrored - d, keeping the outward displacement so the particle
// is folded again on the next tick. BoundaryReflect, the default, sets
// previous = mirrored + d so the implicit velocity points back into the arena.
type BoundaryPolicy int

const (
	BoundaryReflect  BoundaryPolicy = iota // Mirror position, reverse displacement
	BoundaryPreserve                       // Mirror position, keep displacement
)

var (
	modeNames     = []string{"euler", "verlet"}
	chargeNames   = []string{"alternating", "positive", "negative", "neutral"}
	velocityNames = []string{"uniform", "perlin", "zero"}
	timestepNames = []string{"fixed", "elapsed"}
	boundaryNames = []string{"reflect", "preserve"}
)

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("invalid(%d)", v)
	}
	return names[v]
}

func enumParse(kind string, names []string, text []byte) (int, error) {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, configErrorf(kind, "%q is not one of %s", s, strings.Join(names, ", "))
}

func (m Mode) String() string             { return enumName(modeNames, int(m)) }
func (c ChargeAssignment) String() string { return enumName(chargeNames, int(c)) }
func (v VelocityField) String() string    { return enumName(velocityNames, int(v)) }
func (t TimestepPolicy) String() string   { return enumName(timestepNames, int(t)) }
func (b BoundaryPolicy) String() string   { return enumName(boundaryNames, int(b)) }

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := enumParse("mode", modeNames, text)
	*m = Mode(v)
	return err
}

func (c *ChargeAssignment) UnmarshalText(text []byte) error {
	v, err := enumParse("charges", chargeNames, text)
	*c = ChargeAssignment(v)
	return err
}

func (v *VelocityField) UnmarshalText(text []byte) error {
	n, err := enumParse("velocity", velocityNames, text)
	*v = VelocityField(n)
	return err
}

func (t *TimestepPolicy) UnmarshalText(text []byte) error {
	v, err := enumParse("timestep", timestepNames, text)
	*t = TimestepPolicy(v)
	return err
}

func (b *BoundaryPolicy) UnmarshalText(text []byte) error {
	v, err := enumParse("boundary", boundaryNames, text)
	*b = BoundaryPolicy(v)
	return err
}

// Config holds every knob of a run
type Config struct {
	Count           int
	Width, Height   float64
	Columns, Rows   int
	Radius          float64
	Mode            Mode
	Charges         ChargeAssignment
	ChargeMagnitude float64
	Mass            float64
	CoulombK        float64
	Epsilon         float64

	Velocity        VelocityField
	MaxSpeed        float64
	InitialVelocity r2.Vec

	TickDuration float64
	Timestep     TimestepPolicy
	Boundary     BoundaryPolicy

	MaxAttempts int
	Workers     int
	Seed        int64
}

// Defaults returns the reference configuration for a mode
func Defaults(mode Mode) Config {
	c := Config{
		Count:           DefaultCount,
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		Columns:         DefaultColumns,
		Rows:            DefaultRows,
		Radius:          DefaultRadius,
		Mode:            mode,
		Charges:         ChargeAlternating,
		ChargeMagnitude: 1,
		Mass:            1,
		CoulombK:        DefaultCoulombK,
		Epsilon:         DefaultEpsilon,
		MaxSpeed:        DefaultMaxSpeed,
		TickDuration:    DefaultTickDuration,
		MaxAttempts:     DefaultMaxAttempts,
		Workers:         1,
		Seed:            1,
	}
	if mode == ModeVerlet {
		c.Velocity = VelocityZero
		c.Timestep = TimestepElapsed
	}
	return c
}

// Validate checks the configuration and returns a *ConfigError on failure
func (c *Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"width", c.Width},
		{"height", c.Height},
		{"radius", c.Radius},
		{"mass", c.Mass},
		{"tick duration", c.TickDuration},
	}
	for _, p := range positive {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return configErrorf(p.name, "must be positive and finite, got %g", p.v)
		}
	}

	finite := []struct {
		name string
		v    float64
	}{
		{"epsilon", c.Epsilon},
		{"max speed", c.MaxSpeed},
		{"coulomb k", c.CoulombK},
		{"charge magnitude", c.ChargeMagnitude},
		{"initial velocity x", c.InitialVelocity.X},
		{"initial velocity y", c.InitialVelocity.Y},
	}
	for _, f := range finite {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return configErrorf(f.name, "must be finite, got %g", f.v)
		}
	}

	switch {
	case c.Count < 0:
		return configErrorf("count", "must not be negative, got %d", c.Count)
	case c.Count > MaxCount:
		return configErrorf("count", "%d exceeds the limit of %d particles", c.Count, MaxCount)
	case c.Columns <= 0 || c.Rows <= 0:
		return configErrorf("grid", "needs positive columns and rows, got %dx%d", c.Columns, c.Rows)
	case c.Columns > MaxCount/c.Rows:
		return configErrorf("grid", "%dx%d exceeds the limit of %d cells", c.Columns, c.Rows, MaxCount)
	case c.MaxAttempts <= 0:
		return configErrorf("max attempts", "must be positive, got %d", c.MaxAttempts)
	case c.Epsilon < 0:
		return configErrorf("epsilon", "must not be negative, got %g", c.Epsilon)
	case c.MaxSpeed < 0:
		return configErrorf("max speed", "must not be negative, got %g", c.MaxSpeed)
	case c.Mode != ModeEuler && c.Mode != ModeVerlet:
		return configErrorf("mode", "unknown mode %d", int(c.Mode))
	}

	cellW := c.Width / float64(c.Columns)
	cellH := c.Height / float64(c.Rows)
	if c.Count > 0 && (cellW < 2*c.Radius || cellH < 2*c.Radius) {
		return configErrorf("grid", "cells of %gx%g cannot hold a particle of radius %g", cellW, cellH, c.Radius)
	}
	return nil
}

func (c *Config) chargeFor(index int) float64 {
	switch c.Charges {
	case ChargePositive:
		return c.ChargeMagnitude
	case ChargeNegative:
		return -c.ChargeMagnitude
	case ChargeNeutral:
		return 0
	}
	if index%2 == 0 {
		return c.ChargeMagnitude
	}
	return -c.ChargeMagnitude
}
