package main

import (
	"errors"
	"flag"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/gcfg.v1"

	"github.com/olivierh59500/charged-particles/sim"
)

const (
	rendererWindow   = "window"
	rendererTerminal = "terminal"
	rendererHeadless = "headless"
)

// SimulationSection mirrors sim.Config as gcfg variables
type SimulationSection struct {
	Count           int
	Width, Height   float64
	Columns, Rows   int
	Radius          float64
	Mode            sim.Mode
	Charges         sim.ChargeAssignment
	ChargeMagnitude float64
	Mass            float64
	CoulombK        float64
	Epsilon         float64

	Velocity             sim.VelocityField
	MaxSpeed             float64
	VelocityX, VelocityY float64

	TickDuration float64
	Timestep     sim.TimestepPolicy
	Boundary     sim.BoundaryPolicy

	MaxAttempts int
	Workers     int
	Seed        int64
}

// DisplaySection holds presentation options
type DisplaySection struct {
	Renderer string
	Scale    float64 // Window size relative to the arena
	TPS      int
	Trail    int // Trail length in ticks
	Ticks    int // Headless run length
	Every    int // Headless log interval
}

// FileConfig is the layout of a config file
type FileConfig struct {
	Simulation SimulationSection
	Display    DisplaySection
}

// settings is everything main needs to start a run
type settings struct {
	Sim sim.Config
	DisplaySection
	LogPath string
}

func newFileConfig(c sim.Config) FileConfig {
	return FileConfig{
		Simulation: SimulationSection{
			Count: c.Count, Width: c.Width, Height: c.Height,
			Columns: c.Columns, Rows: c.Rows, Radius: c.Radius,
			Mode: c.Mode, Charges: c.Charges, ChargeMagnitude: c.ChargeMagnitude,
			Mass: c.Mass, CoulombK: c.CoulombK, Epsilon: c.Epsilon,
			Velocity: c.Velocity, MaxSpeed: c.MaxSpeed,
			VelocityX: c.InitialVelocity.X, VelocityY: c.InitialVelocity.Y,
			TickDuration: c.TickDuration, Timestep: c.Timestep, Boundary: c.Boundary,
			MaxAttempts: c.MaxAttempts, Workers: c.Workers, Seed: c.Seed,
		},
		Display: DisplaySection{
			Renderer: rendererWindow,
			Scale:    0.5,
			TPS:      60,
			Trail:    12,
			Ticks:    600,
			Every:    60,
		},
	}
}

func (s *SimulationSection) config() sim.Config {
	return sim.Config{
		Count: s.Count, Width: s.Width, Height: s.Height,
		Columns: s.Columns, Rows: s.Rows, Radius: s.Radius,
		Mode: s.Mode, Charges: s.Charges, ChargeMagnitude: s.ChargeMagnitude,
		Mass: s.Mass, CoulombK: s.CoulombK, Epsilon: s.Epsilon,
		Velocity: s.Velocity, MaxSpeed: s.MaxSpeed,
		InitialVelocity: r2.Vec{X: s.VelocityX, Y: s.VelocityY},
		TickDuration:    s.TickDuration, Timestep: s.Timestep, Boundary: s.Boundary,
		MaxAttempts: s.MaxAttempts, Workers: s.Workers, Seed: s.Seed,
	}
}

// CheckInit validates the display section
func (d *DisplaySection) CheckInit() error {
	switch d.Renderer {
	case rendererWindow, rendererTerminal, rendererHeadless:
	default:
		return fmt.Errorf("unknown renderer '%s'", d.Renderer)
	}
	if d.Scale <= 0 {
		return fmt.Errorf("need a positive display scale, got %g", d.Scale)
	} else if d.TPS <= 0 {
		return fmt.Errorf("need a positive TPS, got %d", d.TPS)
	} else if d.Trail < 0 {
		return fmt.Errorf("trail length cannot be negative, got %d", d.Trail)
	} else if d.Renderer == rendererHeadless && (d.Ticks <= 0 || d.Every <= 0) {
		return fmt.Errorf("headless runs need positive ticks and every, got %d and %d", d.Ticks, d.Every)
	}
	return nil
}

// loadFileConfig reads path on top of the defaults for its mode. An explicit
// mode wins over the file's.
func loadFileConfig(path string, mode *sim.Mode) (FileConfig, error) {
	base := sim.ModeEuler
	if mode != nil {
		base = *mode
	} else if path != "" {
		var modeOnly FileConfig
		if err := gcfg.ReadFileInto(&modeOnly, path); err != nil {
			return FileConfig{}, err
		}
		base = modeOnly.Simulation.Mode
	}

	fc := newFileConfig(sim.Defaults(base))
	if path != "" {
		if err := gcfg.ReadFileInto(&fc, path); err != nil {
			return FileConfig{}, err
		}
	}
	fc.Simulation.Mode = base
	return fc, nil
}

// parseArgs builds settings from an optional config file overridden by
// command-line flags
func parseArgs(args []string) (*settings, error) {
	fs := flag.NewFlagSet("particles", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "INI config file with [simulation] and [display] sections")
		modeName   = fs.String("mode", "", "integration mode: euler or verlet")
		count      = fs.Int("n", 0, "number of particles")
		columns    = fs.Int("cols", 0, "grid columns used for placement")
		rows       = fs.Int("rows", 0, "grid rows used for placement")
		seed       = fs.Int64("seed", 0, "random seed")
		workers    = fs.Int("workers", 0, "goroutines for the force pass")
		timestep   = fs.String("timestep", "", "fixed or elapsed")
		velocity   = fs.String("velocity", "", "initial velocity field: uniform, perlin or zero")
		boundary   = fs.String("boundary", "", "verlet wall policy: reflect or preserve")
		renderer   = fs.String("renderer", "", "window, terminal or headless")
		ticks      = fs.Int("ticks", 0, "headless: number of ticks to run")
		every      = fs.Int("every", 0, "headless: log diagnostics every N ticks")
		logPath    = fs.String("log", "", "append log output to this file")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var mode *sim.Mode
	if *modeName != "" {
		mode = new(sim.Mode)
		if err := mode.UnmarshalText([]byte(*modeName)); err != nil {
			return nil, err
		}
	}
	fc, err := loadFileConfig(*configPath, mode)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	st := &settings{DisplaySection: fc.Display, LogPath: *logPath}
	sc := &fc.Simulation
	var errs []error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			sc.Count = *count
		case "cols":
			sc.Columns = *columns
		case "rows":
			sc.Rows = *rows
		case "seed":
			sc.Seed = *seed
		case "workers":
			sc.Workers = *workers
		case "timestep":
			errs = append(errs, sc.Timestep.UnmarshalText([]byte(*timestep)))
		case "velocity":
			errs = append(errs, sc.Velocity.UnmarshalText([]byte(*velocity)))
		case "boundary":
			errs = append(errs, sc.Boundary.UnmarshalText([]byte(*boundary)))
		case "renderer":
			st.Renderer = *renderer
		case "ticks":
			st.Ticks = *ticks
		case "every":
			st.Every = *every
		}
	})
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	st.Sim = sc.config()
	if err := st.Sim.Validate(); err != nil {
		return nil, err
	}
	if err := st.CheckInit(); err != nil {
		return nil, err
	}
	return st, nil
}
