package sim

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sentinel errors for errors.Is checks against the typed errors below
var (
	ErrPlacementInfeasible = errors.New("placement infeasible")
	ErrNumericInstability  = errors.New("numeric instability")
	ErrConfig              = errors.New("configuration error")
	ErrHalted              = errors.New("simulation halted")
)

// PlacementInfeasibleError reports a cell whose quota could not be placed
// within the retry budget
type PlacementInfeasibleError struct {
	Cell     int
	Quota    int
	Placed   int
	Attempts int
}

func (e *PlacementInfeasibleError) Error() string {
	return fmt.Sprintf("placement infeasible: cell %d placed %d of %d particles, gave up after %d attempts",
		e.Cell, e.Placed, e.Quota, e.Attempts)
}

func (e *PlacementInfeasibleError) Is(target error) bool { return target == ErrPlacementInfeasible }

// NumericInstabilityError reports a non-finite position or acceleration
type NumericInstabilityError struct {
	Tick     int
	Particle int
	Quantity string // "position" or "acceleration"
	Value    r2.Vec
}

func (e *NumericInstabilityError) Error() string {
	return fmt.Sprintf("numeric instability: tick %d particle %d has non-finite %s (%g, %g)",
		e.Tick, e.Particle, e.Quantity, e.Value.X, e.Value.Y)
}

func (e *NumericInstabilityError) Is(target error) bool { return target == ErrNumericInstability }

// ConfigError reports an unusable configuration value
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
