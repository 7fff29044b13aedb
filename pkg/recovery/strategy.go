package recovery

import (
	"math"
	"time"
)

// DecayStrategy computes the decayed recovery value after some elapsed time.
// Implementations must be monotonically non-increasing in elapsed time and
// must never return a value above the input value.
type DecayStrategy interface {
	// Decay returns the recovery value after elapsed time with no actions applied.
	Decay(value float64, elapsed time.Duration) float64
}

// LinearDecay reduces recovery by a fixed number of points per hour toward zero.
type LinearDecay struct {
	PointsPerHour float64
}

// NewLinearDecay creates the default linear decay strategy.
func NewLinearDecay(pointsPerHour float64) *LinearDecay {
	if pointsPerHour <= 0 {
		pointsPerHour = DefaultDecayPointsPerHour
	}
	return &LinearDecay{PointsPerHour: pointsPerHour}
}

// Decay applies linear decay toward zero.
func (d *LinearDecay) Decay(value float64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return value
	}
	decayed := value - d.PointsPerHour*elapsed.Hours()
	if decayed < 0 {
		return 0
	}
	return decayed
}

// ExponentialDecay reduces recovery by half every HalfLife, never dropping
// below Floor. Useful where long idle stretches should not fully zero out
// a user's recovery.
type ExponentialDecay struct {
	HalfLife time.Duration
	Floor    float64
}

// NewExponentialDecay creates an exponential decay strategy.
func NewExponentialDecay(halfLife time.Duration, floor float64) *ExponentialDecay {
	if halfLife <= 0 {
		halfLife = 48 * time.Hour
	}
	if floor < 0 {
		floor = 0
	}
	return &ExponentialDecay{HalfLife: halfLife, Floor: floor}
}

// Decay applies exponential decay toward the floor.
func (d *ExponentialDecay) Decay(value float64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return value
	}
	if value <= d.Floor {
		return value
	}
	decayed := d.Floor + (value-d.Floor)*math.Pow(0.5, elapsed.Hours()/d.HalfLife.Hours())
	if decayed > value {
		return value
	}
	return decayed
}
