package shared

import (
	"fmt"
	"math"
)

// GridPosition represents an immutable location on the battlefield grid.
// Y is vertical (terrain height); placement overlap is checked on the XZ plane.
type GridPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewGridPosition creates a grid position with validation
func NewGridPosition(x, y, z float64) (GridPosition, error) {
	for name, v := range map[string]float64{"x": x, "y": y, "z": z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return GridPosition{}, NewValidationError(name, "must be a finite number")
		}
	}

	return GridPosition{X: x, Y: y, Z: z}, nil
}

// DistanceTo calculates planar (XZ) distance to another position.
// Height differences do not affect footprint overlap.
func (p GridPosition) DistanceTo(other GridPosition) float64 {
	dx := other.X - p.X
	dz := other.Z - p.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Equals reports whether two positions are the same point
func (p GridPosition) Equals(other GridPosition) bool {
	return p.X == other.X && p.Y == other.Y && p.Z == other.Z
}

// Vector returns the position as a [x, y, z] array for wire snapshots
func (p GridPosition) Vector() [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

// GridPositionFromVector rebuilds a position from its wire representation
func GridPositionFromVector(v [3]float64) GridPosition {
	return GridPosition{X: v[0], Y: v[1], Z: v[2]}
}

func (p GridPosition) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", p.X, p.Y, p.Z)
}
