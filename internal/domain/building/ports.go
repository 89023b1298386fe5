package building

import (
	"context"
	"time"

	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

// Repository defines building persistence operations
type Repository interface {
	// Save upserts the current state of a structure
	Save(ctx context.Context, b *Building) error

	// FindByID retrieves one structure
	FindByID(ctx context.Context, id string) (*Building, error)

	// FindByTeam retrieves all structures owned by a team
	FindByTeam(ctx context.Context, teamID int) ([]*Building, error)

	// FindAll retrieves every persisted structure
	FindAll(ctx context.Context) ([]*Building, error)

	// Delete removes a structure row after its grace period elapses
	Delete(ctx context.Context, id string) error
}

// SpatialIndex is the overlap oracle gating placement. IntersectsAny is a
// read-only query; the index may be mutated by other placements within the
// same tick, so committers re-check immediately before inserting.
type SpatialIndex interface {
	// IntersectsAny reports whether any tracked volume intersects a sphere
	// of radius centered at position
	IntersectsAny(position shared.GridPosition, radius float64) bool

	// Insert tracks a structure's volume
	Insert(id string, position shared.GridPosition, radius float64)

	// Remove stops tracking a structure's volume
	Remove(id string)
}

// EventPublisher pushes lifecycle notifications to subscribers.
type EventPublisher interface {
	Publish(event Event)
}

// EventLogEntry is one persisted lifecycle notification.
type EventLogEntry struct {
	ID         int                    `json:"id"`
	BuildingID string                 `json:"buildingId"`
	TeamID     int                    `json:"teamId"`
	Kind       string                 `json:"kind"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// EventLog is the append-only lifecycle history behind the live event stream.
type EventLog interface {
	// Append writes one lifecycle notification
	Append(ctx context.Context, event Event) error

	// History retrieves a structure's events, newest first
	History(ctx context.Context, buildingID string, limit int) ([]EventLogEntry, error)

	// TeamHistory retrieves a team's events, newest first
	TeamHistory(ctx context.Context, teamID int, limit int) ([]EventLogEntry, error)
}

// RemovalScheduler defers the final removal of a destroyed structure past its
// grace period. Schedule replaces any pending removal for the same ID. On
// shutdown, Flush runs every pending removal immediately so each fires
// exactly once.
type RemovalScheduler interface {
	Schedule(buildingID string, delay time.Duration, remove func())
	Cancel(buildingID string) bool
	Flush()
}
