package building

import (
	"fmt"

	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

// NotFoundError indicates no structure exists with the requested ID.
type NotFoundError struct {
	*shared.DomainError
	ID string
}

// NewNotFoundError creates an error for a missing building
func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{
		DomainError: shared.NewDomainError(fmt.Sprintf("building not found: %s", id)),
		ID:          id,
	}
}

// PlacementBlockedError indicates the requested spot overlaps an existing
// structure volume.
type PlacementBlockedError struct {
	*shared.DomainError
	Position shared.GridPosition
}

// NewPlacementBlockedError creates an error for an occupied placement spot
func NewPlacementBlockedError(position shared.GridPosition) *PlacementBlockedError {
	return &PlacementBlockedError{
		DomainError: shared.NewDomainError(fmt.Sprintf("placement blocked at %s", position)),
		Position:    position,
	}
}
