package queries

import (
	"context"
	"fmt"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

// CanPlaceBuildingQuery previews whether a ghost placement would pass the
// overlap check. The answer is advisory: the spot is not reserved and
// placement re-checks.
type CanPlaceBuildingQuery struct {
	BuildingType string
	Position     [3]float64
}

// CanPlaceBuildingResponse carries the preview verdict
type CanPlaceBuildingResponse struct {
	CanPlace bool
}

// CanPlaceBuildingHandler handles the CanPlaceBuilding query
type CanPlaceBuildingHandler struct {
	loop *simulation.Loop
}

// NewCanPlaceBuildingHandler creates a new CanPlaceBuildingHandler
func NewCanPlaceBuildingHandler(loop *simulation.Loop) *CanPlaceBuildingHandler {
	return &CanPlaceBuildingHandler{loop: loop}
}

// Handle executes the CanPlaceBuilding query on the simulation goroutine
func (h *CanPlaceBuildingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*CanPlaceBuildingQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CanPlaceBuildingQuery")
	}

	position, err := shared.NewGridPosition(query.Position[0], query.Position[1], query.Position[2])
	if err != nil {
		return nil, err
	}

	var canPlace bool
	if execErr := h.loop.Execute(ctx, func() {
		canPlace = h.loop.World().CanPlaceAt(building.BuildingType(query.BuildingType), position)
	}); execErr != nil {
		return nil, execErr
	}

	return &CanPlaceBuildingResponse{CanPlace: canPlace}, nil
}
