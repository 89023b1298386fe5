package commands

import (
	"context"
	"fmt"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

// PlaceBuildingCommand requests a new structure on the battlefield grid.
// BuildingID is optional; an empty one gets generated.
type PlaceBuildingCommand struct {
	BuildingID    string
	BuildingType  string
	TeamID        int
	OwnerPlayerID string
	Position      [3]float64
	RotationY     float64
}

// PlaceBuildingResponse carries the placed structure's snapshot
type PlaceBuildingResponse struct {
	Building building.Snapshot
}

// PlaceBuildingHandler handles place building commands
type PlaceBuildingHandler struct {
	loop *simulation.Loop
}

// NewPlaceBuildingHandler creates a new place building handler
func NewPlaceBuildingHandler(loop *simulation.Loop) *PlaceBuildingHandler {
	return &PlaceBuildingHandler{loop: loop}
}

// Handle executes the place building command on the simulation goroutine
func (h *PlaceBuildingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*PlaceBuildingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PlaceBuildingCommand")
	}

	position, err := shared.NewGridPosition(cmd.Position[0], cmd.Position[1], cmd.Position[2])
	if err != nil {
		return nil, err
	}

	var (
		snapshot building.Snapshot
		opErr    error
	)
	if execErr := h.loop.Execute(ctx, func() {
		placed, placeErr := h.loop.World().PlaceBuilding(
			ctx,
			cmd.BuildingID,
			building.BuildingType(cmd.BuildingType),
			cmd.TeamID,
			cmd.OwnerPlayerID,
			position,
			cmd.RotationY,
		)
		if placeErr != nil {
			opErr = placeErr
			return
		}
		snapshot = placed.Snapshot()
	}); execErr != nil {
		return nil, execErr
	}
	if opErr != nil {
		return nil, opErr
	}

	return &PlaceBuildingResponse{Building: snapshot}, nil
}
