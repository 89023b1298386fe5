package commands

import (
	"context"
	"fmt"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

// DemolishBuildingCommand destroys a structure outright, skipping combat
type DemolishBuildingCommand struct {
	BuildingID string
}

// DemolishBuildingResponse carries the destroyed structure's snapshot
type DemolishBuildingResponse struct {
	Building building.Snapshot
}

// DemolishBuildingHandler handles demolish building commands
type DemolishBuildingHandler struct {
	loop *simulation.Loop
}

// NewDemolishBuildingHandler creates a new demolish building handler
func NewDemolishBuildingHandler(loop *simulation.Loop) *DemolishBuildingHandler {
	return &DemolishBuildingHandler{loop: loop}
}

// Handle executes the demolish building command on the simulation goroutine
func (h *DemolishBuildingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DemolishBuildingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DemolishBuildingCommand")
	}

	var (
		snapshot building.Snapshot
		opErr    error
	)
	if execErr := h.loop.Execute(ctx, func() {
		demolished, demolishErr := h.loop.World().DemolishBuilding(ctx, cmd.BuildingID)
		if demolishErr != nil {
			opErr = demolishErr
			return
		}
		snapshot = demolished.Snapshot()
	}); execErr != nil {
		return nil, execErr
	}
	if opErr != nil {
		return nil, opErr
	}

	return &DemolishBuildingResponse{Building: snapshot}, nil
}
