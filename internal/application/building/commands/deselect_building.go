package commands

import (
	"context"
	"fmt"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

// DeselectBuildingCommand clears a structure's selection flag
type DeselectBuildingCommand struct {
	BuildingID string
}

// DeselectBuildingResponse carries the deselected structure's snapshot
type DeselectBuildingResponse struct {
	Building building.Snapshot
}

// DeselectBuildingHandler handles deselect building commands
type DeselectBuildingHandler struct {
	loop *simulation.Loop
}

// NewDeselectBuildingHandler creates a new deselect building handler
func NewDeselectBuildingHandler(loop *simulation.Loop) *DeselectBuildingHandler {
	return &DeselectBuildingHandler{loop: loop}
}

// Handle executes the deselect building command on the simulation goroutine
func (h *DeselectBuildingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DeselectBuildingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeselectBuildingCommand")
	}

	var (
		snapshot building.Snapshot
		opErr    error
	)
	if execErr := h.loop.Execute(ctx, func() {
		deselected, deselectErr := h.loop.World().DeselectBuilding(ctx, cmd.BuildingID)
		if deselectErr != nil {
			opErr = deselectErr
			return
		}
		snapshot = deselected.Snapshot()
	}); execErr != nil {
		return nil, execErr
	}
	if opErr != nil {
		return nil, opErr
	}

	return &DeselectBuildingResponse{Building: snapshot}, nil
}
