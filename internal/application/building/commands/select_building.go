package commands

import (
	"context"
	"fmt"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

// SelectBuildingCommand marks a structure selected for presentation
type SelectBuildingCommand struct {
	BuildingID string
}

// SelectBuildingResponse carries the selected structure's snapshot
type SelectBuildingResponse struct {
	Building building.Snapshot
}

// SelectBuildingHandler handles select building commands
type SelectBuildingHandler struct {
	loop *simulation.Loop
}

// NewSelectBuildingHandler creates a new select building handler
func NewSelectBuildingHandler(loop *simulation.Loop) *SelectBuildingHandler {
	return &SelectBuildingHandler{loop: loop}
}

// Handle executes the select building command on the simulation goroutine
func (h *SelectBuildingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SelectBuildingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SelectBuildingCommand")
	}

	var (
		snapshot building.Snapshot
		opErr    error
	)
	if execErr := h.loop.Execute(ctx, func() {
		selected, selectErr := h.loop.World().SelectBuilding(ctx, cmd.BuildingID)
		if selectErr != nil {
			opErr = selectErr
			return
		}
		snapshot = selected.Snapshot()
	}); execErr != nil {
		return nil, execErr
	}
	if opErr != nil {
		return nil, opErr
	}

	return &SelectBuildingResponse{Building: snapshot}, nil
}
