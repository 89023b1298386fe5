package commands

import (
	"context"
	"fmt"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

// SetBuildingActiveCommand toggles a constructed structure between running
// and dormant
type SetBuildingActiveCommand struct {
	BuildingID string
	Active     bool
}

// SetBuildingActiveResponse carries the structure's state after the toggle
type SetBuildingActiveResponse struct {
	Building building.Snapshot
}

// SetBuildingActiveHandler handles activation toggle commands
type SetBuildingActiveHandler struct {
	loop *simulation.Loop
}

// NewSetBuildingActiveHandler creates a new activation toggle handler
func NewSetBuildingActiveHandler(loop *simulation.Loop) *SetBuildingActiveHandler {
	return &SetBuildingActiveHandler{loop: loop}
}

// Handle executes the activation toggle on the simulation goroutine
func (h *SetBuildingActiveHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SetBuildingActiveCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetBuildingActiveCommand")
	}

	var (
		snapshot building.Snapshot
		opErr    error
	)
	if execErr := h.loop.Execute(ctx, func() {
		toggled, toggleErr := h.loop.World().SetBuildingActive(ctx, cmd.BuildingID, cmd.Active)
		if toggleErr != nil {
			opErr = toggleErr
			return
		}
		snapshot = toggled.Snapshot()
	}); execErr != nil {
		return nil, execErr
	}
	if opErr != nil {
		return nil, opErr
	}

	return &SetBuildingActiveResponse{Building: snapshot}, nil
}
