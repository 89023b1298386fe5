package commands

import (
	"context"
	"fmt"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

// DamageBuildingCommand applies damage to a structure
type DamageBuildingCommand struct {
	BuildingID string
	Amount     float64
}

// DamageBuildingResponse carries the structure's state after the hit
type DamageBuildingResponse struct {
	Building  building.Snapshot
	Destroyed bool
}

// DamageBuildingHandler handles damage building commands
type DamageBuildingHandler struct {
	loop *simulation.Loop
}

// NewDamageBuildingHandler creates a new damage building handler
func NewDamageBuildingHandler(loop *simulation.Loop) *DamageBuildingHandler {
	return &DamageBuildingHandler{loop: loop}
}

// Handle executes the damage building command on the simulation goroutine
func (h *DamageBuildingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DamageBuildingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DamageBuildingCommand")
	}
	if cmd.Amount < 0 {
		return nil, shared.NewValidationError("amount", "cannot be negative")
	}

	var (
		snapshot  building.Snapshot
		destroyed bool
		opErr     error
	)
	if execErr := h.loop.Execute(ctx, func() {
		damaged, damageErr := h.loop.World().DamageBuilding(ctx, cmd.BuildingID, cmd.Amount)
		if damageErr != nil {
			opErr = damageErr
			return
		}
		snapshot = damaged.Snapshot()
		destroyed = damaged.IsDestroyed()
	}); execErr != nil {
		return nil, execErr
	}
	if opErr != nil {
		return nil, opErr
	}

	return &DamageBuildingResponse{Building: snapshot, Destroyed: destroyed}, nil
}
