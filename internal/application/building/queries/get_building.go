package queries

import (
	"context"
	"fmt"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

// GetBuildingQuery retrieves one structure by ID
type GetBuildingQuery struct {
	BuildingID string
}

// GetBuildingResponse carries the structure's snapshot
type GetBuildingResponse struct {
	Building building.Snapshot
}

// GetBuildingHandler handles the GetBuilding query
type GetBuildingHandler struct {
	loop *simulation.Loop
}

// NewGetBuildingHandler creates a new GetBuildingHandler
func NewGetBuildingHandler(loop *simulation.Loop) *GetBuildingHandler {
	return &GetBuildingHandler{loop: loop}
}

// Handle executes the GetBuilding query on the simulation goroutine
func (h *GetBuildingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetBuildingQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetBuildingQuery")
	}

	var (
		snapshot building.Snapshot
		opErr    error
	)
	if execErr := h.loop.Execute(ctx, func() {
		found, findErr := h.loop.World().GetBuilding(query.BuildingID)
		if findErr != nil {
			opErr = findErr
			return
		}
		snapshot = found.Snapshot()
	}); execErr != nil {
		return nil, execErr
	}
	if opErr != nil {
		return nil, opErr
	}

	return &GetBuildingResponse{Building: snapshot}, nil
}
