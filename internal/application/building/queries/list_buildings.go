package queries

import (
	"context"
	"fmt"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

// ListBuildingsQuery retrieves structures in placement order. TeamID nil
// means every team.
type ListBuildingsQuery struct {
	TeamID *int
}

// ListBuildingsResponse carries the matching snapshots
type ListBuildingsResponse struct {
	Buildings []building.Snapshot
}

// ListBuildingsHandler handles the ListBuildings query
type ListBuildingsHandler struct {
	loop *simulation.Loop
}

// NewListBuildingsHandler creates a new ListBuildingsHandler
func NewListBuildingsHandler(loop *simulation.Loop) *ListBuildingsHandler {
	return &ListBuildingsHandler{loop: loop}
}

// Handle executes the ListBuildings query on the simulation goroutine
func (h *ListBuildingsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListBuildingsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListBuildingsQuery")
	}

	var snapshots []building.Snapshot
	if execErr := h.loop.Execute(ctx, func() {
		var listed []*building.Building
		if query.TeamID != nil {
			listed = h.loop.World().ListTeamBuildings(*query.TeamID)
		} else {
			listed = h.loop.World().ListBuildings()
		}
		snapshots = make([]building.Snapshot, 0, len(listed))
		for _, b := range listed {
			snapshots = append(snapshots, b.Snapshot())
		}
	}); execErr != nil {
		return nil, execErr
	}

	return &ListBuildingsResponse{Buildings: snapshots}, nil
}
