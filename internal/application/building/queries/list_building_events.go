package queries

import (
	"context"
	"fmt"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

// ListBuildingEventsQuery retrieves persisted lifecycle history, newest first.
// Exactly one of BuildingID or TeamID selects the scope.
type ListBuildingEventsQuery struct {
	BuildingID string
	TeamID     int
	Limit      int
}

// ListBuildingEventsResponse carries the matching history entries
type ListBuildingEventsResponse struct {
	Events []building.EventLogEntry
}

// ListBuildingEventsHandler handles the ListBuildingEvents query
type ListBuildingEventsHandler struct {
	events building.EventLog
}

// NewListBuildingEventsHandler creates a new ListBuildingEventsHandler. A nil
// event log means history is not persisted; queries then return empty.
func NewListBuildingEventsHandler(events building.EventLog) *ListBuildingEventsHandler {
	return &ListBuildingEventsHandler{events: events}
}

// Handle executes the ListBuildingEvents query against the event log. History
// reads never touch the simulation loop.
func (h *ListBuildingEventsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListBuildingEventsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListBuildingEventsQuery")
	}
	if query.BuildingID == "" && query.TeamID <= 0 {
		return nil, shared.NewValidationError("scope", "a building id or team id is required")
	}

	if h.events == nil {
		return &ListBuildingEventsResponse{Events: []building.EventLogEntry{}}, nil
	}

	switch {
	case query.BuildingID != "":
		entries, err := h.events.History(ctx, query.BuildingID, query.Limit)
		if err != nil {
			return nil, err
		}
		return &ListBuildingEventsResponse{Events: entries}, nil
	default:
		entries, err := h.events.TeamHistory(ctx, query.TeamID, query.Limit)
		if err != nil {
			return nil, err
		}
		return &ListBuildingEventsResponse{Events: entries}, nil
	}
}
