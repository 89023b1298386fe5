package queries

import (
	"context"
	"fmt"

	appEconomy "github.com/alanli-ML/ai-rts-sub008/internal/application/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
)

// ListTeamEconomiesQuery retrieves every team's stocks and live rates
type ListTeamEconomiesQuery struct{}

// ListTeamEconomiesResponse carries the snapshots sorted by team ID
type ListTeamEconomiesResponse struct {
	Teams []appEconomy.TeamEconomySnapshot
}

// ListTeamEconomiesHandler handles the ListTeamEconomies query
type ListTeamEconomiesHandler struct {
	ledger *appEconomy.LedgerService
}

// NewListTeamEconomiesHandler creates a new ListTeamEconomiesHandler
func NewListTeamEconomiesHandler(ledger *appEconomy.LedgerService) *ListTeamEconomiesHandler {
	return &ListTeamEconomiesHandler{ledger: ledger}
}

// Handle executes the ListTeamEconomies query
func (h *ListTeamEconomiesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*ListTeamEconomiesQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListTeamEconomiesQuery")
	}

	return &ListTeamEconomiesResponse{Teams: h.ledger.AllTeams()}, nil
}
