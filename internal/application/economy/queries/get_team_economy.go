package queries

import (
	"context"
	"fmt"

	appEconomy "github.com/alanli-ML/ai-rts-sub008/internal/application/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
)

// GetTeamEconomyQuery retrieves one team's stocks and live rates
type GetTeamEconomyQuery struct {
	TeamID int
}

// GetTeamEconomyResponse carries the team's economy snapshot
type GetTeamEconomyResponse struct {
	Economy appEconomy.TeamEconomySnapshot
}

// GetTeamEconomyHandler handles the GetTeamEconomy query. The ledger service
// is internally locked, so the query never touches the simulation goroutine.
type GetTeamEconomyHandler struct {
	ledger *appEconomy.LedgerService
}

// NewGetTeamEconomyHandler creates a new GetTeamEconomyHandler
func NewGetTeamEconomyHandler(ledger *appEconomy.LedgerService) *GetTeamEconomyHandler {
	return &GetTeamEconomyHandler{ledger: ledger}
}

// Handle executes the GetTeamEconomy query
func (h *GetTeamEconomyHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetTeamEconomyQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTeamEconomyQuery")
	}

	snapshot, err := h.ledger.TeamEconomy(query.TeamID)
	if err != nil {
		return nil, err
	}

	return &GetTeamEconomyResponse{Economy: snapshot}, nil
}
