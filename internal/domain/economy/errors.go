package economy

import (
	"fmt"

	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

type EconomyError struct {
	*shared.DomainError
	TeamID int
}

func NewEconomyError(message string, teamID int) *EconomyError {
	return &EconomyError{
		DomainError: shared.NewDomainError(message),
		TeamID:      teamID,
	}
}

type InsufficientResourcesError struct {
	*EconomyError
	Cost CostMap
}

func NewInsufficientResourcesError(teamID int, cost CostMap) *InsufficientResourcesError {
	return &InsufficientResourcesError{
		EconomyError: NewEconomyError(
			fmt.Sprintf("team %d cannot afford %s", teamID, cost),
			teamID,
		),
		Cost: cost,
	}
}
