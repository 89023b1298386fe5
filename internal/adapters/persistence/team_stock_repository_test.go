package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanli-ML/ai-rts-sub008/internal/adapters/persistence"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/economy"
	"github.com/alanli-ML/ai-rts-sub008/test/helpers"
)

func TestTeamStockRepository_SaveAndLoadAll(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTeamStockRepository(db)

	team1 := map[economy.ResourceKind]float64{
		economy.ResourceEnergy:   950.5,
		economy.ResourceMinerals: 320,
	}
	team2 := map[economy.ResourceKind]float64{
		economy.ResourceEnergy: 1000,
	}

	// Act
	require.NoError(t, repo.SaveStocks(context.Background(), 1, team1))
	require.NoError(t, repo.SaveStocks(context.Background(), 2, team2))
	loaded, err := repo.LoadAllStocks(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, team1, loaded[1])
	assert.Equal(t, team2, loaded[2])
}

func TestTeamStockRepository_UpsertReplacesAmounts(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTeamStockRepository(db)

	initial := map[economy.ResourceKind]float64{
		economy.ResourceEnergy:   1000,
		economy.ResourceMinerals: 500,
	}
	require.NoError(t, repo.SaveStocks(context.Background(), 1, initial))

	// Act - flush the same team again after spending
	drained := map[economy.ResourceKind]float64{
		economy.ResourceEnergy:   12.5,
		economy.ResourceMinerals: 0,
	}
	require.NoError(t, repo.SaveStocks(context.Background(), 1, drained))

	// Assert - latest amounts, no duplicate rows
	loaded, err := repo.LoadAllStocks(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, drained, loaded[1])
}

func TestTeamStockRepository_LoadAllStocks_Empty(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTeamStockRepository(db)

	// Act
	loaded, err := repo.LoadAllStocks(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
