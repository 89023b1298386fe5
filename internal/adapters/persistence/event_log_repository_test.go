package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanli-ML/ai-rts-sub008/internal/adapters/persistence"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
	"github.com/alanli-ML/ai-rts-sub008/test/helpers"
)

func TestBuildingEventRepository_AppendAndHistory(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewGormBuildingEventRepository(db, clock)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, building.ConstructedEvent{ID: "spire-1", TeamID: 1}))
	clock.Advance(time.Second)
	require.NoError(t, repo.Append(ctx, building.HealthChangedEvent{ID: "spire-1", TeamID: 1, NewHealth: 410}))
	clock.Advance(time.Second)
	require.NoError(t, repo.Append(ctx, building.DestroyedEvent{ID: "tower-9", TeamID: 2}))

	// Act
	history, err := repo.History(ctx, "spire-1", 10)

	// Assert - newest first, payload preserved
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, string(building.EventHealthChanged), history[0].Kind)
	assert.Equal(t, string(building.EventConstructed), history[1].Kind)
	assert.Equal(t, 410.0, history[0].Payload["newHealth"])
	assert.Equal(t, 1, history[0].TeamID)
	assert.True(t, history[0].Timestamp.After(history[1].Timestamp))
}

func TestBuildingEventRepository_TeamHistory(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormBuildingEventRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, building.ConstructedEvent{ID: "spire-1", TeamID: 1}))
	require.NoError(t, repo.Append(ctx, building.ConstructedEvent{ID: "tower-9", TeamID: 2}))
	require.NoError(t, repo.Append(ctx, building.DestroyedEvent{ID: "tower-9", TeamID: 2}))

	// Act
	history, err := repo.TeamHistory(ctx, 2, 0) // 0 falls back to the default limit

	// Assert
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, string(building.EventDestroyed), history[0].Kind)
	assert.Equal(t, "tower-9", history[0].BuildingID)
}

func TestBuildingEventRepository_HistoryHonorsLimit(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormBuildingEventRepository(db, nil)
	ctx := context.Background()

	for _, health := range []float64{400, 300, 200} {
		require.NoError(t, repo.Append(ctx, building.HealthChangedEvent{ID: "tower-1", TeamID: 1, NewHealth: health}))
	}

	// Act
	history, err := repo.History(ctx, "tower-1", 2)

	// Assert - the two most recent entries
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 200.0, history[0].Payload["newHealth"])
	assert.Equal(t, 300.0, history[1].Payload["newHealth"])
}
