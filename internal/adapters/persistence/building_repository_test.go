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

func TestBuildingRepository_SaveAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewGormBuildingRepository(db, clock)

	spire := newTestBuilding(t, "spire-1", "POWER_SPIRE", 1, clock)
	spire.StartConstruction()
	spire.ServerUpdate(12) // 40% of the 30s build

	// Act - Save
	err := repo.Save(context.Background(), spire)
	require.NoError(t, err)

	// Act - FindByID
	found, err := repo.FindByID(context.Background(), "spire-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, spire.ID(), found.ID())
	assert.Equal(t, spire.Type(), found.Type())
	assert.Equal(t, spire.TeamID(), found.TeamID())
	assert.Equal(t, spire.OwnerPlayerID(), found.OwnerPlayerID())
	assert.Equal(t, spire.Position(), found.Position())
	assert.Equal(t, spire.RotationY(), found.RotationY())
	assert.Equal(t, spire.Config(), found.Config())
	assert.Equal(t, spire.CurrentHealth(), found.CurrentHealth())
	assert.InDelta(t, 0.4, found.ConstructionProgress(), 1e-9)
	assert.True(t, found.IsUnderConstruction())
	assert.False(t, found.IsConstructed())
	assert.WithinDuration(t, spire.PlacedAt(), found.PlacedAt(), time.Second)
	require.NotNil(t, found.ConstructionStartedAt())
	assert.Nil(t, found.ConstructedAt())
}

func TestBuildingRepository_FindByID_NotFound(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormBuildingRepository(db, nil)

	// Act
	found, err := repo.FindByID(context.Background(), "ghost")

	// Assert
	require.Error(t, err)
	assert.Nil(t, found)
	var notFound *building.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestBuildingRepository_FindByTeam_PlacementOrder(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewGormBuildingRepository(db, clock)

	first := newTestBuilding(t, "spire-1", "POWER_SPIRE", 1, clock)
	clock.Advance(time.Second)
	enemy := newTestBuilding(t, "tower-9", "DEFENSE_TOWER", 2, clock)
	clock.Advance(time.Second)
	second := newTestBuilding(t, "pad-3", "RELAY_PAD", 1, clock)

	require.NoError(t, repo.Save(context.Background(), first))
	require.NoError(t, repo.Save(context.Background(), enemy))
	require.NoError(t, repo.Save(context.Background(), second))

	// Act
	buildings, err := repo.FindByTeam(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	require.Len(t, buildings, 2)
	assert.Equal(t, "spire-1", buildings[0].ID())
	assert.Equal(t, "pad-3", buildings[1].ID())
}

func TestBuildingRepository_SaveIsUpsert(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewGormBuildingRepository(db, clock)

	tower := newTestBuilding(t, "tower-1", "DEFENSE_TOWER", 1, clock)
	require.NoError(t, repo.Save(context.Background(), tower))

	// Act - damage and save again under the same ID
	tower.TakeDamage(120)
	require.NoError(t, repo.Save(context.Background(), tower))

	// Assert - one row, latest state
	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 280.0, all[0].CurrentHealth())
}

func TestBuildingRepository_Delete(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormBuildingRepository(db, nil)

	pad := newTestBuilding(t, "pad-1", "RELAY_PAD", 1, nil)
	require.NoError(t, repo.Save(context.Background(), pad))

	// Act
	err := repo.Delete(context.Background(), "pad-1")

	// Assert
	require.NoError(t, err)
	_, err = repo.FindByID(context.Background(), "pad-1")
	var notFound *building.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	// Deleting an already-removed row is fine
	assert.NoError(t, repo.Delete(context.Background(), "pad-1"))
}

func TestBuildingRepository_RoundTripsDestroyedState(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewGormBuildingRepository(db, clock)

	spire := newTestBuilding(t, "spire-2", "POWER_SPIRE", 2, clock)
	spire.StartConstruction()
	spire.ServerUpdate(30)
	require.True(t, spire.IsOperational())
	spire.Destroy()

	// Act
	require.NoError(t, repo.Save(context.Background(), spire))
	found, err := repo.FindByID(context.Background(), "spire-2")

	// Assert
	require.NoError(t, err)
	assert.True(t, found.IsDestroyed())
	assert.False(t, found.IsActive())
	assert.True(t, found.IsConstructed())
	assert.Equal(t, building.BuildingStatusDestroyed, found.Status())
	require.NotNil(t, found.DestroyedAt())
	require.NotNil(t, found.ConstructedAt())
}

// newTestBuilding creates an undamaged structure from catalog defaults.
func newTestBuilding(t *testing.T, id, typeKey string, teamID int, clock shared.Clock) *building.Building {
	t.Helper()

	catalog := building.NewCatalog()
	config, _ := catalog.Lookup(building.BuildingType(typeKey))
	b, err := building.NewBuilding(
		id,
		building.BuildingType(typeKey),
		teamID,
		"player-1",
		config,
		shared.GridPositionFromVector([3]float64{24, 0, -8}),
		90,
		clock,
	)
	require.NoError(t, err)
	return b
}
