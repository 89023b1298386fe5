package spatial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanli-ML/ai-rts-sub008/internal/adapters/spatial"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

func position(t *testing.T, x, z float64) shared.GridPosition {
	t.Helper()
	p, err := shared.NewGridPosition(x, 0, z)
	require.NoError(t, err)
	return p
}

func TestGridIndex_DetectsOverlap(t *testing.T) {
	index := spatial.NewGridIndex(0)
	index.Insert("spire-1", position(t, 10, 10), 2.5)

	assert.True(t, index.IntersectsAny(position(t, 12, 10), 2.5), "centers 2 apart, combined radius 5")
	assert.False(t, index.IntersectsAny(position(t, 20, 10), 2.5), "centers 10 apart, combined radius 5")
}

func TestGridIndex_TouchingCirclesDoNotIntersect(t *testing.T) {
	index := spatial.NewGridIndex(0)
	index.Insert("spire-1", position(t, 0, 0), 2.5)

	// Exactly flush: distance equals combined radius
	assert.False(t, index.IntersectsAny(position(t, 5, 0), 2.5))
	assert.True(t, index.IntersectsAny(position(t, 4.9, 0), 2.5))
}

func TestGridIndex_HeightDoesNotAffectOverlap(t *testing.T) {
	index := spatial.NewGridIndex(0)
	p, err := shared.NewGridPosition(10, 0, 10)
	require.NoError(t, err)
	index.Insert("spire-1", p, 2.5)

	elevated, err := shared.NewGridPosition(10, 50, 10)
	require.NoError(t, err)
	assert.True(t, index.IntersectsAny(elevated, 2.5), "overlap is planar")
}

func TestGridIndex_FindsCirclesAcrossCellBoundaries(t *testing.T) {
	// Small cells force the circle to span several of them
	index := spatial.NewGridIndex(1)
	index.Insert("spire-1", position(t, 0.5, 0.5), 3)

	assert.True(t, index.IntersectsAny(position(t, 3, 0.5), 0.5))
	assert.True(t, index.IntersectsAny(position(t, -2.5, 0.5), 0.5))
	assert.False(t, index.IntersectsAny(position(t, 10, 10), 0.5))
}

func TestGridIndex_RemoveFreesTheSpot(t *testing.T) {
	index := spatial.NewGridIndex(0)
	index.Insert("spire-1", position(t, 10, 10), 2.5)
	require.True(t, index.IntersectsAny(position(t, 10, 10), 2.5))

	index.Remove("spire-1")

	assert.False(t, index.IntersectsAny(position(t, 10, 10), 2.5))
	assert.Equal(t, 0, index.Count())

	// Removing again is harmless
	index.Remove("spire-1")
}

func TestGridIndex_ReinsertMovesTheCircle(t *testing.T) {
	index := spatial.NewGridIndex(0)
	index.Insert("spire-1", position(t, 10, 10), 2.5)

	index.Insert("spire-1", position(t, 100, 100), 2.5)

	assert.False(t, index.IntersectsAny(position(t, 10, 10), 2.5), "old spot is free")
	assert.True(t, index.IntersectsAny(position(t, 100, 100), 2.5))
	assert.Equal(t, 1, index.Count())
}

func TestGridIndex_TracksManyCircles(t *testing.T) {
	index := spatial.NewGridIndex(0)
	index.Insert("spire-1", position(t, 0, 0), 2.5)
	index.Insert("tower-1", position(t, 50, 0), 2)
	index.Insert("pad-1", position(t, 0, 50), 2)

	assert.Equal(t, 3, index.Count())
	assert.True(t, index.IntersectsAny(position(t, 51, 0), 2))
	assert.False(t, index.IntersectsAny(position(t, 25, 25), 2))
}
