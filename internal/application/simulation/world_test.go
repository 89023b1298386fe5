package simulation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appEconomy "github.com/alanli-ML/ai-rts-sub008/internal/application/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

type fakeSpatialIndex struct {
	intersects      bool
	inserted        map[string]shared.GridPosition
	radii           map[string]float64
	removed         []string
	lastQueryRadius float64
}

func newFakeSpatialIndex() *fakeSpatialIndex {
	return &fakeSpatialIndex{
		inserted: make(map[string]shared.GridPosition),
		radii:    make(map[string]float64),
	}
}

func (f *fakeSpatialIndex) IntersectsAny(position shared.GridPosition, radius float64) bool {
	f.lastQueryRadius = radius
	return f.intersects
}

func (f *fakeSpatialIndex) Insert(id string, position shared.GridPosition, radius float64) {
	f.inserted[id] = position
	f.radii[id] = radius
}

func (f *fakeSpatialIndex) Remove(id string) {
	f.removed = append(f.removed, id)
}

type eventCollector struct {
	mu     sync.Mutex
	events []building.Event
}

func (c *eventCollector) Publish(event building.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *eventCollector) kinds() []building.EventKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds := make([]building.EventKind, 0, len(c.events))
	for _, event := range c.events {
		kinds = append(kinds, event.Kind())
	}
	return kinds
}

func (c *eventCollector) all() []building.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]building.Event(nil), c.events...)
}

func (c *eventCollector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func (c *eventCollector) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

type fakeRemovalScheduler struct {
	scheduled     map[string]func()
	delays        map[string]time.Duration
	scheduleCalls int
}

func newFakeRemovalScheduler() *fakeRemovalScheduler {
	return &fakeRemovalScheduler{
		scheduled: make(map[string]func()),
		delays:    make(map[string]time.Duration),
	}
}

func (f *fakeRemovalScheduler) Schedule(buildingID string, delay time.Duration, remove func()) {
	f.scheduleCalls++
	f.scheduled[buildingID] = remove
	f.delays[buildingID] = delay
}

func (f *fakeRemovalScheduler) Cancel(buildingID string) bool {
	if _, ok := f.scheduled[buildingID]; !ok {
		return false
	}
	delete(f.scheduled, buildingID)
	delete(f.delays, buildingID)
	return true
}

func (f *fakeRemovalScheduler) Flush() {
	for id, remove := range f.scheduled {
		delete(f.scheduled, id)
		delete(f.delays, id)
		remove()
	}
}

// fire runs one pending removal as if its grace period elapsed
func (f *fakeRemovalScheduler) fire(buildingID string) bool {
	remove, ok := f.scheduled[buildingID]
	if !ok {
		return false
	}
	delete(f.scheduled, buildingID)
	delete(f.delays, buildingID)
	remove()
	return true
}

type fakeBuildingRepo struct {
	saves   map[string]int
	deleted []string
	stored  []*building.Building
}

func newFakeBuildingRepo() *fakeBuildingRepo {
	return &fakeBuildingRepo{saves: make(map[string]int)}
}

func (f *fakeBuildingRepo) Save(ctx context.Context, b *building.Building) error {
	f.saves[b.ID()]++
	return nil
}

func (f *fakeBuildingRepo) FindByID(ctx context.Context, id string) (*building.Building, error) {
	for _, b := range f.stored {
		if b.ID() == id {
			return b, nil
		}
	}
	return nil, building.NewNotFoundError(id)
}

func (f *fakeBuildingRepo) FindByTeam(ctx context.Context, teamID int) ([]*building.Building, error) {
	var result []*building.Building
	for _, b := range f.stored {
		if b.TeamID() == teamID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBuildingRepo) FindAll(ctx context.Context) ([]*building.Building, error) {
	return f.stored, nil
}

func (f *fakeBuildingRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type worldFixture struct {
	world    *simulation.World
	ledger   *appEconomy.LedgerService
	spatial  *fakeSpatialIndex
	events   *eventCollector
	removals *fakeRemovalScheduler
	repo     *fakeBuildingRepo
	clock    *shared.MockClock
	position shared.GridPosition
}

func newWorldFixture(t *testing.T) *worldFixture {
	t.Helper()
	clock := shared.NewMockClock(time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))
	ledger := appEconomy.NewLedgerService([]int{1, 2}, map[economy.ResourceKind]float64{
		economy.ResourceEnergy:   1000,
		economy.ResourceMinerals: 500,
	})
	spatial := newFakeSpatialIndex()
	events := &eventCollector{}
	removals := newFakeRemovalScheduler()
	repo := newFakeBuildingRepo()
	position, err := shared.NewGridPosition(10, 0, 20)
	require.NoError(t, err)

	world := simulation.NewWorld(building.NewCatalog(), ledger, spatial, events, removals, repo, nil, clock)
	return &worldFixture{
		world:    world,
		ledger:   ledger,
		spatial:  spatial,
		events:   events,
		removals: removals,
		repo:     repo,
		clock:    clock,
		position: position,
	}
}

func (f *worldFixture) place(t *testing.T, typeKey building.BuildingType, teamID int) *building.Building {
	t.Helper()
	b, err := f.world.PlaceBuilding(context.Background(), "", typeKey, teamID, "player-1", f.position, 0)
	require.NoError(t, err)
	return b
}

func (f *worldFixture) placeAndComplete(t *testing.T, typeKey building.BuildingType, teamID int) *building.Building {
	t.Helper()
	b := f.place(t, typeKey, teamID)
	f.world.Step(float64(b.Config().ConstructionTime))
	require.True(t, b.IsOperational())
	return b
}

func (f *worldFixture) minerals(t *testing.T, teamID int) float64 {
	t.Helper()
	snapshot, err := f.ledger.TeamEconomy(teamID)
	require.NoError(t, err)
	return snapshot.Stocks[economy.ResourceMinerals]
}

func (f *worldFixture) energy(t *testing.T, teamID int) float64 {
	t.Helper()
	snapshot, err := f.ledger.TeamEconomy(teamID)
	require.NoError(t, err)
	return snapshot.Stocks[economy.ResourceEnergy]
}

func TestWorld_PlaceBuilding_ConsumesCostAndStartsConstruction(t *testing.T) {
	f := newWorldFixture(t)

	b := f.place(t, building.BuildingTypePowerSpire, 1)

	assert.Contains(t, b.ID(), "power-spire-")
	assert.True(t, b.IsUnderConstruction())
	assert.False(t, b.IsConstructed())
	assert.Equal(t, 400.0, f.minerals(t, 1))
	assert.Equal(t, f.position, f.spatial.inserted[b.ID()])
	assert.Equal(t, 2.5, f.spatial.radii[b.ID()])
	assert.Equal(t, 1, f.repo.saves[b.ID()])
	assert.Empty(t, f.events.kinds(), "placement itself announces nothing")
}

func TestWorld_PlaceBuilding_RejectsUnaffordable(t *testing.T) {
	f := newWorldFixture(t)

	// Burn down to 50 minerals, below every catalog cost
	for i := 0; i < 3; i++ {
		f.place(t, building.BuildingTypePowerSpire, 1)
	}
	f.place(t, building.BuildingTypeRelayPad, 1)
	require.Equal(t, 125.0, f.minerals(t, 1))

	_, err := f.world.PlaceBuilding(context.Background(), "", building.BuildingTypeDefenseTower, 1, "player-1", f.position, 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot afford")
	assert.Equal(t, 125.0, f.minerals(t, 1), "failed placement spends nothing")
	assert.Len(t, f.world.ListBuildings(), 4)
}

func TestWorld_PlaceBuilding_OverlapBlocksBeforeSpending(t *testing.T) {
	f := newWorldFixture(t)
	f.spatial.intersects = true

	_, err := f.world.PlaceBuilding(context.Background(), "", building.BuildingTypePowerSpire, 1, "player-1", f.position, 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "placement blocked")
	assert.Equal(t, 500.0, f.minerals(t, 1), "overlap rejection happens before the spend")
	assert.Empty(t, f.spatial.inserted)
	assert.Empty(t, f.world.ListBuildings())
}

func TestWorld_PlaceBuilding_UnknownTypeFallsBackToDefaults(t *testing.T) {
	f := newWorldFixture(t)

	b, err := f.world.PlaceBuilding(context.Background(), "", "bunker", 1, "player-1", f.position, 0)
	require.NoError(t, err)

	assert.Equal(t, building.BuildingType("bunker"), b.Type(), "requested key survives the fallback")
	assert.Equal(t, 500.0, b.MaxHealth())
	assert.Equal(t, 400.0, f.minerals(t, 1), "fallback config cost was charged")
}

func TestWorld_PlaceBuilding_RejectsDuplicateID(t *testing.T) {
	f := newWorldFixture(t)

	_, err := f.world.PlaceBuilding(context.Background(), "spire-1", building.BuildingTypePowerSpire, 1, "player-1", f.position, 0)
	require.NoError(t, err)

	_, err = f.world.PlaceBuilding(context.Background(), "spire-1", building.BuildingTypePowerSpire, 1, "player-1", f.position, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, 400.0, f.minerals(t, 1), "duplicate rejection spends nothing")
}

func TestWorld_ConstructionCompletion_RegistersAndAnnouncesOnce(t *testing.T) {
	f := newWorldFixture(t)

	b := f.place(t, building.BuildingTypePowerSpire, 1)
	f.world.Step(15)
	assert.InDelta(t, 0.5, b.ConstructionProgress(), 1e-9)
	assert.Empty(t, f.events.kinds())

	f.world.Step(15)

	require.Equal(t, []building.EventKind{
		building.EventConstructed,
		building.EventActivated,
		building.EventGenerationChanged,
	}, f.events.kinds())
	generation := f.events.all()[2].(building.GenerationChangedEvent)
	assert.Equal(t, 50.0, generation.NewRate)

	snapshot, err := f.ledger.TeamEconomy(1)
	require.NoError(t, err)
	assert.Equal(t, 50.0, snapshot.GenerationRates[economy.ResourceEnergy])
	assert.Equal(t, 1, snapshot.GeneratorCount)

	// Further ticks accrue but never re-announce completion
	f.events.reset()
	before := f.energy(t, 1)
	f.world.Step(1)
	assert.Empty(t, f.events.kinds())
	assert.InDelta(t, before+50, f.energy(t, 1), 1e-9)
}

func TestWorld_ConsumerCompletion_DrainsEnergy(t *testing.T) {
	f := newWorldFixture(t)

	f.placeAndComplete(t, building.BuildingTypeDefenseTower, 2)

	snapshot, err := f.ledger.TeamEconomy(2)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.ConsumerCount)
	assert.Equal(t, 10.0, snapshot.ConsumptionRates[economy.ResourceEnergy])

	before := f.energy(t, 2)
	f.world.Step(2)
	assert.InDelta(t, before-20, f.energy(t, 2), 1e-9)
}

func TestWorld_SetActive_MirroredAnnouncements(t *testing.T) {
	f := newWorldFixture(t)
	b := f.placeAndComplete(t, building.BuildingTypePowerSpire, 1)
	f.events.reset()

	_, err := f.world.SetBuildingActive(context.Background(), b.ID(), false)
	require.NoError(t, err)
	assert.Equal(t, []building.EventKind{
		building.EventDeactivated,
		building.EventGenerationChanged,
	}, f.events.kinds())
	assert.Equal(t, 0.0, f.events.all()[1].(building.GenerationChangedEvent).NewRate)

	snapshot, err := f.ledger.TeamEconomy(1)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.GeneratorCount, "roster keeps the source while dormant")
	assert.Equal(t, 0.0, snapshot.GenerationRates[economy.ResourceEnergy])

	f.events.reset()
	_, err = f.world.SetBuildingActive(context.Background(), b.ID(), true)
	require.NoError(t, err)
	assert.Equal(t, []building.EventKind{
		building.EventActivated,
		building.EventGenerationChanged,
	}, f.events.kinds())
	assert.Equal(t, 50.0, f.events.all()[1].(building.GenerationChangedEvent).NewRate)

	// Redundant toggles announce nothing
	f.events.reset()
	_, err = f.world.SetBuildingActive(context.Background(), b.ID(), true)
	require.NoError(t, err)
	assert.Empty(t, f.events.kinds())
}

func TestWorld_Damage_AnnouncesHealthThenDestruction(t *testing.T) {
	f := newWorldFixture(t)
	b := f.placeAndComplete(t, building.BuildingTypeDefenseTower, 1)
	f.events.reset()

	_, err := f.world.DamageBuilding(context.Background(), b.ID(), 150)
	require.NoError(t, err)
	require.Equal(t, []building.EventKind{building.EventHealthChanged}, f.events.kinds())
	assert.Equal(t, 250.0, f.events.all()[0].(building.HealthChangedEvent).NewHealth)

	f.events.reset()
	_, err = f.world.DamageBuilding(context.Background(), b.ID(), 400)
	require.NoError(t, err)

	// Tower generates nothing, so no rate announcement on destruction
	require.Equal(t, []building.EventKind{
		building.EventHealthChanged,
		building.EventDestroyed,
	}, f.events.kinds())
	assert.Equal(t, 0.0, f.events.all()[0].(building.HealthChangedEvent).NewHealth)

	snapshot, err := f.ledger.TeamEconomy(1)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.ConsumerCount, "destruction deregisters the roster entry")
	assert.Contains(t, f.spatial.removed, b.ID())
	assert.Equal(t, building.RemovalGracePeriod, f.removals.delays[b.ID()])
}

func TestWorld_Damage_GeneratorDropsRateBeforeDestroyedEvent(t *testing.T) {
	f := newWorldFixture(t)
	b := f.placeAndComplete(t, building.BuildingTypePowerSpire, 1)
	f.events.reset()

	_, err := f.world.DamageBuilding(context.Background(), b.ID(), 9999)
	require.NoError(t, err)

	require.Equal(t, []building.EventKind{
		building.EventHealthChanged,
		building.EventGenerationChanged,
		building.EventDestroyed,
	}, f.events.kinds())
	assert.Equal(t, 0.0, f.events.all()[1].(building.GenerationChangedEvent).NewRate)

	snapshot, err := f.ledger.TeamEconomy(1)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.GeneratorCount)
	assert.Equal(t, 0.0, snapshot.GenerationRates[economy.ResourceEnergy])
}

func TestWorld_Damage_AfterDestructionChangesNothing(t *testing.T) {
	f := newWorldFixture(t)
	b := f.placeAndComplete(t, building.BuildingTypeDefenseTower, 1)

	_, err := f.world.DamageBuilding(context.Background(), b.ID(), 9999)
	require.NoError(t, err)
	require.True(t, b.IsDestroyed())
	f.events.reset()

	for i := 0; i < 3; i++ {
		_, err = f.world.DamageBuilding(context.Background(), b.ID(), 50)
		require.NoError(t, err)
	}

	assert.Empty(t, f.events.kinds())
	assert.Equal(t, 0.0, b.CurrentHealth())
	assert.Equal(t, 1, f.removals.scheduleCalls, "removal is scheduled exactly once")
}

func TestWorld_Demolish_RunsDestructionPathOnce(t *testing.T) {
	f := newWorldFixture(t)
	b := f.placeAndComplete(t, building.BuildingTypePowerSpire, 1)
	f.events.reset()

	_, err := f.world.DemolishBuilding(context.Background(), b.ID())
	require.NoError(t, err)

	require.Equal(t, []building.EventKind{
		building.EventGenerationChanged,
		building.EventDestroyed,
	}, f.events.kinds())

	snapshot, err := f.ledger.TeamEconomy(1)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.GeneratorCount)

	f.events.reset()
	_, err = f.world.DemolishBuilding(context.Background(), b.ID())
	require.NoError(t, err)
	assert.Empty(t, f.events.kinds())
	assert.Equal(t, 1, f.removals.scheduleCalls)
}

func TestWorld_RemovalFiresAfterGrace(t *testing.T) {
	f := newWorldFixture(t)
	b := f.placeAndComplete(t, building.BuildingTypePowerSpire, 1)

	_, err := f.world.DemolishBuilding(context.Background(), b.ID())
	require.NoError(t, err)

	// Still visible during the grace period
	_, err = f.world.GetBuilding(b.ID())
	require.NoError(t, err)

	require.True(t, f.removals.fire(b.ID()))

	_, err = f.world.GetBuilding(b.ID())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "building not found")
	assert.Empty(t, f.world.ListBuildings())
	assert.Contains(t, f.repo.deleted, b.ID())
}

func TestWorld_SelectDeselect_PushSnapshots(t *testing.T) {
	f := newWorldFixture(t)
	b := f.place(t, building.BuildingTypeRelayPad, 2)
	f.events.reset()

	_, err := f.world.SelectBuilding(context.Background(), b.ID())
	require.NoError(t, err)
	require.Equal(t, []building.EventKind{building.EventSelected}, f.events.kinds())
	selected := f.events.all()[0].(building.SelectedEvent)
	assert.Equal(t, b.ID(), selected.Building.ID)
	assert.False(t, selected.Building.IsConstructed)

	// Selecting twice announces once
	_, err = f.world.SelectBuilding(context.Background(), b.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, f.events.count())

	_, err = f.world.DeselectBuilding(context.Background(), b.ID())
	require.NoError(t, err)
	assert.Equal(t, building.EventDeselected, f.events.all()[1].Kind())
}

func TestWorld_CanPlaceAt_UsesCatalogRadius(t *testing.T) {
	f := newWorldFixture(t)

	assert.True(t, f.world.CanPlaceAt(building.BuildingTypePowerSpire, f.position))
	assert.Equal(t, 2.5, f.spatial.lastQueryRadius)

	f.spatial.intersects = true
	assert.False(t, f.world.CanPlaceAt(building.BuildingTypeDefenseTower, f.position))
	assert.Equal(t, 2.0, f.spatial.lastQueryRadius)
}

func TestWorld_UnknownBuildingOperationsFail(t *testing.T) {
	f := newWorldFixture(t)

	_, err := f.world.DamageBuilding(context.Background(), "ghost", 10)
	assert.Error(t, err)
	_, err = f.world.DemolishBuilding(context.Background(), "ghost")
	assert.Error(t, err)
	_, err = f.world.SetBuildingActive(context.Background(), "ghost", true)
	assert.Error(t, err)
	_, err = f.world.SelectBuilding(context.Background(), "ghost")
	assert.Error(t, err)
	_, err = f.world.GetBuilding("ghost")
	assert.Error(t, err)
}

func TestWorld_Restore_RebuildsRostersAndReschedulesRemovals(t *testing.T) {
	f := newWorldFixture(t)
	now := f.clock.Now()
	catalog := building.NewCatalog()
	spireConfig, _ := catalog.Lookup(building.BuildingTypePowerSpire)
	towerConfig, _ := catalog.Lookup(building.BuildingTypeDefenseTower)
	padConfig, _ := catalog.Lookup(building.BuildingTypeRelayPad)

	constructedAt := now.Add(-5 * time.Minute)
	overdueDestruction := now.Add(-10 * time.Second)
	recentDestruction := now.Add(-1 * time.Second)

	f.repo.stored = []*building.Building{
		building.ReconstructBuilding("spire-1", building.BuildingTypePowerSpire, 1, "player-1",
			spireConfig, f.position, 0, 500, 1, false, true, true, false, 120, constructedAt, &constructedAt, &constructedAt, nil, f.clock),
		building.ReconstructBuilding("tower-1", building.BuildingTypeDefenseTower, 2, "player-2",
			towerConfig, f.position, 0, 400, 0.4, true, false, false, false, 0, now, &now, nil, nil, f.clock),
		building.ReconstructBuilding("pad-overdue", building.BuildingTypeRelayPad, 1, "player-1",
			padConfig, f.position, 0, 0, 1, false, true, false, true, 30, constructedAt, &constructedAt, &constructedAt, &overdueDestruction, f.clock),
		building.ReconstructBuilding("pad-recent", building.BuildingTypeRelayPad, 2, "player-2",
			padConfig, f.position, 0, 0, 1, false, true, false, true, 30, constructedAt, &constructedAt, &constructedAt, &recentDestruction, f.clock),
	}

	require.NoError(t, f.world.Restore(context.Background()))

	assert.Len(t, f.world.ListBuildings(), 4)

	team1, err := f.ledger.TeamEconomy(1)
	require.NoError(t, err)
	assert.Equal(t, 1, team1.GeneratorCount, "constructed survivor rejoins the roster")
	assert.Equal(t, 50.0, team1.GenerationRates[economy.ResourceEnergy])

	team2, err := f.ledger.TeamEconomy(2)
	require.NoError(t, err)
	assert.Equal(t, 0, team2.ConsumerCount, "unfinished structures stay unregistered")

	assert.Contains(t, f.spatial.inserted, "spire-1")
	assert.Contains(t, f.spatial.inserted, "tower-1")
	assert.NotContains(t, f.spatial.inserted, "pad-overdue")

	assert.Equal(t, time.Duration(0), f.removals.delays["pad-overdue"], "elapsed grace removes immediately")
	assert.Equal(t, building.RemovalGracePeriod-time.Second, f.removals.delays["pad-recent"])
}

func TestWorld_Shutdown_FlushesRemovalsAndPersistsSurvivors(t *testing.T) {
	f := newWorldFixture(t)
	survivor := f.placeAndComplete(t, building.BuildingTypePowerSpire, 1)
	doomed := f.placeAndComplete(t, building.BuildingTypeDefenseTower, 2)

	_, err := f.world.DemolishBuilding(context.Background(), doomed.ID())
	require.NoError(t, err)

	require.NoError(t, f.world.Shutdown(context.Background()))

	assert.Contains(t, f.repo.deleted, doomed.ID(), "pending removal runs during shutdown")
	assert.Empty(t, f.removals.scheduled)
	assert.Len(t, f.world.ListBuildings(), 1)
	assert.GreaterOrEqual(t, f.repo.saves[survivor.ID()], 2, "survivors are persisted at shutdown")
}

func TestWorld_Stats_TracksStatusCounts(t *testing.T) {
	f := newWorldFixture(t)
	f.place(t, building.BuildingTypePowerSpire, 1)
	completed := f.placeAndComplete(t, building.BuildingTypeRelayPad, 2)

	stats := f.world.Stats()
	assert.Equal(t, 2, stats.TotalBuildings)
	assert.Equal(t, 1, stats.StatusCounts[building.BuildingStatusUnderConstruction])
	assert.Equal(t, 1, stats.StatusCounts[building.BuildingStatusActive])

	_, err := f.world.DemolishBuilding(context.Background(), completed.ID())
	require.NoError(t, err)

	stats = f.world.Stats()
	assert.Equal(t, 1, stats.StatusCounts[building.BuildingStatusDestroyed])
}
