package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/logging"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
	"github.com/alanli-ML/ai-rts-sub008/pkg/utils"
)

// persistTimeout bounds every repository call made from the tick thread
const persistTimeout = 5 * time.Second

// Ledger is the team economy as the world drives it: the registration and
// spending operations plus the per-tick accrual hook.
type Ledger interface {
	economy.Ledger
	Accrue(deltaSeconds float64)
}

// Executor runs a function on the simulation goroutine. The loop implements
// it; removal timers fire on their own goroutines and use it to marshal map
// mutations back onto the tick thread.
type Executor interface {
	Execute(ctx context.Context, fn func()) error
}

// WorldStats is a point-in-time summary safe to read from any goroutine.
// The metrics collector and status queries poll it instead of touching
// world state directly.
type WorldStats struct {
	Ticks          uint64
	TotalBuildings int
	StatusCounts   map[building.BuildingStatus]int
}

// World owns every structure in the match and orchestrates their lifecycle:
// placement gating, construction completion, ledger registration, event
// emission and deferred removal. All methods except Stats must run on the
// simulation goroutine; commands reach them through Loop.Execute.
type World struct {
	catalog  *building.Catalog
	ledger   Ledger
	spatial  building.SpatialIndex
	events   building.EventPublisher
	removals building.RemovalScheduler
	repo     building.Repository
	logger   logging.Logger
	clock    shared.Clock

	executor Executor

	// Insertion-ordered so tick updates and event emission are deterministic
	buildings map[string]*building.Building
	order     []string

	ticks uint64

	statsMu sync.RWMutex
	stats   WorldStats
}

// NewWorld creates a world with the given collaborators. Catalog, clock and
// removal scheduler default when nil. Spatial index, event publisher and
// repository are optional: a nil index skips overlap checks, a nil publisher
// drops events, a nil repository disables persistence. A nil ledger rejects
// every placement.
func NewWorld(
	catalog *building.Catalog,
	ledger Ledger,
	spatial building.SpatialIndex,
	events building.EventPublisher,
	removals building.RemovalScheduler,
	repo building.Repository,
	logger logging.Logger,
	clock shared.Clock,
) *World {
	if catalog == nil {
		catalog = building.NewCatalog()
	}
	if removals == nil {
		removals = NewTimerRemovalScheduler()
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &World{
		catalog:   catalog,
		ledger:    ledger,
		spatial:   spatial,
		events:    events,
		removals:  removals,
		repo:      repo,
		logger:    logger,
		clock:     clock,
		buildings: make(map[string]*building.Building),
		stats:     WorldStats{StatusCounts: make(map[building.BuildingStatus]int)},
	}
}

// SetExecutor attaches the loop after construction so removal timers can
// marshal onto the tick thread. Call before Loop.Start.
func (w *World) SetExecutor(executor Executor) {
	w.executor = executor
}

// PlaceBuilding validates and commits a new structure. The pipeline is
// affordability, overlap, spend, commit: resources are only consumed after
// both checks pass, and the structure enters the world already under
// construction. An empty id gets a generated one.
func (w *World) PlaceBuilding(
	ctx context.Context,
	id string,
	typeKey building.BuildingType,
	teamID int,
	ownerPlayerID string,
	position shared.GridPosition,
	rotationY float64,
) (*building.Building, error) {
	config, usedFallback := w.catalog.Lookup(typeKey)
	if usedFallback {
		w.log("WARNING", "Unknown building type, using defaults", map[string]interface{}{
			"type": string(typeKey),
		})
	}

	if id == "" {
		id = utils.GenerateBuildingID(string(typeKey))
	}
	if _, exists := w.buildings[id]; exists {
		return nil, shared.NewValidationError("id", fmt.Sprintf("building %q already exists", id))
	}

	b, err := building.NewBuilding(id, typeKey, teamID, ownerPlayerID, config, position, rotationY, w.clock)
	if err != nil {
		return nil, err
	}

	cost := config.Cost()
	if w.ledger == nil || !w.ledger.HasSufficientResources(teamID, cost) {
		return nil, economy.NewInsufficientResourcesError(teamID, cost)
	}
	if w.spatial != nil && w.spatial.IntersectsAny(position, config.PlacementRadius) {
		return nil, building.NewPlacementBlockedError(position)
	}
	if !w.ledger.ConsumeResources(teamID, cost) {
		return nil, economy.NewInsufficientResourcesError(teamID, cost)
	}

	b.StartConstruction()
	w.buildings[id] = b
	w.order = append(w.order, id)
	if w.spatial != nil {
		w.spatial.Insert(id, position, config.PlacementRadius)
	}
	w.persist(ctx, b)
	w.refreshStats()
	w.log("INFO", "Building placed", map[string]interface{}{
		"building_id": id,
		"type":        string(b.Type()),
		"team_id":     teamID,
	})
	return b, nil
}

// CanPlaceAt previews the overlap check for a ghost placement. It does not
// reserve the spot: the answer can go stale before PlaceBuilding commits,
// which re-checks.
func (w *World) CanPlaceAt(typeKey building.BuildingType, position shared.GridPosition) bool {
	config, _ := w.catalog.Lookup(typeKey)
	if w.spatial == nil {
		return true
	}
	return !w.spatial.IntersectsAny(position, config.PlacementRadius)
}

// Step advances every structure by deltaSeconds, fans out construction
// completions, then accrues team stocks at the post-update rates.
func (w *World) Step(deltaSeconds float64) {
	for _, id := range w.order {
		b := w.buildings[id]
		if b == nil {
			continue
		}
		if completed := b.ServerUpdate(deltaSeconds); completed {
			w.completeConstruction(b)
		}
	}
	if w.ledger != nil {
		w.ledger.Accrue(deltaSeconds)
	}
	w.ticks++
	w.refreshStats()
}

// completeConstruction runs the one-time completion fan-out: roster
// registration, then constructed, activated and generation announcements.
func (w *World) completeConstruction(b *building.Building) {
	w.registerWithLedger(b)
	w.publish(building.ConstructedEvent{ID: b.ID(), TeamID: b.TeamID()})
	w.publish(building.ActivatedEvent{ID: b.ID(), TeamID: b.TeamID()})
	if rate := b.PowerGeneration(); rate > 0 {
		w.publish(building.GenerationChangedEvent{ID: b.ID(), TeamID: b.TeamID(), NewRate: rate})
	}
	w.persist(context.Background(), b)
	w.log("INFO", "Construction complete", map[string]interface{}{
		"building_id": b.ID(),
		"type":        string(b.Type()),
		"team_id":     b.TeamID(),
	})
}

// DamageBuilding applies damage and announces the health change. Crossing
// zero runs the destruction path once; hits on an already destroyed
// structure change nothing.
func (w *World) DamageBuilding(ctx context.Context, id string, amount float64) (*building.Building, error) {
	b, ok := w.buildings[id]
	if !ok {
		return nil, building.NewNotFoundError(id)
	}
	changed, destroyed, wasGenerating := b.TakeDamage(amount)
	if changed {
		w.publish(building.HealthChangedEvent{ID: b.ID(), TeamID: b.TeamID(), NewHealth: b.CurrentHealth()})
	}
	if destroyed {
		w.handleDestruction(ctx, b, wasGenerating)
	} else if changed {
		w.persist(ctx, b)
	}
	return b, nil
}

// DemolishBuilding destroys a structure outright, running the same
// destruction path as lethal damage. Demolishing an already destroyed
// structure is a no-op.
func (w *World) DemolishBuilding(ctx context.Context, id string) (*building.Building, error) {
	b, ok := w.buildings[id]
	if !ok {
		return nil, building.NewNotFoundError(id)
	}
	destroyed, wasGenerating := b.Destroy()
	if destroyed {
		w.handleDestruction(ctx, b, wasGenerating)
	}
	return b, nil
}

// handleDestruction announces the rate drop before the destruction event so
// subscribers never see a destroyed structure still generating, deregisters
// the roster entry exactly once, and schedules removal after the grace
// period.
func (w *World) handleDestruction(ctx context.Context, b *building.Building, wasGenerating bool) {
	if wasGenerating {
		w.publish(building.GenerationChangedEvent{ID: b.ID(), TeamID: b.TeamID(), NewRate: 0})
	}
	w.publish(building.DestroyedEvent{ID: b.ID(), TeamID: b.TeamID()})
	w.unregisterFromLedger(b)
	if w.spatial != nil {
		w.spatial.Remove(b.ID())
	}
	w.persist(ctx, b)
	w.refreshStats()

	id := b.ID()
	w.removals.Schedule(id, building.RemovalGracePeriod, func() {
		w.runOnLoop(func() { w.finalizeRemoval(id) })
	})
	w.log("INFO", "Building destroyed", map[string]interface{}{
		"building_id": id,
		"team_id":     b.TeamID(),
	})
}

// SetBuildingActive toggles a constructed structure between generating and
// dormant. Announcements mirror each direction: activation re-announces a
// positive generation rate, deactivation announces rate zero if the
// structure was generating. Roster membership is untouched; contribution is
// already gated by the operational predicate.
func (w *World) SetBuildingActive(ctx context.Context, id string, active bool) (*building.Building, error) {
	b, ok := w.buildings[id]
	if !ok {
		return nil, building.NewNotFoundError(id)
	}
	if active {
		if activated := b.Activate(); activated {
			w.publish(building.ActivatedEvent{ID: b.ID(), TeamID: b.TeamID()})
			if rate := b.PowerGeneration(); rate > 0 {
				w.publish(building.GenerationChangedEvent{ID: b.ID(), TeamID: b.TeamID(), NewRate: rate})
			}
			w.persist(ctx, b)
		}
		return b, nil
	}
	deactivated, wasGenerating := b.Deactivate()
	if deactivated {
		w.publish(building.DeactivatedEvent{ID: b.ID(), TeamID: b.TeamID()})
		if wasGenerating {
			w.publish(building.GenerationChangedEvent{ID: b.ID(), TeamID: b.TeamID(), NewRate: 0})
		}
		w.persist(ctx, b)
	}
	return b, nil
}

// SelectBuilding marks a structure selected and pushes its snapshot to
// subscribers. Selection is a presentation flag, never persisted.
func (w *World) SelectBuilding(ctx context.Context, id string) (*building.Building, error) {
	b, ok := w.buildings[id]
	if !ok {
		return nil, building.NewNotFoundError(id)
	}
	if b.Select() {
		w.publish(building.SelectedEvent{ID: b.ID(), TeamID: b.TeamID(), Building: b.Snapshot()})
	}
	return b, nil
}

// DeselectBuilding clears the selection flag.
func (w *World) DeselectBuilding(ctx context.Context, id string) (*building.Building, error) {
	b, ok := w.buildings[id]
	if !ok {
		return nil, building.NewNotFoundError(id)
	}
	if b.Deselect() {
		w.publish(building.DeselectedEvent{ID: b.ID(), TeamID: b.TeamID(), Building: b.Snapshot()})
	}
	return b, nil
}

// GetBuilding returns the live structure, including destroyed ones still in
// their removal grace period.
func (w *World) GetBuilding(id string) (*building.Building, error) {
	b, ok := w.buildings[id]
	if !ok {
		return nil, building.NewNotFoundError(id)
	}
	return b, nil
}

// ListBuildings returns every structure in placement order.
func (w *World) ListBuildings() []*building.Building {
	result := make([]*building.Building, 0, len(w.order))
	for _, id := range w.order {
		if b := w.buildings[id]; b != nil {
			result = append(result, b)
		}
	}
	return result
}

// ListTeamBuildings returns a team's structures in placement order.
func (w *World) ListTeamBuildings(teamID int) []*building.Building {
	result := make([]*building.Building, 0)
	for _, id := range w.order {
		if b := w.buildings[id]; b != nil && b.TeamID() == teamID {
			result = append(result, b)
		}
	}
	return result
}

// Restore loads persisted structures on daemon startup. Non-destroyed
// structures re-enter the spatial index; constructed ones rejoin the team
// rosters. Destroyed structures get their removal rescheduled with whatever
// grace remains, immediately when it already elapsed while the daemon was
// down.
func (w *World) Restore(ctx context.Context) error {
	if w.repo == nil {
		return nil
	}
	loaded, err := w.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore buildings: %w", err)
	}
	for _, b := range loaded {
		id := b.ID()
		if _, exists := w.buildings[id]; exists {
			continue
		}
		w.buildings[id] = b
		w.order = append(w.order, id)

		if b.IsDestroyed() {
			delay := time.Duration(0)
			if destroyedAt := b.DestroyedAt(); destroyedAt != nil {
				if remaining := building.RemovalGracePeriod - w.clock.Now().Sub(*destroyedAt); remaining > 0 {
					delay = remaining
				}
			}
			removalID := id
			w.removals.Schedule(removalID, delay, func() {
				w.runOnLoop(func() { w.finalizeRemoval(removalID) })
			})
			continue
		}

		if w.spatial != nil {
			w.spatial.Insert(id, b.Position(), b.Config().PlacementRadius)
		}
		if b.IsConstructed() {
			w.registerWithLedger(b)
		}
	}
	w.refreshStats()
	w.log("INFO", "World restored", map[string]interface{}{
		"buildings": len(loaded),
	})
	return nil
}

// Shutdown flushes pending removals and persists every surviving structure.
// Call after the loop has stopped; the world is single-threaded again.
func (w *World) Shutdown(ctx context.Context) error {
	w.removals.Flush()
	if w.repo == nil {
		return nil
	}
	var firstErr error
	for _, id := range w.order {
		b := w.buildings[id]
		if b == nil {
			continue
		}
		if err := w.repo.Save(ctx, b); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to persist building %s: %w", id, err)
		}
	}
	return firstErr
}

// Stats returns a copy of the latest per-tick summary.
func (w *World) Stats() WorldStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	counts := make(map[building.BuildingStatus]int, len(w.stats.StatusCounts))
	for status, count := range w.stats.StatusCounts {
		counts[status] = count
	}
	return WorldStats{
		Ticks:          w.stats.Ticks,
		TotalBuildings: w.stats.TotalBuildings,
		StatusCounts:   counts,
	}
}

// finalizeRemoval drops a destroyed structure from the world after its grace
// period. Runs on the tick thread via runOnLoop.
func (w *World) finalizeRemoval(id string) {
	b, ok := w.buildings[id]
	if !ok {
		return
	}
	delete(w.buildings, id)
	for i, existing := range w.order {
		if existing == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if w.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := w.repo.Delete(ctx, id); err != nil {
			w.log("ERROR", "Failed to delete building row", map[string]interface{}{
				"building_id": id,
				"error":       err.Error(),
			})
		}
	}
	w.refreshStats()
	w.log("INFO", "Building removed", map[string]interface{}{
		"building_id": id,
		"team_id":     b.TeamID(),
	})
}

func (w *World) registerWithLedger(b *building.Building) {
	if w.ledger == nil {
		return
	}
	switch b.Role() {
	case building.RoleGenerator:
		w.ledger.RegisterGenerator(b.TeamID(), b)
	case building.RoleConsumer:
		w.ledger.RegisterConsumer(b.TeamID(), b)
	}
}

func (w *World) unregisterFromLedger(b *building.Building) {
	if w.ledger == nil {
		return
	}
	switch b.Role() {
	case building.RoleGenerator:
		w.ledger.UnregisterGenerator(b.TeamID(), b)
	case building.RoleConsumer:
		w.ledger.UnregisterConsumer(b.TeamID(), b)
	}
}

// runOnLoop marshals fn onto the simulation goroutine. Without an executor,
// or once the loop has stopped, fn runs inline; those paths only occur in
// tests and during shutdown flushes, when the world is single-threaded.
func (w *World) runOnLoop(fn func()) {
	if w.executor != nil {
		if err := w.executor.Execute(context.Background(), fn); err == nil {
			return
		}
	}
	fn()
}

func (w *World) refreshStats() {
	counts := make(map[building.BuildingStatus]int)
	for _, id := range w.order {
		if b := w.buildings[id]; b != nil {
			counts[b.Status()]++
		}
	}
	w.statsMu.Lock()
	w.stats = WorldStats{
		Ticks:          w.ticks,
		TotalBuildings: len(w.buildings),
		StatusCounts:   counts,
	}
	w.statsMu.Unlock()
}

func (w *World) persist(ctx context.Context, b *building.Building) {
	if w.repo == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	if err := w.repo.Save(ctx, b); err != nil {
		w.log("ERROR", "Failed to persist building", map[string]interface{}{
			"building_id": b.ID(),
			"error":       err.Error(),
		})
	}
}

func (w *World) publish(event building.Event) {
	if w.events != nil {
		w.events.Publish(event)
	}
}

func (w *World) log(level, message string, metadata map[string]interface{}) {
	if w.logger != nil {
		w.logger.Log(level, message, metadata)
	}
}
