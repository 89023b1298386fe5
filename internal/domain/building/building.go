package building

import (
	"fmt"
	"time"

	"github.com/alanli-ML/ai-rts-sub008/internal/domain/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

// RemovalGracePeriod is the delay between destruction and final removal.
// During this window the entity still exists and is queryable but performs
// no further logic.
const RemovalGracePeriod = 2 * time.Second

// BuildingStatus is a derived, human-readable lifecycle label.
type BuildingStatus string

const (
	// BuildingStatusPlaced indicates the structure exists but construction has not started
	BuildingStatusPlaced BuildingStatus = "PLACED"

	// BuildingStatusUnderConstruction indicates construction is in progress
	BuildingStatusUnderConstruction BuildingStatus = "UNDER_CONSTRUCTION"

	// BuildingStatusActive indicates the structure is built and running
	BuildingStatusActive BuildingStatus = "ACTIVE"

	// BuildingStatusInactive indicates the structure is built but switched off
	BuildingStatusInactive BuildingStatus = "INACTIVE"

	// BuildingStatusDestroyed indicates the structure is dead and awaiting removal
	BuildingStatusDestroyed BuildingStatus = "DESTROYED"
)

// Building is the mutable structure entity. All mutations are synchronous and
// run-to-completion on the simulation goroutine, so instance state needs no
// locking. Transition methods are guarded: calling one out of order is a
// silent no-op reported through the returned flags, never an error.
type Building struct {
	id            string
	buildingType  BuildingType
	teamID        int
	ownerPlayerID string

	// Balance values copied from the catalog at creation
	config BuildingConfig

	position  shared.GridPosition
	rotationY float64

	currentHealth        float64
	constructionProgress float64

	underConstruction bool
	constructed       bool
	active            bool
	destroyed         bool
	selected          bool

	// Seconds spent operational, accrued by the behavior tick
	operationalSeconds float64

	placedAt              time.Time
	constructionStartedAt *time.Time
	constructedAt         *time.Time
	destroyedAt           *time.Time

	// Time provider for testability
	clock shared.Clock
}

// Compile-time check: buildings feed the team ledger as live rate sources
var _ economy.RateSource = (*Building)(nil)

// NewBuilding creates a structure at full health with construction not yet
// started. The type key is kept verbatim even when the catalog served the
// fallback config for it. If clock is nil, uses RealClock.
func NewBuilding(
	id string,
	buildingType BuildingType,
	teamID int,
	ownerPlayerID string,
	config BuildingConfig,
	position shared.GridPosition,
	rotationY float64,
	clock shared.Clock,
) (*Building, error) {
	if id == "" {
		return nil, shared.NewValidationError("id", "cannot be empty")
	}
	if buildingType == "" {
		return nil, shared.NewValidationError("type", "cannot be empty")
	}
	if teamID <= 0 {
		return nil, shared.NewValidationError("teamId", "must be positive")
	}
	if !config.IsValid() {
		return nil, shared.NewValidationError("config", "balance parameters out of range")
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &Building{
		id:            id,
		buildingType:  buildingType,
		teamID:        teamID,
		ownerPlayerID: ownerPlayerID,
		config:        config,
		position:      position,
		rotationY:     rotationY,
		currentHealth: config.MaxHealth,
		placedAt:      clock.Now(),
		clock:         clock,
	}, nil
}

// Getters

func (b *Building) ID() string                    { return b.id }
func (b *Building) Type() BuildingType            { return b.buildingType }
func (b *Building) TeamID() int                   { return b.teamID }
func (b *Building) OwnerPlayerID() string         { return b.ownerPlayerID }
func (b *Building) Config() BuildingConfig        { return b.config }
func (b *Building) Position() shared.GridPosition { return b.position }
func (b *Building) RotationY() float64            { return b.rotationY }
func (b *Building) MaxHealth() float64            { return b.config.MaxHealth }
func (b *Building) CurrentHealth() float64        { return b.currentHealth }
func (b *Building) ConstructionProgress() float64 { return b.constructionProgress }
func (b *Building) IsUnderConstruction() bool     { return b.underConstruction }
func (b *Building) IsConstructed() bool           { return b.constructed }
func (b *Building) IsActive() bool                { return b.active }
func (b *Building) IsDestroyed() bool             { return b.destroyed }
func (b *Building) IsSelected() bool              { return b.selected }
func (b *Building) OperationalSeconds() float64   { return b.operationalSeconds }
func (b *Building) PlacedAt() time.Time           { return b.placedAt }

func (b *Building) ConstructionStartedAt() *time.Time { return b.constructionStartedAt }
func (b *Building) ConstructedAt() *time.Time         { return b.constructedAt }
func (b *Building) DestroyedAt() *time.Time           { return b.destroyedAt }

// Role returns the ledger roster this archetype joins once constructed.
func (b *Building) Role() Role {
	return BehaviorFor(b.buildingType).Role
}

// Status derives the lifecycle label from the flags.
func (b *Building) Status() BuildingStatus {
	switch {
	case b.destroyed:
		return BuildingStatusDestroyed
	case b.underConstruction:
		return BuildingStatusUnderConstruction
	case b.constructed && b.active:
		return BuildingStatusActive
	case b.constructed:
		return BuildingStatusInactive
	default:
		return BuildingStatusPlaced
	}
}

// IsOperational reports whether the structure currently performs its function:
// constructed, switched on, and not destroyed. This predicate, not the raw
// active flag, gates every rate projection.
func (b *Building) IsOperational() bool {
	return b.constructed && b.active && !b.destroyed
}

// IsGenerating reports whether the structure currently feeds energy to its team.
func (b *Building) IsGenerating() bool {
	return b.IsOperational() && b.config.PowerGeneration > 0
}

// State transition methods

// StartConstruction begins the build phase. Guarded no-op when construction
// already started, already finished, or the structure is destroyed.
func (b *Building) StartConstruction() (started bool) {
	if b.underConstruction || b.constructed || b.destroyed {
		return false
	}
	b.underConstruction = true
	b.constructionProgress = 0
	now := b.clock.Now()
	b.constructionStartedAt = &now
	return true
}

// AdvanceConstruction adds elapsed seconds of build progress. No-op unless the
// structure is under construction. Progress is linear in elapsed time; when it
// reaches 1.0 the method clamps it, flips the construction flags, and switches
// the structure on, all in one step. Completion is reported exactly once.
func (b *Building) AdvanceConstruction(deltaSeconds float64) (completed bool) {
	if !b.underConstruction || b.constructed || b.destroyed {
		return false
	}
	if deltaSeconds <= 0 {
		return false
	}

	b.constructionProgress += deltaSeconds / b.config.ConstructionTime
	if b.constructionProgress < 1.0 {
		return false
	}

	b.constructionProgress = 1.0
	b.underConstruction = false
	b.constructed = true
	b.active = true
	now := b.clock.Now()
	b.constructedAt = &now
	return true
}

// Activate switches a constructed structure on. Guarded no-op when unbuilt,
// destroyed, or already active.
func (b *Building) Activate() (activated bool) {
	if !b.constructed || b.destroyed || b.active {
		return false
	}
	b.active = true
	return true
}

// Deactivate switches the structure off. wasGenerating reports whether a
// positive generation rate was live immediately before the flip, so the
// caller knows to announce a zero rate.
func (b *Building) Deactivate() (deactivated, wasGenerating bool) {
	if !b.active || b.destroyed {
		return false, false
	}
	wasGenerating = b.IsGenerating()
	b.active = false
	return true, wasGenerating
}

// TakeDamage subtracts health, clamping at zero. Ignored once destroyed: no
// health change, no duplicate destruction. When health reaches zero the
// structure is destroyed in the same call and destroyed reports true exactly
// once. wasGenerating is evaluated before the terminal flags flip.
func (b *Building) TakeDamage(amount float64) (changed, destroyed, wasGenerating bool) {
	if b.destroyed || amount <= 0 {
		return false, false, false
	}

	b.currentHealth -= amount
	if b.currentHealth > 0 {
		return true, false, false
	}

	wasGenerating = b.markDestroyed()
	return true, true, wasGenerating
}

// Destroy kills the structure directly, regardless of remaining health.
// Guarded no-op when already destroyed.
func (b *Building) Destroy() (destroyed, wasGenerating bool) {
	if b.destroyed {
		return false, false
	}
	wasGenerating = b.markDestroyed()
	return true, wasGenerating
}

// markDestroyed flips the terminal flags. The generating state is captured
// before any mutation so the zero-rate announcement fires only when a positive
// rate was live.
func (b *Building) markDestroyed() (wasGenerating bool) {
	wasGenerating = b.IsGenerating()
	b.destroyed = true
	b.active = false
	b.currentHealth = 0
	now := b.clock.Now()
	b.destroyedAt = &now
	return wasGenerating
}

// Select flags the structure for presentation. Idempotent, no state-machine effect.
func (b *Building) Select() (changed bool) {
	if b.selected {
		return false
	}
	b.selected = true
	return true
}

// Deselect clears the presentation flag. Idempotent.
func (b *Building) Deselect() (changed bool) {
	if !b.selected {
		return false
	}
	b.selected = false
	return true
}

// ServerUpdate is the per-tick entry point driven by the simulation loop.
// Destroyed structures do nothing. Under-construction structures advance their
// build progress; completed reports true on the completing tick. Operational
// structures run their behavior hook.
func (b *Building) ServerUpdate(deltaSeconds float64) (completed bool) {
	if b.destroyed {
		return false
	}

	if b.underConstruction && !b.constructed {
		return b.AdvanceConstruction(deltaSeconds)
	}

	if !b.IsOperational() {
		return false
	}

	behavior := BehaviorFor(b.buildingType)
	if behavior.tick != nil {
		behavior.tick(b, deltaSeconds)
	}
	return false
}

// Rate projections
//
// Rates are computed from the type config and the operational predicate on
// every call, never cached. A structure that is unbuilt, switched off, or
// destroyed reports zero regardless of its configured rates.

// PowerGeneration returns the live energy output per second.
func (b *Building) PowerGeneration() float64 {
	if !b.IsOperational() {
		return 0
	}
	return b.config.PowerGeneration
}

// PowerConsumption returns the live energy drain per second.
func (b *Building) PowerConsumption() float64 {
	if !b.IsOperational() {
		return 0
	}
	return b.config.PowerConsumption
}

// SourceID identifies this structure on a ledger roster.
func (b *Building) SourceID() string {
	return b.id
}

// GenerationRates returns the per-second resource production, empty unless operational.
func (b *Building) GenerationRates() economy.RateMap {
	rate := b.PowerGeneration()
	if rate <= 0 {
		return economy.RateMap{}
	}
	return economy.RateMap{economy.ResourceEnergy: rate}
}

// ConsumptionRates returns the per-second resource drain, empty unless operational.
func (b *Building) ConsumptionRates() economy.RateMap {
	rate := b.PowerConsumption()
	if rate <= 0 {
		return economy.RateMap{}
	}
	return economy.RateMap{economy.ResourceEnergy: rate}
}

// ReconstructBuilding rebuilds a structure from persisted state (used by
// repositories). Restored values are clamped back inside their invariants
// rather than rejected, so a partially written row loads as a consistent
// entity.
func ReconstructBuilding(
	id string,
	buildingType BuildingType,
	teamID int,
	ownerPlayerID string,
	config BuildingConfig,
	position shared.GridPosition,
	rotationY float64,
	currentHealth float64,
	constructionProgress float64,
	underConstruction bool,
	constructed bool,
	active bool,
	destroyed bool,
	operationalSeconds float64,
	placedAt time.Time,
	constructionStartedAt *time.Time,
	constructedAt *time.Time,
	destroyedAt *time.Time,
	clock shared.Clock,
) *Building {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	if currentHealth < 0 {
		currentHealth = 0
	}
	if currentHealth > config.MaxHealth {
		currentHealth = config.MaxHealth
	}
	if constructionProgress < 0 {
		constructionProgress = 0
	}
	if constructionProgress > 1 {
		constructionProgress = 1
	}
	if constructed {
		underConstruction = false
	}
	if destroyed {
		active = false
		currentHealth = 0
	}

	return &Building{
		id:                    id,
		buildingType:          buildingType,
		teamID:                teamID,
		ownerPlayerID:         ownerPlayerID,
		config:                config,
		position:              position,
		rotationY:             rotationY,
		currentHealth:         currentHealth,
		constructionProgress:  constructionProgress,
		underConstruction:     underConstruction,
		constructed:           constructed,
		active:                active,
		destroyed:             destroyed,
		operationalSeconds:    operationalSeconds,
		placedAt:              placedAt,
		constructionStartedAt: constructionStartedAt,
		constructedAt:         constructedAt,
		destroyedAt:           destroyedAt,
		clock:                 clock,
	}
}

// String provides human-readable representation
func (b *Building) String() string {
	return fmt.Sprintf("Building[%s, type=%s, team=%d, health=%.0f/%.0f, progress=%.2f, status=%s]",
		b.id, b.buildingType, b.teamID, b.currentHealth, b.config.MaxHealth, b.constructionProgress, b.Status())
}
