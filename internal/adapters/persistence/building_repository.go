package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

// GormBuildingRepository implements building persistence using GORM
type GormBuildingRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormBuildingRepository creates a new GORM-based building repository.
// The clock is handed to reconstructed entities; nil selects the real one.
func NewGormBuildingRepository(db *gorm.DB, clock shared.Clock) *GormBuildingRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormBuildingRepository{db: db, clock: clock}
}

// Save upserts the structure's current state
func (r *GormBuildingRepository) Save(ctx context.Context, b *building.Building) error {
	model := r.buildingToModel(b)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save building %s: %w", b.ID(), err)
	}
	return nil
}

// FindByID retrieves one structure
func (r *GormBuildingRepository) FindByID(ctx context.Context, id string) (*building.Building, error) {
	var model BuildingModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, building.NewNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to find building %s: %w", id, result.Error)
	}
	return r.modelToBuilding(&model), nil
}

// FindByTeam retrieves a team's structures in placement order
func (r *GormBuildingRepository) FindByTeam(ctx context.Context, teamID int) ([]*building.Building, error) {
	var models []BuildingModel
	result := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("placed_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find buildings for team %d: %w", teamID, result.Error)
	}
	return r.modelsToBuildings(models), nil
}

// FindAll retrieves every persisted structure in placement order
func (r *GormBuildingRepository) FindAll(ctx context.Context) ([]*building.Building, error) {
	var models []BuildingModel
	result := r.db.WithContext(ctx).Order("placed_at ASC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", result.Error)
	}
	return r.modelsToBuildings(models), nil
}

// Delete removes a structure row. Deleting a missing row is not an error.
func (r *GormBuildingRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BuildingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete building %s: %w", id, result.Error)
	}
	return nil
}

// buildingToModel converts a domain entity to its database row
func (r *GormBuildingRepository) buildingToModel(b *building.Building) *BuildingModel {
	config := b.Config()
	position := b.Position()
	return &BuildingModel{
		ID:                    b.ID(),
		BuildingType:          string(b.Type()),
		TeamID:                b.TeamID(),
		OwnerPlayerID:         b.OwnerPlayerID(),
		PositionX:             position.X,
		PositionY:             position.Y,
		PositionZ:             position.Z,
		RotationY:             b.RotationY(),
		MaxHealth:             config.MaxHealth,
		ConstructionTime:      config.ConstructionTime,
		ConstructionCost:      config.ConstructionCost,
		PowerGeneration:       config.PowerGeneration,
		PowerConsumption:      config.PowerConsumption,
		PlacementRadius:       config.PlacementRadius,
		CurrentHealth:         b.CurrentHealth(),
		ConstructionProgress:  b.ConstructionProgress(),
		UnderConstruction:     b.IsUnderConstruction(),
		Constructed:           b.IsConstructed(),
		Active:                b.IsActive(),
		Destroyed:             b.IsDestroyed(),
		OperationalSeconds:    b.OperationalSeconds(),
		PlacedAt:              b.PlacedAt(),
		ConstructionStartedAt: b.ConstructionStartedAt(),
		ConstructedAt:         b.ConstructedAt(),
		DestroyedAt:           b.DestroyedAt(),
	}
}

// modelToBuilding converts a database row back to a domain entity
func (r *GormBuildingRepository) modelToBuilding(model *BuildingModel) *building.Building {
	config := building.BuildingConfig{
		MaxHealth:        model.MaxHealth,
		ConstructionTime: model.ConstructionTime,
		ConstructionCost: model.ConstructionCost,
		PowerGeneration:  model.PowerGeneration,
		PowerConsumption: model.PowerConsumption,
		PlacementRadius:  model.PlacementRadius,
	}
	position := shared.GridPositionFromVector([3]float64{model.PositionX, model.PositionY, model.PositionZ})

	return building.ReconstructBuilding(
		model.ID,
		building.BuildingType(model.BuildingType),
		model.TeamID,
		model.OwnerPlayerID,
		config,
		position,
		model.RotationY,
		model.CurrentHealth,
		model.ConstructionProgress,
		model.UnderConstruction,
		model.Constructed,
		model.Active,
		model.Destroyed,
		model.OperationalSeconds,
		model.PlacedAt,
		model.ConstructionStartedAt,
		model.ConstructedAt,
		model.DestroyedAt,
		r.clock,
	)
}

func (r *GormBuildingRepository) modelsToBuildings(models []BuildingModel) []*building.Building {
	buildings := make([]*building.Building, 0, len(models))
	for i := range models {
		buildings = append(buildings, r.modelToBuilding(&models[i]))
	}
	return buildings
}
