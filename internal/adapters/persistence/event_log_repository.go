package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

// GormBuildingEventRepository is a GORM-based building.EventLog
type GormBuildingEventRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

var _ building.EventLog = (*GormBuildingEventRepository)(nil)

// NewGormBuildingEventRepository creates a new building event repository.
// If clock is nil, uses RealClock.
func NewGormBuildingEventRepository(db *gorm.DB, clock shared.Clock) *GormBuildingEventRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormBuildingEventRepository{db: db, clock: clock}
}

// Append writes one lifecycle notification with the full event as payload
func (r *GormBuildingEventRepository) Append(ctx context.Context, event building.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize %s event: %w", event.Kind(), err)
	}

	model := &BuildingEventModel{
		BuildingID: event.BuildingID(),
		TeamID:     event.Team(),
		Kind:       string(event.Kind()),
		Payload:    string(payload),
		Timestamp:  r.clock.Now(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append %s event: %w", event.Kind(), err)
	}
	return nil
}

// History retrieves a structure's events, newest first
func (r *GormBuildingEventRepository) History(ctx context.Context, buildingID string, limit int) ([]building.EventLogEntry, error) {
	return r.query(ctx, "building_id = ?", buildingID, limit)
}

// TeamHistory retrieves a team's events, newest first
func (r *GormBuildingEventRepository) TeamHistory(ctx context.Context, teamID int, limit int) ([]building.EventLogEntry, error) {
	return r.query(ctx, "team_id = ?", teamID, limit)
}

func (r *GormBuildingEventRepository) query(ctx context.Context, condition string, value interface{}, limit int) ([]building.EventLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	var models []BuildingEventModel
	result := r.db.WithContext(ctx).
		Where(condition, value).
		Order("id DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load building events: %w", result.Error)
	}

	entries := make([]building.EventLogEntry, 0, len(models))
	for _, model := range models {
		entry := building.EventLogEntry{
			ID:         model.ID,
			BuildingID: model.BuildingID,
			TeamID:     model.TeamID,
			Kind:       model.Kind,
			Timestamp:  model.Timestamp,
		}
		if model.Payload != "" {
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(model.Payload), &payload); err == nil {
				entry.Payload = payload
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
