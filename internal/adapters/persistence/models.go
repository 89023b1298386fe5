package persistence

import (
	"time"
)

// BuildingModel represents the buildings table. Balance values are stored
// per row: the catalog can be rebalanced between daemon runs without
// mutating structures already on the field.
type BuildingModel struct {
	ID            string `gorm:"column:id;primaryKey"`
	BuildingType  string `gorm:"column:building_type;not null"`
	TeamID        int    `gorm:"column:team_id;not null;index"`
	OwnerPlayerID string `gorm:"column:owner_player_id"`

	PositionX float64 `gorm:"column:position_x;not null"`
	PositionY float64 `gorm:"column:position_y;not null"`
	PositionZ float64 `gorm:"column:position_z;not null"`
	RotationY float64 `gorm:"column:rotation_y"`

	MaxHealth        float64 `gorm:"column:max_health;not null"`
	ConstructionTime float64 `gorm:"column:construction_time;not null"`
	ConstructionCost int     `gorm:"column:construction_cost;not null"`
	PowerGeneration  float64 `gorm:"column:power_generation;not null"`
	PowerConsumption float64 `gorm:"column:power_consumption;not null"`
	PlacementRadius  float64 `gorm:"column:placement_radius;not null"`

	CurrentHealth        float64 `gorm:"column:current_health;not null"`
	ConstructionProgress float64 `gorm:"column:construction_progress;not null;default:0"`
	UnderConstruction    bool    `gorm:"column:under_construction;not null;default:false"`
	Constructed          bool    `gorm:"column:constructed;not null;default:false"`
	Active               bool    `gorm:"column:active;not null;default:false"`
	Destroyed            bool    `gorm:"column:destroyed;not null;default:false"`
	OperationalSeconds   float64 `gorm:"column:operational_seconds;not null;default:0"`

	PlacedAt              time.Time  `gorm:"column:placed_at;not null"`
	ConstructionStartedAt *time.Time `gorm:"column:construction_started_at"`
	ConstructedAt         *time.Time `gorm:"column:constructed_at"`
	DestroyedAt           *time.Time `gorm:"column:destroyed_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (BuildingModel) TableName() string {
	return "buildings"
}

// TeamStockModel represents the team_stocks table, one row per team and
// resource
type TeamStockModel struct {
	TeamID    int       `gorm:"column:team_id;primaryKey"`
	Resource  string    `gorm:"column:resource;primaryKey"`
	Amount    float64   `gorm:"column:amount;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (TeamStockModel) TableName() string {
	return "team_stocks"
}

// BuildingEventModel represents the building_events table, an append-only
// log of lifecycle notifications for post-match review
type BuildingEventModel struct {
	ID         int       `gorm:"column:id;primaryKey;autoIncrement"`
	BuildingID string    `gorm:"column:building_id;not null;index"`
	TeamID     int       `gorm:"column:team_id;not null;index"`
	Kind       string    `gorm:"column:kind;not null"`
	Payload    string    `gorm:"column:payload;type:text"` // JSON as text
	Timestamp  time.Time `gorm:"column:timestamp;not null"`
}

func (BuildingEventModel) TableName() string {
	return "building_events"
}
