package building

// Snapshot is the serialized record handed to networking and UI layers.
// The field set and its semantics are a stable contract.
type Snapshot struct {
	ID                   string     `json:"id"`
	Type                 string     `json:"type"`
	TeamID               int        `json:"teamId"`
	Position             [3]float64 `json:"position"`
	RotationY            float64    `json:"rotationY"`
	Health               float64    `json:"health"`
	MaxHealth            float64    `json:"maxHealth"`
	ConstructionProgress float64    `json:"constructionProgress"`
	IsConstructed        bool       `json:"isConstructed"`
	IsActive             bool       `json:"isActive"`
	PowerGeneration      float64    `json:"powerGeneration"`
	PowerConsumption     float64    `json:"powerConsumption"`
}

// Snapshot reads every field from the live accessors at call time. The type
// string is the key the structure was placed with, even when the catalog
// served the fallback config for it.
func (b *Building) Snapshot() Snapshot {
	return Snapshot{
		ID:                   b.ID(),
		Type:                 string(b.Type()),
		TeamID:               b.TeamID(),
		Position:             b.Position().Vector(),
		RotationY:            b.RotationY(),
		Health:               b.CurrentHealth(),
		MaxHealth:            b.MaxHealth(),
		ConstructionProgress: b.ConstructionProgress(),
		IsConstructed:        b.IsConstructed(),
		IsActive:             b.IsActive(),
		PowerGeneration:      b.PowerGeneration(),
		PowerConsumption:     b.PowerConsumption(),
	}
}
