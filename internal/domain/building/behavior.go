package building

// Role declares a building's relationship to the team resource ledger:
// generators feed stock, consumers drain it.
type Role string

const (
	RoleGenerator Role = "GENERATOR"
	RoleConsumer  Role = "CONSUMER"
)

// Behavior describes the per-type functional wiring: which ledger roster the
// building joins once constructed, and the update hook run once per tick while
// the building is operational. Hooks mutate only instance-local state.
type Behavior struct {
	Role Role
	tick func(b *Building, deltaSeconds float64)
}

// behaviorTable maps each archetype to its behavior. Tower targeting and pad
// teleportation run outside this package; their entries here carry only the
// ledger role and the shared uptime hook.
var behaviorTable = map[BuildingType]Behavior{
	BuildingTypePowerSpire:   {Role: RoleGenerator, tick: accrueUptime},
	BuildingTypeDefenseTower: {Role: RoleConsumer, tick: accrueUptime},
	BuildingTypeRelayPad:     {Role: RoleConsumer, tick: accrueUptime},
}

// BehaviorFor resolves the behavior for a type key. Unknown types resolve
// through FallbackType, mirroring catalog lookups.
func BehaviorFor(typeKey BuildingType) Behavior {
	if behavior, ok := behaviorTable[typeKey]; ok {
		return behavior
	}
	return behaviorTable[FallbackType]
}

// accrueUptime records how long a building has been running.
func accrueUptime(b *Building, deltaSeconds float64) {
	b.operationalSeconds += deltaSeconds
}
