package building

// EventKind names a lifecycle notification.
type EventKind string

const (
	EventConstructed       EventKind = "constructed"
	EventDestroyed         EventKind = "destroyed"
	EventSelected          EventKind = "selected"
	EventDeselected        EventKind = "deselected"
	EventHealthChanged     EventKind = "healthChanged"
	EventActivated         EventKind = "activated"
	EventDeactivated       EventKind = "deactivated"
	EventGenerationChanged EventKind = "generationChanged"
)

// Event is a typed lifecycle notification pushed to presentation, AI and
// network subscribers. Events published within one tick arrive in emission
// order.
type Event interface {
	Kind() EventKind
	BuildingID() string
	Team() int
}

// ConstructedEvent fires once when construction completes.
type ConstructedEvent struct {
	ID     string `json:"id"`
	TeamID int    `json:"teamId"`
}

// DestroyedEvent fires once when a structure dies, before its removal grace
// period starts.
type DestroyedEvent struct {
	ID     string `json:"id"`
	TeamID int    `json:"teamId"`
}

// SelectedEvent carries the full snapshot so presentation layers need no
// follow-up query.
type SelectedEvent struct {
	ID       string   `json:"id"`
	TeamID   int      `json:"teamId"`
	Building Snapshot `json:"building"`
}

// DeselectedEvent mirrors SelectedEvent.
type DeselectedEvent struct {
	ID       string   `json:"id"`
	TeamID   int      `json:"teamId"`
	Building Snapshot `json:"building"`
}

// HealthChangedEvent carries the post-damage health value.
type HealthChangedEvent struct {
	ID        string  `json:"id"`
	TeamID    int     `json:"teamId"`
	NewHealth float64 `json:"newHealth"`
}

// ActivatedEvent fires when a structure switches on, including the automatic
// switch-on at construction completion.
type ActivatedEvent struct {
	ID     string `json:"id"`
	TeamID int    `json:"teamId"`
}

// DeactivatedEvent fires when a structure switches off.
type DeactivatedEvent struct {
	ID     string `json:"id"`
	TeamID int    `json:"teamId"`
}

// GenerationChangedEvent announces the structure's new energy output: the
// configured rate when a generator comes online, zero when it stops. Never
// emitted for structures whose configured generation is zero.
type GenerationChangedEvent struct {
	ID      string  `json:"id"`
	TeamID  int     `json:"teamId"`
	NewRate float64 `json:"newRate"`
}

func (e ConstructedEvent) Kind() EventKind    { return EventConstructed }
func (e ConstructedEvent) BuildingID() string { return e.ID }
func (e ConstructedEvent) Team() int          { return e.TeamID }

func (e DestroyedEvent) Kind() EventKind    { return EventDestroyed }
func (e DestroyedEvent) BuildingID() string { return e.ID }
func (e DestroyedEvent) Team() int          { return e.TeamID }

func (e SelectedEvent) Kind() EventKind    { return EventSelected }
func (e SelectedEvent) BuildingID() string { return e.ID }
func (e SelectedEvent) Team() int          { return e.TeamID }

func (e DeselectedEvent) Kind() EventKind    { return EventDeselected }
func (e DeselectedEvent) BuildingID() string { return e.ID }
func (e DeselectedEvent) Team() int          { return e.TeamID }

func (e HealthChangedEvent) Kind() EventKind    { return EventHealthChanged }
func (e HealthChangedEvent) BuildingID() string { return e.ID }
func (e HealthChangedEvent) Team() int          { return e.TeamID }

func (e ActivatedEvent) Kind() EventKind    { return EventActivated }
func (e ActivatedEvent) BuildingID() string { return e.ID }
func (e ActivatedEvent) Team() int          { return e.TeamID }

func (e DeactivatedEvent) Kind() EventKind    { return EventDeactivated }
func (e DeactivatedEvent) BuildingID() string { return e.ID }
func (e DeactivatedEvent) Team() int          { return e.TeamID }

func (e GenerationChangedEvent) Kind() EventKind    { return EventGenerationChanged }
func (e GenerationChangedEvent) BuildingID() string { return e.ID }
func (e GenerationChangedEvent) Team() int          { return e.TeamID }
