package setup

import (
	"reflect"

	buildingCommands "github.com/alanli-ML/ai-rts-sub008/internal/application/building/commands"
	buildingQueries "github.com/alanli-ML/ai-rts-sub008/internal/application/building/queries"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/economy"
	economyQueries "github.com/alanli-ML/ai-rts-sub008/internal/application/economy/queries"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/mediator"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	loop   *simulation.Loop
	ledger *economy.LedgerService
	events building.EventLog
}

// NewHandlerRegistry creates a new handler registry with required
// dependencies. events may be nil when history is not persisted.
func NewHandlerRegistry(loop *simulation.Loop, ledger *economy.LedgerService, events building.EventLog) *HandlerRegistry {
	return &HandlerRegistry{
		loop:   loop,
		ledger: ledger,
		events: events,
	}
}

// RegisterBuildingHandlers registers all building command and query handlers with the mediator
//
// This method registers:
//   - PlaceBuildingCommand → PlaceBuildingHandler
//   - DamageBuildingCommand → DamageBuildingHandler
//   - DemolishBuildingCommand → DemolishBuildingHandler
//   - SetBuildingActiveCommand → SetBuildingActiveHandler
//   - SelectBuildingCommand → SelectBuildingHandler
//   - DeselectBuildingCommand → DeselectBuildingHandler
//   - GetBuildingQuery → GetBuildingHandler
//   - ListBuildingsQuery → ListBuildingsHandler
//   - CanPlaceBuildingQuery → CanPlaceBuildingHandler
//   - ListBuildingEventsQuery → ListBuildingEventsHandler (persisted history)
//
// Every handler except the history query marshals its work onto the
// simulation loop, so registering them is safe before or after the loop
// starts.
func (r *HandlerRegistry) RegisterBuildingHandlers(m mediator.Mediator) error {
	// Register PlaceBuildingCommand handler
	placeHandler := buildingCommands.NewPlaceBuildingHandler(r.loop)
	if err := m.Register(
		reflect.TypeOf(&buildingCommands.PlaceBuildingCommand{}),
		placeHandler,
	); err != nil {
		return err
	}

	// Register DamageBuildingCommand handler
	damageHandler := buildingCommands.NewDamageBuildingHandler(r.loop)
	if err := m.Register(
		reflect.TypeOf(&buildingCommands.DamageBuildingCommand{}),
		damageHandler,
	); err != nil {
		return err
	}

	// Register DemolishBuildingCommand handler
	demolishHandler := buildingCommands.NewDemolishBuildingHandler(r.loop)
	if err := m.Register(
		reflect.TypeOf(&buildingCommands.DemolishBuildingCommand{}),
		demolishHandler,
	); err != nil {
		return err
	}

	// Register SetBuildingActiveCommand handler
	activeHandler := buildingCommands.NewSetBuildingActiveHandler(r.loop)
	if err := m.Register(
		reflect.TypeOf(&buildingCommands.SetBuildingActiveCommand{}),
		activeHandler,
	); err != nil {
		return err
	}

	// Register SelectBuildingCommand handler
	selectHandler := buildingCommands.NewSelectBuildingHandler(r.loop)
	if err := m.Register(
		reflect.TypeOf(&buildingCommands.SelectBuildingCommand{}),
		selectHandler,
	); err != nil {
		return err
	}

	// Register DeselectBuildingCommand handler
	deselectHandler := buildingCommands.NewDeselectBuildingHandler(r.loop)
	if err := m.Register(
		reflect.TypeOf(&buildingCommands.DeselectBuildingCommand{}),
		deselectHandler,
	); err != nil {
		return err
	}

	// Register GetBuildingQuery handler
	getHandler := buildingQueries.NewGetBuildingHandler(r.loop)
	if err := m.Register(
		reflect.TypeOf(&buildingQueries.GetBuildingQuery{}),
		getHandler,
	); err != nil {
		return err
	}

	// Register ListBuildingsQuery handler
	listHandler := buildingQueries.NewListBuildingsHandler(r.loop)
	if err := m.Register(
		reflect.TypeOf(&buildingQueries.ListBuildingsQuery{}),
		listHandler,
	); err != nil {
		return err
	}

	// Register CanPlaceBuildingQuery handler
	canPlaceHandler := buildingQueries.NewCanPlaceBuildingHandler(r.loop)
	if err := m.Register(
		reflect.TypeOf(&buildingQueries.CanPlaceBuildingQuery{}),
		canPlaceHandler,
	); err != nil {
		return err
	}

	// Register ListBuildingEventsQuery handler
	eventsHandler := buildingQueries.NewListBuildingEventsHandler(r.events)
	if err := m.Register(
		reflect.TypeOf(&buildingQueries.ListBuildingEventsQuery{}),
		eventsHandler,
	); err != nil {
		return err
	}

	return nil
}

// RegisterEconomyHandlers registers all team economy query handlers with the mediator
//
// This method registers:
//   - GetTeamEconomyQuery → GetTeamEconomyHandler (single-team stock and rate report)
//   - ListTeamEconomiesQuery → ListTeamEconomiesHandler (all teams, ordered by team id)
//
// Economy queries read the ledger directly; they never touch the simulation loop.
func (r *HandlerRegistry) RegisterEconomyHandlers(m mediator.Mediator) error {
	// Register GetTeamEconomyQuery handler
	getEconomyHandler := economyQueries.NewGetTeamEconomyHandler(r.ledger)
	if err := m.Register(
		reflect.TypeOf(&economyQueries.GetTeamEconomyQuery{}),
		getEconomyHandler,
	); err != nil {
		return err
	}

	// Register ListTeamEconomiesQuery handler
	listEconomiesHandler := economyQueries.NewListTeamEconomiesHandler(r.ledger)
	if err := m.Register(
		reflect.TypeOf(&economyQueries.ListTeamEconomiesQuery{}),
		listEconomiesHandler,
	); err != nil {
		return err
	}

	return nil
}

// CreateConfiguredMediator creates a new mediator with all handlers registered
//
// This is a convenience method that creates a mediator and registers every
// building and economy handler. Use this when you need a fully configured
// mediator for application use.
func (r *HandlerRegistry) CreateConfiguredMediator() (mediator.Mediator, error) {
	m := mediator.NewMediator()

	if err := r.RegisterBuildingHandlers(m); err != nil {
		return nil, err
	}

	if err := r.RegisterEconomyHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}
