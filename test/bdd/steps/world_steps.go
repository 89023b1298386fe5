package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	"github.com/alanli-ML/ai-rts-sub008/internal/adapters/spatial"
	appEconomy "github.com/alanli-ML/ai-rts-sub008/internal/application/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

// announcementLog collects every event the world publishes during a scenario.
type announcementLog struct {
	events []building.Event
}

func (l *announcementLog) Publish(event building.Event) {
	l.events = append(l.events, event)
}

func (l *announcementLog) countKind(kind building.EventKind) int {
	count := 0
	for _, event := range l.events {
		if event.Kind() == kind {
			count++
		}
	}
	return count
}

// graceScheduler holds destruction removals until a step fires them, standing
// in for the wall-clock grace timer.
type graceScheduler struct {
	pending map[string]func()
}

func newGraceScheduler() *graceScheduler {
	return &graceScheduler{pending: make(map[string]func())}
}

func (s *graceScheduler) Schedule(buildingID string, delay time.Duration, remove func()) {
	s.pending[buildingID] = remove
}

func (s *graceScheduler) Cancel(buildingID string) bool {
	if _, ok := s.pending[buildingID]; !ok {
		return false
	}
	delete(s.pending, buildingID)
	return true
}

func (s *graceScheduler) Flush() {
	s.fireAll()
}

func (s *graceScheduler) fireAll() int {
	fired := 0
	for id, remove := range s.pending {
		delete(s.pending, id)
		remove()
		fired++
	}
	return fired
}

type worldContext struct {
	world        *simulation.World
	ledger       *appEconomy.LedgerService
	events       *announcementLog
	removals     *graceScheduler
	current      *building.Building
	placeErr     error
	stocksBefore map[int]map[economy.ResourceKind]float64
}

func (wc *worldContext) reset() {
	wc.world = nil
	wc.ledger = nil
	wc.events = nil
	wc.removals = nil
	wc.current = nil
	wc.placeErr = nil
	wc.stocksBefore = nil
}

func (wc *worldContext) requireWorld() error {
	if wc.world == nil {
		return fmt.Errorf("no battlefield has been set up yet")
	}
	return nil
}

func (wc *worldContext) requireBuilding() (*building.Building, error) {
	if wc.current == nil {
		return nil, fmt.Errorf("no building has been placed yet")
	}
	return wc.current, nil
}

func parseBuildingType(key string) (building.BuildingType, error) {
	switch t := building.BuildingType(key); t {
	case building.BuildingTypePowerSpire, building.BuildingTypeDefenseTower, building.BuildingTypeRelayPad:
		return t, nil
	default:
		return "", fmt.Errorf("unknown building type: %s", key)
	}
}

func parseResourceKind(name string) (economy.ResourceKind, error) {
	switch name {
	case "energy":
		return economy.ResourceEnergy, nil
	case "minerals":
		return economy.ResourceMinerals, nil
	default:
		return "", fmt.Errorf("unknown resource kind: %s", name)
	}
}

func approx(got, want float64) bool {
	return math.Abs(got-want) <= 1e-6
}

// Given steps

func (wc *worldContext) aBattlefieldWithTeams(teamA, teamB int) error {
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	wc.ledger = appEconomy.NewLedgerService([]int{teamA, teamB}, nil)
	wc.events = &announcementLog{}
	wc.removals = newGraceScheduler()
	wc.world = simulation.NewWorld(building.NewCatalog(), wc.ledger, spatial.NewGridIndex(0), wc.events, wc.removals, nil, nil, clock)
	return nil
}

func (wc *worldContext) everyTeamStartsWith(energy, minerals float64) error {
	if err := wc.requireWorld(); err != nil {
		return err
	}
	stocks := make(map[int]map[economy.ResourceKind]float64)
	for _, teamID := range wc.ledger.TeamIDs() {
		stocks[teamID] = map[economy.ResourceKind]float64{
			economy.ResourceEnergy:   energy,
			economy.ResourceMinerals: minerals,
		}
	}
	wc.ledger.RestoreStocks(stocks)
	return nil
}

func (wc *worldContext) teamHasOnlyResourceAvailable(teamID int, amount float64, kind string) error {
	if err := wc.requireWorld(); err != nil {
		return err
	}
	resource, err := parseResourceKind(kind)
	if err != nil {
		return err
	}
	wc.ledger.RestoreStocks(map[int]map[economy.ResourceKind]float64{
		teamID: {resource: amount},
	})
	return nil
}

func (wc *worldContext) place(teamID int, typeKey string, x, y, z float64) (*building.Building, error) {
	if err := wc.requireWorld(); err != nil {
		return nil, err
	}
	buildingType, err := parseBuildingType(typeKey)
	if err != nil {
		return nil, err
	}
	position, err := shared.NewGridPosition(x, y, z)
	if err != nil {
		return nil, err
	}
	return wc.world.PlaceBuilding(context.Background(), "", buildingType, teamID, "player-1", position, 0)
}

func (wc *worldContext) teamPlacedAt(teamID int, typeKey string, x, y, z float64) error {
	b, err := wc.place(teamID, typeKey, x, y, z)
	if err != nil {
		return err
	}
	wc.current = b
	return nil
}

func (wc *worldContext) teamPlacedAndCompletedAt(teamID int, typeKey string, x, y, z float64) error {
	if err := wc.teamPlacedAt(teamID, typeKey, x, y, z); err != nil {
		return err
	}
	wc.world.Step(wc.current.Config().ConstructionTime)
	if !wc.current.IsOperational() {
		return fmt.Errorf("expected %s to be operational after %.0f seconds", wc.current.ID(), wc.current.Config().ConstructionTime)
	}
	return nil
}

func (wc *worldContext) theFollowingStructuresAreStanding(table *godog.Table) error {
	if err := wc.requireWorld(); err != nil {
		return err
	}
	if len(table.Rows) < 2 {
		return fmt.Errorf("expected at least one structure row")
	}
	longestBuild := 0.0
	for _, row := range table.Rows[1:] {
		teamID, err := strconv.Atoi(cellValue(table, row, "team"))
		if err != nil {
			return fmt.Errorf("invalid team: %w", err)
		}
		x, err := strconv.ParseFloat(cellValue(table, row, "x"), 64)
		if err != nil {
			return fmt.Errorf("invalid x: %w", err)
		}
		z, err := strconv.ParseFloat(cellValue(table, row, "z"), 64)
		if err != nil {
			return fmt.Errorf("invalid z: %w", err)
		}
		b, err := wc.place(teamID, cellValue(table, row, "type"), x, 0, z)
		if err != nil {
			return err
		}
		wc.current = b
		if buildTime := b.Config().ConstructionTime; buildTime > longestBuild {
			longestBuild = buildTime
		}
	}
	wc.world.Step(longestBuild)
	return nil
}

// cellValue resolves a cell by column name, using the first row as the header.
func cellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, header := range table.Rows[0].Cells {
		if header.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

// When steps

func (wc *worldContext) teamPlacesAt(teamID int, typeKey string, x, y, z float64) error {
	b, err := wc.place(teamID, typeKey, x, y, z)
	wc.placeErr = err
	if b != nil {
		wc.current = b
	}
	return nil
}

func (wc *worldContext) secondsOfSimulationPass(delta float64) error {
	if err := wc.requireWorld(); err != nil {
		return err
	}
	wc.stocksBefore = make(map[int]map[economy.ResourceKind]float64)
	for _, snapshot := range wc.ledger.AllTeams() {
		stocks := make(map[economy.ResourceKind]float64, len(snapshot.Stocks))
		for kind, amount := range snapshot.Stocks {
			stocks[kind] = amount
		}
		wc.stocksBefore[snapshot.TeamID] = stocks
	}
	wc.world.Step(delta)
	return nil
}

func (wc *worldContext) theBuildingTakesDamage(amount float64) error {
	b, err := wc.requireBuilding()
	if err != nil {
		return err
	}
	_, err = wc.world.DamageBuilding(context.Background(), b.ID(), amount)
	return err
}

func (wc *worldContext) teamDemolishesTheBuilding(teamID int) error {
	b, err := wc.requireBuilding()
	if err != nil {
		return err
	}
	if b.TeamID() != teamID {
		return fmt.Errorf("building %s belongs to team %d, not team %d", b.ID(), b.TeamID(), teamID)
	}
	_, err = wc.world.DemolishBuilding(context.Background(), b.ID())
	return err
}

func (wc *worldContext) teamActivatesTheBuilding(teamID int) error {
	return wc.setActive(teamID, true)
}

func (wc *worldContext) teamDeactivatesTheBuilding(teamID int) error {
	return wc.setActive(teamID, false)
}

func (wc *worldContext) setActive(teamID int, active bool) error {
	b, err := wc.requireBuilding()
	if err != nil {
		return err
	}
	if b.TeamID() != teamID {
		return fmt.Errorf("building %s belongs to team %d, not team %d", b.ID(), b.TeamID(), teamID)
	}
	_, err = wc.world.SetBuildingActive(context.Background(), b.ID(), active)
	return err
}

func (wc *worldContext) theRemovalGracePeriodElapses() error {
	if wc.removals == nil {
		return fmt.Errorf("no battlefield has been set up yet")
	}
	if fired := wc.removals.fireAll(); fired == 0 {
		return fmt.Errorf("no removal was pending")
	}
	return nil
}

// Then steps

func (wc *worldContext) thePlacementSucceeds() error {
	if wc.placeErr != nil {
		return fmt.Errorf("expected placement to succeed, got: %v", wc.placeErr)
	}
	if wc.current == nil {
		return fmt.Errorf("placement reported success but produced no building")
	}
	return nil
}

func (wc *worldContext) thePlacementFailsBecauseResourcesAreInsufficient() error {
	var insufficientErr *economy.InsufficientResourcesError
	if !errors.As(wc.placeErr, &insufficientErr) {
		return fmt.Errorf("expected an insufficient resources error, got: %v", wc.placeErr)
	}
	return nil
}

func (wc *worldContext) thePlacementFailsBecauseTheSpotIsBlocked() error {
	var blockedErr *building.PlacementBlockedError
	if !errors.As(wc.placeErr, &blockedErr) {
		return fmt.Errorf("expected a placement blocked error, got: %v", wc.placeErr)
	}
	return nil
}

func (wc *worldContext) theBuildingIs(state string) error {
	b, err := wc.requireBuilding()
	if err != nil {
		return err
	}
	switch state {
	case "under construction":
		if !b.IsUnderConstruction() {
			return fmt.Errorf("expected %s to be under construction, status is %s", b.ID(), b.Status())
		}
	case "active":
		if !b.IsConstructed() || !b.IsActive() {
			return fmt.Errorf("expected %s to be active, status is %s", b.ID(), b.Status())
		}
	case "inactive":
		if !b.IsConstructed() || b.IsActive() || b.IsDestroyed() {
			return fmt.Errorf("expected %s to be inactive, status is %s", b.ID(), b.Status())
		}
	case "destroyed":
		if !b.IsDestroyed() {
			return fmt.Errorf("expected %s to be destroyed, status is %s", b.ID(), b.Status())
		}
	default:
		return fmt.Errorf("unknown building state: %s", state)
	}
	return nil
}

func (wc *worldContext) constructionProgressIsPercent(percent int) error {
	b, err := wc.requireBuilding()
	if err != nil {
		return err
	}
	want := float64(percent) / 100
	if !approx(b.ConstructionProgress(), want) {
		return fmt.Errorf("expected construction progress %.2f, got %.2f", want, b.ConstructionProgress())
	}
	return nil
}

func (wc *worldContext) theBuildingHasHealth(current, max float64) error {
	b, err := wc.requireBuilding()
	if err != nil {
		return err
	}
	if !approx(b.CurrentHealth(), current) {
		return fmt.Errorf("expected %.1f health, got %.1f", current, b.CurrentHealth())
	}
	if !approx(b.MaxHealth(), max) {
		return fmt.Errorf("expected %.1f max health, got %.1f", max, b.MaxHealth())
	}
	return nil
}

func (wc *worldContext) theBuildingNoLongerExists() error {
	b, err := wc.requireBuilding()
	if err != nil {
		return err
	}
	_, err = wc.world.GetBuilding(b.ID())
	var notFoundErr *building.NotFoundError
	if !errors.As(err, &notFoundErr) {
		return fmt.Errorf("expected %s to be gone, lookup returned: %v", b.ID(), err)
	}
	return nil
}

func (wc *worldContext) theSpotIsFreeFor(x, y, z float64, typeKey string) error {
	if err := wc.requireWorld(); err != nil {
		return err
	}
	buildingType, err := parseBuildingType(typeKey)
	if err != nil {
		return err
	}
	position, err := shared.NewGridPosition(x, y, z)
	if err != nil {
		return err
	}
	if !wc.world.CanPlaceAt(buildingType, position) {
		return fmt.Errorf("expected %s to fit at %s", typeKey, position)
	}
	return nil
}

func (wc *worldContext) teamHasResource(teamID int, amount float64, kind string) error {
	if err := wc.requireWorld(); err != nil {
		return err
	}
	resource, err := parseResourceKind(kind)
	if err != nil {
		return err
	}
	snapshot, err := wc.ledger.TeamEconomy(teamID)
	if err != nil {
		return err
	}
	if !approx(snapshot.Stocks[resource], amount) {
		return fmt.Errorf("expected team %d to have %.1f %s, got %.1f", teamID, amount, kind, snapshot.Stocks[resource])
	}
	return nil
}

func (wc *worldContext) teamGainedResource(teamID int, amount float64, kind string) error {
	if wc.stocksBefore == nil {
		return fmt.Errorf("no simulation window was measured")
	}
	resource, err := parseResourceKind(kind)
	if err != nil {
		return err
	}
	before, ok := wc.stocksBefore[teamID]
	if !ok {
		return fmt.Errorf("no baseline stock recorded for team %d", teamID)
	}
	snapshot, err := wc.ledger.TeamEconomy(teamID)
	if err != nil {
		return err
	}
	gained := snapshot.Stocks[resource] - before[resource]
	if !approx(gained, amount) {
		return fmt.Errorf("expected team %d to gain %.1f %s, got %.1f", teamID, amount, kind, gained)
	}
	return nil
}

func (wc *worldContext) teamRatesEnergyPerSecond(teamID int, verb string, rate float64) error {
	if err := wc.requireWorld(); err != nil {
		return err
	}
	snapshot, err := wc.ledger.TeamEconomy(teamID)
	if err != nil {
		return err
	}
	var got float64
	switch verb {
	case "generates":
		got = snapshot.GenerationRates[economy.ResourceEnergy]
	case "consumes":
		got = snapshot.ConsumptionRates[economy.ResourceEnergy]
	case "nets":
		got = snapshot.NetRates[economy.ResourceEnergy]
	default:
		return fmt.Errorf("unknown rate verb: %s", verb)
	}
	if !approx(got, rate) {
		return fmt.Errorf("expected team %d to %s %.1f energy per second, got %.1f", teamID, verb, rate, got)
	}
	return nil
}

func (wc *worldContext) aConstructedAnnouncementWentOut() error {
	if wc.events == nil {
		return fmt.Errorf("no battlefield has been set up yet")
	}
	if wc.events.countKind(building.EventConstructed) == 0 {
		return fmt.Errorf("no constructed announcement went out")
	}
	return nil
}

func (wc *worldContext) aHealthChangeWasAnnounced(newHealth float64) error {
	if wc.events == nil {
		return fmt.Errorf("no battlefield has been set up yet")
	}
	for _, event := range wc.events.events {
		if change, ok := event.(building.HealthChangedEvent); ok && approx(change.NewHealth, newHealth) {
			return nil
		}
	}
	return fmt.Errorf("no health change to %.1f was announced", newHealth)
}

func (wc *worldContext) exactlyOneDestructionWasAnnounced() error {
	if wc.events == nil {
		return fmt.Errorf("no battlefield has been set up yet")
	}
	if count := wc.events.countKind(building.EventDestroyed); count != 1 {
		return fmt.Errorf("expected exactly one destruction announcement, got %d", count)
	}
	return nil
}

func InitializeWorldScenario(ctx *godog.ScenarioContext) {
	wc := &worldContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		wc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a battlefield with teams (\d+) and (\d+)$`, wc.aBattlefieldWithTeams)
	ctx.Step(`^every team starts with (\d+(?:\.\d+)?) energy and (\d+(?:\.\d+)?) minerals$`, wc.everyTeamStartsWith)
	ctx.Step(`^team (\d+) has only (\d+(?:\.\d+)?) (energy|minerals) available$`, wc.teamHasOnlyResourceAvailable)
	ctx.Step(`^team (\d+) placed a ([A-Z_]+) at position \((-?\d+(?:\.\d+)?), (-?\d+(?:\.\d+)?), (-?\d+(?:\.\d+)?)\)$`, wc.teamPlacedAt)
	ctx.Step(`^team (\d+) placed and completed a ([A-Z_]+) at position \((-?\d+(?:\.\d+)?), (-?\d+(?:\.\d+)?), (-?\d+(?:\.\d+)?)\)$`, wc.teamPlacedAndCompletedAt)
	ctx.Step(`^the following structures are standing:$`, wc.theFollowingStructuresAreStanding)

	// When steps
	ctx.Step(`^team (\d+) places a ([A-Z_]+) at position \((-?\d+(?:\.\d+)?), (-?\d+(?:\.\d+)?), (-?\d+(?:\.\d+)?)\)$`, wc.teamPlacesAt)
	ctx.Step(`^(\d+(?:\.\d+)?) seconds of simulation pass$`, wc.secondsOfSimulationPass)
	ctx.Step(`^the building takes (\d+(?:\.\d+)?) damage$`, wc.theBuildingTakesDamage)
	ctx.Step(`^team (\d+) demolishes the building$`, wc.teamDemolishesTheBuilding)
	ctx.Step(`^team (\d+) activates the building$`, wc.teamActivatesTheBuilding)
	ctx.Step(`^team (\d+) deactivates the building$`, wc.teamDeactivatesTheBuilding)
	ctx.Step(`^the removal grace period elapses$`, wc.theRemovalGracePeriodElapses)

	// Then steps
	ctx.Step(`^the placement succeeds$`, wc.thePlacementSucceeds)
	ctx.Step(`^the placement fails because resources are insufficient$`, wc.thePlacementFailsBecauseResourcesAreInsufficient)
	ctx.Step(`^the placement fails because the spot is blocked$`, wc.thePlacementFailsBecauseTheSpotIsBlocked)
	ctx.Step(`^the building is (under construction|active|inactive|destroyed)$`, wc.theBuildingIs)
	ctx.Step(`^construction progress is (\d+) percent$`, wc.constructionProgressIsPercent)
	ctx.Step(`^the building has (\d+(?:\.\d+)?) of (\d+(?:\.\d+)?) health$`, wc.theBuildingHasHealth)
	ctx.Step(`^the building no longer exists$`, wc.theBuildingNoLongerExists)
	ctx.Step(`^the spot at position \((-?\d+(?:\.\d+)?), (-?\d+(?:\.\d+)?), (-?\d+(?:\.\d+)?)\) is free for a ([A-Z_]+)$`, wc.theSpotIsFreeFor)
	ctx.Step(`^team (\d+) has (\d+(?:\.\d+)?) (energy|minerals)$`, wc.teamHasResource)
	ctx.Step(`^team (\d+) gained (\d+(?:\.\d+)?) (energy|minerals)$`, wc.teamGainedResource)
	ctx.Step(`^team (\d+) (generates|consumes|nets) (\d+(?:\.\d+)?) energy per second$`, wc.teamRatesEnergyPerSecond)
	ctx.Step(`^a constructed announcement went out$`, wc.aConstructedAnnouncementWentOut)
	ctx.Step(`^a health change to (\d+(?:\.\d+)?) was announced$`, wc.aHealthChangeWasAnnounced)
	ctx.Step(`^exactly one destruction was announced$`, wc.exactlyOneDestructionWasAnnounced)
}
