package economy

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alanli-ML/ai-rts-sub008/internal/domain/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/shared"
)

// LedgerService is the team-scoped resource ledger shared by every structure
// in the match. Buildings register as generators or consumers at construction
// completion and unregister at destruction; stock accrues from the live net
// rate each tick. The service owns the locking discipline for the accounts it
// holds, so registrations from different goroutines on the same tick stay
// consistent.
type LedgerService struct {
	mu       sync.RWMutex
	accounts map[int]*economy.TeamAccount
}

// Compile-time interface check
var _ economy.Ledger = (*LedgerService)(nil)

// NewLedgerService seeds one account per team with the configured starting
// stocks.
func NewLedgerService(teamIDs []int, startingStocks map[economy.ResourceKind]float64) *LedgerService {
	accounts := make(map[int]*economy.TeamAccount, len(teamIDs))
	for _, teamID := range teamIDs {
		if teamID <= 0 {
			continue
		}
		accounts[teamID] = economy.NewTeamAccount(teamID, startingStocks)
	}
	return &LedgerService{accounts: accounts}
}

// TeamIDs returns the seeded teams in ascending order.
func (s *LedgerService) TeamIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.accounts))
	for teamID := range s.accounts {
		ids = append(ids, teamID)
	}
	sort.Ints(ids)
	return ids
}

// RegisterGenerator adds a structure to a team's generator roster.
// Duplicate registrations and unknown teams are safe no-ops.
func (s *LedgerService) RegisterGenerator(teamID int, source economy.RateSource) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account, ok := s.accounts[teamID]; ok {
		account.RegisterGenerator(source)
	}
}

// RegisterConsumer adds a structure to a team's consumer roster.
// Duplicate registrations and unknown teams are safe no-ops.
func (s *LedgerService) RegisterConsumer(teamID int, source economy.RateSource) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account, ok := s.accounts[teamID]; ok {
		account.RegisterConsumer(source)
	}
}

// UnregisterGenerator removes a structure from a team's generator roster.
// Unknown sources and teams are safe no-ops.
func (s *LedgerService) UnregisterGenerator(teamID int, source economy.RateSource) {
	if source == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if account, ok := s.accounts[teamID]; ok {
		account.UnregisterGenerator(source.SourceID())
	}
}

// UnregisterConsumer removes a structure from a team's consumer roster.
// Unknown sources and teams are safe no-ops.
func (s *LedgerService) UnregisterConsumer(teamID int, source economy.RateSource) {
	if source == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if account, ok := s.accounts[teamID]; ok {
		account.UnregisterConsumer(source.SourceID())
	}
}

// HasSufficientResources reports whether a team can afford a cost right now.
// Unknown teams can afford nothing.
func (s *LedgerService) HasSufficientResources(teamID int, cost economy.CostMap) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[teamID]
	if !ok {
		return false
	}
	return account.HasSufficient(cost)
}

// ConsumeResources deducts a cost all-or-nothing. Returns false, leaving all
// stocks untouched, when the team is unknown or cannot afford the cost.
func (s *LedgerService) ConsumeResources(teamID int, cost economy.CostMap) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[teamID]
	if !ok {
		return false
	}
	return account.Consume(cost)
}

// Accrue applies one tick of net generation to every team's stocks.
func (s *LedgerService) Accrue(deltaSeconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		account.Accrue(deltaSeconds)
	}
}

// TeamEconomySnapshot is the read model served to queries and the gateway.
type TeamEconomySnapshot struct {
	TeamID           int                              `json:"teamId"`
	Stocks           map[economy.ResourceKind]float64 `json:"stocks"`
	GenerationRates  economy.RateMap                  `json:"generationRates"`
	ConsumptionRates economy.RateMap                  `json:"consumptionRates"`
	NetRates         economy.RateMap                  `json:"netRates"`
	GeneratorCount   int                              `json:"generatorCount"`
	ConsumerCount    int                              `json:"consumerCount"`
}

// TeamEconomy returns the current read model for one team.
func (s *LedgerService) TeamEconomy(teamID int) (TeamEconomySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[teamID]
	if !ok {
		return TeamEconomySnapshot{}, shared.NewUnknownTeamError(teamID)
	}
	return snapshotAccount(account), nil
}

// AllTeams returns the read model for every team, ordered by team ID.
func (s *LedgerService) AllTeams() []TeamEconomySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.accounts))
	for teamID := range s.accounts {
		ids = append(ids, teamID)
	}
	sort.Ints(ids)

	snapshots := make([]TeamEconomySnapshot, 0, len(ids))
	for _, teamID := range ids {
		snapshots = append(snapshots, snapshotAccount(s.accounts[teamID]))
	}
	return snapshots
}

func snapshotAccount(account *economy.TeamAccount) TeamEconomySnapshot {
	return TeamEconomySnapshot{
		TeamID:           account.TeamID(),
		Stocks:           account.Stocks(),
		GenerationRates:  account.GenerationRates(),
		ConsumptionRates: account.ConsumptionRates(),
		NetRates:         account.NetRates(),
		GeneratorCount:   account.GeneratorCount(),
		ConsumerCount:    account.ConsumerCount(),
	}
}

// RestoreStocks overwrites stocks for known teams from persisted values.
// Unknown teams in the snapshot are ignored.
func (s *LedgerService) RestoreStocks(stocks map[int]map[economy.ResourceKind]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for teamID, teamStocks := range stocks {
		account, ok := s.accounts[teamID]
		if !ok {
			continue
		}
		for kind, amount := range teamStocks {
			account.SetStock(kind, amount)
		}
	}
}

// PersistStocks writes every team's current stocks through the repository.
func (s *LedgerService) PersistStocks(ctx context.Context, repo economy.StockRepository) error {
	if repo == nil {
		return nil
	}

	for _, snapshot := range s.AllTeams() {
		if err := repo.SaveStocks(ctx, snapshot.TeamID, snapshot.Stocks); err != nil {
			return fmt.Errorf("failed to persist stocks for team %d: %w", snapshot.TeamID, err)
		}
	}
	return nil
}
