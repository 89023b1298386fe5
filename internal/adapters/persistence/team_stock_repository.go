package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alanli-ML/ai-rts-sub008/internal/domain/economy"
)

// GormTeamStockRepository implements team stock persistence using GORM
type GormTeamStockRepository struct {
	db *gorm.DB
}

// Compile-time check: this is the ledger's persistence port
var _ economy.StockRepository = (*GormTeamStockRepository)(nil)

// NewGormTeamStockRepository creates a new GORM-based team stock repository
func NewGormTeamStockRepository(db *gorm.DB) *GormTeamStockRepository {
	return &GormTeamStockRepository{db: db}
}

// SaveStocks upserts one team's balances, one row per resource
func (r *GormTeamStockRepository) SaveStocks(ctx context.Context, teamID int, stocks map[economy.ResourceKind]float64) error {
	for kind, amount := range stocks {
		model := &TeamStockModel{
			TeamID:   teamID,
			Resource: string(kind),
			Amount:   amount,
		}
		err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}, {Name: "resource"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
		}).Create(model).Error
		if err != nil {
			return fmt.Errorf("failed to save %s stock for team %d: %w", kind, teamID, err)
		}
	}
	return nil
}

// LoadAllStocks retrieves every persisted balance grouped by team
func (r *GormTeamStockRepository) LoadAllStocks(ctx context.Context) (map[int]map[economy.ResourceKind]float64, error) {
	var models []TeamStockModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load team stocks: %w", err)
	}

	stocks := make(map[int]map[economy.ResourceKind]float64)
	for _, model := range models {
		teamStocks, ok := stocks[model.TeamID]
		if !ok {
			teamStocks = make(map[economy.ResourceKind]float64)
			stocks[model.TeamID] = teamStocks
		}
		teamStocks[economy.ResourceKind(model.Resource)] = model.Amount
	}
	return stocks, nil
}
